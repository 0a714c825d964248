package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/logging"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/models"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/store"
)

// ErrInvalidAssignment wraps every rejection of a create request
var ErrInvalidAssignment = errors.New("invalid assignment")

// CreateAssignmentRequest is the payload for a new store assignment
type CreateAssignmentRequest struct {
	StoreID             string                 `json:"storeId" binding:"required"`
	PlanogramID         string                 `json:"planogramId" binding:"required"`
	SizeVariant         models.SizeVariant     `json:"sizeVariant" binding:"required"`
	LifecycleState      models.LifecycleState  `json:"lifecycleState"`
	AssignedBy          string                 `json:"assignedBy"`
	StartDate           *models.Date           `json:"startDate"`
	EndDate             *models.Date           `json:"endDate"`
	ScheduledTransition *models.Date           `json:"scheduledTransition"`
	ScheduledState      *models.LifecycleState `json:"scheduledState"`
}

// Assignments creates assignments after checking them against reference data
type Assignments struct {
	repo  store.Repository
	today func() models.Date
}

// NewAssignments builds the create service over repo
func NewAssignments(repo store.Repository) *Assignments {
	return &Assignments{repo: repo, today: models.Today}
}

// WithClock replaces the date source
func (s *Assignments) WithClock(today func() models.Date) *Assignments {
	s.today = today
	return s
}

// Create validates r, fills in the denormalized names and stores the record.
// Missing lifecycle defaults to Prepared and missing dates to today.
func (s *Assignments) Create(ctx context.Context, r CreateAssignmentRequest) (*models.Assignment, error) {
	st, err := s.repo.GetStore(ctx, r.StoreID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown store %q", ErrInvalidAssignment, r.StoreID)
		}
		return nil, err
	}
	p, err := s.repo.GetPlanogram(ctx, r.PlanogramID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown planogram %q", ErrInvalidAssignment, r.PlanogramID)
		}
		return nil, err
	}
	if !p.HasSizeVariant(r.SizeVariant) {
		return nil, fmt.Errorf("%w: planogram %s has no size variant %q", ErrInvalidAssignment, p.ID, r.SizeVariant)
	}

	today := s.today()
	a := models.Assignment{
		Store:               st.Name,
		StoreID:             st.ID,
		StoreCategory:       st.Category,
		PlanogramID:         p.ID,
		PlanogramName:       p.Name,
		SizeVariant:         r.SizeVariant,
		LifecycleState:      r.LifecycleState,
		LastUpdated:         today,
		AssignedBy:          r.AssignedBy,
		AssignedDate:        today,
		StartDate:           today,
		ScheduledTransition: r.ScheduledTransition,
		ScheduledState:      r.ScheduledState,
	}
	if a.LifecycleState == "" {
		a.LifecycleState = models.LifecyclePrepared
	}
	if r.StartDate != nil {
		a.StartDate = *r.StartDate
	}
	if r.EndDate != nil {
		a.EndDate = *r.EndDate
	}
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAssignment, err)
	}

	created, err := s.repo.Create(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("create assignment: %w", err)
	}
	logging.LogKV("info", "assignment created", map[string]interface{}{
		"assignment_id": created.ID,
		"store_id":      created.StoreID,
		"planogram_id":  created.PlanogramID,
		"size_variant":  string(created.SizeVariant),
		"assigned_by":   created.AssignedBy,
	})
	return created, nil
}
