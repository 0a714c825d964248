package lifecycle

import (
	"errors"
	"fmt"

	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/models"
)

var (
	ErrInvalidRequest    = errors.New("invalid transition request")
	ErrUnknownAssignment = errors.New("unknown assignment")
	ErrIllegalTransition = errors.New("illegal lifecycle transition")
)

// BulkRequest moves a selection of assignments to TargetState, either now or
// on ScheduledDate
type BulkRequest struct {
	IDs           []int                 `json:"ids" binding:"required"`
	TargetState   models.LifecycleState `json:"targetState" binding:"required"`
	ScheduledDate *models.Date          `json:"scheduledDate"`
	PerformedBy   string                `json:"performedBy"`
	// DryRun plans the batch without persisting it
	DryRun bool `json:"dryRun"`
}

// Change is the new lifecycle fields for one assignment
type Change struct {
	AssignmentID        int                    `json:"assignmentId"`
	From                models.LifecycleState  `json:"from"`
	LifecycleState      models.LifecycleState  `json:"lifecycleState"`
	LastUpdated         models.Date            `json:"lastUpdated"`
	ScheduledTransition *models.Date           `json:"scheduledTransition"`
	ScheduledState      *models.LifecycleState `json:"scheduledState,omitempty"`
}

// Immediate reports whether the change moves the lifecycle state now
func (c Change) Immediate() bool {
	return c.ScheduledTransition == nil
}

// Apply copies the change onto a
func (c Change) Apply(a *models.Assignment) {
	a.LifecycleState = c.LifecycleState
	a.LastUpdated = c.LastUpdated
	a.ScheduledTransition = c.ScheduledTransition
	a.ScheduledState = c.ScheduledState
}

// Validate checks the request shape without looking at any assignment
func (r BulkRequest) Validate() error {
	if len(r.IDs) == 0 {
		return fmt.Errorf("%w: no assignments selected", ErrInvalidRequest)
	}
	if !r.TargetState.Valid() {
		return fmt.Errorf("%w: unknown target state %q", ErrInvalidRequest, r.TargetState)
	}
	seen := make(map[int]struct{}, len(r.IDs))
	for _, id := range r.IDs {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: assignment %d selected twice", ErrInvalidRequest, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// Plan computes the changes for r against the current assignments. The batch
// is all-or-nothing: any unknown id or illegal move rejects every change.
func Plan(all []models.Assignment, r BulkRequest, p Policy, today models.Date) ([]Change, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	byID := make(map[int]*models.Assignment, len(all))
	for i := range all {
		byID[all[i].ID] = &all[i]
	}

	changes := make([]Change, 0, len(r.IDs))
	for _, id := range r.IDs {
		a, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownAssignment, id)
		}
		if !p.Allowed(a.LifecycleState, r.TargetState) {
			return nil, fmt.Errorf("%w: assignment %d from %q to %q under %s policy",
				ErrIllegalTransition, id, a.LifecycleState, r.TargetState, p.Name())
		}
		changes = append(changes, newChange(a, r.TargetState, r.ScheduledDate, today))
	}
	return changes, nil
}

func newChange(a *models.Assignment, target models.LifecycleState, when *models.Date, today models.Date) Change {
	c := Change{
		AssignmentID: a.ID,
		From:         a.LifecycleState,
		LastUpdated:  today,
	}
	if when != nil && when.After(today) {
		date := *when
		state := target
		c.LifecycleState = a.LifecycleState
		c.ScheduledTransition = &date
		c.ScheduledState = &state
		return c
	}
	c.LifecycleState = target
	return c
}

// DueChanges returns the immediate changes for every scheduled transition
// whose date is on or before today. Assignments scheduled without a target
// state are left alone.
func DueChanges(all []models.Assignment, today models.Date) []Change {
	due := make([]Change, 0)
	for i := range all {
		a := &all[i]
		if a.ScheduledTransition == nil || a.ScheduledState == nil {
			continue
		}
		if a.ScheduledTransition.After(today) {
			continue
		}
		due = append(due, Change{
			AssignmentID:   a.ID,
			From:           a.LifecycleState,
			LifecycleState: *a.ScheduledState,
			LastUpdated:    today,
		})
	}
	return due
}
