package models

import (
	"errors"
	"fmt"
)

// LifecycleState describes where an assignment sits in its rollout
type LifecycleState string

const (
	LifecyclePrepared  LifecycleState = "Prepared"
	LifecyclePlanned   LifecycleState = "Planned"
	LifecycleExecuted  LifecycleState = "Executed"
	LifecyclePhasedOut LifecycleState = "Phased Out"
)

// LifecycleStates lists every state in rollout order
var LifecycleStates = []LifecycleState{
	LifecyclePrepared,
	LifecyclePlanned,
	LifecycleExecuted,
	LifecyclePhasedOut,
}

// Valid reports whether s is one of the four known states
func (s LifecycleState) Valid() bool {
	for _, known := range LifecycleStates {
		if s == known {
			return true
		}
	}
	return false
}

// ParseLifecycleState validates a raw state name
func ParseLifecycleState(raw string) (LifecycleState, error) {
	s := LifecycleState(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown lifecycle state %q", raw)
	}
	return s, nil
}

// Assignment links a planogram size variant to a store with a lifecycle state.
// Store and planogram names are denormalized so listings need no joins.
type Assignment struct {
	ID                  int             `json:"id" db:"assignment_id"`
	Store               string          `json:"store" db:"store_name"`
	StoreID             string          `json:"storeId" db:"store_id"`
	StoreCategory       StoreCategory   `json:"storeCategory" db:"store_category"`
	PlanogramID         string          `json:"planogramId" db:"planogram_id"`
	PlanogramName       string          `json:"planogramName" db:"planogram_name"`
	SizeVariant         SizeVariant     `json:"sizeVariant" db:"size_variant"`
	LifecycleState      LifecycleState  `json:"lifecycleState" db:"lifecycle_state"`
	LastUpdated         Date            `json:"lastUpdated" db:"last_updated"`
	AssignedBy          string          `json:"assignedBy" db:"assigned_by"`
	AssignedDate        Date            `json:"assignedDate" db:"assigned_date"`
	StartDate           Date            `json:"startDate" db:"start_date"`
	EndDate             Date            `json:"endDate" db:"end_date"`
	ScheduledTransition *Date           `json:"scheduledTransition" db:"scheduled_transition"`
	ScheduledState      *LifecycleState `json:"scheduledState,omitempty" db:"scheduled_state"`
}

// HasScheduledTransition reports whether a future state change is pending
func (a *Assignment) HasScheduledTransition() bool {
	return a.ScheduledTransition != nil
}

var (
	ErrDateRange        = errors.New("startDate must not be after endDate")
	ErrScheduleInPast   = errors.New("scheduledTransition must be after lastUpdated")
	ErrScheduleState    = errors.New("scheduledState requires scheduledTransition")
	ErrUnknownLifecycle = errors.New("unknown lifecycle state")
)

// Validate checks the record-level invariants of an assignment
func (a *Assignment) Validate() error {
	if !a.LifecycleState.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownLifecycle, a.LifecycleState)
	}
	if !a.StartDate.IsZero() && !a.EndDate.IsZero() && a.StartDate.After(a.EndDate) {
		return ErrDateRange
	}
	if a.ScheduledTransition != nil && !a.ScheduledTransition.After(a.LastUpdated) {
		return ErrScheduleInPast
	}
	if a.ScheduledState != nil {
		if a.ScheduledTransition == nil {
			return ErrScheduleState
		}
		if !a.ScheduledState.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownLifecycle, *a.ScheduledState)
		}
	}
	return nil
}

// Dataset bundles reference data and assignments for seeding a store
type Dataset struct {
	Stores      []Store           `json:"stores"`
	Planograms  []Planogram       `json:"planograms"`
	Products    []Product         `json:"products"`
	Positions   []ProductPosition `json:"positions"`
	Assignments []Assignment      `json:"assignments"`
}
