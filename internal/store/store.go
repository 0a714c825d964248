// Package store defines the read/write contract for assignment data and an
// in-memory implementation of it.
package store

import (
	"context"
	"errors"

	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/lifecycle"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/models"
)

var (
	// ErrNotFound is returned when a record id does not exist
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a record no longer holds the state a
	// change was planned against
	ErrConflict = errors.New("assignment changed since it was read")
)

// AssignmentStore holds the working set of assignment records
type AssignmentStore interface {
	// GetAll returns the full collection ordered by id
	GetAll(ctx context.Context) ([]models.Assignment, error)
	Get(ctx context.Context, id int) (*models.Assignment, error)
	// Create assigns the next id and returns the stored record
	Create(ctx context.Context, a models.Assignment) (*models.Assignment, error)
	// ApplyChanges persists a batch atomically. Every change requires the
	// record to still be in change.From, otherwise nothing is written and
	// ErrConflict is returned.
	ApplyChanges(ctx context.Context, changes []lifecycle.Change) error
}

// ReferenceStore exposes the read-only reference data
type ReferenceStore interface {
	ListStores(ctx context.Context) ([]models.Store, error)
	GetStore(ctx context.Context, id string) (*models.Store, error)
	ListPlanograms(ctx context.Context) ([]models.Planogram, error)
	GetPlanogram(ctx context.Context, id string) (*models.Planogram, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListPositions(ctx context.Context, planogramID string) ([]models.ProductPosition, error)
}

// Repository is everything the API needs from a backend
type Repository interface {
	AssignmentStore
	ReferenceStore
	Health(ctx context.Context) error
	Close()
}
