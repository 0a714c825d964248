package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/lifecycle"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/models"
)

// Memory is a Repository over an in-process dataset
type Memory struct {
	mu          sync.RWMutex
	stores      []models.Store
	planograms  []models.Planogram
	products    []models.Product
	positions   []models.ProductPosition
	assignments []models.Assignment
	nextID      int
}

// NewMemory copies ds into a new store. Assignments are kept in id order.
func NewMemory(ds models.Dataset) *Memory {
	m := &Memory{
		stores:      append([]models.Store(nil), ds.Stores...),
		planograms:  append([]models.Planogram(nil), ds.Planograms...),
		products:    append([]models.Product(nil), ds.Products...),
		positions:   append([]models.ProductPosition(nil), ds.Positions...),
		assignments: append([]models.Assignment(nil), ds.Assignments...),
	}
	sort.SliceStable(m.assignments, func(i, j int) bool {
		return m.assignments[i].ID < m.assignments[j].ID
	})
	for _, a := range m.assignments {
		if a.ID >= m.nextID {
			m.nextID = a.ID + 1
		}
	}
	if m.nextID == 0 {
		m.nextID = 1
	}
	return m
}

// Snapshot returns a copy of the current dataset
func (m *Memory) Snapshot() models.Dataset {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return models.Dataset{
		Stores:      append([]models.Store(nil), m.stores...),
		Planograms:  clonePlanograms(m.planograms),
		Products:    append([]models.Product(nil), m.products...),
		Positions:   append([]models.ProductPosition(nil), m.positions...),
		Assignments: cloneAssignments(m.assignments),
	}
}

func (m *Memory) GetAll(ctx context.Context) ([]models.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneAssignments(m.assignments), nil
}

func (m *Memory) Get(ctx context.Context, id int) (*models.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := m.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("assignment %d: %w", id, ErrNotFound)
	}
	a := cloneAssignment(m.assignments[i])
	return &a, nil
}

func (m *Memory) Create(ctx context.Context, a models.Assignment) (*models.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = m.nextID
	m.nextID++
	m.assignments = append(m.assignments, cloneAssignment(a))
	return &a, nil
}

func (m *Memory) ApplyChanges(ctx context.Context, changes []lifecycle.Change) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := make([]int, len(changes))
	for n, c := range changes {
		i := m.indexOf(c.AssignmentID)
		if i < 0 {
			return fmt.Errorf("assignment %d: %w", c.AssignmentID, ErrNotFound)
		}
		if cur := m.assignments[i].LifecycleState; cur != c.From {
			return fmt.Errorf("assignment %d is %q, planned from %q: %w", c.AssignmentID, cur, c.From, ErrConflict)
		}
		idx[n] = i
	}
	for n, c := range changes {
		a := &m.assignments[idx[n]]
		c.Apply(a)
		*a = cloneAssignment(*a)
	}
	return nil
}

func (m *Memory) ListStores(ctx context.Context) ([]models.Store, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Store{}, m.stores...), nil
}

func (m *Memory) GetStore(ctx context.Context, id string) (*models.Store, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.stores {
		if m.stores[i].ID == id {
			s := m.stores[i]
			return &s, nil
		}
	}
	return nil, fmt.Errorf("store %s: %w", id, ErrNotFound)
}

func (m *Memory) ListPlanograms(ctx context.Context) ([]models.Planogram, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return clonePlanograms(m.planograms), nil
}

func (m *Memory) GetPlanogram(ctx context.Context, id string) (*models.Planogram, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.planograms {
		if m.planograms[i].ID == id {
			p := clonePlanogram(m.planograms[i])
			return &p, nil
		}
	}
	return nil, fmt.Errorf("planogram %s: %w", id, ErrNotFound)
}

func (m *Memory) ListProducts(ctx context.Context) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Product{}, m.products...), nil
}

// ListPositions returns positions for planogramID, or all positions when empty
func (m *Memory) ListPositions(ctx context.Context, planogramID string) ([]models.ProductPosition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.ProductPosition, 0)
	for _, p := range m.positions {
		if planogramID == "" || p.PlanogramID == planogramID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *Memory) Health(ctx context.Context) error { return nil }

func (m *Memory) Close() {}

func (m *Memory) indexOf(id int) int {
	i := sort.Search(len(m.assignments), func(i int) bool { return m.assignments[i].ID >= id })
	if i < len(m.assignments) && m.assignments[i].ID == id {
		return i
	}
	return -1
}

func cloneAssignments(in []models.Assignment) []models.Assignment {
	out := make([]models.Assignment, len(in))
	for i := range in {
		out[i] = cloneAssignment(in[i])
	}
	return out
}

// cloneAssignment deep-copies the pointer fields so callers cannot reach
// into the store through them
func cloneAssignment(a models.Assignment) models.Assignment {
	if a.ScheduledTransition != nil {
		d := *a.ScheduledTransition
		a.ScheduledTransition = &d
	}
	if a.ScheduledState != nil {
		s := *a.ScheduledState
		a.ScheduledState = &s
	}
	return a
}

func clonePlanograms(in []models.Planogram) []models.Planogram {
	out := make([]models.Planogram, len(in))
	for i := range in {
		out[i] = clonePlanogram(in[i])
	}
	return out
}

func clonePlanogram(p models.Planogram) models.Planogram {
	if p.SizeVariants != nil {
		p.SizeVariants = append(models.SizeVariantArray(nil), p.SizeVariants...)
	}
	if p.ProductIDs != nil {
		p.ProductIDs = append([]string(nil), p.ProductIDs...)
	}
	return p
}
