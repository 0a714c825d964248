package store

import (
	"context"
	"testing"

	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/lifecycle"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dataset() models.Dataset {
	return models.Dataset{
		Stores: []models.Store{
			{ID: "S-001", Name: "Downtown Store", Category: models.StoreCategoryMedium},
		},
		Planograms: []models.Planogram{
			{ID: "P-12345", Name: "Summer Drinks Display", SizeVariants: models.SizeVariantArray{models.SizeS, models.SizeM}},
		},
		Positions: []models.ProductPosition{
			{ID: "POS-1", PlanogramID: "P-12345", ProductID: "PR-1", SizeVariant: models.SizeM},
			{ID: "POS-2", PlanogramID: "P-99999", ProductID: "PR-2", SizeVariant: models.SizeM},
		},
		Assignments: []models.Assignment{
			{ID: 3, StoreID: "S-001", PlanogramID: "P-12345", LifecycleState: models.LifecycleExecuted},
			{ID: 1, StoreID: "S-001", PlanogramID: "P-12345", LifecycleState: models.LifecyclePrepared},
		},
	}
}

func TestMemory_GetAllOrderedByID(t *testing.T) {
	m := NewMemory(dataset())
	all, err := m.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 1, all[0].ID)
	assert.Equal(t, 3, all[1].ID)
}

func TestMemory_GetAllReturnsCopies(t *testing.T) {
	m := NewMemory(dataset())
	ctx := context.Background()
	all, _ := m.GetAll(ctx)
	all[0].LifecycleState = models.LifecyclePhasedOut

	a, err := m.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.LifecyclePrepared, a.LifecycleState)
}

func TestMemory_CreateAssignsNextID(t *testing.T) {
	m := NewMemory(dataset())
	ctx := context.Background()
	a, err := m.Create(ctx, models.Assignment{StoreID: "S-001", LifecycleState: models.LifecyclePlanned})
	require.NoError(t, err)
	assert.Equal(t, 4, a.ID)

	fetched, err := m.Get(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, models.LifecyclePlanned, fetched.LifecycleState)
}

func TestMemory_ApplyChangesAtomic(t *testing.T) {
	m := NewMemory(dataset())
	ctx := context.Background()
	today := models.MustParseDate("2025-08-01")

	err := m.ApplyChanges(ctx, []lifecycle.Change{
		{AssignmentID: 1, From: models.LifecyclePrepared, LifecycleState: models.LifecyclePlanned, LastUpdated: today},
		{AssignmentID: 42, From: models.LifecyclePrepared, LifecycleState: models.LifecyclePlanned, LastUpdated: today},
	})
	assert.ErrorIs(t, err, ErrNotFound)
	a, _ := m.Get(ctx, 1)
	assert.Equal(t, models.LifecyclePrepared, a.LifecycleState)

	require.NoError(t, m.ApplyChanges(ctx, []lifecycle.Change{
		{AssignmentID: 1, From: models.LifecyclePrepared, LifecycleState: models.LifecyclePlanned, LastUpdated: today},
	}))
	a, _ = m.Get(ctx, 1)
	assert.Equal(t, models.LifecyclePlanned, a.LifecycleState)
	assert.Equal(t, today, a.LastUpdated)
}

func TestMemory_ApplyChangesRejectsStaleState(t *testing.T) {
	m := NewMemory(dataset())
	ctx := context.Background()
	today := models.MustParseDate("2025-08-01")

	// 3 is Executed; a change planned while it was still Planned must not land
	err := m.ApplyChanges(ctx, []lifecycle.Change{
		{AssignmentID: 1, From: models.LifecyclePrepared, LifecycleState: models.LifecyclePlanned, LastUpdated: today},
		{AssignmentID: 3, From: models.LifecyclePlanned, LifecycleState: models.LifecyclePrepared, LastUpdated: today},
	})
	assert.ErrorIs(t, err, ErrConflict)

	a, _ := m.Get(ctx, 1)
	assert.Equal(t, models.LifecyclePrepared, a.LifecycleState)
	a, _ = m.Get(ctx, 3)
	assert.Equal(t, models.LifecycleExecuted, a.LifecycleState)
}

func TestMemory_PlanogramReadsAreCopies(t *testing.T) {
	m := NewMemory(dataset())
	ctx := context.Background()

	p, err := m.GetPlanogram(ctx, "P-12345")
	require.NoError(t, err)
	p.SizeVariants[0] = models.SizeXL

	list, err := m.ListPlanograms(ctx)
	require.NoError(t, err)
	list[0].SizeVariants[1] = models.SizeXL

	snap := m.Snapshot()
	snap.Planograms[0].SizeVariants[0] = models.SizeL

	fresh, err := m.GetPlanogram(ctx, "P-12345")
	require.NoError(t, err)
	assert.Equal(t, models.SizeVariantArray{models.SizeS, models.SizeM}, fresh.SizeVariants)
}

func TestMemory_ReferenceData(t *testing.T) {
	m := NewMemory(dataset())
	ctx := context.Background()

	s, err := m.GetStore(ctx, "S-001")
	require.NoError(t, err)
	assert.Equal(t, "Downtown Store", s.Name)
	_, err = m.GetStore(ctx, "S-999")
	assert.ErrorIs(t, err, ErrNotFound)

	p, err := m.GetPlanogram(ctx, "P-12345")
	require.NoError(t, err)
	assert.True(t, p.HasSizeVariant(models.SizeM))
	_, err = m.GetPlanogram(ctx, "P-00000")
	assert.ErrorIs(t, err, ErrNotFound)

	positions, err := m.ListPositions(ctx, "P-12345")
	require.NoError(t, err)
	assert.Len(t, positions, 1)
	positions, _ = m.ListPositions(ctx, "")
	assert.Len(t, positions, 2)
}

func TestMemory_Snapshot(t *testing.T) {
	m := NewMemory(dataset())
	snap := m.Snapshot()
	assert.Len(t, snap.Assignments, 2)
	assert.Len(t, snap.Stores, 1)
}
