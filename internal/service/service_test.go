package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/fixtures"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/lifecycle"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/logging"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/models"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/notify"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type recordingNotifier struct {
	events []notify.TransitionEvent
	err    error
}

func (r *recordingNotifier) TransitionsApplied(ctx context.Context, ev notify.TransitionEvent) error {
	r.events = append(r.events, ev)
	return r.err
}

func fixedDay(s string) func() models.Date {
	d := models.MustParseDate(s)
	return func() models.Date { return d }
}

func setup(t *testing.T, p lifecycle.Policy) (*store.Memory, *Transitions, *recordingNotifier) {
	t.Helper()
	logging.SetOutput(&bytes.Buffer{})
	mem := store.NewMemory(fixtures.Generate())
	n := &recordingNotifier{}
	svc := NewTransitions(mem, p, n).WithClock(fixedDay("2025-08-15"))
	return mem, svc, n
}

func get(t *testing.T, mem *store.Memory, id int) *models.Assignment {
	t.Helper()
	a, err := mem.Get(context.Background(), id)
	require.NoError(t, err)
	return a
}

func TestTransitions_ApplyImmediate(t *testing.T) {
	mem, svc, n := setup(t, nil)
	ctx := context.Background()

	res, err := svc.Apply(ctx, lifecycle.BulkRequest{
		IDs:         []int{1, 2},
		TargetState: models.LifecycleExecuted,
		PerformedBy: "Jane Smith",
	}, "api")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Applied)
	assert.Equal(t, 0, res.Scheduled)
	assert.NotEmpty(t, res.BatchID)

	for _, id := range []int{1, 2} {
		a := get(t, mem, id)
		assert.Equal(t, models.LifecycleExecuted, a.LifecycleState)
		assert.Equal(t, "2025-08-15", a.LastUpdated.String())
	}
	require.Len(t, n.events, 1)
	assert.Equal(t, res.BatchID, n.events[0].BatchID)
	assert.Equal(t, "Jane Smith", n.events[0].PerformedBy)
}

func TestTransitions_DryRunWritesNothing(t *testing.T) {
	mem, svc, n := setup(t, nil)
	before, _ := mem.GetAll(context.Background())

	res, err := svc.Apply(context.Background(), lifecycle.BulkRequest{
		IDs:         []int{1},
		TargetState: models.LifecyclePhasedOut,
		DryRun:      true,
	}, "api")
	require.NoError(t, err)
	assert.True(t, res.DryRun)
	assert.Equal(t, 1, res.Applied)

	after, _ := mem.GetAll(context.Background())
	assert.Equal(t, before, after)
	assert.Empty(t, n.events)
}

func TestTransitions_RejectsWholeBatch(t *testing.T) {
	mem, svc, n := setup(t, lifecycle.Strict{})
	ctx := context.Background()
	before, _ := mem.GetAll(ctx)

	// id 3 is Executed, which cannot go back to Prepared under strict rules
	_, err := svc.Apply(ctx, lifecycle.BulkRequest{IDs: []int{2, 3}, TargetState: models.LifecyclePrepared}, "api")
	assert.ErrorIs(t, err, lifecycle.ErrIllegalTransition)

	_, err = svc.Apply(ctx, lifecycle.BulkRequest{IDs: []int{1, 999}, TargetState: models.LifecyclePlanned}, "api")
	assert.ErrorIs(t, err, lifecycle.ErrUnknownAssignment)

	after, _ := mem.GetAll(ctx)
	assert.Equal(t, before, after)
	assert.Empty(t, n.events)
}

func TestTransitions_ScheduleThenSweep(t *testing.T) {
	mem, svc, n := setup(t, nil)
	ctx := context.Background()
	when := models.MustParseDate("2025-09-01")

	res, err := svc.Apply(ctx, lifecycle.BulkRequest{
		IDs:           []int{5},
		TargetState:   models.LifecycleExecuted,
		ScheduledDate: &when,
	}, "api")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Scheduled)

	a := get(t, mem, 5)
	assert.Equal(t, models.LifecyclePrepared, a.LifecycleState)
	require.NotNil(t, a.ScheduledState)
	assert.Equal(t, models.LifecycleExecuted, *a.ScheduledState)
	assert.Equal(t, "2025-09-01", a.ScheduledTransition.String())

	// not yet due
	res, err = svc.SweepDue(ctx, "test")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Applied)

	svc.WithClock(fixedDay("2025-09-01"))
	res, err = svc.SweepDue(ctx, "test")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Applied)

	a = get(t, mem, 5)
	assert.Equal(t, models.LifecycleExecuted, a.LifecycleState)
	assert.Nil(t, a.ScheduledTransition)
	assert.Nil(t, a.ScheduledState)
	assert.Len(t, n.events, 2)
}

func TestTransitions_NotifierFailureKeepsBatch(t *testing.T) {
	mem, svc, n := setup(t, nil)
	n.err = errors.New("sns down")

	_, err := svc.Apply(context.Background(), lifecycle.BulkRequest{IDs: []int{1}, TargetState: models.LifecyclePlanned}, "api")
	require.NoError(t, err)
	assert.Equal(t, models.LifecyclePlanned, get(t, mem, 1).LifecycleState)
}

// interleavingStore runs onRead once, right after the first GetAll, so a
// competing write lands between another caller's read and its write
type interleavingStore struct {
	*store.Memory
	onRead func()
}

func (s *interleavingStore) GetAll(ctx context.Context) ([]models.Assignment, error) {
	all, err := s.Memory.GetAll(ctx)
	if f := s.onRead; f != nil {
		s.onRead = nil
		f()
	}
	return all, err
}

func TestTransitions_StaleBatchIsRejected(t *testing.T) {
	logging.SetOutput(&bytes.Buffer{})
	ctx := context.Background()
	racing := &interleavingStore{Memory: store.NewMemory(fixtures.Generate())}
	svc := NewTransitions(racing, lifecycle.Strict{}, nil).WithClock(fixedDay("2025-08-15"))

	// 2 starts Planned
	var competing error
	racing.onRead = func() {
		_, competing = svc.Apply(ctx, lifecycle.BulkRequest{IDs: []int{2}, TargetState: models.LifecycleExecuted}, "sweeper")
	}

	_, err := svc.Apply(ctx, lifecycle.BulkRequest{IDs: []int{2}, TargetState: models.LifecyclePrepared}, "api")
	require.NoError(t, competing)
	assert.ErrorIs(t, err, store.ErrConflict)
	// strict forbids Executed -> Prepared, so the later batch must not land
	assert.Equal(t, models.LifecycleExecuted, get(t, racing.Memory, 2).LifecycleState)
}

func TestSweeper_RunsOnStart(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	mem, svc, _ := setup(t, nil)
	ctx := context.Background()
	when := models.MustParseDate("2025-08-20")
	_, err := svc.Apply(ctx, lifecycle.BulkRequest{IDs: []int{1}, TargetState: models.LifecyclePhasedOut, ScheduledDate: &when}, "api")
	require.NoError(t, err)

	svc.WithClock(fixedDay("2025-08-21"))
	sw := NewSweeper(svc, 60)
	sw.Start()
	sw.Stop()

	assert.Equal(t, models.LifecyclePhasedOut, get(t, mem, 1).LifecycleState)
}

// blockingStore holds every GetAll until release is closed
type blockingStore struct {
	*store.Memory
	release chan struct{}
}

func (s *blockingStore) GetAll(ctx context.Context) ([]models.Assignment, error) {
	<-s.release
	return s.Memory.GetAll(ctx)
}

func TestSweeper_StartDoesNotWaitForFirstSweep(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	logging.SetOutput(&bytes.Buffer{})
	slow := &blockingStore{Memory: store.NewMemory(fixtures.Generate()), release: make(chan struct{})}
	sw := NewSweeper(NewTransitions(slow, nil, nil).WithClock(fixedDay("2025-08-15")), 60)

	started := make(chan struct{})
	go func() {
		sw.Start()
		close(started)
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("Start blocked on the first sweep")
	}
	close(slow.release)
	sw.Stop()
}

func TestAssignments_Create(t *testing.T) {
	logging.SetOutput(&bytes.Buffer{})
	mem := store.NewMemory(fixtures.Generate())
	svc := NewAssignments(mem).WithClock(fixedDay("2025-08-15"))

	created, err := svc.Create(context.Background(), CreateAssignmentRequest{
		StoreID:     "S-001",
		PlanogramID: "P-12345",
		SizeVariant: models.SizeM,
		AssignedBy:  "Emily Taylor",
	})
	require.NoError(t, err)
	assert.Equal(t, fixtures.AssignmentCount+1, created.ID)
	assert.Equal(t, "Downtown Store", created.Store)
	assert.Equal(t, models.StoreCategorySmall, created.StoreCategory)
	assert.Equal(t, "Summer Drinks Display", created.PlanogramName)
	assert.Equal(t, models.LifecyclePrepared, created.LifecycleState)
	assert.Equal(t, "2025-08-15", created.StartDate.String())
	assert.True(t, created.EndDate.IsZero())

	stored := get(t, mem, created.ID)
	assert.Equal(t, *created, *stored)
}

func TestAssignments_CreateRejects(t *testing.T) {
	logging.SetOutput(&bytes.Buffer{})
	mem := store.NewMemory(fixtures.Generate())
	svc := NewAssignments(mem).WithClock(fixedDay("2025-08-15"))
	ctx := context.Background()
	start := models.MustParseDate("2025-10-01")
	end := models.MustParseDate("2025-09-01")
	past := models.MustParseDate("2025-08-01")

	cases := map[string]CreateAssignmentRequest{
		"unknown store":     {StoreID: "S-999", PlanogramID: "P-12345", SizeVariant: models.SizeM},
		"unknown planogram": {StoreID: "S-001", PlanogramID: "P-1", SizeVariant: models.SizeM},
		"undeclared size":   {StoreID: "S-001", PlanogramID: "P-12345", SizeVariant: models.SizeXL},
		"date range":        {StoreID: "S-001", PlanogramID: "P-12345", SizeVariant: models.SizeM, StartDate: &start, EndDate: &end},
		"schedule in past":  {StoreID: "S-001", PlanogramID: "P-12345", SizeVariant: models.SizeM, ScheduledTransition: &past},
		"unknown state":     {StoreID: "S-001", PlanogramID: "P-12345", SizeVariant: models.SizeM, LifecycleState: "Archived"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(ctx, req)
			assert.ErrorIs(t, err, ErrInvalidAssignment)
		})
	}

	all, _ := mem.GetAll(ctx)
	assert.Len(t, all, fixtures.AssignmentCount)
}
