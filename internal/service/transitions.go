// Package service runs the write paths of the planogram service on top of a
// store: bulk lifecycle transitions, scheduled sweeps and assignment creation.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/lifecycle"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/logging"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/models"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/notify"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/store"
	"github.com/google/uuid"
)

// TransitionResult reports what a bulk transition or sweep did
type TransitionResult struct {
	BatchID   string             `json:"batchId"`
	DryRun    bool               `json:"dryRun"`
	Applied   int                `json:"applied"`
	Scheduled int                `json:"scheduled"`
	Changes   []lifecycle.Change `json:"changes"`
}

// Transitions plans and persists lifecycle changes
type Transitions struct {
	store    store.AssignmentStore
	policy   lifecycle.Policy
	notifier notify.Notifier
	today    func() models.Date
}

// NewTransitions wires a transition service. A nil policy means permissive and
// a nil notifier drops events.
func NewTransitions(s store.AssignmentStore, p lifecycle.Policy, n notify.Notifier) *Transitions {
	if p == nil {
		p = lifecycle.Permissive{}
	}
	if n == nil {
		n = notify.Noop{}
	}
	return &Transitions{store: s, policy: p, notifier: n, today: models.Today}
}

// WithClock replaces the date source
func (t *Transitions) WithClock(today func() models.Date) *Transitions {
	t.today = today
	return t
}

func (t *Transitions) Policy() lifecycle.Policy { return t.policy }

// Apply runs a bulk request. Nothing is written when the request is a dry run
// or when any selected assignment rejects the move.
func (t *Transitions) Apply(ctx context.Context, r lifecycle.BulkRequest, source string) (*TransitionResult, error) {
	all, err := t.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load assignments: %w", err)
	}
	changes, err := lifecycle.Plan(all, r, t.policy, t.today())
	if err != nil {
		return nil, err
	}
	res := newResult(changes, r.DryRun)

	fields := map[string]interface{}{
		"batch_id":     res.BatchID,
		"source":       source,
		"target_state": string(r.TargetState),
		"ids":          r.IDs,
		"performed_by": r.PerformedBy,
		"policy":       t.policy.Name(),
		"applied":      res.Applied,
		"scheduled":    res.Scheduled,
	}
	if r.ScheduledDate != nil {
		fields["scheduled_date"] = r.ScheduledDate.String()
	}
	if r.DryRun {
		logging.LogKV("info", "transition planned (dry run)", fields)
		return res, nil
	}

	if err := t.store.ApplyChanges(ctx, changes); err != nil {
		return nil, fmt.Errorf("apply transitions: %w", err)
	}
	logging.LogKV("info", "transition applied", fields)
	t.publish(ctx, res, source, r.PerformedBy)
	return res, nil
}

// SweepDue applies every scheduled transition whose date has arrived
func (t *Transitions) SweepDue(ctx context.Context, source string) (*TransitionResult, error) {
	all, err := t.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load assignments: %w", err)
	}
	today := t.today()
	changes := lifecycle.DueChanges(all, today)
	res := newResult(changes, false)
	if len(changes) == 0 {
		return res, nil
	}
	if err := t.store.ApplyChanges(ctx, changes); err != nil {
		return nil, fmt.Errorf("apply due transitions: %w", err)
	}
	logging.LogKV("info", "scheduled transitions applied", map[string]interface{}{
		"batch_id": res.BatchID,
		"source":   source,
		"today":    today.String(),
		"applied":  res.Applied,
	})
	t.publish(ctx, res, source, "")
	return res, nil
}

func (t *Transitions) publish(ctx context.Context, res *TransitionResult, source, by string) {
	ev := notify.TransitionEvent{
		BatchID:     res.BatchID,
		Source:      source,
		PerformedBy: by,
		OccurredAt:  time.Now().UTC(),
		Changes:     res.Changes,
	}
	// delivery failures never undo a persisted batch
	if err := t.notifier.TransitionsApplied(ctx, ev); err != nil {
		logging.LogKV("warn", "transition notification failed", map[string]interface{}{
			"batch_id": res.BatchID,
			"error":    err.Error(),
		})
	}
}

func newResult(changes []lifecycle.Change, dryRun bool) *TransitionResult {
	res := &TransitionResult{
		BatchID: uuid.NewString(),
		DryRun:  dryRun,
		Changes: changes,
	}
	for _, c := range changes {
		if c.Immediate() {
			res.Applied++
		} else {
			res.Scheduled++
		}
	}
	return res
}
