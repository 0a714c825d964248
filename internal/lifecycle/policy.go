// Package lifecycle plans bulk and scheduled lifecycle transitions for
// planogram assignments.
package lifecycle

import (
	"fmt"
	"strings"

	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/models"
)

// Policy decides whether an assignment may move from one state to another
type Policy interface {
	Name() string
	Allowed(from, to models.LifecycleState) bool
}

// Permissive allows any known state to move to any known state
type Permissive struct{}

func (Permissive) Name() string { return "permissive" }

func (Permissive) Allowed(from, to models.LifecycleState) bool {
	return to.Valid()
}

// Strict enforces the rollout graph. Staying in the same state is always allowed.
type Strict struct{}

var strictGraph = map[models.LifecycleState][]models.LifecycleState{
	models.LifecyclePrepared:  {models.LifecyclePlanned, models.LifecyclePhasedOut},
	models.LifecyclePlanned:   {models.LifecyclePrepared, models.LifecycleExecuted, models.LifecyclePhasedOut},
	models.LifecycleExecuted:  {models.LifecyclePhasedOut},
	models.LifecyclePhasedOut: {models.LifecyclePrepared},
}

func (Strict) Name() string { return "strict" }

func (Strict) Allowed(from, to models.LifecycleState) bool {
	if !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	for _, next := range strictGraph[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Targets lists the states reachable from from under p, in rollout order
func Targets(p Policy, from models.LifecycleState) []models.LifecycleState {
	out := make([]models.LifecycleState, 0, len(models.LifecycleStates))
	for _, s := range models.LifecycleStates {
		if s != from && p.Allowed(from, s) {
			out = append(out, s)
		}
	}
	return out
}

// PolicyByName maps a TRANSITION_POLICY value to a Policy
func PolicyByName(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "permissive":
		return Permissive{}, nil
	case "strict":
		return Strict{}, nil
	default:
		return nil, fmt.Errorf("unknown transition policy %q", name)
	}
}
