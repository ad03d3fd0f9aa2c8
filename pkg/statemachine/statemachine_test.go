package statemachine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/lcflow/accesskit/pkg/statemachine"
)

var (
	statePending  = statemachine.StringState("pending")
	stateActive   = statemachine.StringState("active")
	stateArchived = statemachine.StringState("archived")

	eventActivate = statemachine.StringEvent("activate")
	eventArchive  = statemachine.StringEvent("archive")
)

func TestFire(t *testing.T) {
	m := statemachine.MustNew(
		statemachine.WithTransition(statePending, stateActive, eventActivate),
		statemachine.WithTransition(stateActive, stateArchived, eventArchive),
	)

	next, err := m.Fire(context.Background(), statePending, eventActivate, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Name() != stateActive.Name() {
		t.Errorf("expected state %q, got %q", stateActive.Name(), next.Name())
	}

	// The machine holds no state, so firing from the old state again
	// still resolves the same transition.
	next, err = m.Fire(context.Background(), statePending, eventActivate, nil)
	if err != nil {
		t.Fatalf("unexpected error on replay: %v", err)
	}
	if next.Name() != stateActive.Name() {
		t.Errorf("expected state %q, got %q", stateActive.Name(), next.Name())
	}
}

func TestFireNoTransition(t *testing.T) {
	m := statemachine.MustNew(
		statemachine.WithTransition(statePending, stateActive, eventActivate),
	)

	_, err := m.Fire(context.Background(), stateActive, eventActivate, nil)
	if !statemachine.IsNoTransitionAvailableError(err) {
		t.Fatalf("expected no-transition error, got %v", err)
	}
}

func TestGuards(t *testing.T) {
	type payload struct{ ready bool }

	guard := func(ctx context.Context, from statemachine.State, event statemachine.Event, data any) bool {
		p, ok := data.(payload)
		return ok && p.ready
	}

	m := statemachine.MustNew(
		statemachine.WithTransition(statePending, stateActive, eventActivate,
			statemachine.WithGuard(guard),
		),
	)

	if m.CanFire(context.Background(), statePending, eventActivate, payload{ready: false}) {
		t.Error("CanFire should be false when guard rejects")
	}

	_, err := m.Fire(context.Background(), statePending, eventActivate, payload{ready: false})
	if !statemachine.IsTransitionRejectedError(err) {
		t.Fatalf("expected rejection error, got %v", err)
	}

	next, err := m.Fire(context.Background(), statePending, eventActivate, payload{ready: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Name() != stateActive.Name() {
		t.Errorf("expected state %q, got %q", stateActive.Name(), next.Name())
	}
}

func TestGuardPriority(t *testing.T) {
	// Two transitions share pending/activate; the first passing guard wins.
	m := statemachine.MustNew(
		statemachine.WithTransition(statePending, stateArchived, eventActivate,
			statemachine.WithGuard(func(ctx context.Context, from statemachine.State, event statemachine.Event, data any) bool {
				return data == "archive-me"
			}),
		),
		statemachine.WithTransition(statePending, stateActive, eventActivate),
	)

	next, err := m.Fire(context.Background(), statePending, eventActivate, "archive-me")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Name() != stateArchived.Name() {
		t.Errorf("expected first matching transition to win, got %q", next.Name())
	}

	next, err = m.Fire(context.Background(), statePending, eventActivate, "other")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Name() != stateActive.Name() {
		t.Errorf("expected fallback transition, got %q", next.Name())
	}
}

func TestActions(t *testing.T) {
	var ran []string

	record := func(name string) statemachine.Action {
		return func(ctx context.Context, from, to statemachine.State, event statemachine.Event, data any) error {
			ran = append(ran, name)
			return nil
		}
	}

	m := statemachine.MustNew(
		statemachine.WithTransition(statePending, stateActive, eventActivate,
			statemachine.WithActions(record("first"), record("second")),
		),
	)

	if _, err := m.Fire(context.Background(), statePending, eventActivate, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ran) != 2 || ran[0] != "first" || ran[1] != "second" {
		t.Errorf("actions ran out of order: %v", ran)
	}
}

func TestActionFailureAbortsTransition(t *testing.T) {
	boom := errors.New("boom")

	m := statemachine.MustNew(
		statemachine.WithTransition(statePending, stateActive, eventActivate,
			statemachine.WithAction(func(ctx context.Context, from, to statemachine.State, event statemachine.Event, data any) error {
				return boom
			}),
		),
	)

	_, err := m.Fire(context.Background(), statePending, eventActivate, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected action error, got %v", err)
	}
}

func TestWithTransitionsValidation(t *testing.T) {
	_, err := statemachine.New(
		statemachine.WithTransitions([]statemachine.TransitionDef{
			{From: statePending, To: nil, Event: eventActivate},
		}),
	)
	if !errors.Is(err, statemachine.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition error, got %v", err)
	}
}

func TestNilInputs(t *testing.T) {
	m := statemachine.MustNew(
		statemachine.WithTransition(statePending, stateActive, eventActivate),
	)

	if _, err := m.Fire(context.Background(), nil, eventActivate, nil); !errors.Is(err, statemachine.ErrInvalidState) {
		t.Errorf("expected invalid state error, got %v", err)
	}
	if _, err := m.Fire(context.Background(), statePending, nil, nil); !errors.Is(err, statemachine.ErrInvalidEvent) {
		t.Errorf("expected invalid event error, got %v", err)
	}
	if m.CanFire(context.Background(), nil, eventActivate, nil) {
		t.Error("CanFire with nil state should be false")
	}
}
