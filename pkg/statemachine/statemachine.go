package statemachine

import (
	"context"
	"fmt"
)

// State is a named state in the machine.
type State interface {
	Name() string
}

// Event is a named trigger for a state transition.
type Event interface {
	Name() string
}

// Guard evaluates whether a transition is allowed for the given payload.
type Guard func(ctx context.Context, from State, event Event, data any) bool

// Action runs side effects during a transition. Returning an error aborts
// the transition.
type Action func(ctx context.Context, from, to State, event Event, data any) error

// Transition is a state change triggered by an event, with optional guards
// and actions.
type Transition struct {
	From    State
	To      State
	Event   Event
	Guards  []Guard
	Actions []Action
}

// StringState is a string-backed State for simple machines.
type StringState string

func (s StringState) Name() string { return string(s) }

// StringEvent is a string-backed Event for simple machines.
type StringEvent string

func (e StringEvent) Name() string { return string(e) }

// Machine is an immutable transition table. It carries no current state;
// callers pass the state their workflow instance is in and store the state
// Fire returns. Transition lookup is [fromState][event] for O(1) dispatch.
type Machine struct {
	transitions map[string]map[string][]Transition
}

func (m *Machine) add(from, to State, event Event, guards []Guard, actions []Action) error {
	if from == nil || to == nil || event == nil {
		return ErrInvalidTransition
	}
	if m.transitions == nil {
		m.transitions = make(map[string]map[string][]Transition)
	}
	byEvent, ok := m.transitions[from.Name()]
	if !ok {
		byEvent = make(map[string][]Transition)
		m.transitions[from.Name()] = byEvent
	}
	// Multiple transitions per from/event support guard-based branching.
	byEvent[event.Name()] = append(byEvent[event.Name()], Transition{
		From:    from,
		To:      to,
		Event:   event,
		Guards:  guards,
		Actions: actions,
	})
	return nil
}

// Fire applies event to the given current state and returns the next state.
// The first registered transition whose guards all pass wins; its actions run
// before the new state is returned and any action error aborts the change.
func (m *Machine) Fire(ctx context.Context, from State, event Event, data any) (State, error) {
	if from == nil {
		return nil, ErrInvalidState
	}
	if event == nil {
		return nil, ErrInvalidEvent
	}

	candidates := m.transitions[from.Name()][event.Name()]
	if len(candidates) == 0 {
		return nil, NewErrNoTransitionAvailable(from.Name(), event.Name())
	}

	var chosen *Transition
	for i := range candidates {
		if guardsPass(ctx, candidates[i].Guards, from, event, data) {
			chosen = &candidates[i]
			break
		}
	}
	if chosen == nil {
		return nil, NewErrTransitionRejected(from.Name(), event.Name())
	}

	for _, action := range chosen.Actions {
		if action == nil {
			continue
		}
		if err := action(ctx, from, chosen.To, event, data); err != nil {
			return nil, fmt.Errorf("action failed: %w", err)
		}
	}
	return chosen.To, nil
}

// CanFire reports whether Fire would succeed, without running actions.
func (m *Machine) CanFire(ctx context.Context, from State, event Event, data any) bool {
	if from == nil || event == nil {
		return false
	}
	for _, t := range m.transitions[from.Name()][event.Name()] {
		if guardsPass(ctx, t.Guards, from, event, data) {
			return true
		}
	}
	return false
}

// States returns the names of every state that appears as a transition
// source.
func (m *Machine) States() []string {
	out := make([]string, 0, len(m.transitions))
	for name := range m.transitions {
		out = append(out, name)
	}
	return out
}

func guardsPass(ctx context.Context, guards []Guard, from State, event Event, data any) bool {
	for _, guard := range guards {
		if guard != nil && !guard(ctx, from, event, data) {
			return false
		}
	}
	return true
}
