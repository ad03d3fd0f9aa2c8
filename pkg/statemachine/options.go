package statemachine

import "fmt"

// Option configures a machine during construction.
type Option func(*Machine) error

// TransitionOption attaches guards and actions to a single transition.
type TransitionOption func(*transitionConfig)

// TransitionDef declares a transition for WithTransitions.
type TransitionDef struct {
	From    State
	To      State
	Event   Event
	Guards  []Guard
	Actions []Action
}

type transitionConfig struct {
	guards  []Guard
	actions []Action
}

// New builds a machine from the options.
func New(opts ...Option) (*Machine, error) {
	m := &Machine{}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// MustNew builds a machine and panics on a malformed definition. Transition
// tables are static, so a failure here is a programming error caught at
// startup.
func MustNew(opts ...Option) *Machine {
	m, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create state machine: %v", err))
	}
	return m
}

// WithTransition registers a single transition.
func WithTransition(from, to State, event Event, opts ...TransitionOption) Option {
	return func(m *Machine) error {
		cfg := &transitionConfig{}
		for _, opt := range opts {
			opt(cfg)
		}
		return m.add(from, to, event, cfg.guards, cfg.actions)
	}
}

// WithTransitions registers several transitions at once.
func WithTransitions(transitions []TransitionDef) Option {
	return func(m *Machine) error {
		for i, t := range transitions {
			if err := m.add(t.From, t.To, t.Event, t.Guards, t.Actions); err != nil {
				return fmt.Errorf("transition[%d]: %w", i, err)
			}
		}
		return nil
	}
}

// WithGuard attaches a guard to a transition.
func WithGuard(guard Guard) TransitionOption {
	return func(cfg *transitionConfig) {
		if guard != nil {
			cfg.guards = append(cfg.guards, guard)
		}
	}
}

// WithGuards attaches several guards to a transition.
func WithGuards(guards ...Guard) TransitionOption {
	return func(cfg *transitionConfig) {
		for _, guard := range guards {
			if guard != nil {
				cfg.guards = append(cfg.guards, guard)
			}
		}
	}
}

// WithAction attaches an action to a transition.
func WithAction(action Action) TransitionOption {
	return func(cfg *transitionConfig) {
		if action != nil {
			cfg.actions = append(cfg.actions, action)
		}
	}
}

// WithActions attaches several actions to a transition.
func WithActions(actions ...Action) TransitionOption {
	return func(cfg *transitionConfig) {
		for _, action := range actions {
			if action != nil {
				cfg.actions = append(cfg.actions, action)
			}
		}
	}
}
