// Package statemachine implements a small finite state machine used to drive
// persisted workflows such as the onboarding journey.
//
// A Machine holds only the transition table; the current state lives with the
// caller (typically a stored document). Fire evaluates the registered
// transitions for a given current state and event, runs guards and actions,
// and returns the resulting state. This keeps one immutable Machine shared by
// all requests while each workflow instance advances independently.
//
//	var (
//	    stateDraft    = statemachine.StringState("draft")
//	    stateActive   = statemachine.StringState("active")
//	    eventActivate = statemachine.StringEvent("activate")
//	)
//
//	m := statemachine.MustNew(
//	    statemachine.WithTransition(stateDraft, stateActive, eventActivate,
//	        statemachine.WithGuard(hasRequiredFields),
//	    ),
//	)
//
//	next, err := m.Fire(ctx, stateDraft, eventActivate, payload)
//
// Guards veto a transition without side effects; actions run before the new
// state is returned and abort the transition on error. When several
// transitions share a from/event pair the first one whose guards all pass
// wins, so registration order sets priority.
package statemachine
