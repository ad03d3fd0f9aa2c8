package onboarding

import (
	"context"

	"github.com/lcflow/accesskit/pkg/statemachine"
)

// The journey machine has one state per step plus a terminal state, and a
// single advance event. Guards carry the payload validation, so an invalid
// submission can never move a journey forward.
const completedState = statemachine.StringState("completed")

var advance = statemachine.StringEvent("advance")

func stateForStep(n int) statemachine.State {
	return statemachine.StringState(stepKey(n))
}

// submission is the Fire payload: the step being completed and its data.
type submission struct {
	Definition StepDefinition
	Data       map[string]any
}

func payloadValid(_ context.Context, _ statemachine.State, _ statemachine.Event, data any) bool {
	sub, ok := data.(submission)
	return ok && validateStep(sub.Definition, sub.Data).IsEmpty()
}

func newJourneyMachine() *statemachine.Machine {
	steps := Steps()
	defs := make([]statemachine.TransitionDef, 0, len(steps))
	for i, def := range steps {
		to := statemachine.State(completedState)
		if i < len(steps)-1 {
			to = stateForStep(steps[i+1].Step)
		}
		defs = append(defs, statemachine.TransitionDef{
			From:   stateForStep(def.Step),
			To:     to,
			Event:  advance,
			Guards: []statemachine.Guard{payloadValid},
		})
	}
	return statemachine.MustNew(statemachine.WithTransitions(defs))
}
