package onboarding

import "errors"

var (
	// ErrInvalidJourney rejects a start request missing its user or
	// organization.
	ErrInvalidJourney = errors.New("invalid journey request")

	// ErrJourneyNotFound means no incomplete journey exists for the pair.
	// Completed journeys are deliberately invisible to step operations.
	ErrJourneyNotFound = errors.New("onboarding journey not found")

	// ErrJourneyExists is the storage-level duplicate signal for the
	// (user, organization) unique constraint. StartJourney absorbs it by
	// returning the journey the concurrent start created.
	ErrJourneyExists = errors.New("onboarding journey already exists")

	// ErrInvalidStepNumber rejects a step that is out of range or not the
	// journey's current step. Steps complete strictly in order.
	ErrInvalidStepNumber = errors.New("invalid step number")

	// ErrStepValidationFailed wraps the field-level validation errors of a
	// rejected step payload.
	ErrStepValidationFailed = errors.New("step validation failed")
)
