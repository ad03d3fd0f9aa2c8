// Package validator provides rule-based field validation used by onboarding
// step payloads and API request bodies.
//
// A Rule pairs a check closure with the ValidationError reported when the
// check fails. Apply runs a set of rules and returns a ValidationErrors
// collection, which callers unwrap with errors.As or the ExtractValidationErrors
// helper to render per-field messages.
//
//	err := validator.Apply(
//	    validator.Required("email", req.Email),
//	    validator.ValidEmail("email", req.Email),
//	)
package validator
