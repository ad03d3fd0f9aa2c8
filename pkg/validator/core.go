package validator

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError is a single failed check on a named field.
type ValidationError struct {
	Field   string
	Message string
}

// ValidationErrors collects every failed check from one Apply call.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(ve))
	for _, err := range ve {
		parts = append(parts, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (ve *ValidationErrors) Add(field, message string) {
	*ve = append(*ve, ValidationError{Field: field, Message: message})
}

func (ve ValidationErrors) Has(field string) bool {
	for _, err := range ve {
		if err.Field == field {
			return true
		}
	}
	return false
}

// Get returns all messages recorded for the field.
func (ve ValidationErrors) Get(field string) []string {
	var messages []string
	for _, err := range ve {
		if err.Field == field {
			messages = append(messages, err.Message)
		}
	}
	return messages
}

// Fields returns the distinct field names in first-seen order.
func (ve ValidationErrors) Fields() []string {
	var fields []string
	seen := make(map[string]bool)
	for _, err := range ve {
		if !seen[err.Field] {
			fields = append(fields, err.Field)
			seen[err.Field] = true
		}
	}
	return fields
}

// FieldMap folds the collection into field → messages, the shape API
// responses serialize.
func (ve ValidationErrors) FieldMap() map[string][]string {
	if len(ve) == 0 {
		return nil
	}
	out := make(map[string][]string, len(ve))
	for _, err := range ve {
		out[err.Field] = append(out[err.Field], err.Message)
	}
	return out
}

func (ve ValidationErrors) IsEmpty() bool {
	return len(ve) == 0
}

// Rule pairs a check with the error reported on failure.
type Rule struct {
	Check func() bool
	Error ValidationError
}

// Apply executes the rules and returns the collected failures, or nil when
// every check passes.
func Apply(rules ...Rule) error {
	var verrs ValidationErrors
	for _, rule := range rules {
		if !rule.Check() {
			verrs = append(verrs, rule.Error)
		}
	}
	if verrs.IsEmpty() {
		return nil
	}
	return verrs
}

// ExtractValidationErrors unwraps ValidationErrors from an error chain.
func ExtractValidationErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return verrs
	}
	return nil
}

// IsValidationError reports whether the error chain carries ValidationErrors.
func IsValidationError(err error) bool {
	if err == nil {
		return false
	}
	var verrs ValidationErrors
	return errors.As(err, &verrs)
}
