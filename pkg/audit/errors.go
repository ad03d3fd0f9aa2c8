package audit

import "errors"

var (
	// ErrEventValidation indicates a malformed event.
	ErrEventValidation = errors.New("audit: event validation failed")

	// ErrStorageFailure indicates the backend rejected the write.
	ErrStorageFailure = errors.New("audit: storage failure")
)
