package binder

import "errors"

var (
	// ErrMissingContentType is returned when a request that carries a body
	// does not declare its media type.
	ErrMissingContentType = errors.New("missing content type")

	// ErrUnsupportedMediaType is returned when the declared media type does
	// not match what the binder accepts.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrFailedToParseJSON wraps JSON syntax and shape errors.
	ErrFailedToParseJSON = errors.New("failed to parse json body")

	// ErrFailedToParseQuery wraps query string conversion errors.
	ErrFailedToParseQuery = errors.New("failed to parse query parameters")

	// ErrFailedToParsePath wraps path parameter conversion errors.
	ErrFailedToParsePath = errors.New("failed to parse path parameters")
)
