package binder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

// maxJSONBodySize caps request bodies at 1MB to prevent memory exhaustion.
const maxJSONBodySize = 1 << 20

// JSON returns a binding function that decodes a JSON request body into v.
// Requests without a body are skipped, so the binder can sit in a chain
// that also serves bodyless methods. Unknown fields and trailing data are
// rejected.
func JSON() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if r.Body == nil || r.ContentLength == 0 {
			return nil
		}

		contentType := r.Header.Get("Content-Type")
		if contentType == "" {
			return ErrMissingContentType
		}

		mediaType, _, err := mime.ParseMediaType(contentType)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrUnsupportedMediaType, contentType)
		}
		if mediaType != "application/json" && !strings.HasSuffix(mediaType, "+json") {
			return fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mediaType)
		}

		reader := http.MaxBytesReader(nil, r.Body, maxJSONBodySize)
		defer reader.Close()

		decoder := json.NewDecoder(reader)
		decoder.DisallowUnknownFields()

		if err := decoder.Decode(v); err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				return fmt.Errorf("%w: body exceeds %d bytes", ErrFailedToParseJSON, maxBytesErr.Limit)
			}
			return fmt.Errorf("%w: %w", ErrFailedToParseJSON, err)
		}

		// A valid request carries exactly one JSON document.
		if decoder.More() {
			return fmt.Errorf("%w: unexpected data after json document", ErrFailedToParseJSON)
		}
		if _, err := reader.Read(make([]byte, 1)); err != io.EOF {
			return fmt.Errorf("%w: unexpected data after json document", ErrFailedToParseJSON)
		}

		return nil
	}
}
