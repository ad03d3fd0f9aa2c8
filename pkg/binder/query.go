package binder

import "net/http"

// Query returns a binding function that maps URL query parameters onto
// struct fields tagged with `query:"name"`. Missing parameters leave the
// field at its zero value, so handlers can distinguish absent filters.
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		return bindToStruct(v, "query", r.URL.Query(), ErrFailedToParseQuery)
	}
}
