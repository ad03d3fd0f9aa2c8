package binder

import (
	"net/http"
	"reflect"
)

// Path returns a binding function that resolves `path:"name"` struct tags
// through a router specific extractor. With chi the extractor is
// chi.URLParam, keeping this package free of router imports:
//
//	bindPath := binder.Path(chi.URLParam)
func Path(extractor func(r *http.Request, fieldName string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Ptr || rv.IsNil() {
			return ErrFailedToParsePath
		}

		rv = rv.Elem()
		if rv.Kind() != reflect.Struct {
			return ErrFailedToParsePath
		}

		rt := rv.Type()
		for i := 0; i < rt.NumField(); i++ {
			field := rt.Field(i)
			if !field.IsExported() {
				continue
			}

			name, skip := parseFieldTag(field, "path")
			if skip {
				continue
			}

			value := extractor(r, name)
			if value == "" {
				continue
			}

			if err := setFieldValue(rv.Field(i), []string{value}, name, ErrFailedToParsePath); err != nil {
				return err
			}
		}

		return nil
	}
}
