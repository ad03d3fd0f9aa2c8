package binder

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// bindToStruct populates the struct behind v from a map of named values.
// tagName selects which struct tag carries the source name ("query",
// "path"), and bindErr is the sentinel wrapped into conversion failures.
func bindToStruct(v any, tagName string, values map[string][]string, bindErr error) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("%w: target must be a non-nil pointer", bindErr)
	}

	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("%w: target must be a pointer to struct", bindErr)
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		name, skip := parseFieldTag(field, tagName)
		if skip {
			continue
		}

		fieldValues, ok := values[name]
		if !ok || len(fieldValues) == 0 {
			continue
		}

		if err := setFieldValue(rv.Field(i), fieldValues, name, bindErr); err != nil {
			return err
		}
	}

	return nil
}

// parseFieldTag resolves the source name for a struct field. Fields
// without a tag bind under their lowercased name; a "-" tag skips the
// field entirely.
func parseFieldTag(field reflect.StructField, tagName string) (string, bool) {
	tag, ok := field.Tag.Lookup(tagName)
	if !ok {
		return strings.ToLower(field.Name), false
	}

	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return "", true
	}
	if name == "" {
		return strings.ToLower(field.Name), false
	}

	return name, false
}

func setFieldValue(field reflect.Value, values []string, fieldName string, bindErr error) error {
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}
		field = field.Elem()
	}

	if field.Kind() == reflect.Slice {
		return setSliceValue(field, values, fieldName, bindErr)
	}

	raw := values[0]

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Bool:
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%w: field %q: invalid boolean %q", bindErr, fieldName, raw)
		}
		field.SetBool(parsed)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		parsed, err := strconv.ParseInt(raw, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("%w: field %q: invalid integer %q", bindErr, fieldName, raw)
		}
		field.SetInt(parsed)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		parsed, err := strconv.ParseUint(raw, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("%w: field %q: invalid unsigned integer %q", bindErr, fieldName, raw)
		}
		field.SetUint(parsed)
	case reflect.Float32, reflect.Float64:
		parsed, err := strconv.ParseFloat(raw, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("%w: field %q: invalid number %q", bindErr, fieldName, raw)
		}
		field.SetFloat(parsed)
	default:
		return fmt.Errorf("%w: field %q: unsupported type %s", bindErr, fieldName, field.Kind())
	}

	return nil
}

// setSliceValue fills a slice field from repeated values, splitting any
// comma separated entries along the way.
func setSliceValue(field reflect.Value, values []string, fieldName string, bindErr error) error {
	var items []string
	for _, value := range values {
		for _, item := range strings.Split(value, ",") {
			item = strings.TrimSpace(item)
			if item != "" {
				items = append(items, item)
			}
		}
	}

	slice := reflect.MakeSlice(field.Type(), len(items), len(items))
	for i, item := range items {
		if err := setFieldValue(slice.Index(i), []string{item}, fieldName, bindErr); err != nil {
			return err
		}
	}
	field.Set(slice)

	return nil
}
