// Package validation collects field-level input errors.
package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"sort"
	"strings"
	"time"
)

// DateLayout is the only accepted calendar date format.
const DateLayout = "2006-01-02"

// Errors maps a field name to what is wrong with it.
type Errors map[string]string

func (e Errors) Add(field, message string) {
	if _, ok := e[field]; !ok {
		e[field] = message
	}
}

// Err returns nil when nothing was added.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// As reports whether err carries field errors.
func As(err error) (Errors, bool) {
	var ve Errors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// FromDecode turns a JSON type mismatch on a named field into field errors.
// Syntax errors and unknown shapes return false.
func FromDecode(err error) (Errors, bool) {
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) || typeErr.Field == "" {
		return nil, false
	}

	msg := "has the wrong type"
	if typeErr.Type != nil {
		switch typeErr.Type.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			msg = "must be an integer"
		case reflect.Float32, reflect.Float64:
			msg = "must be a number"
		case reflect.String:
			msg = "must be a string"
		}
	}
	return Errors{typeErr.Field: msg}, true
}

// ParseDate normalizes a YYYY-MM-DD date.
func ParseDate(s string) (string, bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", false
	}
	return t.Format(DateLayout), true
}
