package domain

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// APIError is a non-2xx answer from the catalog backend
type APIError struct {
	StatusCode int
	// Detail is the "error"/"detail" message of a JSON error body
	Detail string
	// Fields holds per-field validation messages from a JSON error body
	Fields map[string]any
	// Body is the trimmed response when it was not JSON. It is meant for logs only.
	Body string
}

func (e *APIError) Error() string {
	msg := e.Message()
	if msg == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, msg)
}

// Is maps the status code onto the package sentinels
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrBadRequest:
		return e.StatusCode == http.StatusBadRequest
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	}
	return false
}

// HasField reports whether the backend rejected the given field
func (e *APIError) HasField(name string) bool {
	_, ok := e.Fields[name]
	return ok
}

// Message renders Detail and field errors in a stable order.
// Body is never included.
func (e *APIError) Message() string {
	parts := make([]string, 0, len(e.Fields)+1)
	if e.Detail != "" {
		parts = append(parts, e.Detail)
	}
	parts = append(parts, e.FieldErrors()...)
	return strings.Join(parts, "; ")
}

// FieldErrors returns "field: message" lines sorted by field name
func (e *APIError) FieldErrors() []string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, fmt.Sprintf("%s: %v", k, flatten(e.Fields[k])))
	}
	return out
}

func flatten(v any) string {
	list, ok := v.([]any)
	if !ok {
		return fmt.Sprint(v)
	}
	out := make([]string, 0, len(list))
	for _, x := range list {
		out = append(out, fmt.Sprint(x))
	}
	return strings.Join(out, ", ")
}
