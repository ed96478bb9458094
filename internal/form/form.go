// Package form parses the line-oriented "key: value" messages users send
// while inside a create or update flow.
package form

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Fields holds parsed values by lower-cased key
type Fields struct {
	values map[string]string
}

// Parse splits text into lines and each line on its first ':'.
// Keys are trimmed and lower-cased; lines without ':' are ignored.
// A repeated key keeps its last value.
func Parse(text string) Fields {
	f := Fields{values: make(map[string]string)}
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		f.values[key] = strings.TrimSpace(value)
	}
	return f
}

// Get returns the value for key and whether it was present
func (f Fields) Get(key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}

// Missing lists required keys that are absent or blank
func (f Fields) Missing(required ...string) []string {
	var missing []string
	for _, key := range required {
		if v, ok := f.values[key]; !ok || v == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

// ValidationError rejects a single field value
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// NormalizeSlug lower-cases the value and replaces spaces with hyphens.
// The result may only contain latin letters, digits and hyphens.
func NormalizeSlug(value string) (string, error) {
	slug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), " ", "-")
	if slug == "" {
		return "", &ValidationError{Field: "slug", Value: value, Reason: "must not be empty"}
	}
	for _, r := range slug {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			continue
		}
		return "", &ValidationError{Field: "slug", Value: value, Reason: "only latin letters, digits and hyphens are allowed"}
	}
	return slug, nil
}

// ParsePrice parses a non-negative finite decimal number
func ParsePrice(value string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, &ValidationError{Field: "price", Value: value, Reason: "must be a number, e.g. 99.99"}
	}
	if price < 0 {
		return 0, &ValidationError{Field: "price", Value: value, Reason: "must not be negative"}
	}
	return price, nil
}

var truthy = map[string]struct{}{
	"true": {},
	"yes":  {},
	"1":    {},
	"on":   {},
	"иә":   {},
}

// ParseAvailable matches value case-insensitively against the truthy tokens.
// Anything else is false.
func ParseAvailable(value string) bool {
	_, ok := truthy[strings.ToLower(strings.TrimSpace(value))]
	return ok
}

// SplitList splits a comma-separated list and trims every element
func SplitList(value string) []string {
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
