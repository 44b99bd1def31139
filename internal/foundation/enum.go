// Package foundation holds small generic helpers shared across blogpress packages.
package foundation

import "strings"

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Enum maps case-insensitive names, aliases included, to values of T.
type Enum[T comparable] struct {
	values map[string]T
}

// NewEnum creates an enum from name->value pairs. Several names may share a value.
func NewEnum[T comparable](values map[string]T) *Enum[T] {
	normalized := make(map[string]T, len(values))
	for k, v := range values {
		normalized[normalizeKey(k)] = v
	}
	return &Enum[T]{values: normalized}
}

// Lookup returns the value for raw, ignoring case and surrounding space.
func (e *Enum[T]) Lookup(raw string) (T, bool) {
	v, ok := e.values[normalizeKey(raw)]
	return v, ok
}

// Normalize is Lookup returning the zero value for unknown names.
func (e *Enum[T]) Normalize(raw string) T {
	v, _ := e.Lookup(raw)
	return v
}
