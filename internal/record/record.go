// Package record defines the dynamic value model the pipeline operates on.
// A Record is a field-name-to-value mapping without a fixed schema; values
// can be strings, numbers, booleans, nested maps, or lists of any of these.
// Absent fields are never an error: every accessor and coercion defines an
// explicit default instead.
package record

import "strings"

// Record is one input item: a mapping from field name to a dynamically
// typed value.
type Record = map[string]any

// Set is the finite ordered collection of Records processed in one
// pipeline run. Order is significant: it defines sibling order for tree
// rendering and the tie-break order for stable sorting.
type Set = []Record

// Get resolves a dotted path (e.g. "vars.region") against a record.
// Returns (nil, false) when any segment is missing or a non-map value is
// traversed into.
func Get(rec Record, path string) (any, bool) {
	if rec == nil || path == "" {
		return nil, false
	}

	current := any(rec)
	for _, segment := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Has reports whether the dotted path resolves in the record.
func Has(rec Record, path string) bool {
	_, ok := Get(rec, path)
	return ok
}

// GetString resolves a dotted path and coerces the result to a string.
// Missing fields yield the empty string.
func GetString(rec Record, path string) string {
	v, ok := Get(rec, path)
	if !ok {
		return ""
	}
	return ToString(v)
}
