// Package filter implements composable per-record predicates and the
// AND-composed chain that applies them. Filters are pure: evaluation has
// no side effects, so chain order never changes the result. A field the
// filter references but the record lacks is a non-match, never an error.
package filter

import (
	"fmt"
	"path/filepath"
	"strings"

	"listpipe/internal/record"
)

// ErrInvalidPattern is returned when a glob pattern cannot be compiled.
var ErrInvalidPattern = fmt.Errorf("invalid glob pattern")

// Filter decides whether a single record survives the chain.
type Filter interface {
	Matches(rec record.Record) bool
}

// Func adapts a plain function to the Filter interface.
type Func func(rec record.Record) bool

// Matches implements Filter.
func (f Func) Matches(rec record.Record) bool { return f(rec) }

// Chain is an ordered list of filters combined with AND semantics.
// An empty chain passes every record through.
type Chain []Filter

// Apply returns the order-preserving subsequence of records matching
// every filter in the chain.
func (c Chain) Apply(records record.Set) record.Set {
	if len(c) == 0 {
		return records
	}

	filtered := make(record.Set, 0, len(records))
	for _, rec := range records {
		if c.matchesAll(rec) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

func (c Chain) matchesAll(rec record.Record) bool {
	for _, f := range c {
		if !f.Matches(rec) {
			return false
		}
	}
	return true
}

// Exact matches records whose field equals the given value after string
// coercion. Missing fields never match.
func Exact(field, value string) Filter {
	return Func(func(rec record.Record) bool {
		v, ok := record.Get(rec, field)
		if !ok {
			return false
		}
		return record.ToString(v) == value
	})
}

// Glob matches a field against one or more comma-separated shell-style
// patterns ("*" any run, "?" single character, case-sensitive). A record
// matches when any pattern matches. Malformed patterns are rejected here,
// at construction time, not per record.
func Glob(field, pattern string) (Filter, error) {
	patterns := strings.Split(pattern, ",")
	for i, pat := range patterns {
		pat = strings.TrimSpace(pat)
		if _, err := filepath.Match(pat, ""); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, pat)
		}
		patterns[i] = pat
	}

	return Func(func(rec record.Record) bool {
		v, ok := record.Get(rec, field)
		if !ok {
			return false
		}
		text := record.ToString(v)
		for _, pat := range patterns {
			// Pattern validity was checked at construction.
			if matched, _ := filepath.Match(pat, text); matched {
				return true
			}
		}
		return false
	}), nil
}

// Bool constrains a boolean field. A nil want means no constraint;
// otherwise the field must coerce to the wanted value. Missing fields
// never match a set constraint.
func Bool(field string, want *bool) Filter {
	return Func(func(rec record.Record) bool {
		if want == nil {
			return true
		}
		v, ok := record.Get(rec, field)
		if !ok {
			return false
		}
		return record.ToBool(v) == *want
	})
}
