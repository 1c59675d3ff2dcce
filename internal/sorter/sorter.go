// Package sorter reorders extracted rows by one or more typed sort keys.
// The sort is stable: rows equal on every key keep their relative order
// from the previous pipeline stage, and re-sorting sorted rows is a
// no-op.
package sorter

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Sentinel errors for sort spec parsing.
var (
	ErrInvalidSpec   = errors.New("invalid sort spec")
	ErrUnknownColumn = errors.New("unknown sort column")
)

// Direction orders a single key ascending or descending.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// DataType selects the comparison semantics for a key.
type DataType int

const (
	// TypeString compares cell text bytewise, without locale collation.
	TypeString DataType = iota
	// TypeNumber parses cells as floats; non-parseable cells sort as the
	// lowest possible value rather than failing the sort.
	TypeNumber
	// TypeBool orders false before true; unparseable cells read as false.
	TypeBool
)

// Key is one sort criterion: a column, a direction and a type hint.
type Key struct {
	Column    string
	Direction Direction
	Type      DataType

	index int // resolved header position
}

// ParseSpec parses the compact "col:asc,col2:desc" grammar against the
// known headers. Direction defaults to ascending; unknown columns and
// malformed segments are construction errors. An empty spec yields the
// default sort: the first header ascending.
func ParseSpec(spec string, headers []string) ([]Key, error) {
	if strings.TrimSpace(spec) == "" {
		return defaultKeys(headers), nil
	}

	var keys []Key
	for _, segment := range strings.Split(spec, ",") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			return nil, fmt.Errorf("%w: empty segment in %q", ErrInvalidSpec, spec)
		}

		name := segment
		dir := Ascending
		if colon := strings.IndexByte(segment, ':'); colon >= 0 {
			name = strings.TrimSpace(segment[:colon])
			dirText := strings.TrimSpace(segment[colon+1:])
			switch strings.ToLower(dirText) {
			case "asc", "ascending":
				dir = Ascending
			case "desc", "descending":
				dir = Descending
			default:
				return nil, fmt.Errorf("%w: direction %q (want asc or desc)", ErrInvalidSpec, dirText)
			}
		}

		idx := headerIndex(headers, name)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %q (known columns: %s)", ErrUnknownColumn, name, strings.Join(headers, ", "))
		}

		keys = append(keys, Key{Column: name, Direction: dir, index: idx})
	}
	return keys, nil
}

// WithType returns a copy of the key with the given comparison type.
func (k Key) WithType(t DataType) Key {
	k.Type = t
	return k
}

// ResolveKeys binds externally built keys to header positions. Useful
// when keys come from configuration rather than the spec grammar.
func ResolveKeys(keys []Key, headers []string) ([]Key, error) {
	resolved := make([]Key, len(keys))
	for i, key := range keys {
		idx := headerIndex(headers, key.Column)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, key.Column)
		}
		key.index = idx
		resolved[i] = key
	}
	return resolved, nil
}

func defaultKeys(headers []string) []Key {
	if len(headers) == 0 {
		return nil
	}
	return []Key{{Column: headers[0], Direction: Ascending, index: 0}}
}

func headerIndex(headers []string, name string) int {
	for i, h := range headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Sort reorders rows by the keys, stably, and returns the same slice.
// Keys are applied left to right as primary, secondary, ... tie-breaks.
func Sort(rows [][]string, keys []Key) [][]string {
	if len(keys) == 0 || len(rows) < 2 {
		return rows
	}

	sort.SliceStable(rows, func(i, j int) bool {
		for _, key := range keys {
			c := compareCells(cellAt(rows[i], key.index), cellAt(rows[j], key.index), key.Type)
			if c == 0 {
				continue
			}
			if key.Direction == Descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	return rows
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func compareCells(a, b string, t DataType) int {
	switch t {
	case TypeNumber:
		return compareFloats(parseNumericCell(a), parseNumericCell(b))
	case TypeBool:
		return compareBools(a == "true", b == "true")
	default:
		return strings.Compare(a, b)
	}
}

// parseNumericCell maps non-parseable cells to -Inf so missing or
// malformed values group at the bottom of an ascending numeric sort.
func parseNumericCell(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.Inf(-1)
	}
	return f
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareBools(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
