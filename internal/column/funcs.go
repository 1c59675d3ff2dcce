package column

import (
	"strings"
	"text/template"

	"github.com/mattn/go-runewidth"

	"listpipe/internal/record"
)

const ellipsis = "..."

// FuncMap returns the functions available inside column expressions.
// All of them are pure; coercions follow the record package's rules so
// numbers and booleans stringify identically everywhere in the pipeline.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"toString": toString,
		"toInt":    toInt,
		"toBool":   record.ToBool,
		"truncate": truncate,
		"pad":      pad,
		"upper":    strings.ToUpper,
		"lower":    strings.ToLower,
		"get":      mapGet,
		"getOr":    mapGetOr,
		"has":      mapHas,
		"length":   length,
		"join":     join,
		"split":    split,
		"ternary":  ternary,
	}
}

func toString(v any) string { return record.ToString(v) }

func toInt(v any) int {
	n, ok := record.ToNumber(v)
	if !ok {
		return 0
	}
	return int(n)
}

// truncate cuts s to n display cells. Widths above len(ellipsis) get an
// ellipsis marker inside the budget; tiny widths are a bare cut.
func truncate(s string, n int) string {
	if n <= 0 || runewidth.StringWidth(s) <= n {
		return s
	}
	if n <= len(ellipsis) {
		return runewidth.Truncate(s, n, "")
	}
	return runewidth.Truncate(s, n, ellipsis)
}

// pad right-pads s with spaces to n display cells; longer strings pass
// through untouched.
func pad(s string, n int) string {
	if runewidth.StringWidth(s) >= n {
		return s
	}
	return runewidth.FillRight(s, n)
}

// mapGet looks a dotted path up in a nested map; nil when absent.
func mapGet(m map[string]any, key string) any {
	v, ok := record.Get(m, key)
	if !ok {
		return nil
	}
	return v
}

// mapGetOr is mapGet with a default for absent paths.
func mapGetOr(m map[string]any, key string, def any) any {
	v, ok := record.Get(m, key)
	if !ok {
		return def
	}
	return v
}

func mapHas(m map[string]any, key string) bool {
	return record.Has(m, key)
}

// length counts runes of a string, or elements of a list or map.
func length(v any) int {
	switch val := v.(type) {
	case nil:
		return 0
	case string:
		return len([]rune(val))
	case []any:
		return len(val)
	case []string:
		return len(val)
	case map[string]any:
		return len(val)
	default:
		return 0
	}
}

// join stringifies list elements and joins them with sep.
func join(v any, sep string) string {
	switch list := v.(type) {
	case nil:
		return ""
	case []string:
		return strings.Join(list, sep)
	case []any:
		parts := make([]string, len(list))
		for i, item := range list {
			parts[i] = record.ToString(item)
		}
		return strings.Join(parts, sep)
	default:
		return record.ToString(v)
	}
}

func split(s, sep string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, sep)
}

// ternary selects between two values on a coerced boolean condition, so
// a missing field reads as false instead of failing the template.
func ternary(cond any, trueVal, falseVal any) any {
	if record.ToBool(cond) {
		return trueVal
	}
	return falseVal
}
