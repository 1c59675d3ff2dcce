package record

import (
	"fmt"
	"strconv"
	"strings"
)

// ToString coerces a dynamic value to its canonical display string.
// The formatting is deterministic and locale-independent: integers render
// without an exponent, floats with the shortest representation that
// round-trips, booleans as "true"/"false", nil as "".
func ToString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// ToNumber coerces a dynamic value to a float64.
// Returns (value, true) on success and (0, false) for values with no
// numeric interpretation, including nil and non-numeric strings.
func ToNumber(v any) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// ToBool coerces a dynamic value to a boolean. Strings "true", "yes" and
// "1" (case-insensitive) are true; numbers are true when non-zero; nil
// and everything unrecognized is false.
func ToBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "yes", "1":
			return true
		}
		return false
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	default:
		return false
	}
}
