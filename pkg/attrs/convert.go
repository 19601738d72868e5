package attrs

import (
	"fmt"
	"strconv"
	"strings"
)

// ToFloat coerces numbers and numeric strings to float64.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

// ToInt coerces v to an int, truncating fractional values.
func ToInt(v any) (int, bool) {
	f, ok := ToFloat(v)
	return int(f), ok
}

// ToBool coerces booleans, numbers and strconv-style boolean strings.
func ToBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		s := strings.TrimSpace(strings.ToLower(b))
		switch s {
		case "yes", "on":
			return true, true
		case "no", "off", "none", "":
			return false, true
		}
		parsed, err := strconv.ParseBool(s)
		return parsed, err == nil
	}
	if f, ok := ToFloat(v); ok {
		return f != 0, true
	}
	return false, false
}

// ToString formats v as text. Nil is not a string.
func ToString(v any) (string, bool) {
	switch s := v.(type) {
	case nil:
		return "", false
	case string:
		return s, true
	case fmt.Stringer:
		return s.String(), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	}
	if _, ok := AsMap(v); ok {
		return "", false
	}
	return fmt.Sprint(v), true
}
