// pkg/classify/parse.go
package classify

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ParseNumber attempts to read a value as a float64. Used by the numeric
// heuristic, column statistics, and the sort comparator. Booleans are not
// numbers here, unlike looser database-style coercion.
func ParseNumber(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// ParseTime attempts to read a value as a timestamp for date comparison
func ParseTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		s := strings.TrimSpace(t)
		if s == "" || !containsDigit(s) {
			return time.Time{}, false
		}
		parsed, err := dateparse.ParseAny(s)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	}
	return time.Time{}, false
}
