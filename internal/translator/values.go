package translator

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// isAbsent reports whether a value carries nothing to translate.
func isAbsent(v any) bool {
	switch n := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(n)
	case float32:
		return math.IsNaN(float64(n))
	}
	return false
}

func toBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(b)); err == nil {
			return parsed
		}
		return b != ""
	case json.Number:
		f, err := b.Float64()
		return err == nil && f != 0
	case float64:
		return b != 0
	case int:
		return b != 0
	case int64:
		return b != 0
	}
	return true
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := strconv.ParseFloat(string(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// maxIntFloat is 2^63, the first float64 outside the int64 range.
var maxIntFloat = math.Ldexp(1, 63)

// toInt truncates fractional input the way an integer parse of "3.7" yields 3.
func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil {
			return i, true
		}
	}
	f, ok := toFloat(v)
	if !ok || f >= maxIntFloat || f < -maxIntFloat {
		return 0, false
	}
	return int64(math.Trunc(f)), true
}

// toNumber parses v as a float when its text contains a decimal point and as
// an integer otherwise. Exponent notation without a point parses as an integer
// only if the integer parse accepts it.
func toNumber(v any) (any, bool) {
	if strings.Contains(numberText(v), ".") {
		f, ok := toFloat(v)
		if !ok {
			return nil, false
		}
		return f, true
	}
	i, ok := toInt(v)
	if !ok {
		return nil, false
	}
	return i, true
}

func numberText(v any) string {
	switch n := v.(type) {
	case string:
		return n
	case json.Number:
		return string(n)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02",
}

var clockLayouts = []string{
	"15:04:05.999999999Z07:00",
	"15:04:05.999999999",
	"15:04",
}

// parseTime accepts ISO-8601 strings, common date layouts and epoch
// milliseconds. Strings without a zone are read as UTC.
func parseTime(v any) (time.Time, bool) {
	switch n := v.(type) {
	case string:
		s := strings.TrimSpace(n)
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts.UTC(), true
			}
		}
		return time.Time{}, false
	case json.Number, float64, int, int64:
		ms, ok := toInt(n)
		if !ok {
			return time.Time{}, false
		}
		return time.UnixMilli(ms).UTC(), true
	}
	return time.Time{}, false
}

// parseClock is parseTime extended with bare wall-clock values such as "10:30:00".
func parseClock(v any) (time.Time, bool) {
	if ts, ok := parseTime(v); ok {
		return ts, true
	}
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	for _, layout := range clockLayouts {
		if ts, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}
