package installment

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func decimalFromAny(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case decimal.Decimal:
		return t, true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(t), true
	case float32:
		return decimalFromAny(float64(t))
	case int:
		return decimal.NewFromInt(int64(t)), true
	case int32:
		return decimal.NewFromInt(int64(t)), true
	case int64:
		return decimal.NewFromInt(t), true
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		return d, err == nil
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(t), ",", "")
		if s == "" {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}

// nonNegative coerces v to money, treating absent, invalid and negative values as zero.
func nonNegative(v any) decimal.Decimal {
	d, ok := decimalFromAny(v)
	if !ok || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func intFromAny(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int32:
		return int(t), true
	case int64:
		if t > math.MaxInt || t < math.MinInt {
			return 0, false
		}
		return int(t), true
	case float64:
		return intFromFloat(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return intFromAny(i)
		}
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return intFromFloat(f)
	case string:
		s := strings.TrimSpace(t)
		if i, err := strconv.Atoi(s); err == nil {
			return i, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return intFromFloat(f)
	case decimal.Decimal:
		b := t.BigInt()
		if !b.IsInt64() {
			return 0, false
		}
		return intFromAny(b.Int64())
	default:
		return 0, false
	}
}

// intFromFloat truncates f, refusing values that do not fit in an int.
func intFromFloat(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return intFromAny(int64(f))
}

func stringFromAny(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == math.Trunc(t) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return err == nil && b
	case float64:
		return t != 0
	case int:
		return t != 0
	default:
		return false
	}
}

// refID resolves an identifier that may be a bare value or a nested object carrying _id or id.
func refID(v any) string {
	if m, ok := v.(map[string]any); ok {
		if id := stringFromAny(m["_id"]); id != "" {
			return id
		}
		return stringFromAny(m["id"])
	}
	return stringFromAny(v)
}

func firstRef(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if id := refID(raw[k]); id != "" {
			return id
		}
	}
	return ""
}

func firstPresent(raw map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// ParseTime accepts time values, common ISO layouts and unix epochs (seconds or milliseconds).
func ParseTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false
		}
		return *t, true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	case float64, int, int64, json.Number:
		n, ok := intFromAny(t)
		if !ok || n <= 0 {
			return time.Time{}, false
		}
		if n > 1e11 {
			return time.UnixMilli(int64(n)).UTC(), true
		}
		return time.Unix(int64(n), 0).UTC(), true
	default:
		return time.Time{}, false
	}
}
