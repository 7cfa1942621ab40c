package normalize

import (
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// ── Outcome ────────────────────────────────────────────────
// Every parser reports whether it converted its input. Callers compose
// fallbacks explicitly instead of catching errors.

// Outcome is the result of a conversion attempt.
type Outcome struct {
	Value     any
	Converted bool
}

func converted(v any) Outcome   { return Outcome{Value: v, Converted: true} }
func unchanged(raw any) Outcome { return Outcome{Value: raw} }

// Or returns the converted value, or fallback when nothing was converted.
func (o Outcome) Or(fallback any) any {
	if o.Converted {
		return o.Value
	}
	return fallback
}

// ── JSON ───────────────────────────────────────────────────

// TryParseJSON strictly decodes raw as a single JSON value. Integral numbers
// decode to int64, other numbers to float64.
func TryParseJSON(raw string) Outcome {
	b := []byte(raw)
	if !json.Valid(b) {
		return unchanged(raw)
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return unchanged(raw)
	}
	return converted(fromJSONNumbers(v))
}

func fromJSONNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		for k, e := range t {
			t[k] = fromJSONNumbers(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = fromJSONNumbers(e)
		}
		return t
	default:
		return v
	}
}

// ── Dates ──────────────────────────────────────────────────

// dateLayouts are tried in order; the first match wins. Layouts without a
// zone parse as UTC.
var dateLayouts = []string{
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05.999999999Z",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// TryParseDate parses raw against the accepted ISO layouts.
func TryParseDate(raw string) Outcome {
	if len(raw) < len("2006-01-02") {
		return unchanged(raw)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return converted(t)
		}
	}
	return unchanged(raw)
}

// ── Booleans ───────────────────────────────────────────────

// ParseBoolean maps raw to a bool. Strings are true only for
// true/yes/1/on (case-insensitive); everything unrecognized is false.
func ParseBoolean(raw any) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "1", "on":
			return true
		}
		return false
	default:
		if f, ok := asFloat(raw); ok {
			return f != 0
		}
		return false
	}
}

// ── Numbers ────────────────────────────────────────────────

// ParseNumber converts numeric strings to int64, falling back to float64.
// Values that are already numeric are returned as converted; anything else
// is returned unchanged.
func ParseNumber(raw any) Outcome {
	if isNumeric(raw) {
		return converted(raw)
	}
	s, ok := raw.(string)
	if !ok {
		return unchanged(raw)
	}
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return converted(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return converted(f)
	}
	return unchanged(raw)
}

func isNumeric(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
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
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// ── Arrays ─────────────────────────────────────────────────

// CoerceArray returns raw as a list. Slices of any element type are returned
// as []any with the same elements, JSON array strings are decoded, and any
// other value (including []byte) becomes a single-element list.
func CoerceArray(raw any) []any {
	switch v := raw.(type) {
	case []any:
		return v
	case []byte:
		return []any{v}
	case string:
		if o := TryParseJSON(v); o.Converted {
			if list, ok := o.Value.([]any); ok {
				return list
			}
		}
		return []any{v}
	}
	if list, ok := asList(raw); ok {
		return list
	}
	return []any{raw}
}

// asList converts a typed slice such as []string to []any.
func asList(v any) ([]any, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
