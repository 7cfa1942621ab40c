package normalize_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridedit/internal/normalize"
)

// ─────────────────────────────────────────────────────────────
// Scalar parser tests
// ─────────────────────────────────────────────────────────────

func TestTryParseJSON_Containers(t *testing.T) {
	o := normalize.TryParseJSON(`["a","b"]`)
	require.True(t, o.Converted)
	assert.Equal(t, []any{"a", "b"}, o.Value)

	o = normalize.TryParseJSON(`{"k":1,"nested":{"f":1.5}}`)
	require.True(t, o.Converted)
	assert.Equal(t, map[string]any{"k": int64(1), "nested": map[string]any{"f": 1.5}}, o.Value)
}

func TestTryParseJSON_Scalars(t *testing.T) {
	assert.Equal(t, int64(42), normalize.TryParseJSON("42").Value)
	assert.Equal(t, true, normalize.TryParseJSON("true").Value)
	assert.Equal(t, "hi", normalize.TryParseJSON(`"hi"`).Value)

	o := normalize.TryParseJSON("null")
	assert.True(t, o.Converted)
	assert.Nil(t, o.Value)
}

func TestTryParseJSON_Malformed(t *testing.T) {
	for _, raw := range []string{"", "not-valid-json", "[1,2", `{"k":}`, "007", "[1] [2]", "{'a':1}"} {
		o := normalize.TryParseJSON(raw)
		assert.False(t, o.Converted, "raw %q", raw)
		assert.Equal(t, raw, o.Value, "raw %q", raw)
	}
}

func TestTryParseDate_Layouts(t *testing.T) {
	cases := map[string]time.Time{
		"2023-02-20":                time.Date(2023, 2, 20, 0, 0, 0, 0, time.UTC),
		"2023-01-15T14:30:45":       time.Date(2023, 1, 15, 14, 30, 45, 0, time.UTC),
		"2023-03-10T09:15:30Z":      time.Date(2023, 3, 10, 9, 15, 30, 0, time.UTC),
		"2023-03-10T09:15:30.250Z":  time.Date(2023, 3, 10, 9, 15, 30, 250_000_000, time.UTC),
		"2023-06-15 10:30:00":       time.Date(2023, 6, 15, 10, 30, 0, 0, time.UTC),
		"2023-06-15T10:30:00+02:00": time.Date(2023, 6, 15, 8, 30, 0, 0, time.UTC),
	}
	for raw, want := range cases {
		o := normalize.TryParseDate(raw)
		require.True(t, o.Converted, "raw %q", raw)
		got, ok := o.Value.(time.Time)
		require.True(t, ok, "raw %q", raw)
		assert.True(t, want.Equal(got), "raw %q: got %v", raw, got)
	}
}

func TestTryParseDate_Invalid(t *testing.T) {
	for _, raw := range []string{"", "invalid-date", "2023", "2023-13-01", "2023-02-30", "15/01/2023", "2023-01-15T25:00:00"} {
		o := normalize.TryParseDate(raw)
		assert.False(t, o.Converted, "raw %q", raw)
		assert.Equal(t, raw, o.Value)
	}
}

func TestParseBoolean(t *testing.T) {
	for _, raw := range []any{"true", "TRUE", "Yes", "1", "on", " on ", true, 1, int64(3), 0.5} {
		assert.True(t, normalize.ParseBoolean(raw), "raw %#v", raw)
	}
	for _, raw := range []any{"false", "no", "0", "off", "", "maybe", false, 0, nil, []any{"x"}} {
		assert.False(t, normalize.ParseBoolean(raw), "raw %#v", raw)
	}
}

func TestParseNumber(t *testing.T) {
	assert.Equal(t, int64(30), normalize.ParseNumber("30").Value)
	assert.Equal(t, int64(-7), normalize.ParseNumber(" -7 ").Value)
	assert.Equal(t, int64(7), normalize.ParseNumber("007").Value)
	assert.Equal(t, 3.25, normalize.ParseNumber("3.25").Value)
	assert.Equal(t, 1000.0, normalize.ParseNumber("1e3").Value)

	// already numeric values pass through untouched
	assert.Equal(t, 12, normalize.ParseNumber(12).Value)
	assert.Equal(t, float32(1.5), normalize.ParseNumber(float32(1.5)).Value)

	for _, raw := range []any{"not-a-number", "", "NaN", "12abc", true, nil} {
		o := normalize.ParseNumber(raw)
		assert.False(t, o.Converted, "raw %#v", raw)
		assert.Equal(t, raw, o.Value)
	}
}

func TestCoerceArray(t *testing.T) {
	assert.Equal(t, []any{int64(90), int64(85), int64(95)}, normalize.CoerceArray("[90, 85, 95]"))
	assert.Equal(t, []any{"not-valid-json"}, normalize.CoerceArray("not-valid-json"))
	assert.Equal(t, []any{`{"a":1}`}, normalize.CoerceArray(`{"a":1}`))
	assert.Equal(t, []any{int64(5)}, normalize.CoerceArray(int64(5)))
	assert.Equal(t, []any{nil}, normalize.CoerceArray(nil))

	list := []any{"x", "y"}
	assert.Equal(t, list, normalize.CoerceArray(list))
}

func TestCoerceArray_TypedSlices(t *testing.T) {
	assert.Equal(t, []any{"a", "b"}, normalize.CoerceArray([]string{"a", "b"}))
	assert.Equal(t, []any{int64(1), int64(2)}, normalize.CoerceArray([]int64{1, 2}))
	assert.Equal(t, []any{map[string]any{"k": "v"}}, normalize.CoerceArray([]map[string]any{{"k": "v"}}))
	assert.Equal(t, []any{}, normalize.CoerceArray([]string(nil)))
	assert.Equal(t, []any{[]byte("raw")}, normalize.CoerceArray([]byte("raw")))
}

func TestOutcome_Or(t *testing.T) {
	assert.Equal(t, int64(1), normalize.ParseNumber("1").Or("fallback"))
	assert.Equal(t, "fallback", normalize.ParseNumber("x").Or("fallback"))
}
