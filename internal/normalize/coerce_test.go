package normalize_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridedit/internal/domain"
	"gridedit/internal/normalize"
)

func newNormalizer(t *testing.T, fields ...domain.DataField) *normalize.Normalizer {
	t.Helper()
	s, err := normalize.NewSchema(fields...)
	require.NoError(t, err)
	return normalize.New(s)
}

// ─────────────────────────────────────────────────────────────
// Heuristic inference (no declared type)
// ─────────────────────────────────────────────────────────────

func TestCoerce_HeuristicParsesJSONContainers(t *testing.T) {
	n := normalize.New(nil)

	assert.Equal(t, []any{"tag1", "tag2"}, n.Coerce("tags", `["tag1", "tag2"]`))
	assert.Equal(t, map[string]any{"key": "value"}, n.Coerce("metadata", `{"key": "value"}`))
}

func TestCoerce_HeuristicKeepsJSONScalarsAsText(t *testing.T) {
	n := normalize.New(nil)

	for _, raw := range []string{"42", "007", "true", "yes", `"quoted"`, "null", "Test User", ""} {
		assert.Equal(t, raw, n.Coerce("field", raw), "raw %q", raw)
	}
}

func TestCoerce_HeuristicParsesDates(t *testing.T) {
	n := normalize.New(nil)

	got, ok := n.Coerce("created_at", "2023-01-15T14:30:45").(time.Time)
	require.True(t, ok)
	assert.Equal(t, 2023, got.Year())
	assert.Equal(t, time.January, got.Month())
	assert.Equal(t, 15, got.Day())
}

func TestCoerce_HeuristicPassesNativeValues(t *testing.T) {
	n := normalize.New(nil)

	for _, raw := range []any{nil, int64(3), 2.5, true} {
		assert.Equal(t, raw, n.Coerce("field", raw))
	}
}

// ─────────────────────────────────────────────────────────────
// Declared types
// ─────────────────────────────────────────────────────────────

func TestCoerce_DeclaredTypes(t *testing.T) {
	n := newNormalizer(t,
		domain.DataField{Path: "age", Type: domain.FieldTypeNumber},
		domain.DataField{Path: "ratio", Type: domain.FieldTypeNumber},
		domain.DataField{Path: "active", Type: domain.FieldTypeBoolean},
		domain.DataField{Path: "scores", Type: domain.FieldTypeArray},
		domain.DataField{Path: "birthday", Type: domain.FieldTypeDate},
		domain.DataField{Path: "meta", Type: domain.FieldTypeObject},
		domain.DataField{Path: "code", Type: domain.FieldTypeString},
	)

	assert.Equal(t, int64(30), n.Coerce("age", "30"))
	assert.Equal(t, 0.75, n.Coerce("ratio", "0.75"))
	assert.Equal(t, true, n.Coerce("active", "yes"))
	assert.Equal(t, false, n.Coerce("active", "nope"))
	assert.Equal(t, []any{int64(90), int64(85), int64(95)}, n.Coerce("scores", "[90,85,95]"))
	assert.Equal(t, map[string]any{"k": int64(1)}, n.Coerce("meta", `{"k":1}`))
	assert.Equal(t, "007", n.Coerce("code", "007"))

	bday, ok := n.Coerce("birthday", "1993-08-20").(time.Time)
	require.True(t, ok)
	assert.Equal(t, time.Date(1993, 8, 20, 0, 0, 0, 0, time.UTC), bday)
}

func TestCoerce_DeclaredTypesFallBack(t *testing.T) {
	n := newNormalizer(t,
		domain.DataField{Path: "age", Type: domain.FieldTypeNumber},
		domain.DataField{Path: "joined_date", Type: domain.FieldTypeDate},
		domain.DataField{Path: "tags", Type: domain.FieldTypeArray},
		domain.DataField{Path: "meta", Type: domain.FieldTypeObject},
	)

	assert.Equal(t, "not-a-number", n.Coerce("age", "not-a-number"))
	assert.Equal(t, "invalid-date", n.Coerce("joined_date", "invalid-date"))
	assert.Equal(t, []any{"not-valid-json"}, n.Coerce("tags", "not-valid-json"))
	assert.Equal(t, "{broken", n.Coerce("meta", "{broken"))
}

func TestCoerce_DeclaredNumberOnlyWhenDeclared(t *testing.T) {
	n := newNormalizer(t, domain.DataField{Path: "zip", Type: domain.FieldTypeNumber})

	assert.Equal(t, int64(7), n.Coerce("zip", "007"))
	assert.Equal(t, "007", n.Coerce("other", "007"))
}

func TestCoerce_UnknownTypeBehavesLikeString(t *testing.T) {
	n := newNormalizer(t, domain.DataField{Path: "x", Type: domain.FieldType("mystery")})

	assert.Equal(t, []any{int64(1)}, n.Coerce("x", "[1]"))
	assert.Equal(t, "plain", n.Coerce("x", "plain"))
}

func TestCoerce_Idempotent(t *testing.T) {
	n := newNormalizer(t,
		domain.DataField{Path: "age", Type: domain.FieldTypeNumber},
		domain.DataField{Path: "active", Type: domain.FieldTypeBoolean},
		domain.DataField{Path: "tags", Type: domain.FieldTypeArray},
		domain.DataField{Path: "when", Type: domain.FieldTypeDate},
	)
	when := time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC)
	tags := []any{"a", "b"}
	meta := map[string]any{"k": "v"}

	assert.Equal(t, int64(30), n.Coerce("age", n.Coerce("age", "30")))
	assert.Equal(t, true, n.Coerce("active", n.Coerce("active", "on")))
	assert.Equal(t, tags, n.Coerce("tags", tags))
	assert.Equal(t, when, n.Coerce("when", when))
	assert.Equal(t, when, n.Coerce("undeclared", when))
	assert.Equal(t, tags, n.Coerce("undeclared", tags))
	assert.Equal(t, meta, n.Coerce("undeclared", meta))
}

func TestCoerce_DeclaredArrayAcceptsTypedSlices(t *testing.T) {
	n := newNormalizer(t, domain.DataField{Path: "tags", Type: domain.FieldTypeArray})

	once := n.Coerce("tags", []string{"a", "b"})
	assert.Equal(t, []any{"a", "b"}, once)
	assert.Equal(t, once, n.Coerce("tags", once))
}
