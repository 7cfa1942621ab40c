package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gridedit/internal/normalize"
)

func TestResolvePath(t *testing.T) {
	assert.Equal(t, []string{"profile", "bio"}, normalize.ResolvePath("profile.bio", normalize.NestingAllowed))
	assert.Equal(t, []string{"a", "b", "c"}, normalize.ResolvePath("a.b.c", normalize.NestingAllowed))
	assert.Equal(t, []string{"profile.bio"}, normalize.ResolvePath("profile.bio", normalize.DotPreserved))

	for _, mode := range []normalize.PathMode{normalize.NestingAllowed, normalize.DotPreserved} {
		assert.Equal(t, []string{"name"}, normalize.ResolvePath("name", mode))
	}
}

func TestSetPath_CreatesAndReusesIntermediates(t *testing.T) {
	doc := map[string]any{}
	normalize.SetPath(doc, []string{"contact", "email"}, "a@example.com")
	normalize.SetPath(doc, []string{"contact", "phone"}, "123")

	assert.Equal(t, map[string]any{
		"contact": map[string]any{"email": "a@example.com", "phone": "123"},
	}, doc)
}

func TestSetPath_ReplacesScalarIntermediate(t *testing.T) {
	doc := map[string]any{"profile": "plain"}
	normalize.SetPath(doc, []string{"profile", "bio"}, "Developer")

	assert.Equal(t, map[string]any{"profile": map[string]any{"bio": "Developer"}}, doc)
}

func TestGetPath(t *testing.T) {
	doc := map[string]any{"a": map[string]any{"b": 1}}

	v, ok := normalize.GetPath(doc, []string{"a", "b"})
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = normalize.GetPath(doc, []string{"a", "b", "c"})
	assert.False(t, ok)
	_, ok = normalize.GetPath(doc, nil)
	assert.False(t, ok)
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "child", normalize.JoinPath("", "child"))
	assert.Equal(t, "parent.child", normalize.JoinPath("parent", "child"))
}
