package normalize

import (
	"reflect"
	"sort"
)

// Row is one submitted grid row: field name to raw value. Field names may be
// dotted. A Row is only read, never modified.
type Row map[string]any

// Document is a nested document body for an insert.
type Document map[string]any

// UpdateMap is a flat dotted-path map for a partial update. Its keys are never
// expanded, so updating "profile.bio" leaves siblings under "profile" intact.
type UpdateMap map[string]any

// Normalizer converts submitted rows using a declared-type schema. It holds no
// mutable state and may be shared across goroutines.
type Normalizer struct {
	schema *Schema
}

// New creates a Normalizer. A nil schema declares no types.
func New(schema *Schema) *Normalizer {
	return &Normalizer{schema: schema}
}

// Schema returns the schema the normalizer consults.
func (n *Normalizer) Schema() *Schema {
	return n.schema
}

// PreprocessForCreate converts row into the nested document used for an
// insert plus a flat view of its dotted fields. Each field is coerced once
// and fed to both outputs. Keys are visited in sorted order, so a prefix
// always lands before its extensions: when "profile" and "profile.bio"
// collide, the dotted path replaces the scalar leaf.
func (n *Normalizer) PreprocessForCreate(row Row) (Document, UpdateMap) {
	doc := Document{}
	dots := UpdateMap{}
	for _, name := range sortedKeys(row) {
		typed := n.Coerce(name, row[name])
		if !IsDotted(name) {
			doc[name] = cloneValue(typed)
			continue
		}
		dots[name] = typed
		SetPath(doc, ResolvePath(name, NestingAllowed), cloneValue(typed))
	}
	return doc, dots
}

// ProcessUpdatesForEdit converts row into a flat dotted-path update map.
// Nested raw maps are walked so every leaf is addressed by its full dotted
// path, which is also the key used for the schema lookup.
func (n *Normalizer) ProcessUpdatesForEdit(row Row) UpdateMap {
	updates := UpdateMap{}
	n.collectUpdates("", row, updates)
	return updates
}

func (n *Normalizer) collectUpdates(prefix string, data map[string]any, updates UpdateMap) {
	for _, key := range sortedKeys(data) {
		path := JoinPath(prefix, key)
		if nested, ok := asFieldMap(data[key]); ok {
			n.collectUpdates(path, nested, updates)
			continue
		}
		updates[ResolvePath(path, DotPreserved)[0]] = n.Coerce(path, data[key])
	}
}

// asFieldMap reports whether v is a map keyed by field name and returns it as
// map[string]any. Besides map[string]any this covers the package's own map
// types and typed maps such as map[string]string or bson.M.
func asFieldMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case Row:
		return t, true
	case Document:
		return t, true
	case UpdateMap:
		return t, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

func sortedKeys[M ~map[string]any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// cloneValue deep-copies maps and slices so later nested writes into the
// document never reach the caller's row or the flat view. Field maps of any
// named or typed form come out as map[string]any, so nested writes merge
// into them.
func cloneValue(v any) any {
	if m, ok := asFieldMap(v); ok {
		out := make(map[string]any, len(m))
		for k, e := range m {
			out[k] = cloneValue(e)
		}
		return out
	}
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
