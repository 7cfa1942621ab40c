package normalize

import "strings"

// PathSeparator separates the segments of a dotted field path.
const PathSeparator = "."

// PathMode selects how a dotted field name is addressed.
type PathMode int

const (
	// NestingAllowed splits a dotted name into nested map segments (create).
	NestingAllowed PathMode = iota
	// DotPreserved keeps the dotted name as one flat key (partial update).
	DotPreserved
)

// IsDotted reports whether name addresses a nested location.
func IsDotted(name string) bool {
	return strings.Contains(name, PathSeparator)
}

// ResolvePath returns the key segments for name under mode. Names without a
// separator resolve to themselves in both modes.
func ResolvePath(name string, mode PathMode) []string {
	if mode == DotPreserved || !IsDotted(name) {
		return []string{name}
	}
	return strings.Split(name, PathSeparator)
}

// JoinPath builds a dotted path from a parent path and a child key.
func JoinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + PathSeparator + key
}

// SetPath stores value at segments inside doc, creating intermediate maps as
// needed. An intermediate segment that currently holds a non-map value is
// replaced by a new map, so the last write wins.
func SetPath(doc map[string]any, segments []string, value any) {
	if len(segments) == 0 {
		return
	}
	cur := doc
	for _, seg := range segments[:len(segments)-1] {
		next, ok := cur[seg].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[seg] = next
		}
		cur = next
	}
	cur[segments[len(segments)-1]] = value
}

// GetPath reads the value stored at segments inside doc.
func GetPath(doc map[string]any, segments []string) (any, bool) {
	if len(segments) == 0 {
		return nil, false
	}
	cur := doc
	for _, seg := range segments[:len(segments)-1] {
		next, ok := cur[seg].(map[string]any)
		if !ok {
			return nil, false
		}
		cur = next
	}
	v, ok := cur[segments[len(segments)-1]]
	return v, ok
}
