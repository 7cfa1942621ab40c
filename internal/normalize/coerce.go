package normalize

import (
	"time"

	"gridedit/internal/domain"
)

// Coerce computes the typed value of one field. A declared type in the schema
// picks exactly one conversion rule; without one, the heuristic chain is
// applied. Numbers and booleans are never inferred without a declaration, so
// freeform text such as "007" stays a string.
func (n *Normalizer) Coerce(path string, raw any) any {
	if t, ok := n.schema.Lookup(path); ok {
		return coerceDeclared(t, raw)
	}
	return infer(raw)
}

func coerceDeclared(t domain.FieldType, raw any) any {
	switch t {
	case domain.FieldTypeNumber:
		return ParseNumber(raw).Or(raw)
	case domain.FieldTypeBoolean:
		return ParseBoolean(raw)
	case domain.FieldTypeArray:
		return CoerceArray(raw)
	case domain.FieldTypeDate:
		s, ok := raw.(string)
		if !ok {
			return raw
		}
		return TryParseDate(s).Or(raw)
	default:
		s, ok := raw.(string)
		if !ok {
			return raw
		}
		return TryParseJSON(s).Or(raw)
	}
}

// infer is the heuristic chain: JSON container, then date, then as submitted.
func infer(raw any) any {
	s, ok := raw.(string)
	if !ok {
		return raw
	}
	if o := TryParseJSON(s); o.Converted && isContainer(o.Value) {
		return o.Value
	}
	if o := TryParseDate(s); o.Converted {
		return o.Value.(time.Time)
	}
	return raw
}

func isContainer(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return true
	}
	return false
}
