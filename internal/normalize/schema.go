package normalize

import (
	"errors"
	"fmt"

	"gridedit/internal/domain"
)

// ErrDuplicateField is returned by NewSchema when two fields share a path.
var ErrDuplicateField = errors.New("duplicate field path")

// Schema maps field paths to declared types. It is read-only once built and
// safe for concurrent use. A nil *Schema declares nothing.
type Schema struct {
	fields []domain.DataField
	types  map[string]domain.FieldType
}

// NewSchema builds a Schema from fields, preserving their order.
func NewSchema(fields ...domain.DataField) (*Schema, error) {
	s := &Schema{
		fields: make([]domain.DataField, 0, len(fields)),
		types:  make(map[string]domain.FieldType, len(fields)),
	}
	for _, f := range fields {
		if _, dup := s.types[f.Path]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateField, f.Path)
		}
		s.types[f.Path] = f.Type
		s.fields = append(s.fields, f)
	}
	return s, nil
}

// Lookup returns the declared type for an exact field path.
func (s *Schema) Lookup(path string) (domain.FieldType, bool) {
	if s == nil {
		return "", false
	}
	t, ok := s.types[path]
	return t, ok
}

// Fields returns the declared fields in declaration order.
func (s *Schema) Fields() []domain.DataField {
	if s == nil {
		return nil
	}
	out := make([]domain.DataField, len(s.fields))
	copy(out, s.fields)
	return out
}

// Len returns the number of declared fields.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.fields)
}
