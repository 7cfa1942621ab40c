package domain

// FieldType is the declared type of a grid field.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeArray   FieldType = "array"
	FieldTypeDate    FieldType = "date"
	FieldTypeObject  FieldType = "object"
)

// Known reports whether t is one of the declared types the normalizer dispatches on.
// Unknown types are still accepted and behave like FieldTypeString.
func (t FieldType) Known() bool {
	switch t {
	case FieldTypeString, FieldTypeNumber, FieldTypeBoolean, FieldTypeArray, FieldTypeDate, FieldTypeObject:
		return true
	}
	return false
}

// DataField pairs a field path (possibly dotted) with its declared type.
type DataField struct {
	Path string    `json:"path" yaml:"path" db:"path"`
	Type FieldType `json:"type" yaml:"type" db:"type"`
}

// FieldSchemaStore persists the declared field types of each collection.
type FieldSchemaStore interface {
	ReplaceFields(collection string, fields []DataField) error
	ListFields(collection string) ([]DataField, error)
	ListCollections() ([]string, error)
}
