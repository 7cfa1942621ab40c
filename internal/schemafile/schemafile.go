// Package schemafile reads declared field types from a YAML or JSON file.
//
// Each collection lists its fields either as a mapping or as a sequence:
//
//	collections:
//	  users:
//	    age: number
//	    profile.joined_date: date
//	  orders:
//	    - path: total
//	      type: number
package schemafile

import (
	"fmt"
	"os"

	"gridedit/internal/domain"

	"gopkg.in/yaml.v3"
)

// File is the decoded schema file.
type File struct {
	Collections map[string]FieldList `yaml:"collections" json:"collections"`
}

// FieldList is an ordered list of declared fields.
type FieldList []domain.DataField

// UnmarshalYAML accepts both the mapping and the sequence form, keeping the
// order fields appear in the file.
func (l *FieldList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		fields := make(FieldList, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, val := node.Content[i], node.Content[i+1]
			if val.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: type of field %q must be a string", val.Line, key.Value)
			}
			fields = append(fields, domain.DataField{Path: key.Value, Type: domain.FieldType(val.Value)})
		}
		*l = fields
		return nil
	case yaml.SequenceNode:
		var fields []domain.DataField
		if err := node.Decode(&fields); err != nil {
			return err
		}
		*l = fields
		return nil
	default:
		return fmt.Errorf("line %d: fields must be a mapping or a sequence", node.Line)
	}
}

// Parse decodes schema file content. JSON input is accepted as YAML.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse schema file: %w", err)
	}
	for name, fields := range f.Collections {
		if err := validate(fields); err != nil {
			return nil, fmt.Errorf("collection %q: %w", name, err)
		}
	}
	return &f, nil
}

// ParseFields decodes a single field list in either form, e.g.
// {"age": "number"} or [{"path": "age", "type": "number"}].
func ParseFields(data []byte) (FieldList, error) {
	var fields FieldList
	if err := yaml.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("parse fields: %w", err)
	}
	if err := validate(fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func validate(fields FieldList) error {
	seen := make(map[string]bool, len(fields))
	for _, fd := range fields {
		if fd.Path == "" {
			return fmt.Errorf("field with empty path")
		}
		if seen[fd.Path] {
			return fmt.Errorf("duplicate field %q", fd.Path)
		}
		seen[fd.Path] = true
	}
	return nil
}

// Load reads and parses the schema file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	return Parse(data)
}
