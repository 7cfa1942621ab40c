package storage

import (
	"fmt"
	"time"

	"gridedit/internal/domain"
)

// FieldSchemaStore manages declared field types in SQLite.
type FieldSchemaStore struct {
	db *DB
}

// NewFieldSchemaStore creates a new FieldSchemaStore.
func NewFieldSchemaStore(db *DB) *FieldSchemaStore {
	return &FieldSchemaStore{db: db}
}

// ReplaceFields swaps the whole field list of a collection in one transaction.
func (s *FieldSchemaStore) ReplaceFields(collection string, fields []domain.DataField) error {
	tx, err := s.db.x.Beginx()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM field_schemas WHERE collection = ?`, collection); err != nil {
		return fmt.Errorf("clear fields: %w", err)
	}
	now := time.Now()
	for i, f := range fields {
		_, err := tx.Exec(
			`INSERT INTO field_schemas (collection, path, type, position, updated_at) VALUES (?, ?, ?, ?, ?)`,
			collection, f.Path, string(f.Type), i, now,
		)
		if err != nil {
			return fmt.Errorf("insert field %q: %w", f.Path, err)
		}
	}
	return tx.Commit()
}

// ListFields returns the declared fields of a collection in declaration order.
func (s *FieldSchemaStore) ListFields(collection string) ([]domain.DataField, error) {
	var fields []domain.DataField
	err := s.db.x.Select(&fields,
		`SELECT path, type FROM field_schemas WHERE collection = ? ORDER BY position`, collection,
	)
	if err != nil {
		return nil, fmt.Errorf("list fields: %w", err)
	}
	return fields, nil
}

// ListCollections returns every collection with declared fields.
func (s *FieldSchemaStore) ListCollections() ([]string, error) {
	var names []string
	if err := s.db.x.Select(&names, `SELECT DISTINCT collection FROM field_schemas ORDER BY collection`); err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return names, nil
}
