package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database holding editor metadata.
type DB struct {
	x *sqlx.DB
}

// New creates a new DB, opening (or creating) the SQLite file at dbPath.
func New(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sqlx.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite only supports one writer; a single connection prevents SQLITE_BUSY
	conn.SetMaxOpenConns(1)

	db := &DB{x: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.x.Close()
}

func (db *DB) migrate() error {
	migrations := []string{
		// Declared field types per collection
		`CREATE TABLE IF NOT EXISTS field_schemas (
			collection TEXT NOT NULL,
			path TEXT NOT NULL,
			type TEXT NOT NULL,
			position INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (collection, path)
		)`,
		// Applied editor changes
		`CREATE TABLE IF NOT EXISTS edit_journal (
			id TEXT PRIMARY KEY,
			collection TEXT NOT NULL,
			action TEXT NOT NULL,
			row_id TEXT NOT NULL DEFAULT '',
			payload_json TEXT NOT NULL DEFAULT '{}',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_edit_journal_collection ON edit_journal(collection, created_at)`,
	}

	for _, m := range migrations {
		if _, err := db.x.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %s: %w", m[:40], err)
		}
	}

	return nil
}
