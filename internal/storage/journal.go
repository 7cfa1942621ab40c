package storage

import (
	"fmt"
	"time"

	"gridedit/internal/domain"

	"github.com/google/uuid"
)

// JournalStore manages the edit journal in SQLite.
type JournalStore struct {
	db *DB
}

func NewJournalStore(db *DB) *JournalStore {
	return &JournalStore{db: db}
}

// AppendEntry inserts e, assigning an ID and timestamp when missing.
func (s *JournalStore) AppendEntry(e *domain.JournalEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.x.Exec(
		`INSERT INTO edit_journal (id, collection, action, row_id, payload_json, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Collection, string(e.Action), e.RowID, e.PayloadJSON, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append journal entry: %w", err)
	}
	return nil
}

type journalRow struct {
	ID          string    `db:"id"`
	Collection  string    `db:"collection"`
	Action      string    `db:"action"`
	RowID       string    `db:"row_id"`
	PayloadJSON string    `db:"payload_json"`
	CreatedAt   time.Time `db:"created_at"`
}

// ListEntries returns the newest entries of a collection first. A limit <= 0
// returns every entry.
func (s *JournalStore) ListEntries(collection string, limit int) ([]domain.JournalEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	var rows []journalRow
	err := s.db.x.Select(&rows,
		`SELECT id, collection, action, row_id, payload_json, created_at
		 FROM edit_journal WHERE collection = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`, collection, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}

	entries := make([]domain.JournalEntry, len(rows))
	for i, r := range rows {
		entries[i] = domain.JournalEntry{
			ID:          r.ID,
			Collection:  r.Collection,
			Action:      domain.EditorAction(r.Action),
			RowID:       r.RowID,
			PayloadJSON: r.PayloadJSON,
			CreatedAt:   r.CreatedAt,
		}
	}
	return entries, nil
}

// PruneBefore deletes entries created before cutoff.
func (s *JournalStore) PruneBefore(cutoff time.Time) (int64, error) {
	res, err := s.db.x.Exec(`DELETE FROM edit_journal WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("prune journal: %w", err)
	}
	return res.RowsAffected()
}
