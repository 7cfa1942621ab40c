package domain

import "time"

// EditorAction is the operation requested by the grid editor.
type EditorAction string

const (
	EditorActionCreate EditorAction = "create"
	EditorActionEdit   EditorAction = "edit"
	EditorActionRemove EditorAction = "remove"
)

// RowIDField is the key the grid uses to carry a row's identifier.
const RowIDField = "DT_RowId"

// EditorRequest is one submission from the grid editor. Data is keyed by row
// identifier for edit/remove and by an ordinal ("0", "1", ...) for create.
type EditorRequest struct {
	Action EditorAction              `json:"action"`
	Data   map[string]map[string]any `json:"data"`
}

// EditorResponse is returned to the grid after an editor request.
type EditorResponse struct {
	Data        []map[string]any `json:"data"`
	Error       string           `json:"error,omitempty"`
	FieldErrors []FieldError     `json:"fieldErrors,omitempty"`
}

// FieldError attaches a message to a single row.
type FieldError struct {
	RowID  string `json:"rowId"`
	Status string `json:"status"`
}

// JournalEntry records one applied row change.
type JournalEntry struct {
	ID          string       `json:"id"`
	Collection  string       `json:"collection"`
	Action      EditorAction `json:"action"`
	RowID       string       `json:"rowId"`
	PayloadJSON string       `json:"payloadJson"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// JournalStore persists applied row changes.
type JournalStore interface {
	AppendEntry(e *JournalEntry) error
	ListEntries(collection string, limit int) ([]JournalEntry, error)
	PruneBefore(cutoff time.Time) (int64, error)
}
