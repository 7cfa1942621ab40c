package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"gridedit/internal/dbclient"
	"gridedit/internal/domain"
	"gridedit/internal/normalize"
)

var (
	// ErrUnknownAction is returned for editor actions other than create/edit/remove.
	ErrUnknownAction = errors.New("unknown editor action")
	// ErrRowBusy is reported for a row that another request is writing.
	ErrRowBusy = errors.New("row is being modified by another request")
	// ErrInvalidRowID is reported for edit/remove rows without an identifier.
	ErrInvalidRowID = errors.New("row id is required")
)

// ─────────────────────────────────────────────────────────────
// Editor Service: applies grid editor submissions
// ─────────────────────────────────────────────────────────────

// EditorService turns grid editor requests into document writes. Field
// values are normalized against the collection's declared schema; failures
// are reported per row and never abort the other rows of a request.
type EditorService struct {
	store   dbclient.DocumentStore
	schemas *SchemaService
	journal *JournalService
	emitter EventEmitter

	rows rowGuard
}

// NewEditorService creates an EditorService. journal and emitter may be nil.
func NewEditorService(store dbclient.DocumentStore, schemas *SchemaService, journal *JournalService, emitter EventEmitter) *EditorService {
	if schemas == nil {
		schemas = NewSchemaService(nil, nil)
	}
	return &EditorService{
		store:   store,
		schemas: schemas,
		journal: journal,
		emitter: emitter,
	}
}

// Normalizer returns a normalizer bound to the collection's current schema.
func (s *EditorService) Normalizer(collection string) (*normalize.Normalizer, error) {
	schema, err := s.schemas.Schema(collection)
	if err != nil {
		return nil, err
	}
	return normalize.New(schema), nil
}

// Process dispatches an editor request. Request-level problems are returned
// as errors; row-level problems are reported in the response.
func (s *EditorService) Process(ctx context.Context, collection string, req domain.EditorRequest) (*domain.EditorResponse, error) {
	if collection == "" {
		return nil, fmt.Errorf("collection is required")
	}
	n, err := s.Normalizer(collection)
	if err != nil {
		return nil, err
	}

	resp := &domain.EditorResponse{Data: []map[string]any{}}
	var apply func(ctx context.Context, collection, rowKey string, row map[string]any, n *normalize.Normalizer) (map[string]any, error)
	switch req.Action {
	case domain.EditorActionCreate:
		apply = s.createRow
	case domain.EditorActionEdit:
		apply = s.editRow
	case domain.EditorActionRemove:
		apply = s.removeRow
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
	}

	var messages []string
	for _, key := range rowKeys(req.Data) {
		out, err := apply(ctx, collection, key, req.Data[key], n)
		if err != nil {
			log.Printf("[EDITOR] %s %s/%s failed: %v", req.Action, collection, key, err)
			resp.FieldErrors = append(resp.FieldErrors, domain.FieldError{RowID: key, Status: err.Error()})
			messages = append(messages, fmt.Sprintf("%s: %v", key, err))
			continue
		}
		if out != nil {
			resp.Data = append(resp.Data, out)
		}
	}
	if len(messages) > 0 {
		resp.Error = strings.Join(messages, "; ")
	}
	return resp, nil
}

// Wait blocks until in-flight row writes finish or ctx is cancelled.
func (s *EditorService) Wait(ctx context.Context) {
	s.rows.WaitAll(ctx)
}

// ── Actions ────────────────────────────────────────────────

func (s *EditorService) createRow(ctx context.Context, collection, _ string, row map[string]any, n *normalize.Normalizer) (map[string]any, error) {
	doc, dots := n.PreprocessForCreate(normalize.Row(withoutRowID(row)))
	log.Printf("[EDITOR] create %s: %d field(s), %d dotted", collection, len(doc), len(dots))

	id, err := s.store.InsertOne(ctx, collection, map[string]any(doc))
	if err != nil {
		return nil, err
	}
	rowID := dbclient.RowIDString(id)
	s.record(ctx, collection, domain.EditorActionCreate, rowID, doc)

	stored, err := s.store.FindOne(ctx, collection, map[string]any{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("read back %s: %w", rowID, err)
	}
	return dbclient.FormatRow(stored), nil
}

func (s *EditorService) editRow(ctx context.Context, collection, rowKey string, row map[string]any, n *normalize.Normalizer) (map[string]any, error) {
	rowID := resolveRowID(rowKey, row)
	unlock, err := s.lockRow(collection, rowID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	filter := dbclient.RowFilter(rowID)
	updates := n.ProcessUpdatesForEdit(normalize.Row(withoutRowID(row)))
	if len(updates) > 0 {
		modified, err := s.store.UpdateOne(ctx, collection, filter, map[string]any{"$set": map[string]any(updates)})
		if err != nil {
			return nil, err
		}
		log.Printf("[EDITOR] edit %s/%s: %d field(s), modified=%d", collection, rowID, len(updates), modified)
		s.record(ctx, collection, domain.EditorActionEdit, rowID, updates)
	}

	stored, err := s.store.FindOne(ctx, collection, filter)
	if err != nil {
		return nil, fmt.Errorf("read back %s: %w", rowID, err)
	}
	return dbclient.FormatRow(stored), nil
}

func (s *EditorService) removeRow(ctx context.Context, collection, rowKey string, row map[string]any, _ *normalize.Normalizer) (map[string]any, error) {
	rowID := resolveRowID(rowKey, row)
	unlock, err := s.lockRow(collection, rowID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	deleted, err := s.store.DeleteOne(ctx, collection, dbclient.RowFilter(rowID))
	if err != nil {
		return nil, err
	}
	if deleted == 0 {
		return nil, fmt.Errorf("remove %s: %w", rowID, dbclient.ErrNotFound)
	}
	s.record(ctx, collection, domain.EditorActionRemove, rowID, nil)
	return nil, nil
}

// ── Helpers ────────────────────────────────────────────────

func (s *EditorService) lockRow(collection, rowID string) (func(), error) {
	if strings.TrimSpace(rowID) == "" {
		return nil, ErrInvalidRowID
	}
	key := collection + "/" + rowID
	if !s.rows.TryLock(key) {
		return nil, fmt.Errorf("%s: %w", rowID, ErrRowBusy)
	}
	return func() { s.rows.Unlock(key) }, nil
}

// record journals and announces an applied change. Journal failures are
// logged; the write itself already succeeded.
func (s *EditorService) record(ctx context.Context, collection string, action domain.EditorAction, rowID string, payload any) {
	if s.journal != nil {
		if err := s.journal.Record(collection, action, rowID, payload); err != nil {
			log.Printf("[EDITOR] journal %s %s/%s: %v", action, collection, rowID, err)
		}
	}
	if s.emitter != nil {
		s.emitter.Emit(ctx, rowEvent(action), map[string]string{"collection": collection, "rowId": rowID})
	}
}

func rowEvent(action domain.EditorAction) string {
	switch action {
	case domain.EditorActionCreate:
		return "editor:row-created"
	case domain.EditorActionEdit:
		return "editor:row-updated"
	default:
		return "editor:row-removed"
	}
}

// rowKeys orders request keys: numerically when every key is an integer
// ordinal ("0", "1", ... "10"), lexically otherwise.
func rowKeys(data map[string]map[string]any) []string {
	keys := make([]string, 0, len(data))
	ordinals := make(map[string]int64, len(data))
	numeric := true
	for k := range data {
		keys = append(keys, k)
		if n, err := strconv.ParseInt(k, 10, 64); err == nil {
			ordinals[k] = n
		} else {
			numeric = false
		}
	}
	if numeric {
		sort.Slice(keys, func(i, j int) bool { return ordinals[keys[i]] < ordinals[keys[j]] })
	} else {
		sort.Strings(keys)
	}
	return keys
}

// resolveRowID prefers the DT_RowId carried inside the row over the data key.
func resolveRowID(rowKey string, row map[string]any) string {
	if id, ok := row[domain.RowIDField].(string); ok && id != "" {
		return id
	}
	return rowKey
}

// withoutRowID returns row minus the DT_RowId bookkeeping field.
func withoutRowID(row map[string]any) map[string]any {
	if _, ok := row[domain.RowIDField]; !ok {
		return row
	}
	out := make(map[string]any, len(row))
	for k, v := range row {
		if k != domain.RowIDField {
			out[k] = v
		}
	}
	return out
}
