package service_test

import (
	"path/filepath"
	"testing"

	"gridedit/internal/dbclient"
	"gridedit/internal/service"
	"gridedit/internal/storage"

	"github.com/stretchr/testify/require"
)

type harness struct {
	store   *dbclient.MemoryStore
	emitter *service.MockEmitter
	schemas *service.SchemaService
	journal *service.JournalService
	editor  *service.EditorService
}

func openTestDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.New(filepath.Join(t.TempDir(), "gridedit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := openTestDB(t)
	h := &harness{
		store:   dbclient.NewMemoryStore(),
		emitter: &service.MockEmitter{},
	}
	h.schemas = service.NewSchemaService(storage.NewFieldSchemaStore(db), h.emitter)
	h.journal = service.NewJournalService(storage.NewJournalStore(db))
	h.editor = service.NewEditorService(h.store, h.schemas, h.journal, h.emitter)
	t.Cleanup(func() {
		h.schemas.Stop()
		h.journal.Stop()
	})
	return h
}
