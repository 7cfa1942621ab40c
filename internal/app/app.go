package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"gridedit/internal/config"
	"gridedit/internal/dbclient"
	"gridedit/internal/secret"
	"gridedit/internal/service"
	"gridedit/internal/storage"
)

// App holds the opened stores and the services built on top of them.
type App struct {
	cfg *config.Config

	db   *storage.DB
	docs dbclient.DocumentStore

	Schemas *service.SchemaService
	Journal *service.JournalService
	Editor  *service.EditorService
	Query   *service.QueryService
}

// New opens the metadata database and the document store and wires the
// services. The schema file watcher and journal pruning are started when
// configured; Close stops them.
func New(ctx context.Context, cfg *config.Config, emitter service.EventEmitter) (*App, error) {
	db, err := storage.New(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a := &App{cfg: cfg, db: db}

	password, err := secret.ResolvePassword(cfg.Password, cfg.PasswordKey, secret.NewKeychainStore())
	if err != nil {
		a.Close()
		return nil, err
	}
	docs, err := dbclient.NewDocumentStore(&cfg.Connection, password)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open document store: %w", err)
	}
	a.docs = docs

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := docs.TestConnection(pingCtx); err != nil {
		// The editor still starts; individual requests report the failure
		log.Printf("[MONGO] Connection check failed: %v", err)
	}

	a.Schemas = service.NewSchemaService(storage.NewFieldSchemaStore(db), emitter)
	a.Journal = service.NewJournalService(storage.NewJournalStore(db))
	a.Editor = service.NewEditorService(docs, a.Schemas, a.Journal, emitter)
	a.Query = service.NewQueryService(docs)

	if cfg.SchemaFile != "" {
		if err := a.Schemas.WatchFile(ctx, cfg.SchemaFile); err != nil {
			a.Close()
			return nil, fmt.Errorf("schema file: %w", err)
		}
	}
	if err := a.Journal.StartPruning(ctx, cfg.JournalPruneSchedule, cfg.JournalRetention); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// Close stops background work, waits briefly for in-flight row writes, and
// releases the stores.
func (a *App) Close() {
	if a.Schemas != nil {
		a.Schemas.Stop()
	}
	if a.Journal != nil {
		a.Journal.Stop()
	}
	if a.Editor != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		a.Editor.Wait(ctx)
		cancel()
	}
	if a.docs != nil {
		a.docs.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}
