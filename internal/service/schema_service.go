package service

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"gridedit/internal/domain"
	"gridedit/internal/normalize"
	"gridedit/internal/schemafile"

	"github.com/fsnotify/fsnotify"
)

// ─────────────────────────────────────────────────────────────
// Schema Service: declared field types per collection
// ─────────────────────────────────────────────────────────────

// SchemaService owns the declared field types of every collection. Built
// schemas are cached; each one is an immutable snapshot, so a request keeps
// using the snapshot it started with even if the schema is replaced.
type SchemaService struct {
	store   domain.FieldSchemaStore
	emitter EventEmitter

	mu    sync.RWMutex
	cache map[string]*normalize.Schema

	// file watcher lifecycle
	watcher     *fsnotify.Watcher
	watchCancel context.CancelFunc
}

// NewSchemaService creates a SchemaService. A nil store keeps schemas in
// memory only.
func NewSchemaService(store domain.FieldSchemaStore, emitter EventEmitter) *SchemaService {
	return &SchemaService{
		store:   store,
		emitter: emitter,
		cache:   make(map[string]*normalize.Schema),
	}
}

// Schema returns the schema snapshot for a collection. Collections without
// declared fields get an empty schema.
func (s *SchemaService) Schema(collection string) (*normalize.Schema, error) {
	s.mu.RLock()
	schema, ok := s.cache[collection]
	s.mu.RUnlock()
	if ok {
		return schema, nil
	}

	var fields []domain.DataField
	if s.store != nil {
		var err error
		fields, err = s.store.ListFields(collection)
		if err != nil {
			return nil, fmt.Errorf("load fields for %s: %w", collection, err)
		}
	}
	schema, err := normalize.NewSchema(fields...)
	if err != nil {
		return nil, fmt.Errorf("build schema for %s: %w", collection, err)
	}

	s.mu.Lock()
	if cached, ok := s.cache[collection]; ok {
		schema = cached
	} else {
		s.cache[collection] = schema
	}
	s.mu.Unlock()
	return schema, nil
}

// Fields returns the declared fields of a collection.
func (s *SchemaService) Fields(collection string) ([]domain.DataField, error) {
	schema, err := s.Schema(collection)
	if err != nil {
		return nil, err
	}
	return schema.Fields(), nil
}

// Collections lists the collections with declared fields, sorted by name.
func (s *SchemaService) Collections() ([]string, error) {
	if s.store != nil {
		return s.store.ListCollections()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.cache))
	for name, schema := range s.cache {
		if schema.Len() > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// SetFields replaces the declared fields of a collection.
func (s *SchemaService) SetFields(ctx context.Context, collection string, fields []domain.DataField) (*normalize.Schema, error) {
	if collection == "" {
		return nil, fmt.Errorf("collection is required")
	}
	schema, err := normalize.NewSchema(fields...)
	if err != nil {
		return nil, err
	}
	if s.store != nil {
		if err := s.store.ReplaceFields(collection, fields); err != nil {
			return nil, fmt.Errorf("save fields for %s: %w", collection, err)
		}
	}

	s.mu.Lock()
	s.cache[collection] = schema
	s.mu.Unlock()

	log.Printf("[SCHEMA] %s: %d declared field(s)", collection, schema.Len())
	if s.emitter != nil {
		s.emitter.Emit(ctx, "schema:changed", map[string]any{"collection": collection, "fields": schema.Len()})
	}
	return schema, nil
}

// LoadFile applies every collection found in a schema file. Collections are
// applied in name order; the first failure stops the load.
func (s *SchemaService) LoadFile(ctx context.Context, path string) error {
	f, err := schemafile.Load(path)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(f.Collections))
	for name := range f.Collections {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := s.SetFields(ctx, name, f.Collections[name]); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
	}
	log.Printf("[SCHEMA] Loaded %d collection(s) from %s", len(names), path)
	return nil
}

// ── File watcher ──────────────────────────────────────────

// WatchFile loads path and reloads it whenever it is written or replaced.
// Rapid successive writes are debounced.
func (s *SchemaService) WatchFile(ctx context.Context, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("bad schema path %q: %w", path, err)
	}
	if err := s.LoadFile(ctx, absPath); err != nil {
		return err
	}

	s.Stop()
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory so editors that replace the file are still seen
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %q: %w", filepath.Dir(absPath), err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.watcher = watcher
	s.watchCancel = cancel
	s.mu.Unlock()

	go func() {
		var timer *time.Timer
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()
		for {
			select {
			case <-watchCtx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				if name, _ := filepath.Abs(event.Name); name != absPath {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(500*time.Millisecond, func() {
					if err := s.LoadFile(watchCtx, absPath); err != nil {
						log.Printf("[SCHEMA] Reload %s failed: %v", absPath, err)
					}
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[SCHEMA] Watcher error: %v", err)
			}
		}
	}()

	log.Printf("[SCHEMA] Watching %s", absPath)
	return nil
}

// Stop tears down the file watcher, if any.
func (s *SchemaService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watchCancel != nil {
		s.watchCancel()
		s.watchCancel = nil
	}
	if s.watcher != nil {
		s.watcher.Close()
		s.watcher = nil
	}
}
