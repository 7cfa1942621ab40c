package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"gridedit/internal/domain"

	json "github.com/goccy/go-json"
	"github.com/robfig/cron/v3"
)

// ─────────────────────────────────────────────────────────────
// Journal Service: history of applied editor changes
// ─────────────────────────────────────────────────────────────

// JournalService records applied row changes and prunes old entries on a
// cron schedule.
type JournalService struct {
	store domain.JournalStore

	mu        sync.Mutex
	cronSched *cron.Cron
}

// NewJournalService creates a JournalService backed by store.
func NewJournalService(store domain.JournalStore) *JournalService {
	return &JournalService{store: store}
}

// Record appends one applied change. The payload is stored as JSON.
func (s *JournalService) Record(collection string, action domain.EditorAction, rowID string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode journal payload: %w", err)
	}
	return s.store.AppendEntry(&domain.JournalEntry{
		Collection:  collection,
		Action:      action,
		RowID:       rowID,
		PayloadJSON: string(data),
	})
}

// List returns the newest entries of a collection first.
func (s *JournalService) List(collection string, limit int) ([]domain.JournalEntry, error) {
	return s.store.ListEntries(collection, limit)
}

// Prune deletes entries older than retention.
func (s *JournalService) Prune(retention time.Duration) (int64, error) {
	return s.store.PruneBefore(time.Now().UTC().Add(-retention))
}

// StartPruning schedules Prune with a cron expression (e.g. "@every 1h").
// Any previous schedule is replaced.
func (s *JournalService) StartPruning(ctx context.Context, schedule string, retention time.Duration) error {
	s.Stop()

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if ctx.Err() != nil {
			return
		}
		n, err := s.Prune(retention)
		if err != nil {
			log.Printf("[JOURNAL] Prune failed: %v", err)
			return
		}
		if n > 0 {
			log.Printf("[JOURNAL] Pruned %d entr(ies) older than %s", n, retention)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid prune schedule %q: %w", schedule, err)
	}
	c.Start()

	s.mu.Lock()
	s.cronSched = c
	s.mu.Unlock()
	log.Printf("[JOURNAL] Pruning %q, retention %s", schedule, retention)
	return nil
}

// Stop halts the prune schedule.
func (s *JournalService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cronSched != nil {
		s.cronSched.Stop()
		s.cronSched = nil
	}
}
