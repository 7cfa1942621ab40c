package service

import (
	"context"
	"sync"
)

// ExportedRowGuard is an exported alias so _test packages can test the guard.
type ExportedRowGuard = rowGuard

// ─────────────────────────────────────────────────────────────
// rowGuard: prevents concurrent writes to the same row
// ─────────────────────────────────────────────────────────────

// rowGuard ensures only one editor request writes a given row at a time.
type rowGuard struct {
	mu      sync.Mutex
	running map[string]struct{}
	wg      sync.WaitGroup
}

// TryLock attempts to mark key as busy. Returns false if it already is.
func (g *rowGuard) TryLock(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running == nil {
		g.running = make(map[string]struct{})
	}
	if _, ok := g.running[key]; ok {
		return false
	}
	g.running[key] = struct{}{}
	g.wg.Add(1)
	return true
}

// Unlock releases key. Must be called after TryLock returns true.
func (g *rowGuard) Unlock(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.running, key)
	g.wg.Done()
}

// WaitAll blocks until all in-flight row writes complete or ctx is cancelled.
func (g *rowGuard) WaitAll(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
