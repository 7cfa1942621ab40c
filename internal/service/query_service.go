package service

import (
	"context"
	"errors"
	"log"

	"gridedit/internal/dbclient"
	"gridedit/internal/domain"
	"gridedit/internal/normalize"
)

// ─────────────────────────────────────────────────────────────
// Query Service: server-side grid reads
// ─────────────────────────────────────────────────────────────

// ErrNoCollection is returned when a read names no collection.
var ErrNoCollection = errors.New("collection is required")

// QueryService answers paged, searched and sorted grid reads.
type QueryService struct {
	store dbclient.DocumentStore
}

// NewQueryService creates a QueryService reading from store.
func NewQueryService(store dbclient.DocumentStore) *QueryService {
	return &QueryService{store: store}
}

// Rows runs one grid read. Store failures are reported in the response's
// Error field with no rows, which is how the grid expects to see them; the
// returned error is reserved for invalid arguments.
func (s *QueryService) Rows(ctx context.Context, collection string, req domain.TableRequest, customFilter map[string]any) (*domain.TableResponse, error) {
	if collection == "" {
		return nil, ErrNoCollection
	}

	q := NewTableQuery(req, customFilter)
	resp := &domain.TableResponse{Draw: q.Draw(), Data: []map[string]any{}}

	total, err := s.store.Count(ctx, collection, map[string]any{})
	if err != nil {
		return s.failed(resp, collection, err), nil
	}
	filter := q.Filter()
	filtered, err := s.store.Count(ctx, collection, filter)
	if err != nil {
		return s.failed(resp, collection, err), nil
	}
	docs, err := s.store.Find(ctx, collection, filter, q.FindOptions())
	if err != nil {
		return s.failed(resp, collection, err), nil
	}

	columns := q.Columns()
	for _, doc := range docs {
		row := dbclient.FormatRow(doc)
		for _, col := range columns {
			fillColumn(row, col)
		}
		resp.Data = append(resp.Data, row)
	}
	resp.RecordsTotal = total
	resp.RecordsFiltered = filtered

	log.Printf("[QUERY] %s: total=%d filtered=%d returned=%d", collection, total, filtered, len(resp.Data))
	return resp, nil
}

func (s *QueryService) failed(resp *domain.TableResponse, collection string, err error) *domain.TableResponse {
	log.Printf("[QUERY] %s: read failed: %v", collection, err)
	resp.Error = err.Error()
	return resp
}

// fillColumn sets a requested column that is missing or null to "". A
// column nested under a scalar is left alone.
func fillColumn(row map[string]any, column string) {
	segs := normalize.ResolvePath(column, normalize.NestingAllowed)
	cur := row
	for _, seg := range segs[:len(segs)-1] {
		v, ok := cur[seg]
		if !ok || v == nil {
			next := map[string]any{}
			cur[seg] = next
			cur = next
			continue
		}
		next, isMap := v.(map[string]any)
		if !isMap {
			return
		}
		cur = next
	}
	last := segs[len(segs)-1]
	if v, ok := cur[last]; !ok || v == nil {
		cur[last] = ""
	}
}
