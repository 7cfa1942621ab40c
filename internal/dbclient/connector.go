package dbclient

import (
	"context"
	"errors"
	"fmt"

	"gridedit/internal/domain"
)

// ErrNotFound is returned by FindOne when no document matches the filter.
var ErrNotFound = errors.New("document not found")

// DocumentStore abstracts the document database the editor writes to.
type DocumentStore interface {
	// TestConnection verifies connectivity.
	TestConnection(ctx context.Context) error

	// InsertOne stores doc and returns its generated _id.
	InsertOne(ctx context.Context, collection string, doc map[string]any) (any, error)

	// UpdateOne applies update operators (e.g. {"$set": ...}) to the first
	// matching document and returns the modified count.
	UpdateOne(ctx context.Context, collection string, filter, update map[string]any) (int64, error)

	// FindOne returns the first matching document, or ErrNotFound.
	FindOne(ctx context.Context, collection string, filter map[string]any) (map[string]any, error)

	// Find returns the documents matching filter, shaped by opts.
	Find(ctx context.Context, collection string, filter map[string]any, opts FindOptions) ([]map[string]any, error)

	// Count returns the number of documents matching filter.
	Count(ctx context.Context, collection string, filter map[string]any) (int64, error)

	// DeleteOne removes the first matching document and returns the deleted count.
	DeleteOne(ctx context.Context, collection string, filter map[string]any) (int64, error)

	// Close releases the connection.
	Close() error
}

// SortField orders results by Field; Dir is 1 (ascending) or -1 (descending).
type SortField struct {
	Field string
	Dir   int
}

// FindOptions shapes a Find. A zero Limit returns every match; an empty
// Projection returns whole documents, otherwise _id plus the listed top-level
// fields.
type FindOptions struct {
	Sort       []SortField
	Skip       int64
	Limit      int64
	Projection []string
}

// NewDocumentStore creates a DocumentStore for the given connection.
// The password is provided separately from the connection metadata.
func NewDocumentStore(conn *domain.DatabaseConnection, password string) (DocumentStore, error) {
	switch conn.Driver {
	case domain.DatabaseDriverMongoDB, "":
		return newMongoStore(conn, password)
	case domain.DatabaseDriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", conn.Driver)
	}
}
