package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrCountUnavailable is returned by collection backends that cannot report
// an exact document count (e.g. adapters over remote stores without a count
// operation). Callers must treat it as "unknown", not as zero.
var ErrCountUnavailable = errors.New("document count unavailable")

// QueryResult is the normalized shape of a similarity query. The outer index
// of each field is the query, the inner index is the result rank (most
// similar first).
type QueryResult struct {
	IDs       [][]string
	Documents [][]string
	Metadatas [][]map[string]any
	Distances [][]float64
}

// GetResult holds documents fetched by ID for inspection.
type GetResult struct {
	IDs       []string
	Documents []string
	Metadatas []map[string]any
}

// Collection is the handle to one named set of embedded documents. All
// bundled implementations resolve results synchronously; adapters over
// collaborators with other calling conventions normalize the shape here, so
// workflow nodes never deal with anything but a resolved QueryResult.
//
// Upsert replaces the stored document when an ID already exists; re-ingesting
// the same ID with different content overwrites rather than duplicates.
type Collection interface {
	// Query returns up to nResults most-similar documents per query text,
	// preserving the store's similarity ranking order.
	Query(ctx context.Context, queryTexts []string, nResults int) (*QueryResult, error)

	// Upsert writes documents by ID, overwriting existing IDs.
	// metadatas may be nil or shorter than ids; missing entries are stored empty.
	Upsert(ctx context.Context, ids []string, documents []string, metadatas []map[string]any) error

	// Count returns the number of documents in the collection.
	Count(ctx context.Context) (int, error)

	// Get fetches documents by ID. A nil or empty ids slice fetches everything.
	Get(ctx context.Context, ids []string) (*GetResult, error)
}

// CollectionNotFoundError is returned when a requested collection does not
// exist at the configured storage location. The message carries both the
// collection name and the path so the caller can act on it.
type CollectionNotFoundError struct {
	Name string
	Path string
}

func (e *CollectionNotFoundError) Error() string {
	return fmt.Sprintf("collection %q not found at %s; ingest documents first", e.Name, e.Path)
}

// IsCollectionNotFound reports whether err is a CollectionNotFoundError.
func IsCollectionNotFound(err error) bool {
	var notFound *CollectionNotFoundError
	return errors.As(err, &notFound)
}
