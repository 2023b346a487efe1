package vecstore

import (
	"context"

	"github.com/paddockpal/paddock/core"
)

// Store is the vector store gateway. Indexes are named partitions with a
// dimension and metric fixed at creation. Implementations must be
// thread-safe and support concurrent access.
type Store interface {
	// EnsureIndex creates the index if absent; calling it again with the
	// same spec is a no-op. Reusing a name with a different dimension or
	// metric returns an error wrapping core.ErrConfiguration rather than
	// deferring the breakage to upsert time.
	EnsureIndex(ctx context.Context, spec core.IndexSpec) error

	// DescribeIndex returns the stored spec for a named index.
	// Returns core.ErrNotFound if the index does not exist.
	DescribeIndex(ctx context.Context, name string) (core.IndexSpec, error)

	// ListIndexes returns the specs of all indexes.
	ListIndexes(ctx context.Context) ([]core.IndexSpec, error)

	// DeleteIndex removes an index and all its records.
	// Deleting a missing index is a no-op.
	DeleteIndex(ctx context.Context, name string) error

	// Upsert writes records into the index with at-least-once semantics;
	// duplicate ids overwrite. Vectors are validated against the index
	// dimension before any write; a mismatch wraps
	// core.ErrDimensionMismatch and nothing is written.
	Upsert(ctx context.Context, index string, records []core.EmbeddingRecord) error

	// Query returns the topK records closest to the vector, ranked by the
	// index's metric: cosine scores descend (higher = more similar),
	// euclidean distances ascend (lower = closer). Metadata is included
	// on every match.
	Query(ctx context.Context, index string, vector []float32, topK int) ([]core.Match, error)

	// Close releases resources held by the store.
	Close() error
}
