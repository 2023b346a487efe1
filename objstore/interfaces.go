package objstore

import "context"

// Object describes an entry in the store.
type Object struct {
	Key  string
	Size int64
}

// Store abstracts the blob store holding source PDFs and the ingestion
// mirror. Implementations must be thread-safe and support concurrent access.
type Store interface {
	// List returns objects whose keys start with prefix, in lexical order.
	// A missing prefix yields an empty slice, not an error.
	List(ctx context.Context, prefix string) ([]Object, error)

	// Get returns the full content of the object at key.
	// Returns core.ErrNotFound if the object does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put writes data under key, overwriting any existing object.
	Put(ctx context.Context, key string, data []byte) error

	// Download writes the object at key to a local file path, creating
	// parent directories as needed.
	Download(ctx context.Context, key, destPath string) error

	// Close releases resources held by the store.
	Close() error
}
