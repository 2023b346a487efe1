package reindex

import "errors"

var (
	// ErrMirrorStoreRequired is returned when a mirror store is not provided.
	ErrMirrorStoreRequired = errors.New("mirror store required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrVectorStoreRequired is returned when a vector store is not provided.
	ErrVectorStoreRequired = errors.New("vector store required")
)
