// Package reindex re-embeds mirrored chunk text into a target vector index
// with a new or updated embedding model.
//
// This package supports batch processing of mirrored chunks, progress
// tracking, retry logic with exponential backoff, and vector normalization
// for stores that assume unit-length vectors under cosine similarity.
package reindex
