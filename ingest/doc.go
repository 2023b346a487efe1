// Package ingest provides pipeline orchestration for processing regulation
// documents.
//
// The Pipeline type manages the ingestion workflow for a category of
// documents, including:
//   - Listing source PDFs from the object store
//   - Extracting text (remote OCR or local conversion)
//   - Chunking, embedding and upserting into the category's vector index
//   - Mirroring chunk text and embedding records back to the object store
//
// Documents are processed concurrently using a worker pool by default. A
// failure in one document is recorded in the run report and never aborts
// the rest of the batch.
package ingest
