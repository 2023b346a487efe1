// Package extract defines the text extraction contract for regulation PDFs.
//
// Two interchangeable strategies implement it:
//
//   - extract/ocr: a remote OCR service (submit, poll with a deadline, fetch)
//   - extract/local: in-process PDF conversion, no polling
package extract

import "context"

// Extractor produces plain text from a source document's raw bytes.
// Implementations must be thread-safe: the orchestrator calls Extract from
// concurrent per-document workers.
type Extractor interface {
	// Extract returns the document's text. The key identifies the source
	// for logging and error context; data is the raw PDF content.
	//
	// Failure classification: a terminal-failed remote job wraps
	// core.ErrExtractionFailed, exhausted polling wraps core.ErrTimeout,
	// and network errors wrap core.ErrTransient so callers can retry.
	Extract(ctx context.Context, key string, data []byte) (string, error)
}
