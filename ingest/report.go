package ingest

import (
	"github.com/paddockpal/paddock/core"
)

// Stage tracks how far a document made it through the pipeline.
type Stage string

const (
	StageDiscovered Stage = "discovered"
	StageDownloaded Stage = "downloaded"
	StageExtracted  Stage = "extracted"
	StageChunked    Stage = "chunked"
	StageEmbedded   Stage = "embedded"
	StageUpserted   Stage = "upserted"
	StageDone       Stage = "done"
	StageFailed     Stage = "failed"
)

// DocumentResult records the outcome of one document. On failure, Stage
// is StageFailed and LastStage holds the last stage that completed.
type DocumentResult struct {
	Key       string
	Category  core.Category
	Stage     Stage
	LastStage Stage
	Chunks    int
	Err       error
}

// Failed reports whether the document did not complete the pipeline.
func (r DocumentResult) Failed() bool {
	return r.Stage == StageFailed
}

// Report aggregates per-document results for an ingestion run.
type Report struct {
	Results []DocumentResult
}

// Succeeded returns the number of documents that completed the pipeline.
func (r *Report) Succeeded() int {
	return len(r.Results) - r.FailedCount()
}

// FailedCount returns the number of documents that failed.
func (r *Report) FailedCount() int {
	n := 0
	for _, result := range r.Results {
		if result.Failed() {
			n++
		}
	}
	return n
}

// Failures returns the results of failed documents.
func (r *Report) Failures() []DocumentResult {
	var failed []DocumentResult
	for _, result := range r.Results {
		if result.Failed() {
			failed = append(failed, result)
		}
	}
	return failed
}
