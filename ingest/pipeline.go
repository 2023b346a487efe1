// Copyright 2025 Paddock Pal
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/paddockpal/paddock/ai"
	"github.com/paddockpal/paddock/chunk"
	"github.com/paddockpal/paddock/core"
	"github.com/paddockpal/paddock/extract"
	"github.com/paddockpal/paddock/objstore"
	"github.com/paddockpal/paddock/vecstore"
)

// Mode selects how documents within a category are processed.
type Mode int

const (
	// ModeConcurrent processes documents on a bounded worker pool.
	ModeConcurrent Mode = iota
	// ModeSequential processes documents one at a time in listing order.
	ModeSequential
)

// DefaultBatchSize is the number of chunks embedded and upserted per batch.
const DefaultBatchSize = 10

const (
	defaultRetryAttempts = 3
	defaultRetryDelay    = time.Second
)

// Pipeline ingests regulation documents: download, extract, chunk, embed,
// upsert into the category's vector index, and mirror chunk text and
// embedding records back to the object store. One document failing never
// aborts the rest of the run.
type Pipeline struct {
	docs      objstore.Store
	mirror    objstore.Store
	extractor extract.Extractor
	embedder  ai.Embedder
	store     vecstore.Store

	dimension     int
	metric        core.Metric
	chunkSize     int
	batchSize     int
	mode          Mode
	pool          *ants.Pool
	retryAttempts int
	retryDelay    time.Duration
	logger        *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithMode sets the execution mode. Default is ModeConcurrent.
func WithMode(mode Mode) Option {
	return func(p *Pipeline) error {
		p.mode = mode
		return nil
	}
}

// WithMirrorStore mirrors chunk text and embedding JSON to a different
// store than the one documents are read from. Default mirrors back to the
// document store.
func WithMirrorStore(mirror objstore.Store) Option {
	return func(p *Pipeline) error {
		p.mirror = mirror
		return nil
	}
}

// WithChunkSize sets the chunk size in characters. Default is
// chunk.DefaultSize.
func WithChunkSize(size int) Option {
	return func(p *Pipeline) error {
		if size <= 0 {
			return fmt.Errorf("chunk size %d: %w", size, core.ErrConfiguration)
		}
		p.chunkSize = size
		return nil
	}
}

// WithBatchSize sets how many chunks are embedded and upserted per batch.
// Default is DefaultBatchSize.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size <= 0 {
			return fmt.Errorf("batch size %d: %w", size, core.ErrConfiguration)
		}
		p.batchSize = size
		return nil
	}
}

// WithMetric sets the metric used when creating category indexes.
// Default is cosine.
func WithMetric(metric core.Metric) Option {
	return func(p *Pipeline) error {
		if !metric.Valid() {
			return fmt.Errorf("metric %q: %w", metric, core.ErrConfiguration)
		}
		p.metric = metric
		return nil
	}
}

// WithRetry sets the retry policy around embedding calls.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(p *Pipeline) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		p.retryAttempts = maxAttempts
		p.retryDelay = baseDelay
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates an ingestion pipeline. dimension is the embedding
// dimension enforced on every vector before it reaches the store.
func NewPipeline(
	docs objstore.Store,
	extractor extract.Extractor,
	embedder ai.Embedder,
	store vecstore.Store,
	dimension int,
	opts ...Option,
) (*Pipeline, error) {
	if docs == nil {
		return nil, ErrDocumentStoreRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if store == nil {
		return nil, ErrVectorStoreRequired
	}
	if dimension <= 0 {
		return nil, fmt.Errorf("dimension %d: %w", dimension, core.ErrConfiguration)
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		docs:          docs,
		mirror:        docs,
		extractor:     extractor,
		embedder:      embedder,
		store:         store,
		dimension:     dimension,
		metric:        core.MetricCosine,
		chunkSize:     chunk.DefaultSize,
		batchSize:     DefaultBatchSize,
		mode:          ModeConcurrent,
		pool:          pool,
		retryAttempts: defaultRetryAttempts,
		retryDelay:    defaultRetryDelay,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Release releases the worker pool. The pipeline should not be used after
// calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// Run ingests all documents of the given categories. Indexes are ensured
// before any document work. The returned report has one entry per
// discovered document; per-document failures are collected, not fatal.
// An error is returned only when the run itself cannot proceed (index
// creation or listing fails).
func (p *Pipeline) Run(ctx context.Context, categories ...core.Category) (*Report, error) {
	if len(categories) == 0 {
		categories = core.Categories()
	}

	report := &Report{}
	for _, category := range categories {
		spec := core.IndexSpec{
			Name:      core.IndexName(category),
			Dimension: p.dimension,
			Metric:    p.metric,
		}
		if err := p.store.EnsureIndex(ctx, spec); err != nil {
			return nil, fmt.Errorf("ensure index %s: %w", spec.Name, err)
		}

		documents, err := p.discover(ctx, category)
		if err != nil {
			return nil, fmt.Errorf("list %s documents: %w", category, err)
		}

		results := p.processAll(ctx, spec.Name, documents)
		report.Results = append(report.Results, results...)
	}

	p.logger.Info("ingestion run complete",
		"documents", len(report.Results),
		"succeeded", report.Succeeded(),
		"failed", report.FailedCount())
	return report, nil
}

// discover lists the source PDFs of a category.
func (p *Pipeline) discover(ctx context.Context, category core.Category) ([]core.Document, error) {
	objects, err := p.docs.List(ctx, objstore.DocumentPrefix(category))
	if err != nil {
		return nil, err
	}

	var documents []core.Document
	for _, object := range objects {
		if !objstore.IsPDF(object.Key) {
			continue
		}
		documents = append(documents, core.Document{
			Key:      object.Key,
			Category: category,
			Size:     object.Size,
		})
	}
	return documents, nil
}

func (p *Pipeline) processAll(ctx context.Context, index string, documents []core.Document) []DocumentResult {
	if p.mode == ModeSequential {
		results := make([]DocumentResult, 0, len(documents))
		for _, document := range documents {
			results = append(results, p.processDocument(ctx, index, document))
		}
		return results
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make([]DocumentResult, len(documents))
	)
	for i, document := range documents {
		i, document := i, document
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			result := p.processDocument(ctx, index, document)
			mu.Lock()
			results[i] = result
			mu.Unlock()
		})
		if err != nil {
			// Pool rejected the task (released or overloaded); record the
			// failure in line with per-document isolation.
			results[i] = failed(document, StageDiscovered, err)
			wg.Done()
		}
	}
	wg.Wait()
	return results
}

// processDocument runs one document through the stage machine.
func (p *Pipeline) processDocument(ctx context.Context, index string, document core.Document) DocumentResult {
	logger := p.logger.With("key", document.Key, "category", document.Category)

	data, err := p.docs.Get(ctx, document.Key)
	if err != nil {
		logger.Error("download failed", "err", err)
		return failed(document, StageDiscovered, err)
	}

	text, err := p.extractor.Extract(ctx, document.Key, data)
	if err != nil {
		logger.Error("text extraction failed", "err", err)
		return failed(document, StageDownloaded, err)
	}

	chunks, err := chunk.Split(document.ID(), text, p.chunkSize)
	if err != nil {
		logger.Error("chunking failed", "err", err)
		return failed(document, StageExtracted, err)
	}
	logger.Debug("document chunked", "chunks", len(chunks))

	for start := 0; start < len(chunks); start += p.batchSize {
		end := start + p.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		if err := p.processBatch(ctx, index, document, chunks[start:end]); err != nil {
			logger.Error("batch failed", "batchStart", start, "err", err)
			result := failed(document, StageChunked, err)
			result.Chunks = start
			return result
		}
	}

	logger.Info("document ingested", "chunks", len(chunks))
	return DocumentResult{
		Key:       document.Key,
		Category:  document.Category,
		Stage:     StageDone,
		LastStage: StageDone,
		Chunks:    len(chunks),
	}
}

// processBatch embeds one batch of chunks, upserts the records and mirrors
// chunk text plus embedding JSON.
func (p *Pipeline) processBatch(ctx context.Context, index string, document core.Document, chunks []core.Chunk) error {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	var vectors [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var embedErr error
		vectors, embedErr = p.embedder.EmbedTexts(ctx, texts)
		return embedErr
	}, p.retryAttempts, p.retryDelay, p.logger)
	if err != nil {
		return fmt.Errorf("embed batch: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embed batch: got %d vectors for %d chunks: %w",
			len(vectors), len(chunks), core.ErrEmbeddingFailed)
	}

	records := make([]core.EmbeddingRecord, len(chunks))
	for i, c := range chunks {
		if len(vectors[i]) != p.dimension {
			return fmt.Errorf("chunk %s: expected dimension %d, got %d: %w",
				c.ID(), p.dimension, len(vectors[i]), core.ErrDimensionMismatch)
		}
		records[i] = core.EmbeddingRecord{
			ID:     c.ID(),
			Vector: vectors[i],
			Metadata: map[string]string{
				core.MetaCategory:  string(document.Category),
				core.MetaSourceKey: document.Key,
				core.MetaText:      c.Text,
			},
		}
	}

	if err := p.store.Upsert(ctx, index, records); err != nil {
		return fmt.Errorf("upsert batch: %w", err)
	}

	for i, c := range chunks {
		if err := p.mirrorChunk(ctx, document, c, &records[i]); err != nil {
			return fmt.Errorf("mirror chunk %s: %w", c.ID(), err)
		}
	}
	return nil
}

func failed(document core.Document, lastStage Stage, err error) DocumentResult {
	return DocumentResult{
		Key:       document.Key,
		Category:  document.Category,
		Stage:     StageFailed,
		LastStage: lastStage,
		Err:       err,
	}
}
