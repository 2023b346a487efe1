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

package reindex

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/paddockpal/paddock/ai"
	"github.com/paddockpal/paddock/core"
	"github.com/paddockpal/paddock/ingest"
	"github.com/paddockpal/paddock/objstore"
	"github.com/paddockpal/paddock/vecstore"
)

// Config holds configuration for a reindexing operation.
type Config struct {
	// BatchSize is the number of chunks to embed in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of chunks)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for embedding calls
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// Normalize scales vectors to unit length before upserting, which
	// target stores using dot-product shortcuts for cosine rely on.
	Normalize bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reindexer re-embeds mirrored chunk text into a target index. It is the
// migration path between embedding models: the chunk text mirrored during
// ingestion is embedded with the current embedder, so the source PDFs never
// need to be extracted again.
type Reindexer struct {
	mirror   objstore.Store
	embedder ai.Embedder
	store    vecstore.Store
	config   *Config
	progress io.Writer
	logger   *slog.Logger
}

// NewReindexer creates a new reindexer.
// progress: where to write progress output (typically os.Stderr)
func NewReindexer(mirror objstore.Store, embedder ai.Embedder, store vecstore.Store, config *Config, progress io.Writer) (*Reindexer, error) {
	if mirror == nil {
		return nil, ErrMirrorStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if store == nil {
		return nil, ErrVectorStoreRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultConfig().BatchSize
	}

	return &Reindexer{
		mirror:   mirror,
		embedder: embedder,
		store:    store,
		config:   config,
		progress: progress,
		logger:   slog.Default().With("component", "reindexer"),
	}, nil
}

// Run re-embeds all mirrored chunks of a category into the target index.
// The target index is created if absent; an existing target with a
// different dimension or metric fails before any chunk is read.
func (r *Reindexer) Run(ctx context.Context, category core.Category, target core.IndexSpec) error {
	if err := r.store.EnsureIndex(ctx, target); err != nil {
		return fmt.Errorf("ensure target index %s: %w", target.Name, err)
	}

	chunks, err := r.listChunks(ctx, category)
	if err != nil {
		return fmt.Errorf("list mirrored chunks: %w", err)
	}
	if len(chunks) == 0 {
		fmt.Fprintf(r.progress, "No mirrored chunks found for category %s\n", category)
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reindex of %d chunks into %s (batch size: %d)\n",
		len(chunks), target.Name, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, len(chunks), r.config.ReportInterval)
	tracker.Start()

	processed := 0
	for start := 0; start < len(chunks); start += r.config.BatchSize {
		end := start + r.config.BatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		if err := r.processBatch(ctx, category, target, chunks[start:end]); err != nil {
			return err
		}
		processed += end - start
		tracker.Update(processed)
	}

	tracker.Finish()
	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reindex complete. Processed %d chunks in %v (%.1f chunks/sec)\n",
		len(chunks), elapsed.Round(time.Second), float64(len(chunks))/elapsed.Seconds())
	return nil
}

// mirroredChunk pairs a chunk id with the key its text lives under.
type mirroredChunk struct {
	id  string
	key string
}

func (r *Reindexer) listChunks(ctx context.Context, category core.Category) ([]mirroredChunk, error) {
	objects, err := r.mirror.List(ctx, objstore.DocumentPrefix(category))
	if err != nil {
		return nil, err
	}

	var chunks []mirroredChunk
	for _, object := range objects {
		documentID, seq, ok := objstore.ParseChunkTextKey(object.Key)
		if !ok {
			continue
		}
		chunks = append(chunks, mirroredChunk{
			id:  core.ChunkID(documentID, seq),
			key: object.Key,
		})
	}
	return chunks, nil
}

func (r *Reindexer) processBatch(ctx context.Context, category core.Category, target core.IndexSpec, chunks []mirroredChunk) error {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		data, err := r.mirror.Get(ctx, c.key)
		if err != nil {
			return fmt.Errorf("read chunk %s: %w", c.key, err)
		}
		texts[i] = string(data)
	}

	var vectors [][]float32
	err := ingest.RetryWithBackoff(ctx, func() error {
		var embedErr error
		vectors, embedErr = r.embedder.EmbedTexts(ctx, texts)
		return embedErr
	}, r.config.MaxRetries, r.config.RetryDelay, r.logger)
	if err != nil {
		return fmt.Errorf("embed batch after %d attempts: %w", r.config.MaxRetries, err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d: %w",
			len(chunks), len(vectors), core.ErrEmbeddingFailed)
	}

	records := make([]core.EmbeddingRecord, len(chunks))
	for i, c := range chunks {
		if err := target.CheckDimension(vectors[i]); err != nil {
			return fmt.Errorf("chunk %s: %w", c.id, err)
		}
		vector := vectors[i]
		if r.config.Normalize {
			vector = NormalizeVector(vector)
		}
		records[i] = core.EmbeddingRecord{
			ID:     c.id,
			Vector: vector,
			Metadata: map[string]string{
				core.MetaCategory:  string(category),
				core.MetaSourceKey: c.key,
				core.MetaText:      texts[i],
			},
		}
	}

	if err := r.store.Upsert(ctx, target.Name, records); err != nil {
		return fmt.Errorf("upsert batch: %w", err)
	}
	return nil
}
