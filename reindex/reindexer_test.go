package reindex

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paddockpal/paddock/ai/mock"
	"github.com/paddockpal/paddock/core"
	"github.com/paddockpal/paddock/objstore"
	"github.com/paddockpal/paddock/objstore/fs"
	badgerstore "github.com/paddockpal/paddock/vecstore/badger"
)

func newMirror(t *testing.T) objstore.Store {
	t.Helper()
	mirror, err := fs.New(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { mirror.Close() })
	return mirror
}

func newVectors(t *testing.T) *badgerstore.Store {
	t.Helper()
	vectors, err := badgerstore.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { vectors.Close() })
	return vectors
}

func seedMirror(t *testing.T, mirror objstore.Store, category core.Category, doc string, chunks int) {
	t.Helper()
	ctx := context.Background()
	docID := string(category) + "/" + doc
	for seq := 1; seq <= chunks; seq++ {
		key := objstore.ChunkTextKey(category, docID, seq)
		require.NoError(t, mirror.Put(ctx, key, []byte(fmt.Sprintf("%s chunk %d text", doc, seq))))
		// Mirrors also hold embedding JSON; the reindexer must skip it.
		require.NoError(t, mirror.Put(ctx, objstore.EmbeddingKey(category, docID, seq), []byte(`{}`)))
	}
}

func TestReindexerRun(t *testing.T) {
	ctx := context.Background()
	mirror := newMirror(t)
	vectors := newVectors(t)

	seedMirror(t, mirror, core.CategorySporting, "fia_2026", 3)
	seedMirror(t, mirror, core.CategorySporting, "fia_2025", 2)

	embedder := &mock.MockEmbedder{Dimension: 8}
	var out bytes.Buffer
	reindexer, err := NewReindexer(mirror, embedder, vectors, &Config{
		BatchSize:      2,
		ReportInterval: 1,
		MaxRetries:     2,
		RetryDelay:     time.Millisecond,
	}, &out)
	require.NoError(t, err)

	target := core.IndexSpec{Name: "sporting-regulations-embeddings-v2", Dimension: 8, Metric: core.MetricCosine}
	require.NoError(t, reindexer.Run(ctx, core.CategorySporting, target))

	query, err := embedder.EmbedText(ctx, "fia_2026 chunk 1 text")
	require.NoError(t, err)
	matches, err := vectors.Query(ctx, target.Name, query, 10)
	require.NoError(t, err)
	require.Len(t, matches, 5)

	ids := make(map[string]bool)
	for _, match := range matches {
		ids[match.ID] = true
		assert.Equal(t, "sporting", match.Metadata[core.MetaCategory])
		assert.NotEmpty(t, match.Metadata[core.MetaText])
	}
	assert.True(t, ids["sporting/fia_2026_chunk_1"])
	assert.True(t, ids["sporting/fia_2025_chunk_2"])

	assert.Contains(t, out.String(), "Reindex complete")
}

func TestReindexerNormalizes(t *testing.T) {
	ctx := context.Background()
	mirror := newMirror(t)
	vectors := newVectors(t)

	seedMirror(t, mirror, core.CategoryTechnical, "aero", 1)

	embedder := &mock.MockEmbedder{
		EmbedTextsFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
			out := make([][]float32, len(texts))
			for i := range texts {
				out[i] = []float32{3, 4} // magnitude 5
			}
			return out, nil
		},
	}

	config := DefaultConfig()
	config.Normalize = true
	reindexer, err := NewReindexer(mirror, embedder, vectors, config, &bytes.Buffer{})
	require.NoError(t, err)

	target := core.IndexSpec{Name: "technical-regulations-embeddings", Dimension: 2, Metric: core.MetricCosine}
	require.NoError(t, reindexer.Run(ctx, core.CategoryTechnical, target))

	matches, err := vectors.Query(ctx, target.Name, []float32{0.6, 0.8}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-5)
}

func TestReindexerDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	mirror := newMirror(t)
	vectors := newVectors(t)

	seedMirror(t, mirror, core.CategoryFinancial, "caps", 1)

	embedder := &mock.MockEmbedder{Dimension: 4}
	reindexer, err := NewReindexer(mirror, embedder, vectors, &Config{
		BatchSize:  10,
		MaxRetries: 1,
		RetryDelay: time.Millisecond,
	}, &bytes.Buffer{})
	require.NoError(t, err)

	target := core.IndexSpec{Name: "financial-regulations-embeddings", Dimension: 8, Metric: core.MetricCosine}
	err = reindexer.Run(ctx, core.CategoryFinancial, target)
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)
}

func TestReindexerEmptyCategory(t *testing.T) {
	mirror := newMirror(t)
	vectors := newVectors(t)

	var out bytes.Buffer
	reindexer, err := NewReindexer(mirror, &mock.MockEmbedder{}, vectors, nil, &out)
	require.NoError(t, err)

	target := core.IndexSpec{Name: "related-regulations-embeddings", Dimension: 4, Metric: core.MetricCosine}
	require.NoError(t, reindexer.Run(context.Background(), core.CategoryRelated, target))
	assert.Contains(t, out.String(), "No mirrored chunks")
}

func TestNewReindexerValidation(t *testing.T) {
	mirror := newMirror(t)
	vectors := newVectors(t)
	embedder := &mock.MockEmbedder{}

	_, err := NewReindexer(nil, embedder, vectors, nil, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrMirrorStoreRequired)

	_, err = NewReindexer(mirror, nil, vectors, nil, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewReindexer(mirror, embedder, nil, nil, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrVectorStoreRequired)
}
