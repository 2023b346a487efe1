package paddock

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paddockpal/paddock/ai"
	"github.com/paddockpal/paddock/ai/mock"
	"github.com/paddockpal/paddock/core"
	"github.com/paddockpal/paddock/ingest"
	"github.com/paddockpal/paddock/objstore/fs"
	badgerstore "github.com/paddockpal/paddock/vecstore/badger"
)

type fixedExtractor struct {
	text string
}

func (f *fixedExtractor) Extract(ctx context.Context, key string, data []byte) (string, error) {
	return f.text, nil
}

func newTestAssistant(t *testing.T) (*Assistant, *mock.MockProvider) {
	t.Helper()
	docs, err := fs.New(t.TempDir())
	require.NoError(t, err)

	vectors, err := badgerstore.NewMemoryStore()
	require.NoError(t, err)

	provider := mock.NewMockProvider()
	provider.MockEmbedder.Dimension = 8

	assistant, err := NewAssistant(docs, vectors,
		WithProvider(provider),
		WithAIConfig(ai.NewConfig(
			ai.WithToken("test-token"),
			ai.WithEmbeddingModel("all-MiniLM-L6-v2"),
			ai.WithDimension(8),
		)),
		WithExtractor(&fixedExtractor{text: strings.Repeat("r", 4500)}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { assistant.Close() })
	return assistant, provider
}

func TestAssistantIngestThenAsk(t *testing.T) {
	ctx := context.Background()
	assistant, provider := newTestAssistant(t)

	require.NoError(t, assistant.DocumentStore().Put(ctx, "sporting/fia_2026.pdf", []byte("%PDF-fake")))

	pipeline, err := assistant.NewIngestionPipeline(ingest.WithMode(ingest.ModeSequential))
	require.NoError(t, err)
	defer pipeline.Release()

	report, err := pipeline.Run(ctx, core.CategorySporting)
	require.NoError(t, err)
	assert.Equal(t, 0, report.FailedCount())
	assert.Equal(t, 3, report.Results[0].Chunks)

	service, err := assistant.NewAnswerService(ctx)
	require.NoError(t, err)

	provider.MockChat.Response = "The power unit is covered by the technical regulations."
	result, err := service.Ask(ctx, "What covers the power unit?")
	require.NoError(t, err)
	assert.Equal(t, provider.MockChat.Response, result.Text)
	assert.NotEmpty(t, result.Passages)
}

func TestAssistantRejectsInvalidAIConfig(t *testing.T) {
	docs, err := fs.New(t.TempDir())
	require.NoError(t, err)
	defer docs.Close()

	vectors, err := badgerstore.NewMemoryStore()
	require.NoError(t, err)
	defer vectors.Close()

	// Missing token.
	_, err = NewAssistant(docs, vectors, WithAIConfig(ai.NewConfig(
		ai.WithEmbeddingModel("text-embedding-3-small"),
	)))
	assert.ErrorIs(t, err, core.ErrConfiguration)
}
