package ai

import (
	"testing"

	"github.com/paddockpal/paddock/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig(WithToken("sk-test"))

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "https://api.openai.com/v1", cfg.Host)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	assert.Equal(t, 1536, cfg.Dimension, "dimension resolved from model table")
}

func TestConfigNormalizeHost(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{"missing suffix", "http://localhost:11434", "http://localhost:11434/v1"},
		{"trailing slash", "http://localhost:11434/", "http://localhost:11434/v1"},
		{"already canonical", "http://localhost:11434/v1", "http://localhost:11434/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig(WithHost(tt.host), WithToken("none"))
			cfg.Normalize()
			assert.Equal(t, tt.want, cfg.Host)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		cfg := NewConfig()
		assert.ErrorIs(t, cfg.Validate(), core.ErrConfiguration)
	})

	t.Run("unknown model without dimension", func(t *testing.T) {
		cfg := NewConfig(WithToken("sk"), WithEmbeddingModel("mystery-embedder"))
		assert.ErrorIs(t, cfg.Validate(), core.ErrConfiguration)
	})

	t.Run("unknown model with explicit dimension", func(t *testing.T) {
		cfg := NewConfig(WithToken("sk"), WithEmbeddingModel("mystery-embedder"), WithDimension(512))
		assert.NoError(t, cfg.Validate())
		assert.Equal(t, 512, cfg.Dimension)
	})

	t.Run("explicit dimension wins over table", func(t *testing.T) {
		cfg := NewConfig(WithToken("sk"), WithDimension(256))
		require.NoError(t, cfg.Validate())
		assert.Equal(t, 256, cfg.Dimension)
	})
}
