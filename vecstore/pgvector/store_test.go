package pgvector

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paddockpal/paddock/core"
)

func TestTableName(t *testing.T) {
	tests := []struct {
		index string
		want  string
	}{
		{"sporting-regulations-embeddings", "vs_sporting_regulations_embeddings"},
		{"Technical-Regulations-Embeddings", "vs_technical_regulations_embeddings"},
		{"related_docs", "vs_related_docs"},
		{"a b;drop", "vs_a_b_drop"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tableName(tt.index))
	}
}

func TestTableNameCoversCategories(t *testing.T) {
	seen := map[string]bool{}
	for _, category := range core.Categories() {
		name := tableName(core.IndexName(category))
		assert.False(t, seen[name], "table names must be unique per category")
		seen[name] = true
	}
}

func TestNewRequiresDSN(t *testing.T) {
	_, err := New("")
	assert.ErrorIs(t, err, core.ErrConfiguration)
}
