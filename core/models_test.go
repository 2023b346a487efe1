package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Category
		wantErr bool
	}{
		{"sporting", "sporting", CategorySporting, false},
		{"uppercase", "TECHNICAL", CategoryTechnical, false},
		{"padded", "  financial ", CategoryFinancial, false},
		{"related", "related", CategoryRelated, false},
		{"unknown", "aerodynamic", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCategory(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCategory)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategoryFromKey(t *testing.T) {
	cat, err := CategoryFromKey("sporting/fia_2024_sporting.pdf")
	require.NoError(t, err)
	assert.Equal(t, CategorySporting, cat)

	_, err = CategoryFromKey("no-prefix.pdf")
	assert.ErrorIs(t, err, ErrInvalidCategory)

	_, err = CategoryFromKey("unknown/doc.pdf")
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestDocumentID(t *testing.T) {
	doc := Document{Key: "technical/fia_2024_technical.pdf", Category: CategoryTechnical}
	assert.Equal(t, "technical/fia_2024_technical", doc.ID())

	// No extension stays unchanged.
	doc = Document{Key: "technical/fia_2024_technical"}
	assert.Equal(t, "technical/fia_2024_technical", doc.ID())
}

func TestChunkID(t *testing.T) {
	chunk := Chunk{DocumentID: "sporting/doc", Seq: 3, Text: "x"}
	assert.Equal(t, "sporting/doc_chunk_3", chunk.ID())
	assert.Equal(t, "sporting/doc_chunk_1", ChunkID("sporting/doc", 1))
}

func TestMetric(t *testing.T) {
	assert.True(t, MetricCosine.Valid())
	assert.True(t, MetricEuclidean.Valid())
	assert.False(t, Metric("dotproduct").Valid())

	assert.True(t, MetricCosine.Descending())
	assert.False(t, MetricEuclidean.Descending())
}

func TestIndexName(t *testing.T) {
	assert.Equal(t, "sporting-regulations-embeddings", IndexName(CategorySporting))
	assert.Equal(t, "related-regulations-embeddings", IndexName(CategoryRelated))
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint("the rear wing must not exceed")
	b := Fingerprint("the rear wing must not exceed")
	c := Fingerprint("different text")

	assert.Equal(t, a, b, "identical content must fingerprint identically")
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 16) // 8 bytes hex-encoded
}
