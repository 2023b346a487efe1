package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentValidate(t *testing.T) {
	valid := Document{Key: "sporting/doc.pdf", Category: CategorySporting}
	assert.NoError(t, valid.Validate())

	assert.ErrorIs(t, Document{Category: CategorySporting}.Validate(), ErrConfiguration)
	assert.ErrorIs(t, Document{Key: "x.pdf", Category: "bogus"}.Validate(), ErrInvalidCategory)
}

func TestChunkValidate(t *testing.T) {
	valid := Chunk{DocumentID: "sporting/doc", Seq: 1, Text: "body"}
	assert.NoError(t, valid.Validate())

	assert.ErrorIs(t, Chunk{Seq: 1, Text: "x"}.Validate(), ErrConfiguration)
	assert.ErrorIs(t, Chunk{DocumentID: "d", Seq: 0, Text: "x"}.Validate(), ErrConfiguration)
	assert.ErrorIs(t, Chunk{DocumentID: "d", Seq: 1}.Validate(), ErrEmptyText)
}

func TestIndexSpecValidate(t *testing.T) {
	valid := IndexSpec{Name: "sporting-regulations-embeddings", Dimension: 1536, Metric: MetricCosine}
	assert.NoError(t, valid.Validate())

	assert.ErrorIs(t, IndexSpec{Dimension: 10, Metric: MetricCosine}.Validate(), ErrConfiguration)
	assert.ErrorIs(t, IndexSpec{Name: "n", Metric: MetricCosine}.Validate(), ErrConfiguration)
	assert.ErrorIs(t, IndexSpec{Name: "n", Dimension: 4, Metric: "taxicab"}.Validate(), ErrConfiguration)
}

func TestIndexSpecCheckDimension(t *testing.T) {
	spec := IndexSpec{Name: "n", Dimension: 3, Metric: MetricCosine}

	assert.NoError(t, spec.CheckDimension([]float32{1, 2, 3}))
	assert.ErrorIs(t, spec.CheckDimension([]float32{1, 2}), ErrDimensionMismatch)
	assert.ErrorIs(t, spec.CheckDimension(nil), ErrDimensionMismatch)
}
