package vecstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paddockpal/paddock/core"
)

func TestIndexSpecRoundTrip(t *testing.T) {
	spec := &core.IndexSpec{
		Name:      "sporting-regulations-embeddings",
		Dimension: 1536,
		Metric:    core.MetricCosine,
	}

	data := MarshalIndexSpec(spec)
	got, err := UnmarshalIndexSpec(data)
	require.NoError(t, err)
	assert.Equal(t, spec, got)
}

func TestRecordRoundTrip(t *testing.T) {
	record := &core.EmbeddingRecord{
		ID:     "sporting/fia_2026_chunk_3",
		Vector: []float32{0.25, -1.5, 0, 3.75},
		Metadata: map[string]string{
			"category": "sporting",
			"s3_key":   "sporting/fia_2026.pdf",
			"text":     "Article 54.2 applies during safety car periods.",
		},
	}

	data := MarshalRecord(record)
	got, err := UnmarshalRecord(data)
	require.NoError(t, err)
	assert.Equal(t, record, got)
}

func TestRecordRoundTripEmptyMetadata(t *testing.T) {
	record := &core.EmbeddingRecord{ID: "x", Vector: []float32{1}}

	got, err := UnmarshalRecord(MarshalRecord(record))
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)
	assert.Equal(t, record.Vector, got.Vector)
	assert.Empty(t, got.Metadata)
}

func TestUnmarshalRecordCorrupt(t *testing.T) {
	_, err := UnmarshalRecord([]byte{0xff, 0xff, 0xff, 0xff, 0xff})
	assert.Error(t, err)
}
