package vecstore

import (
	"testing"

	"github.com/paddockpal/paddock/core"
	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-6)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-6)

	// Degenerate inputs score zero.
	assert.Zero(t, CosineSimilarity([]float32{1, 0}, []float32{1}))
	assert.Zero(t, CosineSimilarity([]float32{0, 0}, []float32{1, 1}))
	assert.Zero(t, CosineSimilarity(nil, nil))
}

func TestEuclideanDistance(t *testing.T) {
	assert.InDelta(t, 5.0, EuclideanDistance([]float32{0, 0}, []float32{3, 4}), 1e-6)
	assert.InDelta(t, 0.0, EuclideanDistance([]float32{1, 2}, []float32{1, 2}), 1e-6)
	assert.True(t, EuclideanDistance([]float32{1}, []float32{1, 2}) > 1e30)
}

func TestBetter(t *testing.T) {
	assert.True(t, Better(core.MetricCosine, 0.9, 0.5))
	assert.False(t, Better(core.MetricCosine, 0.5, 0.9))

	assert.True(t, Better(core.MetricEuclidean, 0.5, 0.9))
	assert.False(t, Better(core.MetricEuclidean, 0.9, 0.5))
}
