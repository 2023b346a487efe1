package vecstore

import (
	"math"

	"github.com/paddockpal/paddock/core"
)

// CosineSimilarity returns the cosine of the angle between two vectors:
// 1 for identical direction, 0 for orthogonal, -1 for opposite. Returns 0
// for mismatched lengths or zero vectors.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// EuclideanDistance returns the L2 distance between two vectors.
func EuclideanDistance(a, b []float32) float32 {
	if len(a) != len(b) {
		return float32(math.Inf(1))
	}

	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return float32(math.Sqrt(sum))
}

// Score computes the ranking score for a metric. Cosine scores rank
// descending; euclidean distances rank ascending, matching
// core.Metric.Descending.
func Score(metric core.Metric, a, b []float32) float32 {
	if metric == core.MetricEuclidean {
		return EuclideanDistance(a, b)
	}
	return CosineSimilarity(a, b)
}

// Better reports whether score x outranks score y under the metric.
func Better(metric core.Metric, x, y float32) bool {
	if metric.Descending() {
		return x > y
	}
	return x < y
}
