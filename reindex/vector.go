package reindex

import "math"

// NormalizeVector scales v to unit length and returns the result as a new
// slice, leaving v untouched. A zero vector has no direction and comes back
// as all zeros.
func NormalizeVector(v []float32) []float32 {
	out := make([]float32, len(v))

	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return out
	}

	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}
