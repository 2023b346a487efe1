package core

import "fmt"

// Validate checks that a document carries a key and a known category.
func (d Document) Validate() error {
	if d.Key == "" {
		return fmt.Errorf("%w: document key is empty", ErrConfiguration)
	}
	if _, err := ParseCategory(string(d.Category)); err != nil {
		return err
	}
	return nil
}

// Validate checks that a chunk has a parent, a positive sequence, and text.
func (c Chunk) Validate() error {
	if c.DocumentID == "" {
		return fmt.Errorf("%w: chunk has no document id", ErrConfiguration)
	}
	if c.Seq < 1 {
		return fmt.Errorf("%w: chunk sequence %d is not 1-based", ErrConfiguration, c.Seq)
	}
	if c.Text == "" {
		return ErrEmptyText
	}
	return nil
}

// Validate checks an index spec: non-empty name, positive dimension, and a
// supported metric.
func (s IndexSpec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: index name is empty", ErrConfiguration)
	}
	if s.Dimension <= 0 {
		return fmt.Errorf("%w: index %q dimension %d", ErrConfiguration, s.Name, s.Dimension)
	}
	if !s.Metric.Valid() {
		return fmt.Errorf("%w: index %q metric %q", ErrConfiguration, s.Name, s.Metric)
	}
	return nil
}

// CheckDimension verifies a vector against the spec's dimension.
// Returns ErrDimensionMismatch on any difference, before any store call.
func (s IndexSpec) CheckDimension(vector []float32) error {
	if len(vector) != s.Dimension {
		return fmt.Errorf("%w: index %q expects %d, got %d",
			ErrDimensionMismatch, s.Name, s.Dimension, len(vector))
	}
	return nil
}
