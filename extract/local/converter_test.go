package local

import (
	"context"
	"testing"

	"github.com/paddockpal/paddock/core"
	"github.com/stretchr/testify/assert"
)

func TestExtractEmptyInput(t *testing.T) {
	c := New()

	_, err := c.Extract(context.Background(), "sporting/doc.pdf", nil)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestExtractMalformedPDF(t *testing.T) {
	c := New()

	_, err := c.Extract(context.Background(), "sporting/doc.pdf", []byte("not a pdf"))
	assert.ErrorIs(t, err, core.ErrExtractionFailed)
}
