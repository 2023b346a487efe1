// Package local implements the local-conversion extraction strategy: the
// PDF is parsed in process and exported as text in one call, with no remote
// job or polling.
package local

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/paddockpal/paddock/core"
	"github.com/paddockpal/paddock/extract"
	"github.com/tmc/langchaingo/documentloaders"
)

// Converter extracts text from PDF bytes using an in-process parser.
type Converter struct {
	logger *slog.Logger
}

var _ extract.Extractor = (*Converter)(nil)

// New creates a local converter.
func New() *Converter {
	return &Converter{
		logger: slog.Default().With("component", "local-converter"),
	}
}

// Extract parses the PDF and returns its pages joined as plain text.
func (c *Converter) Extract(ctx context.Context, key string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: %s is empty", core.ErrNotFound, key)
	}

	loader := documentloaders.NewPDF(bytes.NewReader(data), int64(len(data)))
	docs, err := loader.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: parsing %s: %v", core.ErrExtractionFailed, key, err)
	}

	pages := make([]string, 0, len(docs))
	for _, doc := range docs {
		content := strings.TrimSpace(doc.PageContent)
		if content == "" {
			continue
		}
		pages = append(pages, content)
	}
	if len(pages) == 0 {
		return "", fmt.Errorf("%w: %s produced no text", core.ErrExtractionFailed, key)
	}

	text := strings.Join(pages, "\n\n")
	c.logger.Debug("converted document", "key", key, "pages", len(pages), "chars", len(text))
	return text, nil
}
