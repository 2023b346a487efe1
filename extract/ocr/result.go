package ocr

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/paddockpal/paddock/core"
)

// resultDocument is the extraction result payload: line-level segments with
// their text content.
type resultDocument struct {
	Elements []resultElement `json:"elements"`
}

type resultElement struct {
	Text string `json:"Text"`
	Path string `json:"Path"`
}

// decodeResult turns the raw result JSON into plain text by concatenating
// the text fields of line-level segments, newline-joined.
func decodeResult(raw []byte) (string, error) {
	var doc resultDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("%w: malformed result payload: %v", core.ErrExtractionFailed, err)
	}

	lines := make([]string, 0, len(doc.Elements))
	for _, el := range doc.Elements {
		if el.Text == "" {
			continue
		}
		lines = append(lines, el.Text)
	}
	if len(lines) == 0 {
		return "", fmt.Errorf("%w: result contains no text elements", core.ErrExtractionFailed)
	}
	return strings.Join(lines, "\n"), nil
}
