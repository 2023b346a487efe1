package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/paddockpal/paddock/core"
	"github.com/paddockpal/paddock/objstore"
)

// embeddingPayload is the mirror JSON written next to each chunk's text.
// Keeping the vector and metadata together makes the mirror sufficient to
// rebuild an index without re-embedding (see the reindex package).
type embeddingPayload struct {
	Embedding []float32         `json:"embedding"`
	Metadata  map[string]string `json:"metadata"`
}

// mirrorChunk writes the chunk text and its embedding record back to the
// mirror store.
func (p *Pipeline) mirrorChunk(ctx context.Context, document core.Document, c core.Chunk, record *core.EmbeddingRecord) error {
	textKey := objstore.ChunkTextKey(document.Category, c.DocumentID, c.Seq)
	if err := p.mirror.Put(ctx, textKey, []byte(c.Text)); err != nil {
		return fmt.Errorf("put %s: %w", textKey, err)
	}

	payload, err := json.Marshal(embeddingPayload{
		Embedding: record.Vector,
		Metadata:  record.Metadata,
	})
	if err != nil {
		return err
	}
	embeddingKey := objstore.EmbeddingKey(document.Category, c.DocumentID, c.Seq)
	if err := p.mirror.Put(ctx, embeddingKey, payload); err != nil {
		return fmt.Errorf("put %s: %w", embeddingKey, err)
	}
	return nil
}
