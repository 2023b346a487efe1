package objstore

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/paddockpal/paddock/core"
)

// Key conventions. Source documents live at "{category}/{name}.pdf"; the
// ingestion mirror stores chunk text at "{category}/{name}_chunk_{n}.txt"
// and the embedding record JSON alongside at ".json".

// DocumentPrefix returns the listing prefix for a category's source PDFs.
func DocumentPrefix(c core.Category) string {
	return string(c) + "/"
}

// IsPDF reports whether a key names a source document.
func IsPDF(key string) bool {
	return strings.HasSuffix(strings.ToLower(key), ".pdf")
}

// IsChunkText reports whether a key names a mirrored chunk text object.
func IsChunkText(key string) bool {
	return strings.Contains(path.Base(key), "_chunk_") && strings.HasSuffix(key, ".txt")
}

// ChunkTextKey returns the mirror key for a chunk's text. The document id's
// own category prefix is dropped so mirror keys never nest directories.
func ChunkTextKey(c core.Category, documentID string, seq int) string {
	return fmt.Sprintf("%s/%s_chunk_%d.txt", c, path.Base(documentID), seq)
}

// EmbeddingKey returns the mirror key for a chunk's embedding record JSON.
func EmbeddingKey(c core.Category, documentID string, seq int) string {
	return fmt.Sprintf("%s/%s_chunk_%d.json", c, path.Base(documentID), seq)
}

// ParseChunkTextKey splits a mirrored chunk text key back into the document
// id and 1-based sequence number it was written for. Returns ok=false for
// keys that do not follow the chunk text convention.
func ParseChunkTextKey(key string) (documentID string, seq int, ok bool) {
	if !IsChunkText(key) {
		return "", 0, false
	}
	trimmed := strings.TrimSuffix(key, ".txt")
	i := strings.LastIndex(trimmed, "_chunk_")
	if i < 0 {
		return "", 0, false
	}
	seq, err := strconv.Atoi(trimmed[i+len("_chunk_"):])
	if err != nil || seq < 1 {
		return "", 0, false
	}
	return trimmed[:i], seq, true
}
