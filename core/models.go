package core

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// Category partitions regulation documents and their vector indexes.
type Category string

const (
	CategorySporting  Category = "sporting"
	CategoryTechnical Category = "technical"
	CategoryFinancial Category = "financial"
	CategoryRelated   Category = "related"
)

// Categories returns all known categories in listing order.
func Categories() []Category {
	return []Category{CategorySporting, CategoryTechnical, CategoryFinancial, CategoryRelated}
}

// ParseCategory converts a string into a Category.
// Returns ErrInvalidCategory for unknown labels.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories() {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// CategoryFromKey derives the category from an object-store key of the form
// "{category}/{document}". Returns ErrInvalidCategory if the prefix is not a
// known category.
func CategoryFromKey(key string) (Category, error) {
	prefix, _, found := strings.Cut(key, "/")
	if !found {
		return "", fmt.Errorf("%w: key %q has no category prefix", ErrInvalidCategory, key)
	}
	return ParseCategory(prefix)
}

// Document is a source regulation PDF held in the object store.
// Documents are created by the scrape/upload side and never mutated.
type Document struct {
	Key      string   // object-store key, e.g. "sporting/fia_2024_sporting.pdf"
	Category Category // partition label derived from the key prefix
	Size     int64    // object size in bytes, zero when unknown
}

// ID returns the document identifier used for chunk and record ids.
// It is the object-store key without its extension.
func (d Document) ID() string {
	key := d.Key
	if i := strings.LastIndex(key, "."); i > 0 {
		key = key[:i]
	}
	return key
}

// Chunk is a bounded slice of a document's extracted text, the unit submitted
// for embedding. Chunks are derived, immutable, and live only until their
// embedding record is persisted.
type Chunk struct {
	DocumentID string
	Seq        int // 1-based position within the document
	Text       string
}

// ID returns the chunk's record id, "{document}_chunk_{seq}".
func (c Chunk) ID() string {
	return ChunkID(c.DocumentID, c.Seq)
}

// ChunkID builds a record id from a document id and a 1-based chunk sequence.
func ChunkID(documentID string, seq int) string {
	return fmt.Sprintf("%s_chunk_%d", documentID, seq)
}

// EmbeddingRecord is a persisted embedding keyed by chunk id.
// Ids are unique within an index; re-upserting the same id overwrites.
type EmbeddingRecord struct {
	ID       string
	Vector   []float32
	Metadata map[string]string
}

// Metadata keys attached to embedding records.
const (
	MetaCategory  = "category"
	MetaSourceKey = "s3_key"
	MetaText      = "text"
)

// Metric is a vector index distance metric, fixed at index creation.
type Metric string

const (
	MetricCosine    Metric = "cosine"
	MetricEuclidean Metric = "euclidean"
)

// Valid reports whether the metric is one of the supported values.
func (m Metric) Valid() bool {
	return m == MetricCosine || m == MetricEuclidean
}

// Descending reports whether higher scores mean closer matches for this
// metric. Cosine similarity ranks descending; euclidean distance ascending.
func (m Metric) Descending() bool {
	return m == MetricCosine
}

// IndexSpec describes a named vector index partition. Dimension and metric
// are chosen at creation time and immutable thereafter.
type IndexSpec struct {
	Name      string
	Dimension int
	Metric    Metric
}

// IndexName returns the conventional index name for a category,
// e.g. "sporting-regulations-embeddings".
func IndexName(c Category) string {
	return string(c) + "-regulations-embeddings"
}

// Match is a ranked vector query hit.
type Match struct {
	ID       string
	Score    float32
	Metadata map[string]string
}

// Fingerprint returns a short content-derived hex digest, used to
// deduplicate retrieved passages by text rather than by record id.
func Fingerprint(text string) string {
	h, _ := blake2b.New(8, nil)
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
