// Copyright 2025 Paddock Pal
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package answer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/paddockpal/paddock/ai"
	"github.com/paddockpal/paddock/core"
	"github.com/paddockpal/paddock/vecstore"
)

const (
	// topKPerIndex is how many matches each category index contributes
	// before merging.
	topKPerIndex = 5
	// maxMerged caps the merged, score-ranked candidate list.
	maxMerged = 5
	// maxPassages caps how many passages reach the chat prompt.
	maxPassages = 3
)

const systemPersona = "You are an expert on Formula 1 regulations: sporting, " +
	"technical and financial. Answer questions using only the regulation " +
	"extracts provided. Cite the relevant article or rule when the extracts " +
	"name one. If the extracts do not contain the answer, say so plainly " +
	"instead of guessing."

// Passage is a regulation extract supporting an answer.
type Passage struct {
	ID        string
	Score     float32
	Text      string
	Category  string
	SourceKey string
}

// Answer is the response to a question, with the passages it was grounded
// on.
type Answer struct {
	Text     string
	Passages []Passage
}

// Service answers questions by retrieval-augmented chat completion across
// the category indexes.
type Service struct {
	store    vecstore.Store
	embedder ai.Embedder
	chat     ai.Chat
	indexes  []string
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithIndexes overrides the set of indexes queried. Default is the index
// of every category.
func WithIndexes(indexes ...string) Option {
	return func(s *Service) error {
		if len(indexes) == 0 {
			return fmt.Errorf("at least one index required: %w", core.ErrConfiguration)
		}
		s.indexes = indexes
		return nil
	}
}

// New creates an answer service. Any configured index that already exists
// must use a descending metric: the cross-index merge ranks by score
// descending, which euclidean distances would invert.
func New(ctx context.Context, store vecstore.Store, provider ai.Provider, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, ErrVectorStoreRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	s := &Service{
		store:    store,
		embedder: provider.Embedder(),
		chat:     provider.Chat(),
		logger:   slog.Default(),
	}
	for _, category := range core.Categories() {
		s.indexes = append(s.indexes, core.IndexName(category))
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	for _, index := range s.indexes {
		spec, err := s.store.DescribeIndex(ctx, index)
		if errors.Is(err, core.ErrNotFound) {
			continue // not ingested yet; skipped at query time too
		}
		if err != nil {
			return nil, err
		}
		if !spec.Metric.Descending() {
			return nil, fmt.Errorf("index %q uses metric %s, need a descending metric: %w",
				index, spec.Metric, core.ErrConfiguration)
		}
	}

	return s, nil
}

// Ask answers a question from the regulation indexes. The returned Answer
// carries the passages the completion was grounded on, ranked by score.
func (s *Service) Ask(ctx context.Context, question string) (*Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, core.ErrEmptyText
	}

	embedding, err := s.embedder.EmbedText(ctx, question)
	if err != nil {
		s.logger.Error("error embedding question", "err", err)
		return nil, fmt.Errorf("embed question: %w", err)
	}

	matches, err := s.collect(ctx, embedding)
	if err != nil {
		return nil, err
	}

	passages := selectPassages(matches)
	if len(passages) == 0 {
		return nil, ErrNoMatches
	}

	prompt := buildPrompt(question, passages)
	text, err := s.chat.Complete(ctx, systemPersona, prompt)
	if err != nil {
		s.logger.Error("error generating answer", "err", err)
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &Answer{Text: text, Passages: passages}, nil
}

// collect queries every configured index and merges the results by score
// descending, truncated to maxMerged. Missing indexes are skipped.
func (s *Service) collect(ctx context.Context, embedding []float32) ([]core.Match, error) {
	var merged []core.Match
	for _, index := range s.indexes {
		matches, err := s.store.Query(ctx, index, embedding, topKPerIndex)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				s.logger.Debug("index not found, skipping", "index", index)
				continue
			}
			return nil, fmt.Errorf("query index %s: %w", index, err)
		}
		merged = append(merged, matches...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	if len(merged) > maxMerged {
		merged = merged[:maxMerged]
	}
	return merged, nil
}

// selectPassages deduplicates matches by content fingerprint and keeps the
// top maxPassages with usable text.
func selectPassages(matches []core.Match) []Passage {
	seen := make(map[string]bool)
	var passages []Passage
	for _, match := range matches {
		text := match.Metadata[core.MetaText]
		if strings.TrimSpace(text) == "" {
			continue
		}
		fingerprint := core.Fingerprint(text)
		if seen[fingerprint] {
			continue
		}
		seen[fingerprint] = true
		passages = append(passages, Passage{
			ID:        match.ID,
			Score:     match.Score,
			Text:      text,
			Category:  match.Metadata[core.MetaCategory],
			SourceKey: match.Metadata[core.MetaSourceKey],
		})
		if len(passages) == maxPassages {
			break
		}
	}
	return passages
}

func buildPrompt(question string, passages []Passage) string {
	var b strings.Builder
	b.WriteString("Regulation extracts:\n\n")
	for _, passage := range passages {
		b.WriteString(passage.Text)
		b.WriteString("\n")
	}
	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	return b.String()
}
