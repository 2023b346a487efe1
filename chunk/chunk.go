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


// Package chunk splits extracted document text into bounded pieces suitable
// for embedding. Both splitters are pure and deterministic: the same input
// always yields the same chunk sequence, so an interrupted ingestion can be
// restarted without producing divergent record ids.
package chunk

import (
	"fmt"

	"github.com/paddockpal/paddock/core"
	"github.com/tmc/langchaingo/textsplitter"
)

// DefaultSize is the default chunk size in characters.
const DefaultSize = 2000

// Split cuts text into fixed-size windows with zero overlap. Size counts
// characters, not bytes, so a window boundary never lands inside a
// multi-byte character and every chunk is valid UTF-8. Every chunk except
// the last holds exactly size characters; concatenating all chunks
// reconstructs the original text. Sequence numbers are 1-based.
func Split(documentID, text string, size int) ([]core.Chunk, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d", core.ErrConfiguration, size)
	}
	if text == "" {
		return nil, core.ErrEmptyText
	}

	runes := []rune(text)
	chunks := make([]core.Chunk, 0, (len(runes)+size-1)/size)
	for i := 0; i < len(runes); i += size {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, core.Chunk{
			DocumentID: documentID,
			Seq:        len(chunks) + 1,
			Text:       string(runes[i:end]),
		})
	}
	return chunks, nil
}

// SplitRecursive cuts text with the recursive character splitter, sharing
// overlap characters between consecutive windows to preserve context across
// boundaries. Chunks may be shorter than size since splits prefer natural
// separators.
func SplitRecursive(documentID, text string, size, overlap int) ([]core.Chunk, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d", core.ErrConfiguration, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: overlap %d with chunk size %d", core.ErrConfiguration, overlap, size)
	}
	if text == "" {
		return nil, core.ErrEmptyText
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(size),
		textsplitter.WithChunkOverlap(overlap),
	)
	pieces, err := splitter.SplitText(text)
	if err != nil {
		return nil, err
	}

	chunks := make([]core.Chunk, 0, len(pieces))
	for _, piece := range pieces {
		if piece == "" {
			continue
		}
		chunks = append(chunks, core.Chunk{
			DocumentID: documentID,
			Seq:        len(chunks) + 1,
			Text:       piece,
		})
	}
	return chunks, nil
}
