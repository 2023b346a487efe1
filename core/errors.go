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


package core

import "errors"

// Pipeline error taxonomy. Callers classify failures with errors.Is so the
// orchestrator can decide between retrying, skipping a document, or aborting
// the run.
var (
	// ErrNotFound indicates a missing source document, object, or index.
	ErrNotFound = errors.New("not found")

	// ErrTransient indicates a network or HTTP failure that is expected to
	// succeed on retry.
	ErrTransient = errors.New("transient error")

	// ErrExtractionFailed indicates a remote extraction job reached its
	// failed terminal state, or local conversion could not parse the source.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrEmbeddingFailed indicates the embedding model returned an error.
	ErrEmbeddingFailed = errors.New("embedding failed")

	// ErrDimensionMismatch indicates a vector's length differs from the
	// target index dimension. Raised before any store call.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrConfiguration indicates missing or invalid configuration: absent
	// API keys, or reuse of an index name with a different dimension or
	// metric. Fatal at startup, never retried.
	ErrConfiguration = errors.New("configuration error")

	// ErrTimeout indicates a polling loop exhausted its deadline or attempt
	// budget.
	ErrTimeout = errors.New("timeout")

	// ErrInvalidCategory indicates a label outside the fixed category set.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrEmptyText indicates empty extracted text or an empty chunk.
	ErrEmptyText = errors.New("text cannot be empty")
)
