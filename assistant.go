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

package paddock

import (
	"context"
	"io"
	"log/slog"

	"github.com/paddockpal/paddock/ai"
	"github.com/paddockpal/paddock/ai/openai"
	"github.com/paddockpal/paddock/answer"
	"github.com/paddockpal/paddock/extract"
	"github.com/paddockpal/paddock/extract/local"
	"github.com/paddockpal/paddock/ingest"
	"github.com/paddockpal/paddock/objstore"
	"github.com/paddockpal/paddock/reindex"
	"github.com/paddockpal/paddock/vecstore"
)

// Assistant bundles the object store, vector store and AI provider behind
// one handle, and hands out the ingestion pipeline, answer service and
// reindexer built on them.
type Assistant struct {
	docs      objstore.Store
	vectors   vecstore.Store
	provider  ai.Provider
	extractor extract.Extractor
	aiConfig  *ai.Config
	logger    *slog.Logger
}

// AssistantOption configures an Assistant.
type AssistantOption func(*assistantOptions)

type assistantOptions struct {
	aiConfig  *ai.Config
	extractor extract.Extractor
	provider  ai.Provider
	logger    *slog.Logger
}

// WithAIConfig sets the AI configuration. Default is ai.DefaultConfig().
func WithAIConfig(config *ai.Config) AssistantOption {
	return func(o *assistantOptions) {
		o.aiConfig = config
	}
}

// WithExtractor sets the text extractor. Default is the local PDF
// converter; pass an ocr.Client for the remote extraction service.
func WithExtractor(extractor extract.Extractor) AssistantOption {
	return func(o *assistantOptions) {
		o.extractor = extractor
	}
}

// WithProvider sets a pre-built AI provider, bypassing the OpenAI
// construction from the AI config. Intended for tests.
func WithProvider(provider ai.Provider) AssistantOption {
	return func(o *assistantOptions) {
		o.provider = provider
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) AssistantOption {
	return func(o *assistantOptions) {
		o.logger = logger
	}
}

// NewAssistant creates an assistant over an object store and a vector
// store. Ownership of both transfers to the assistant: Close closes them.
func NewAssistant(docs objstore.Store, vectors vecstore.Store, opts ...AssistantOption) (*Assistant, error) {
	options := &assistantOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	if err := options.aiConfig.Validate(); err != nil {
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		var err error
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			return nil, err
		}
	}

	extractor := options.extractor
	if extractor == nil {
		extractor = local.New()
	}

	logger := options.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Assistant{
		docs:      docs,
		vectors:   vectors,
		provider:  provider,
		extractor: extractor,
		aiConfig:  options.aiConfig,
		logger:    logger,
	}, nil
}

// Close releases the provider and both stores.
func (a *Assistant) Close() error {
	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing AI provider", "err", err)
	}
	if err := a.vectors.Close(); err != nil {
		a.logger.Error("error closing vector store", "err", err)
		return err
	}
	if err := a.docs.Close(); err != nil {
		a.logger.Error("error closing object store", "err", err)
		return err
	}
	return nil
}

// DocumentStore returns the object store holding source PDFs and mirrors.
func (a *Assistant) DocumentStore() objstore.Store {
	return a.docs
}

// VectorStore returns the vector store.
func (a *Assistant) VectorStore() vecstore.Store {
	return a.vectors
}

// Provider returns the AI provider.
func (a *Assistant) Provider() ai.Provider {
	return a.provider
}

// NewIngestionPipeline builds an ingestion pipeline wired to the
// assistant's stores, extractor and embedder. The embedding dimension
// comes from the AI configuration.
func (a *Assistant) NewIngestionPipeline(opts ...ingest.Option) (*ingest.Pipeline, error) {
	return ingest.NewPipeline(a.docs, a.extractor, a.provider.Embedder(), a.vectors,
		a.aiConfig.Dimension, opts...)
}

// NewAnswerService builds the retrieval/answer service over the
// assistant's vector store and AI provider.
func (a *Assistant) NewAnswerService(ctx context.Context, opts ...answer.Option) (*answer.Service, error) {
	return answer.New(ctx, a.vectors, a.provider, opts...)
}

// NewReindexer builds a reindexer reading the assistant's mirror and
// writing through its embedder.
func (a *Assistant) NewReindexer(config *reindex.Config, progress io.Writer) (*reindex.Reindexer, error) {
	return reindex.NewReindexer(a.docs, a.provider.Embedder(), a.vectors, config, progress)
}
