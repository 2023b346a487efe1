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


package ai

import (
	"fmt"
	"strings"

	"github.com/paddockpal/paddock/core"
)

// Known embedding model dimensions. A deployment runs exactly one embedding
// contract; every index it touches must match the resolved dimension.
var modelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
	"all-MiniLM-L6-v2":       384,
	"embeddinggemma":         768,
}

// Config holds configuration for AI service providers.
type Config struct {
	// Host is the base URL for the OpenAI-compatible API.
	// Example: "https://api.openai.com/v1", or a local server.
	Host string

	// Token is the API key. Use "none" for local services that skip auth.
	Token string

	// EmbeddingModel is the model identifier for text embeddings.
	EmbeddingModel string

	// ChatModel is the model identifier for answer generation.
	ChatModel string

	// Dimension is the embedding vector length. Zero means resolve from
	// EmbeddingModel via the known-model table.
	Dimension int

	// MaxTokens bounds generated answers.
	MaxTokens int

	// Temperature controls answer sampling.
	Temperature float64
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets the API base URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithToken sets the API key.
func WithToken(token string) ConfigOption {
	return func(c *Config) {
		c.Token = token
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithChatModel sets the chat model identifier.
func WithChatModel(model string) ConfigOption {
	return func(c *Config) {
		c.ChatModel = model
	}
}

// WithDimension overrides the embedding dimension. Required for models not
// in the known-model table.
func WithDimension(d int) ConfigOption {
	return func(c *Config) {
		c.Dimension = d
	}
}

// DefaultConfig returns a Config targeting the hosted OpenAI API with the
// small embedding model.
func DefaultConfig() *Config {
	return &Config{
		Host:           "https://api.openai.com/v1",
		EmbeddingModel: "text-embedding-3-small",
		ChatModel:      "gpt-4o-mini",
		MaxTokens:      1000,
		Temperature:    0.7,
	}
}

// NewConfig creates a Config with defaults and applies the provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize puts the configuration in canonical form: the host gains a /v1
// suffix if missing (required by OpenAI-compatible APIs) and the dimension is
// resolved from the model table when unset.
func (c *Config) Normalize() {
	if c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/") + "/v1"
	}
	if c.Dimension == 0 {
		c.Dimension = modelDimensions[c.EmbeddingModel]
	}
}

// Validate normalizes and then checks that the configuration is complete.
// Failures wrap core.ErrConfiguration and are fatal at startup.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Host == "" {
		return fmt.Errorf("%w: ai host is required", core.ErrConfiguration)
	}
	if c.Token == "" {
		return fmt.Errorf("%w: ai token is required", core.ErrConfiguration)
	}
	if c.EmbeddingModel == "" {
		return fmt.Errorf("%w: embedding model is required", core.ErrConfiguration)
	}
	if c.ChatModel == "" {
		return fmt.Errorf("%w: chat model is required", core.ErrConfiguration)
	}
	if c.Dimension <= 0 {
		return fmt.Errorf("%w: unknown embedding model %q, set an explicit dimension",
			core.ErrConfiguration, c.EmbeddingModel)
	}
	return nil
}
