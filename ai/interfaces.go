package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity
// search. Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector has the dimension fixed by the configured model.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates embeddings for multiple texts in one batched
	// call, which is cheaper than calling EmbedText per chunk. The result
	// is ordered the same as the input.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Chat produces a natural-language completion from a system persona and a
// user prompt. Implementations must be thread-safe for concurrent use.
type Chat interface {
	// Complete sends the system and user messages to the chat model and
	// returns the generated text verbatim. The answer is advisory; no
	// correctness contract is attached to it.
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management. Services returned by a provider share configuration.
type Provider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Chat returns the chat completion service.
	Chat() Chat

	// Close releases resources held by the provider and its services.
	Close() error
}
