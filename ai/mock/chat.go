package mock

import (
	"context"

	"github.com/paddockpal/paddock/ai"
)

// MockChat is a test double for ai.Chat.
type MockChat struct {
	// CompleteFunc is called by Complete if set.
	// If nil, returns Response.
	CompleteFunc func(ctx context.Context, system, prompt string) (string, error)

	// Response is returned by the default behavior.
	Response string

	// LastSystem and LastPrompt record the most recent call's arguments.
	LastSystem string
	LastPrompt string

	callCount int
}

// NewMockChat creates a mock chat service returning a canned response.
func NewMockChat(response string) *MockChat {
	return &MockChat{Response: response}
}

// Complete records the call and returns the configured response.
func (m *MockChat) Complete(ctx context.Context, system, prompt string) (string, error) {
	m.callCount++
	m.LastSystem = system
	m.LastPrompt = prompt

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, system, prompt)
	}
	return m.Response, nil
}

// CallCount returns the number of Complete calls.
func (m *MockChat) CallCount() int {
	return m.callCount
}

// MockProvider bundles mock services behind the ai.Provider interface.
type MockProvider struct {
	MockEmbedder *MockEmbedder
	MockChat     *MockChat
}

var _ ai.Provider = (*MockProvider)(nil)

// NewMockProvider creates a provider wrapping fresh mocks.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		MockEmbedder: NewMockEmbedder(),
		MockChat:     NewMockChat("mock answer"),
	}
}

// Embedder returns the mock embedding service.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.MockEmbedder
}

// Chat returns the mock chat service.
func (p *MockProvider) Chat() ai.Chat {
	return p.MockChat
}

// Close is a no-op.
func (p *MockProvider) Close() error {
	return nil
}
