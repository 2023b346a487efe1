package openai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/paddockpal/paddock/ai"
	"github.com/paddockpal/paddock/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Chat implements ai.Chat using OpenAI-compatible chat completion APIs.
type Chat struct {
	llm         *openai.LLM
	maxTokens   int
	temperature float64
	logger      *slog.Logger
}

func newChat(config *ai.Config) (*Chat, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	llm, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(config.Token),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	return &Chat{
		llm:         llm,
		maxTokens:   config.MaxTokens,
		temperature: config.Temperature,
		logger:      slog.Default().With("component", "openai-chat"),
	}, nil
}

// NewChat creates a new chat completion service using the provided
// configuration.
//
// Returns ai.Chat interface to enforce abstraction.
func NewChat(config *ai.Config) (ai.Chat, error) {
	return newChat(config)
}

// Complete sends the system persona and user prompt to the chat model and
// returns the first choice's text verbatim.
func (c *Chat) Complete(ctx context.Context, system, prompt string) (string, error) {
	c.logger.Debug("requesting chat completion", "promptLength", len(prompt))

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	resp, err := c.llm.GenerateContent(ctx, messages,
		llms.WithMaxTokens(c.maxTokens),
		llms.WithTemperature(c.temperature),
	)
	if err != nil {
		c.logger.Error("chat completion failed", "err", err)
		return "", fmt.Errorf("%w: %v", core.ErrTransient, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: chat model returned no choices", core.ErrTransient)
	}

	return resp.Choices[0].Content, nil
}
