// Package ai wraps the hosted chat-completion API for the project assistant
// and for call/SMS summarization. One request per operation, no streaming,
// no retries; API failures surface as errors to the caller and summarization
// failures degrade to a fixed neutral fallback.
package ai

import (
	"context"
	"errors"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// ErrNotConfigured is returned when the API key is missing
var ErrNotConfigured = errors.New("chat completion api key not configured")

const defaultModel = openai.GPT4oMini

// Client wraps the chat-completion API client
type Client struct {
	api   *openai.Client
	model string
}

// NewFromEnv builds a client from OPENAI_API_KEY, with OPENAI_BASE_URL for
// OpenAI-compatible hosts and OPENAI_MODEL to pick the model. Returns a
// client with a nil API when unconfigured; calls then fail with
// ErrNotConfigured instead of panicking at startup.
func NewFromEnv() *Client {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return &Client{}
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		cfg.BaseURL = baseURL
	}

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = defaultModel
	}

	return &Client{
		api:   openai.NewClientWithConfig(cfg),
		model: model,
	}
}

// complete runs one chat completion and returns the single text response
func (c *Client) complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	if c.api == nil {
		return "", ErrNotConfigured
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
