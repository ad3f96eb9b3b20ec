package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pookietodo/core/internal/domain/entities"
	"github.com/pookietodo/core/internal/infrastructure/config"
	"github.com/pookietodo/core/internal/ports"
)

// Client adapts the OpenAI chat completions API to the ChatCompleter port.
// Every call is bounded by the configured timeout so a stalled provider
// cannot hang a request indefinitely.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
}

// NewClient builds a client from configuration. With no API key the client
// still constructs but reports not ready and fails completions.
func NewClient(cfg config.OpenAIConfig) *Client {
	var api *openai.Client
	if cfg.APIKey != "" {
		api = openai.NewClient(cfg.APIKey)
	}

	return &Client{
		api:     api,
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}
}

// Ready reports whether an API key is configured.
func (c *Client) Ready() bool {
	return c.api != nil
}

// Complete sends the message list to the provider and returns the first
// choice's content verbatim.
func (c *Client) Complete(ctx context.Context, messages []ports.ChatMessage) (string, error) {
	if c.api == nil {
		return "", fmt.Errorf("%w: no API key configured", entities.ErrChatUpstream)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", entities.ErrChatTimeout
		}
		return "", fmt.Errorf("%w: %v", entities.ErrChatUpstream, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", entities.ErrChatUpstream)
	}

	return resp.Choices[0].Message.Content, nil
}
