// Package phrasing provides the optional generative-text capability used to
// rephrase non-revealing coaching turns. The tutor works fully without it.
package phrasing

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// ErrUnavailable reports any adapter fault: quota, auth, network, or an
// unexpected response. Callers branch on this single variant and fall back
// to local templates; the underlying cause is only good for logging.
var ErrUnavailable = errors.New("phrasing adapter unavailable")

// Generator produces one natural-language turn from an instruction block and
// a context blob. Implementations must respect ctx cancellation and return
// an error wrapping ErrUnavailable on any fault.
type Generator interface {
	Generate(ctx context.Context, instructions, contextBlob string) (string, error)
}

// DefaultTimeout bounds a single generation call when no timeout is given.
const DefaultTimeout = 20 * time.Second

// Client wraps an OpenAI-compatible chat completion endpoint.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
}

// New creates a phrasing client. baseURL may point at any OpenAI-compatible
// server; an empty baseURL uses the default OpenAI endpoint. A non-positive
// timeout falls back to DefaultTimeout.
func New(baseURL, apiKey, modelName string, timeout time.Duration) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		api:     openai.NewClientWithConfig(config),
		model:   modelName,
		timeout: timeout,
	}
}

// Generate performs exactly one bounded completion call. No retries: retry
// policy, if any, belongs to the caller.
func (c *Client) Generate(ctx context.Context, instructions, contextBlob string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: instructions},
			{Role: openai.ChatMessageRoleUser, Content: contextBlob},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", ErrUnavailable)
	}
	return resp.Choices[0].Message.Content, nil
}
