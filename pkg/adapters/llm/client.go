// Package llm calls OpenAI-compatible chat completion APIs.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/dukex/leadflow/pkg/protocol"
)

const ProviderOpenAI = "openai"

var (
	ErrUnsupportedProvider = errors.New("unsupported model provider")
	ErrEmptyResponse       = errors.New("model returned no choices")
)

// Endpoint is an OpenAI-compatible API and the model used when a node names none.
type Endpoint struct {
	BaseURL      string
	DefaultModel string
}

// DefaultEndpoints are the providers known without configuration.
var DefaultEndpoints = map[string]Endpoint{
	ProviderOpenAI: {BaseURL: "https://api.openai.com/v1", DefaultModel: openai.GPT4oMini},
	"groq":         {BaseURL: "https://api.groq.com/openai/v1", DefaultModel: "llama-3.1-8b-instant"},
	"openrouter":   {BaseURL: "https://openrouter.ai/api/v1", DefaultModel: "openai/gpt-4o-mini"},
}

// Client implements protocol.ModelCaller with a single user turn per call.
type Client struct {
	endpoints map[string]Endpoint
}

type Option func(*Client)

// WithEndpoint registers or overrides a provider.
func WithEndpoint(provider string, endpoint Endpoint) Option {
	return func(c *Client) {
		c.endpoints[strings.ToLower(provider)] = endpoint
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{endpoints: make(map[string]Endpoint, len(DefaultEndpoints))}

	for provider, endpoint := range DefaultEndpoints {
		c.endpoints[provider] = endpoint
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) Complete(ctx context.Context, request protocol.CompletionRequest) (string, error) {
	provider := strings.ToLower(request.Provider)
	if provider == "" {
		provider = ProviderOpenAI
	}

	endpoint, ok := c.endpoints[provider]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedProvider, request.Provider)
	}

	model := request.Model
	if model == "" {
		model = endpoint.DefaultModel
	}

	config := openai.DefaultConfig(request.APIKey)
	if endpoint.BaseURL != "" {
		config.BaseURL = endpoint.BaseURL
	}

	client := openai.NewClientWithConfig(config)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: request.Prompt},
		},
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	return resp.Choices[0].Message.Content, nil
}
