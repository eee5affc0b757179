package llm

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/pricescout/backend/internal/domain"
)

// Config holds the chat-completion client settings.
type Config struct {
	BaseURL   string
	APIKey    string
	Model     string
	Timeout   time.Duration
	MaxTokens int64
}

// Client wraps an OpenAI-compatible chat completion endpoint (OpenAI,
// OpenRouter, or a local Ollama serving /v1).
type Client struct {
	api       openai.Client
	model     string
	timeout   time.Duration
	maxTokens int64
	enabled   bool
}

// NewClient creates a chat completion client. An empty model leaves the
// capability unavailable and the pipeline will skip semantic extraction.
func NewClient(cfg Config) *Client {
	if cfg.Model == "" {
		return &Client{enabled: false}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1000
	}

	return &Client{
		api:       openai.NewClient(opts...),
		model:     cfg.Model,
		timeout:   timeout,
		maxTokens: maxTokens,
		enabled:   true,
	}
}

// Available reports whether a model is configured.
func (c *Client) Available() bool {
	return c.enabled
}

// Complete runs one system + user exchange and returns the raw assistant
// text. Extraction wants determinism, so temperature stays at zero.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if !c.enabled {
		return "", domain.ErrExtractionUnavailable
	}

	callCtx := ctx
	var cancel context.CancelFunc
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	log.Printf("[LLM] Chat completion with model %s", c.model)

	resp, err := c.api.Chat.Completions.New(callCtx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Temperature:         openai.Float(0),
		MaxCompletionTokens: openai.Int(c.maxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrExtractionUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in completion", domain.ErrMalformedExtraction)
	}

	return resp.Choices[0].Message.Content, nil
}
