package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/johnquangdev/l10-platform/pkg/config"
	"github.com/sashabaranov/go-openai"
)

// ErrNotConfigured is returned when no API key was provided
var ErrNotConfigured = errors.New("llm api key not configured")

// ChatClient talks to any OpenAI-compatible chat completion endpoint (OpenAI, Groq, ...)
type ChatClient struct {
	client *openai.Client
	model  string
}

// NewChatClient creates a client from config. A missing API key yields an
// unconfigured client whose calls fail with ErrNotConfigured.
func NewChatClient(cfg *config.LLMConfig) *ChatClient {
	if cfg == nil || cfg.APIKey == "" {
		return &ChatClient{}
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	clientCfg.HTTPClient = &http.Client{Timeout: 60 * time.Second}

	return &ChatClient{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}
}

// Configured reports whether an API key was provided
func (c *ChatClient) Configured() bool {
	return c != nil && c.client != nil
}

// Model returns the model name requests are sent to
func (c *ChatClient) Model() string {
	return c.model
}

// CompleteJSON sends a system + user prompt and asks for a JSON object back.
// The raw assistant content is returned; callers decide how to parse it.
func (c *ChatClient) CompleteJSON(ctx context.Context, system, user string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.3,
		MaxTokens:   1500,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from %s", c.model)
	}
	return resp.Choices[0].Message.Content, nil
}
