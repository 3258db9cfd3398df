package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIClient talks to any OpenAI-compatible chat completion endpoint.
type OpenAIClient struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

var _ Translator = (*OpenAIClient)(nil)

// NewOpenAIClient creates a client for an OpenAI-compatible endpoint.
// APIKey may be empty for local endpoints.
func NewOpenAIClient(endpoint, model, apiKey string, logger *zap.Logger) (*OpenAIClient, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}

	clientConfig := openai.DefaultConfig(apiKey)
	clientConfig.BaseURL = strings.TrimSuffix(endpoint, "/")

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
		logger: logger.Named("llm"),
	}, nil
}

// Translate sends the schema context and question and returns the raw model
// output.
func (c *OpenAIClient) Translate(ctx context.Context, question, tableName string, columns []string) (string, error) {
	prompt := BuildPrompt(question, tableName, columns)

	c.logger.Debug("translation request",
		zap.String("model", c.model),
		zap.String("table", tableName),
		zap.Int("prompt_len", len(prompt)))

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0,
	})
	if err != nil {
		c.logger.Error("translation request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", fmt.Errorf("translation request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	c.logger.Info("translation completed",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)))

	return resp.Choices[0].Message.Content, nil
}

// Model returns the configured model name.
func (c *OpenAIClient) Model() string {
	return c.model
}
