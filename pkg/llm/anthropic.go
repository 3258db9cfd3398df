package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"
)

// maxTranslationTokens bounds the completion; a single SQL statement never
// needs more.
const maxTranslationTokens = 1000

// AnthropicClient talks to the Anthropic Messages API.
type AnthropicClient struct {
	client *anthropic.Client
	model  string
	logger *zap.Logger
}

var _ Translator = (*AnthropicClient)(nil)

// NewAnthropicClient creates a client for the Anthropic API.
func NewAnthropicClient(model, apiKey string, logger *zap.Logger) (*AnthropicClient, error) {
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("api key is required")
	}

	return &AnthropicClient{
		client: anthropic.NewClient(apiKey),
		model:  model,
		logger: logger.Named("llm"),
	}, nil
}

// Translate sends the schema context and question and returns the raw model
// output.
func (c *AnthropicClient) Translate(ctx context.Context, question, tableName string, columns []string) (string, error) {
	prompt := systemPrompt + "\n\n" + BuildPrompt(question, tableName, columns)

	c.logger.Debug("translation request",
		zap.String("model", c.model),
		zap.String("table", tableName),
		zap.Int("prompt_len", len(prompt)))

	start := time.Now()

	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(c.model),
		MaxTokens: maxTranslationTokens,
		Messages: []anthropic.Message{
			{Role: anthropic.RoleUser, Content: []anthropic.MessageContent{
				{Type: "text", Text: &prompt},
			}},
		},
	})
	if err != nil {
		c.logger.Error("translation request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", fmt.Errorf("translation request failed: %w", err)
	}

	c.logger.Info("translation completed",
		zap.Duration("elapsed", time.Since(start)))

	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != nil {
			return *block.Text, nil
		}
	}

	return "", fmt.Errorf("no text content in response")
}

// Model returns the configured model name.
func (c *AnthropicClient) Model() string {
	return c.model
}
