package llm

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Ankita1800/chatdb-engine/pkg/config"
)

// NewTranslator builds the Translator selected by configuration.
func NewTranslator(cfg config.LLMConfig, logger *zap.Logger) (Translator, error) {
	switch cfg.Provider {
	case "openai", "":
		return NewOpenAIClient(cfg.Endpoint, cfg.Model, cfg.APIKey, logger)
	case "anthropic":
		return NewAnthropicClient(cfg.Model, cfg.APIKey, logger)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}
