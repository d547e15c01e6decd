package openai

import (
	"context"
	"fmt"

	einoopenai "github.com/cloudwego/eino-ext/components/model/openai"

	"voice-assistant/internal/infra/llm"
)

const DefaultChatModel = "gpt-4o-mini"

// NewChatModel returns an OpenAI chat provider. baseURL may point at any
// OpenAI-compatible endpoint; empty means the public API.
func NewChatModel(ctx context.Context, apiKey, modelName, baseURL string) (*llm.EinoChat, error) {
	if modelName == "" {
		modelName = DefaultChatModel
	}

	cfg := &einoopenai.ChatModelConfig{
		Model:  modelName,
		APIKey: apiKey,
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	chat, err := einoopenai.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating openai chat model: %w", err)
	}

	return llm.NewEinoChat("openai", chat), nil
}
