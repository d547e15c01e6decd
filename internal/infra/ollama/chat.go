// Package ollama provides a local chat provider for running the assistant
// without a cloud language model.
package ollama

import (
	"context"
	"fmt"

	einoollama "github.com/cloudwego/eino-ext/components/model/ollama"

	"voice-assistant/internal/infra/llm"
)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.2"
)

func NewChatModel(ctx context.Context, baseURL, modelName string) (*llm.EinoChat, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if modelName == "" {
		modelName = DefaultModel
	}

	chat, err := einoollama.NewChatModel(ctx, &einoollama.ChatModelConfig{
		BaseURL: baseURL,
		Model:   modelName,
	})
	if err != nil {
		return nil, fmt.Errorf("creating ollama chat model: %w", err)
	}

	return llm.NewEinoChat("ollama", chat), nil
}
