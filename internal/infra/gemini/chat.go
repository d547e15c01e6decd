package gemini

import (
	"context"
	"fmt"

	"voice-assistant/internal/domain"
)

const DefaultChatModel = "gemini-2.0-flash"

type ChatModel struct {
	client      *Client
	model       string
	temperature float64
}

func NewChatModel(client *Client, model string, temp float64) *ChatModel {
	if model == "" {
		model = DefaultChatModel
	}
	return &ChatModel{client: client, model: model, temperature: temp}
}

func (m *ChatModel) Reply(ctx context.Context, system string, history []domain.Turn) (string, error) {
	contents := make([]content, 0, len(history))
	for _, t := range history {
		role := "user"
		if t.Role == domain.RoleModel {
			role = "model"
		}
		contents = append(contents, content{Role: role, Parts: []part{{Text: t.Text}}})
	}

	req := request{
		Contents:         contents,
		GenerationConfig: &generationConfig{Temperature: temperature(m.temperature)},
	}
	if system != "" {
		req.SystemInstruct = &content{Parts: []part{{Text: system}}}
	}

	resp, err := m.client.generate(ctx, m.model, req)
	if err != nil {
		return "", fmt.Errorf("gemini chat: %w", err)
	}

	return resp.text(), nil
}
