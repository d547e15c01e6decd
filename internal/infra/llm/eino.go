// Package llm adapts eino chat models to the assistant's ChatModel port, so
// any provider eino-ext supports can hold the conversation.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"voice-assistant/internal/domain"
)

var ErrEmptyResponse = errors.New("empty response")

type EinoChat struct {
	provider string
	chat     model.BaseChatModel
}

func NewEinoChat(provider string, chat model.BaseChatModel) *EinoChat {
	return &EinoChat{provider: provider, chat: chat}
}

func (c *EinoChat) Reply(ctx context.Context, system string, history []domain.Turn) (string, error) {
	msg, err := c.chat.Generate(ctx, toMessages(system, history))
	if err != nil {
		return "", fmt.Errorf("%s chat: %w", c.provider, err)
	}
	if msg == nil {
		return "", fmt.Errorf("%s chat: %w", c.provider, ErrEmptyResponse)
	}
	return msg.Content, nil
}

func toMessages(system string, history []domain.Turn) []*schema.Message {
	messages := make([]*schema.Message, 0, len(history)+1)
	if system != "" {
		messages = append(messages, schema.SystemMessage(system))
	}
	for _, t := range history {
		if t.Role == domain.RoleModel {
			messages = append(messages, schema.AssistantMessage(t.Text, nil))
			continue
		}
		messages = append(messages, schema.UserMessage(t.Text))
	}
	return messages
}
