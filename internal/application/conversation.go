package application

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"voice-assistant/internal/domain"
)

const (
	DefaultSystemPrompt = "You are a helpful, polite voice assistant. Follow user commands and maintain conversation context."
	DefaultMaxHistory   = 40

	fallbackReply = "I'm here."
)

// Conversation keeps multi-turn chat history for a ChatModel. A failed turn
// leaves the history exactly as it was before the call.
type Conversation struct {
	model    ChatModel
	system   string
	maxTurns int

	mu    sync.Mutex
	turns []domain.Turn
}

func NewConversation(model ChatModel, system string, maxTurns int) *Conversation {
	if system == "" {
		system = DefaultSystemPrompt
	}
	return &Conversation{
		model:    model,
		system:   system,
		maxTurns: maxTurns,
	}
}

func (c *Conversation) Ask(ctx context.Context, text string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.turns = append(c.turns, domain.Turn{Role: domain.RoleUser, Text: text})

	history := make([]domain.Turn, len(c.turns))
	copy(history, c.turns)

	reply, err := c.model.Reply(ctx, c.system, history)
	if err != nil {
		c.turns = c.turns[:len(c.turns)-1]
		return "", fmt.Errorf("chat turn: %w", err)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		reply = fallbackReply
	}

	c.turns = append(c.turns, domain.Turn{Role: domain.RoleModel, Text: reply})
	c.trim()

	return reply, nil
}

func (c *Conversation) History() []domain.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make([]domain.Turn, len(c.turns))
	copy(result, c.turns)
	return result
}

func (c *Conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = nil
}

func (c *Conversation) trim() {
	if c.maxTurns <= 0 || len(c.turns) <= c.maxTurns {
		return
	}
	drop := len(c.turns) - c.maxTurns
	// history must open with a user turn
	for drop < len(c.turns) && c.turns[drop].Role != domain.RoleUser {
		drop++
	}
	c.turns = append([]domain.Turn(nil), c.turns[drop:]...)
}
