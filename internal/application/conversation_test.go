package application_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-assistant/internal/application"
	"voice-assistant/internal/domain"
)

func TestConversation_MultiTurn(t *testing.T) {
	chat := &mockChat{replies: []string{"Hello Ana.", "Your name is Ana."}}
	conv := application.NewConversation(chat, "", 0)
	ctx := context.Background()

	reply, err := conv.Ask(ctx, "my name is Ana")
	require.NoError(t, err)
	assert.Equal(t, "Hello Ana.", reply)

	reply, err = conv.Ask(ctx, "what is my name?")
	require.NoError(t, err)
	assert.Equal(t, "Your name is Ana.", reply)

	assert.Equal(t, application.DefaultSystemPrompt, chat.system)
	require.Len(t, chat.calls, 2)
	assert.Equal(t, []domain.Turn{
		{Role: domain.RoleUser, Text: "my name is Ana"},
		{Role: domain.RoleModel, Text: "Hello Ana."},
		{Role: domain.RoleUser, Text: "what is my name?"},
	}, chat.calls[1])
	assert.Len(t, conv.History(), 4)
}

func TestConversation_FailedTurnIsRolledBack(t *testing.T) {
	chat := &mockChat{err: errors.New("unavailable")}
	conv := application.NewConversation(chat, "be brief", 0)

	_, err := conv.Ask(context.Background(), "hello")
	require.Error(t, err)
	assert.Empty(t, conv.History())
	assert.Equal(t, "be brief", chat.system)
}

func TestConversation_EmptyReplyFallsBack(t *testing.T) {
	conv := application.NewConversation(&mockChat{replies: []string{"   "}}, "", 0)

	reply, err := conv.Ask(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "I'm here.", reply)
}

func TestConversation_HistoryIsBounded(t *testing.T) {
	chat := &mockChat{}
	for i := 0; i < 10; i++ {
		chat.replies = append(chat.replies, fmt.Sprintf("reply %d", i))
	}
	conv := application.NewConversation(chat, "", 5)

	for i := 0; i < 10; i++ {
		_, err := conv.Ask(context.Background(), fmt.Sprintf("question %d", i))
		require.NoError(t, err)
	}

	history := conv.History()
	assert.LessOrEqual(t, len(history), 5)
	assert.Equal(t, domain.RoleUser, history[0].Role)
	assert.Equal(t, "reply 9", history[len(history)-1].Text)

	conv.Reset()
	assert.Empty(t, conv.History())
}
