package application

import (
	"context"
	"time"

	"voice-assistant/internal/domain"
)

// ChatModel produces the next model turn for a conversation. history always
// starts with a user turn and alternates roles.
type ChatModel interface {
	Reply(ctx context.Context, system string, history []domain.Turn) (string, error)
}

type NoteStore interface {
	Add(ctx context.Context, text string) (domain.Note, error)
	List(ctx context.Context) ([]domain.Note, error)
}

type Calendar interface {
	AddEvent(ctx context.Context, summary string, start time.Time) (*domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
}

// TimeParser extracts a point in time from free text, relative to base.
type TimeParser interface {
	Parse(text string, base time.Time) (time.Time, bool, error)
}
