package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"voice-assistant/internal/domain"
)

// Announcer speaks text asynchronously. *Speaker satisfies it.
type Announcer interface {
	Say(text string) bool
}

type scheduledReminder struct {
	reminder domain.Reminder
	timer    *time.Timer
}

// Scheduler keeps in-memory reminders and announces them when due.
type Scheduler struct {
	announcer Announcer
	notifier  Notifier
	logger    *slog.Logger

	mu      sync.Mutex
	pending map[string]*scheduledReminder
}

func NewScheduler(announcer Announcer, notifier Notifier, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		announcer: announcer,
		notifier:  notifier,
		logger:    logger,
		pending:   make(map[string]*scheduledReminder),
	}
}

func (s *Scheduler) Schedule(ctx context.Context, message string, delay time.Duration) domain.Reminder {
	r := domain.Reminder{
		ID:      uuid.NewString(),
		Message: message,
		DueAt:   time.Now().Add(delay),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sr := &scheduledReminder{reminder: r}
	s.pending[r.ID] = sr
	sr.timer = time.AfterFunc(delay, func() { s.fire(ctx, r.ID) })

	s.logger.Info("reminder scheduled", "id", r.ID, "message", message, "due_at", r.DueAt)
	return r
}

func (s *Scheduler) Pending() []domain.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]domain.Reminder, 0, len(s.pending))
	for _, sr := range s.pending {
		result = append(result, sr.reminder)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DueAt.Before(result[j].DueAt) })
	return result
}

func (s *Scheduler) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sr, ok := s.pending[id]
	if !ok {
		return false
	}
	sr.timer.Stop()
	delete(s.pending, id)
	return true
}

// Stop disarms every pending reminder.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sr := range s.pending {
		sr.timer.Stop()
		delete(s.pending, id)
	}
}

func (s *Scheduler) fire(ctx context.Context, id string) {
	s.mu.Lock()
	sr, ok := s.pending[id]
	delete(s.pending, id)
	s.mu.Unlock()

	if !ok || ctx.Err() != nil {
		return
	}

	text := fmt.Sprintf("Reminder: %s", sr.reminder.Message)
	s.logger.Info("reminder due", "id", id, "message", sr.reminder.Message)

	s.announcer.Say(text)
	if err := s.notifier.Notify(ctx, text); err != nil {
		s.logger.Error("notifying reminder", "error", err)
	}
}
