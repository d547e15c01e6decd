package application_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-assistant/internal/application"
)

type recordingAnnouncer struct {
	mu    sync.Mutex
	said  []string
	fired chan struct{}
}

func (r *recordingAnnouncer) Say(text string) bool {
	r.mu.Lock()
	r.said = append(r.said, text)
	r.mu.Unlock()
	if r.fired != nil {
		r.fired <- struct{}{}
	}
	return true
}

func TestScheduler_FiresReminder(t *testing.T) {
	announcer := &recordingAnnouncer{fired: make(chan struct{}, 1)}
	notifier := &recordingNotifier{}
	scheduler := application.NewScheduler(announcer, notifier, discardLogger())
	defer scheduler.Stop()

	r := scheduler.Schedule(context.Background(), "check the oven", 10*time.Millisecond)
	assert.NotEmpty(t, r.ID)

	waitFor(t, announcer.fired)

	assert.Eventually(t, func() bool {
		return len(notifier.Messages()) == 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"Reminder: check the oven"}, announcer.said)
	assert.Equal(t, []string{"Reminder: check the oven"}, notifier.Messages())
	assert.Empty(t, scheduler.Pending())
}

func TestScheduler_PendingSortedAndCancel(t *testing.T) {
	scheduler := application.NewScheduler(&recordingAnnouncer{}, &application.NoopNotifier{}, discardLogger())
	defer scheduler.Stop()

	ctx := context.Background()
	late := scheduler.Schedule(ctx, "late", time.Hour)
	early := scheduler.Schedule(ctx, "early", time.Minute)

	pending := scheduler.Pending()
	require.Len(t, pending, 2)
	assert.Equal(t, early.ID, pending[0].ID)
	assert.Equal(t, late.ID, pending[1].ID)

	assert.True(t, scheduler.Cancel(late.ID))
	assert.False(t, scheduler.Cancel(late.ID))
	assert.Len(t, scheduler.Pending(), 1)
}

func TestScheduler_CancelledContextSuppressesReminder(t *testing.T) {
	announcer := &recordingAnnouncer{}
	scheduler := application.NewScheduler(announcer, &application.NoopNotifier{}, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	scheduler.Schedule(ctx, "never", 20*time.Millisecond)
	cancel()

	time.Sleep(60 * time.Millisecond)
	announcer.mu.Lock()
	defer announcer.mu.Unlock()
	assert.Empty(t, announcer.said)
}
