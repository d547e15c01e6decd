package application_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"voice-assistant/internal/application"
	"voice-assistant/internal/domain"
)

func TestRouter_Route(t *testing.T) {
	router := application.NewRouter(nil)

	tests := []struct {
		text   string
		intent domain.Intent
	}{
		{"stop", domain.IntentInterrupt},
		{"Cancel!", domain.IntentInterrupt},
		{"stop the music in the kitchen", domain.IntentChat},
		{"set a timer for 10 minutes", domain.IntentTimer},
		{"Remind me in 1 hour to stretch", domain.IntentTimer},
		{"take a note: call the plumber", domain.IntentNote},
		{"remember my locker is 42", domain.IntentNote},
		{"schedule lunch with Ana next friday at noon", domain.IntentEvent},
		{"add an event to my calendar", domain.IntentEvent},
		{"what's another word for happy", domain.IntentChat},
		{"how far is the moon", domain.IntentChat},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			cmd := router.Route(tt.text)
			assert.Equal(t, tt.intent, cmd.Intent)
			assert.Equal(t, tt.text, cmd.RawText)
		})
	}
}

func TestRouter_TimerDurations(t *testing.T) {
	router := application.NewRouter(nil)

	tests := []struct {
		text    string
		amount  int
		unit    string
		delay   time.Duration
		message string
	}{
		{"remind me in 5 minutes to check the oven", 5, "minutes", 5 * time.Minute, "check the oven"},
		{"set a timer for 30 seconds", 30, "seconds", 30 * time.Second, "your reminder"},
		{"remind me in 1 hour to call mom.", 1, "hour", time.Hour, "call mom"},
		{"timer 2hours", 2, "hours", 2 * time.Hour, "your reminder"},
		{"set a timer", 0, "", 0, ""},
		{"set a timer for 5000000 hours", 0, "", 0, ""},
		{"remind me in 99999999999999999999 seconds", 0, "", 0, ""},
		{"set a timer for 2562047 hours", 2562047, "hours", 2562047 * time.Hour, "your reminder"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			cmd := router.Route(tt.text)
			assert.Equal(t, domain.IntentTimer, cmd.Intent)
			assert.Equal(t, tt.amount, cmd.Amount)
			assert.Equal(t, tt.unit, cmd.Unit)
			assert.Equal(t, tt.delay, cmd.Delay)
			assert.Equal(t, tt.message, cmd.Message)
		})
	}
}

func TestRouter_CustomInterruptWords(t *testing.T) {
	router := application.NewRouter([]string{"Enough", "quiet"})

	assert.True(t, router.IsInterrupt("enough."))
	assert.True(t, router.IsInterrupt(" Quiet "))
	assert.False(t, router.IsInterrupt("stop"))
}
