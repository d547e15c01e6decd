package application_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-assistant/internal/application"
	"voice-assistant/internal/infra/audio"
	"voice-assistant/internal/infra/calendar"
	"voice-assistant/internal/infra/dateparse"
	"voice-assistant/internal/infra/notes"
)

func TestIntegration_CommandsOverHTTP(t *testing.T) {
	logger := discardLogger()
	dir := t.TempDir()

	source := audio.NewHTTPSource("127.0.0.1:0", "", logger)
	noteStore := notes.NewJSONStore(filepath.Join(dir, "assistant_notes.json"), logger)
	cal := calendar.NewWriter(filepath.Join(dir, "calendar"), 30*time.Minute, logger)
	recorder := &recordingNotifier{}
	notifier := application.MultiNotifier{source, recorder}
	tts := &fakeTTS{}
	speaker := application.NewSpeaker(tts, audio.DiscardPlayer{}, logger)

	assistant := application.NewAssistant(application.Dependencies{
		Audio:        source,
		STT:          &mockSTT{transcriptions: map[string]string{"RIFF-keys": "note the keys are under the mat"}},
		Router:       application.NewRouter(nil),
		Conversation: application.NewConversation(&mockChat{replies: []string{"Doing well, thanks."}}, "", 10),
		Notes:        noteStore,
		Calendar:     cal,
		Dates:        dateparse.NewParser(),
		Reminders:    application.NewScheduler(speaker, notifier, logger),
		Speaker:      speaker,
		Notifier:     notifier,
		Logger:       logger,
	})

	post := func(path, body string) {
		rec := httptest.NewRecorder()
		source.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
		require.Equal(t, http.StatusAccepted, rec.Code, "%s %q", path, body)
	}

	post("/text", "take a note buy milk")
	post("/audio", "RIFF-keys")
	post("/text", "schedule dentist tomorrow at 3pm")
	post("/text", "remind me in 2 minutes to stretch")
	post("/text", "how are you")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- assistant.Run(ctx) }()

	require.Eventually(t, func() bool { return len(recorder.Messages()) == 5 }, 3*time.Second, 10*time.Millisecond)
	require.NoError(t, source.Stop())
	require.NoError(t, <-done)

	msgs := recorder.Messages()
	assert.Equal(t, "Note saved.", msgs[0])
	assert.Equal(t, "Note saved.", msgs[1])
	assert.True(t, strings.HasPrefix(msgs[2], "Event saved to "), msgs[2])
	assert.Equal(t, "Okay, I will remind you in 2 minutes.", msgs[3])
	assert.Equal(t, "Doing well, thanks.", msgs[4])

	saved, err := noteStore.List(context.Background())
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, "take a note buy milk", saved[0].Text)
	assert.Equal(t, "note the keys are under the mat", saved[1].Text)

	events, err := cal.ListEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "schedule dentist tomorrow at 3pm", events[0].Summary)
	assert.Equal(t, 15, events[0].Start.Local().Hour())
	assert.Equal(t, 30*time.Minute, events[0].End.Sub(events[0].Start))
	assert.Equal(t, strings.TrimPrefix(msgs[2], "Event saved to "), events[0].Path)
}

func TestIntegration_TextCommandSkipsSTT(t *testing.T) {
	logger := discardLogger()
	source := audio.NewHTTPSource("127.0.0.1:0", "", logger)
	stt := &countingSTT{}
	recorder := &recordingNotifier{}

	assistant := application.NewAssistant(application.Dependencies{
		Audio:        source,
		STT:          stt,
		Conversation: application.NewConversation(&mockChat{replies: []string{"Hi!"}}, "", 0),
		Notifier:     recorder,
		Logger:       logger,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- assistant.Run(ctx) }()

	rec := httptest.NewRecorder()
	source.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/text", strings.NewReader("hello")))
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Eventually(t, func() bool { return len(recorder.Messages()) == 1 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, source.Stop())
	require.NoError(t, <-done)

	assert.Zero(t, stt.calls)
	assert.Equal(t, []string{"Hi!"}, recorder.Messages())
}

type countingSTT struct {
	calls int
}

func (c *countingSTT) Transcribe(_ context.Context, audio []byte) (string, error) {
	c.calls++
	return string(bytes.TrimSpace(audio)), nil
}
