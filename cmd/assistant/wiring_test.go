package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-assistant/config"
	"voice-assistant/internal/application"
	"voice-assistant/internal/infra/audio"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg, err := config.Load(filepath.Join(dir, "none.yaml"), filepath.Join(dir, "none.env"))
	require.NoError(t, err)
	cfg.Gemini.APIKey = ""
	cfg.OpenAI.APIKey = ""
	cfg.Notes.File = filepath.Join(dir, "notes.json")
	cfg.Calendar.Dir = filepath.Join(dir, "calendar")
	return cfg
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildSource(t *testing.T) {
	cfg := testConfig(t)

	tests := map[string]any{
		"http":       &audio.HTTPSource{},
		"file":       &audio.FileSource{},
		"console":    &audio.ConsoleSource{},
		"microphone": &audio.MicrophoneSource{},
	}
	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			src, err := buildSource(cfg, name, strings.NewReader(""), io.Discard, quietLogger())
			require.NoError(t, err)
			assert.IsType(t, want, src)
			assert.Equal(t, name, src.Name())
		})
	}

	_, err := buildSource(cfg, "bluetooth", nil, nil, quietLogger())
	assert.Error(t, err)
}

func TestBuildSTT_SkipsEnginesWithoutKeys(t *testing.T) {
	cfg := testConfig(t)

	_, err := buildSTT(cfg, quietLogger())
	assert.ErrorIs(t, err, application.ErrNoEngines)

	cfg.OpenAI.APIKey = "sk-test"
	stt, err := buildSTT(cfg, quietLogger())
	require.NoError(t, err)
	assert.NotNil(t, stt)
}

func TestBuildTTS_EdgeNeedsNoKey(t *testing.T) {
	cfg := testConfig(t)

	tts, err := buildTTS(cfg, quietLogger())
	require.NoError(t, err)
	assert.NotNil(t, tts)

	cfg.TTS.Engines = []string{"gemini"}
	_, err = buildTTS(cfg, quietLogger())
	assert.ErrorIs(t, err, application.ErrNoEngines)
}

func TestBuildChatModel(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	for _, provider := range []string{"gemini", "openai", "anthropic", "ollama"} {
		cfg.Assistant.ChatProvider = provider
		cfg.OpenAI.APIKey = "sk-test"
		model, err := buildChatModel(ctx, cfg)
		require.NoError(t, err, provider)
		assert.NotNil(t, model, provider)
	}

	cfg.Assistant.ChatProvider = "eliza"
	_, err := buildChatModel(ctx, cfg)
	assert.Error(t, err)
}

func TestBuildPlayer(t *testing.T) {
	cfg := testConfig(t)

	cfg.TTS.Output = "file"
	assert.IsType(t, &audio.FilePlayer{}, buildPlayer(cfg))

	cfg.TTS.Output = "none"
	assert.IsType(t, audio.DiscardPlayer{}, buildPlayer(cfg))

	cfg.TTS.Output = "speaker"
	assert.IsType(t, &audio.SpeakerPlayer{}, buildPlayer(cfg))
}

func TestBuildNotifier_IncludesDisplayingSources(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer
	console := audio.NewConsoleSource(strings.NewReader(""), &out, "")

	notifiers := buildNotifier(context.Background(), cfg, console, quietLogger())
	require.Len(t, notifiers, 1)

	require.NoError(t, notifiers.Notify(context.Background(), "Note saved."))
	assert.Contains(t, out.String(), "Note saved.")

	cfg.Pushover.Enabled = true
	cfg.Pushover.Token, cfg.Pushover.UserKey = "t", "u"
	assert.Len(t, buildNotifier(context.Background(), cfg, &audio.FileSource{}, quietLogger()), 1)
}

func TestBuildAssistant_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)

	_, err := buildAssistant(context.Background(), cfg, audio.NewConsoleSource(nil, nil, ""), audio.DiscardPlayer{}, quietLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_API_KEY")
}

func TestNewLogger_WritesRotatedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs", "assistant.log")

	var console bytes.Buffer
	l, closer, err := newLogger(config.LogConfig{Level: "debug", Format: "json", File: path}, &console)
	require.NoError(t, err)
	require.NotNil(t, closer)

	l.Debug("hello", "k", "v")
	require.NoError(t, closer.Close())

	assert.Contains(t, console.String(), `"msg":"hello"`)

	matches, err := filepath.Glob(path + ".*")
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"k":"v"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}
