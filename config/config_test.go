package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(filepath.Join(dir, "missing.yaml"), filepath.Join(dir, "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.Assistant.ChatProvider)
	assert.Equal(t, 40, cfg.Assistant.MaxHistory)
	assert.Equal(t, []string{"stop", "cancel"}, cfg.Assistant.InterruptWords)
	assert.Equal(t, []string{"gemini", "whisper"}, cfg.STT.Engines)
	assert.Equal(t, []string{"gemini", "edge"}, cfg.TTS.Engines)
	assert.Equal(t, "assistant_notes.json", cfg.Notes.File)
	assert.Equal(t, "calendar", cfg.Calendar.Dir)
	assert.Equal(t, 30*time.Minute, cfg.Calendar.EventDuration)
	assert.Equal(t, 5*time.Second, cfg.Audio.ListenTimeout)
	assert.Equal(t, 10*time.Second, cfg.Audio.PhraseLimit)
	assert.Equal(t, "tts_output.wav", cfg.TTS.OutputFile)
}

func TestLoad_YAMLWithExpansion(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TEST_NOTES_PATH", "/tmp/notes.json")

	path := writeFile(t, dir, "config.yaml", `
assistant:
  chat_provider: anthropic
  wake_word: jarvis
  interrupt_words: [halt]
audio:
  source: http
  listen_timeout: 3s
notes:
  file: ${TEST_NOTES_PATH}
calendar:
  event_duration: 1h
`)

	cfg, err := Load(path, filepath.Join(dir, "none.env"))
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.Assistant.ChatProvider)
	assert.Equal(t, "jarvis", cfg.Assistant.WakeWord)
	assert.Equal(t, []string{"halt"}, cfg.Assistant.InterruptWords)
	assert.Equal(t, "http", cfg.Audio.Source)
	assert.Equal(t, 3*time.Second, cfg.Audio.ListenTimeout)
	assert.Equal(t, "/tmp/notes.json", cfg.Notes.File)
	assert.Equal(t, time.Hour, cfg.Calendar.EventDuration)
}

func TestLoad_DotEnvAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", "GOOGLE_API_KEY=from-dotenv\nPUSHOVER_TOKEN=tok\n")
	path := writeFile(t, dir, "config.yaml", "gemini:\n  api_key: from-yaml\nlog:\n  level: debug\n")

	// Process environment wins over .env and over the file.
	t.Setenv("LOG_LEVEL", "warn")
	for _, key := range []string{"GOOGLE_API_KEY", "PUSHOVER_TOKEN"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load(path, envPath)
	require.NoError(t, err)

	assert.Equal(t, "from-dotenv", cfg.Gemini.APIKey)
	assert.Equal(t, "tok", cfg.Pushover.Token)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "audio: [unterminated")

	_, err := Load(path, filepath.Join(dir, "none.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		cfg.setDefaults()
		cfg.Gemini.APIKey = "g"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults with gemini key", func(*Config) {}, ""},
		{"missing gemini key", func(c *Config) { c.Gemini.APIKey = "" }, "GOOGLE_API_KEY"},
		{"unknown tts engine", func(c *Config) { c.TTS.Engines = []string{"pyttsx3"} }, `unknown tts engine "pyttsx3"`},
		{"unknown source", func(c *Config) { c.Audio.Source = "bluetooth" }, "unknown audio source"},
		{"anthropic without key", func(c *Config) { c.Assistant.ChatProvider = "anthropic" }, "ANTHROPIC_API_KEY"},
		{"openai without key", func(c *Config) { c.Assistant.ChatProvider = "openai" }, "OPENAI_API_KEY"},
		{"whisper only without key", func(c *Config) { c.STT.Engines = []string{"whisper"} }, "OPENAI_API_KEY"},
		{"pushover without credentials", func(c *Config) { c.Pushover.Enabled = true }, "PUSHOVER_TOKEN"},
		{"home assistant without token", func(c *Config) {
			c.HomeAssistant.Enabled = true
			c.HomeAssistant.URL = "http://hass.local:8123"
		}, "HASS_TOKEN"},
		{
			"no gemini anywhere",
			func(c *Config) {
				c.Gemini.APIKey = ""
				c.Assistant.ChatProvider = "anthropic"
				c.Anthropic.APIKey = "a"
				c.STT.Engines = []string{"whisper"}
				c.OpenAI.APIKey = "o"
				c.TTS.Engines = []string{"edge"}
			},
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
