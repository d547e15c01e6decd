package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Assistant     AssistantConfig     `yaml:"assistant"`
	Audio         AudioConfig         `yaml:"audio"`
	STT           STTConfig           `yaml:"stt"`
	TTS           TTSConfig           `yaml:"tts"`
	Gemini        GeminiConfig        `yaml:"gemini"`
	OpenAI        OpenAIConfig        `yaml:"openai"`
	Anthropic     AnthropicConfig     `yaml:"anthropic"`
	Ollama        OllamaConfig        `yaml:"ollama"`
	EdgeTTS       EdgeTTSConfig       `yaml:"edge_tts"`
	Notes         NotesConfig         `yaml:"notes"`
	Calendar      CalendarConfig      `yaml:"calendar"`
	Pushover      PushoverConfig      `yaml:"pushover"`
	HomeAssistant HomeAssistantConfig `yaml:"home_assistant"`
	Log           LogConfig           `yaml:"log"`
}

type AssistantConfig struct {
	SystemPrompt   string   `yaml:"system_prompt"`
	ChatProvider   string   `yaml:"chat_provider" env:"ASSISTANT_CHAT_PROVIDER"`
	MaxHistory     int      `yaml:"max_history"`
	InterruptWords []string `yaml:"interrupt_words"`
	WakeWord       string   `yaml:"wake_word" env:"ASSISTANT_WAKE_WORD"`
}

type AudioConfig struct {
	Source        string        `yaml:"source" env:"AUDIO_SOURCE"`
	HTTPAddr      string        `yaml:"http_addr" env:"AUDIO_HTTP_ADDR"`
	FileDir       string        `yaml:"file_dir"`
	SampleRate    int           `yaml:"sample_rate"`
	AuthToken     string        `yaml:"auth_token" env:"AUDIO_AUTH_TOKEN"`
	Calibration   time.Duration `yaml:"calibration"`
	ListenTimeout time.Duration `yaml:"listen_timeout"`
	PhraseLimit   time.Duration `yaml:"phrase_limit"`
	Pause         time.Duration `yaml:"pause"`
}

type STTConfig struct {
	Engines []string `yaml:"engines"`
}

type TTSConfig struct {
	Engines    []string `yaml:"engines"`
	Output     string   `yaml:"output"`
	OutputFile string   `yaml:"output_file"`
}

type GeminiConfig struct {
	APIKey    string  `yaml:"api_key" env:"GOOGLE_API_KEY"`
	ChatModel string  `yaml:"chat_model"`
	STTModel  string  `yaml:"stt_model"`
	TTSModel  string  `yaml:"tts_model"`
	Voice     string  `yaml:"voice"`
	Temp      float64 `yaml:"temperature"`
}

type OpenAIConfig struct {
	APIKey    string `yaml:"api_key" env:"OPENAI_API_KEY"`
	BaseURL   string `yaml:"base_url"`
	ChatModel string `yaml:"chat_model"`
	STTModel  string `yaml:"stt_model"`
	Language  string `yaml:"language"`
}

type AnthropicConfig struct {
	APIKey string `yaml:"api_key" env:"ANTHROPIC_API_KEY"`
	Model  string `yaml:"model"`
}

type OllamaConfig struct {
	BaseURL string `yaml:"base_url" env:"OLLAMA_BASE_URL"`
	Model   string `yaml:"model"`
}

type EdgeTTSConfig struct {
	Voice  string `yaml:"voice"`
	Rate   string `yaml:"rate"`
	Volume string `yaml:"volume"`
	Pitch  string `yaml:"pitch"`
}

type NotesConfig struct {
	File string `yaml:"file"`
}

type CalendarConfig struct {
	Dir           string        `yaml:"dir"`
	EventDuration time.Duration `yaml:"event_duration"`
}

type PushoverConfig struct {
	Token    string `yaml:"token" env:"PUSHOVER_TOKEN"`
	UserKey  string `yaml:"user_key" env:"PUSHOVER_USER_KEY"`
	Priority int    `yaml:"priority"`
	Enabled  bool   `yaml:"enabled"`
}

type HomeAssistantConfig struct {
	URL     string `yaml:"url" env:"HASS_URL"`
	Token   string `yaml:"token" env:"HASS_TOKEN"`
	Service string `yaml:"service"`
	Enabled bool   `yaml:"enabled"`
}

type LogConfig struct {
	Level        string        `yaml:"level" env:"LOG_LEVEL"`
	Format       string        `yaml:"format"`
	File         string        `yaml:"file"`
	MaxAge       time.Duration `yaml:"max_age"`
	RotationTime time.Duration `yaml:"rotation_time"`
}

var (
	sttEngines    = []string{"gemini", "whisper"}
	ttsEngines    = []string{"gemini", "edge"}
	chatProviders = []string{"gemini", "openai", "anthropic", "ollama"}
	audioSources  = []string{"http", "file", "microphone", "console"}
	outputs       = []string{"speaker", "file", "none"}
)

// Load builds the configuration from, in increasing priority: defaults, the
// YAML file at path (optional), .env files and the process environment.
// Missing .env files are ignored.
func Load(path string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config file: %w", err)
		default:
			expanded := os.ExpandEnv(string(data))
			if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
				return nil, fmt.Errorf("parsing config: %w", err)
			}
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.setDefaults()

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Assistant.ChatProvider == "" {
		c.Assistant.ChatProvider = "gemini"
	}
	if c.Assistant.MaxHistory == 0 {
		c.Assistant.MaxHistory = 40
	}
	if len(c.Assistant.InterruptWords) == 0 {
		c.Assistant.InterruptWords = []string{"stop", "cancel"}
	}
	if c.Audio.Source == "" {
		c.Audio.Source = "microphone"
	}
	if c.Audio.HTTPAddr == "" {
		c.Audio.HTTPAddr = ":8080"
	}
	if c.Audio.FileDir == "" {
		c.Audio.FileDir = "./audio"
	}
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = 16000
	}
	if c.Audio.ListenTimeout == 0 {
		c.Audio.ListenTimeout = 5 * time.Second
	}
	if c.Audio.PhraseLimit == 0 {
		c.Audio.PhraseLimit = 10 * time.Second
	}
	if len(c.STT.Engines) == 0 {
		c.STT.Engines = []string{"gemini", "whisper"}
	}
	if len(c.TTS.Engines) == 0 {
		c.TTS.Engines = []string{"gemini", "edge"}
	}
	if c.TTS.Output == "" {
		c.TTS.Output = "speaker"
	}
	if c.TTS.OutputFile == "" {
		c.TTS.OutputFile = "tts_output.wav"
	}
	if c.Gemini.Temp == 0 {
		c.Gemini.Temp = 0.2
	}
	if c.Anthropic.Model == "" {
		c.Anthropic.Model = "claude-sonnet-4-20250514"
	}
	if c.Notes.File == "" {
		c.Notes.File = "assistant_notes.json"
	}
	if c.Calendar.Dir == "" {
		c.Calendar.Dir = "calendar"
	}
	if c.Calendar.EventDuration == 0 {
		c.Calendar.EventDuration = 30 * time.Minute
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Log.MaxAge == 0 {
		c.Log.MaxAge = 7 * 24 * time.Hour
	}
	if c.Log.RotationTime == 0 {
		c.Log.RotationTime = 24 * time.Hour
	}
}

// Validate checks that every selected engine is known and has the
// credentials it needs.
func (c *Config) Validate() error {
	var errs []error

	check := func(kind, value string, allowed []string) {
		if !slices.Contains(allowed, value) {
			errs = append(errs, fmt.Errorf("unknown %s %q (want one of %s)", kind, value, strings.Join(allowed, ", ")))
		}
	}

	check("audio source", c.Audio.Source, audioSources)
	check("chat provider", c.Assistant.ChatProvider, chatProviders)
	check("tts output", c.TTS.Output, outputs)
	for _, e := range c.STT.Engines {
		check("stt engine", e, sttEngines)
	}
	for _, e := range c.TTS.Engines {
		check("tts engine", e, ttsEngines)
	}

	if c.needsGemini() && c.Gemini.APIKey == "" {
		errs = append(errs, errors.New("GOOGLE_API_KEY is required when a Gemini engine is selected"))
	}
	onlyWhisper := len(c.STT.Engines) == 1 && c.STT.Engines[0] == "whisper"
	if (c.Assistant.ChatProvider == "openai" || onlyWhisper) && c.OpenAI.APIKey == "" {
		errs = append(errs, errors.New("OPENAI_API_KEY is required for the openai chat provider or a whisper-only STT chain"))
	}
	if c.Assistant.ChatProvider == "anthropic" && c.Anthropic.APIKey == "" {
		errs = append(errs, errors.New("ANTHROPIC_API_KEY is required for the anthropic chat provider"))
	}
	if c.Pushover.Enabled && (c.Pushover.Token == "" || c.Pushover.UserKey == "") {
		errs = append(errs, errors.New("PUSHOVER_TOKEN and PUSHOVER_USER_KEY are required when pushover is enabled"))
	}
	if c.HomeAssistant.Enabled && (c.HomeAssistant.URL == "" || c.HomeAssistant.Token == "") {
		errs = append(errs, errors.New("HASS_URL and HASS_TOKEN are required when home assistant is enabled"))
	}

	return errors.Join(errs...)
}

func (c *Config) needsGemini() bool {
	return c.Assistant.ChatProvider == "gemini" ||
		slices.Contains(c.STT.Engines, "gemini") ||
		slices.Contains(c.TTS.Engines, "gemini")
}
