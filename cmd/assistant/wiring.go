package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"voice-assistant/config"
	"voice-assistant/internal/application"
	"voice-assistant/internal/infra/anthropic"
	"voice-assistant/internal/infra/audio"
	"voice-assistant/internal/infra/calendar"
	"voice-assistant/internal/infra/dateparse"
	"voice-assistant/internal/infra/edgetts"
	"voice-assistant/internal/infra/gemini"
	"voice-assistant/internal/infra/homeassistant"
	"voice-assistant/internal/infra/notes"
	"voice-assistant/internal/infra/ollama"
	"voice-assistant/internal/infra/openai"
	"voice-assistant/internal/infra/pushover"
)

func buildSTT(cfg *config.Config, logger *slog.Logger) (application.SpeechToText, error) {
	var engines []application.NamedSTT
	for _, name := range cfg.STT.Engines {
		switch name {
		case "gemini":
			if cfg.Gemini.APIKey == "" {
				logger.Warn("skipping stt engine without api key", "engine", name)
				continue
			}
			client := gemini.NewClient(cfg.Gemini.APIKey)
			engines = append(engines, application.NamedSTT{Name: name, Engine: gemini.NewTranscriber(client, cfg.Gemini.STTModel)})
		case "whisper":
			if cfg.OpenAI.APIKey == "" {
				logger.Warn("skipping stt engine without api key", "engine", name)
				continue
			}
			whisper := openai.NewWhisperClientWithURL(cfg.OpenAI.APIKey, cfg.OpenAI.STTModel, cfg.OpenAI.Language, cfg.OpenAI.BaseURL)
			engines = append(engines, application.NamedSTT{Name: name, Engine: whisper})
		default:
			return nil, fmt.Errorf("unknown stt engine %q", name)
		}
	}
	if len(engines) == 0 {
		return nil, fmt.Errorf("stt: %w", application.ErrNoEngines)
	}
	return application.NewFallbackSTT(logger, engines...), nil
}

func buildTTS(cfg *config.Config, logger *slog.Logger) (application.TextToSpeech, error) {
	var engines []application.NamedTTS
	for _, name := range cfg.TTS.Engines {
		switch name {
		case "gemini":
			if cfg.Gemini.APIKey == "" {
				logger.Warn("skipping tts engine without api key", "engine", name)
				continue
			}
			client := gemini.NewClient(cfg.Gemini.APIKey)
			engines = append(engines, application.NamedTTS{Name: name, Engine: gemini.NewSynthesizer(client, cfg.Gemini.TTSModel, cfg.Gemini.Voice)})
		case "edge":
			engines = append(engines, application.NamedTTS{Name: name, Engine: edgetts.NewSynthesizer(edgetts.Options{
				Voice:  cfg.EdgeTTS.Voice,
				Rate:   cfg.EdgeTTS.Rate,
				Volume: cfg.EdgeTTS.Volume,
				Pitch:  cfg.EdgeTTS.Pitch,
			})})
		default:
			return nil, fmt.Errorf("unknown tts engine %q", name)
		}
	}
	if len(engines) == 0 {
		return nil, fmt.Errorf("tts: %w", application.ErrNoEngines)
	}
	return application.NewFallbackTTS(logger, engines...), nil
}

func buildChatModel(ctx context.Context, cfg *config.Config) (application.ChatModel, error) {
	switch cfg.Assistant.ChatProvider {
	case "gemini":
		return gemini.NewChatModel(gemini.NewClient(cfg.Gemini.APIKey), cfg.Gemini.ChatModel, cfg.Gemini.Temp), nil
	case "openai":
		return openai.NewChatModel(ctx, cfg.OpenAI.APIKey, cfg.OpenAI.ChatModel, cfg.OpenAI.BaseURL)
	case "anthropic":
		return anthropic.NewClaudeClient(cfg.Anthropic.APIKey, cfg.Anthropic.Model), nil
	case "ollama":
		return ollama.NewChatModel(ctx, cfg.Ollama.BaseURL, cfg.Ollama.Model)
	default:
		return nil, fmt.Errorf("unknown chat provider %q", cfg.Assistant.ChatProvider)
	}
}

func buildPlayer(cfg *config.Config) application.Player {
	switch cfg.TTS.Output {
	case "file":
		return audio.NewFilePlayer(cfg.TTS.OutputFile)
	case "none":
		return audio.DiscardPlayer{}
	default:
		return audio.NewSpeakerPlayer()
	}
}

func buildSource(cfg *config.Config, name string, in io.Reader, out io.Writer, logger *slog.Logger) (application.AudioSource, error) {
	switch name {
	case "http":
		return audio.NewHTTPSource(cfg.Audio.HTTPAddr, cfg.Audio.AuthToken, logger), nil
	case "file":
		return audio.NewFileSource(cfg.Audio.FileDir, logger), nil
	case "console":
		return audio.NewConsoleSource(in, out, "you> "), nil
	case "microphone":
		return audio.NewMicrophoneSource(audio.MicrophoneOptions{
			SampleRate:    cfg.Audio.SampleRate,
			Calibration:   cfg.Audio.Calibration,
			ListenTimeout: cfg.Audio.ListenTimeout,
			PhraseLimit:   cfg.Audio.PhraseLimit,
			Pause:         cfg.Audio.Pause,
		}, logger), nil
	default:
		return nil, fmt.Errorf("unknown audio source %q", name)
	}
}

// buildNotifier fans replies out to the source itself when it can display
// them, and to Pushover and Home Assistant when enabled.
func buildNotifier(ctx context.Context, cfg *config.Config, source application.AudioSource, logger *slog.Logger) application.MultiNotifier {
	var notifiers application.MultiNotifier
	if n, ok := source.(application.Notifier); ok {
		notifiers = append(notifiers, n)
	}
	if cfg.Pushover.Enabled {
		notifiers = append(notifiers, pushover.NewClient(cfg.Pushover.Token, cfg.Pushover.UserKey, "", pushover.WithPriority(cfg.Pushover.Priority)))
	}
	if cfg.HomeAssistant.Enabled {
		hass := homeassistant.NewClient(cfg.HomeAssistant.URL, cfg.HomeAssistant.Token, cfg.HomeAssistant.Service, "")
		checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := hass.Check(checkCtx); err != nil {
			logger.Warn("home assistant not reachable, notifications may fail", "error", err)
		}
		cancel()
		notifiers = append(notifiers, hass)
	}
	return notifiers
}

func buildAssistant(ctx context.Context, cfg *config.Config, source application.AudioSource, player application.Player, logger *slog.Logger) (*application.Assistant, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	stt, err := buildSTT(cfg, logger)
	if err != nil && !errors.Is(err, application.ErrNoEngines) {
		return nil, err
	}
	if stt == nil {
		logger.Info("no speech recognition engine available, only text commands will work")
	}

	tts, err := buildTTS(cfg, logger)
	if err != nil {
		return nil, err
	}

	chat, err := buildChatModel(ctx, cfg)
	if err != nil {
		return nil, err
	}

	notifier := buildNotifier(ctx, cfg, source, logger)
	speaker := application.NewSpeaker(tts, player, logger)

	deps := application.Dependencies{
		Audio:        source,
		Router:       application.NewRouter(cfg.Assistant.InterruptWords),
		Conversation: application.NewConversation(chat, cfg.Assistant.SystemPrompt, cfg.Assistant.MaxHistory),
		Notes:        notes.NewJSONStore(cfg.Notes.File, logger),
		Calendar:     calendar.NewWriter(cfg.Calendar.Dir, cfg.Calendar.EventDuration, logger),
		Dates:        dateparse.NewParser(),
		Reminders:    application.NewScheduler(speaker, notifier, logger),
		Speaker:      speaker,
		Notifier:     notifier,
		WakeWord:     cfg.Assistant.WakeWord,
		Logger:       logger,
	}
	if stt != nil {
		deps.STT = stt
	}

	return application.NewAssistant(deps), nil
}
