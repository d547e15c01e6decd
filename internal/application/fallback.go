package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"voice-assistant/internal/domain"
)

type NamedSTT struct {
	Name   string
	Engine SpeechToText
}

type NamedTTS struct {
	Name   string
	Engine TextToSpeech
}

// FallbackSTT tries each engine in order until one returns a non-empty transcript.
type FallbackSTT struct {
	engines []NamedSTT
	logger  *slog.Logger
}

func NewFallbackSTT(logger *slog.Logger, engines ...NamedSTT) *FallbackSTT {
	return &FallbackSTT{engines: engines, logger: logger}
}

func (f *FallbackSTT) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(f.engines) == 0 {
		return "", fmt.Errorf("speech-to-text: %w", ErrNoEngines)
	}

	var errs []error
	for _, e := range f.engines {
		text, err := e.Engine.Transcribe(ctx, audio)
		if err == nil {
			if text = strings.TrimSpace(text); text != "" {
				return text, nil
			}
			err = ErrEmptyTranscript
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		f.logger.Warn("speech-to-text engine failed, falling back", "engine", e.Name, "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", e.Name, err))
	}

	return "", fmt.Errorf("all speech-to-text engines failed: %w", errors.Join(errs...))
}

// FallbackTTS tries each engine in order until one returns audio.
type FallbackTTS struct {
	engines []NamedTTS
	logger  *slog.Logger
}

func NewFallbackTTS(logger *slog.Logger, engines ...NamedTTS) *FallbackTTS {
	return &FallbackTTS{engines: engines, logger: logger}
}

func (f *FallbackTTS) Synthesize(ctx context.Context, text string) (*domain.AudioClip, error) {
	if len(f.engines) == 0 {
		return nil, fmt.Errorf("text-to-speech: %w", ErrNoEngines)
	}

	var errs []error
	for _, e := range f.engines {
		clip, err := e.Engine.Synthesize(ctx, text)
		if err == nil {
			if clip != nil && len(clip.Data) > 0 {
				return clip, nil
			}
			err = errors.New("no audio returned")
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		f.logger.Warn("text-to-speech engine failed, falling back", "engine", e.Name, "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", e.Name, err))
	}

	return nil, fmt.Errorf("all text-to-speech engines failed: %w", errors.Join(errs...))
}
