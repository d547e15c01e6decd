package application

import (
	"context"
	"errors"
	"fmt"

	"voice-assistant/internal/domain"
)

var (
	ErrNoEngines       = errors.New("no engines configured")
	ErrEmptyTranscript = errors.New("empty transcript")
)

type SpeechToText interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

type TextToSpeech interface {
	Synthesize(ctx context.Context, text string) (*domain.AudioClip, error)
}

// NoopSTT is a no-op speech-to-text client for text-only sources (console, /text).
// It returns an error if called with actual audio data.
type NoopSTT struct{}

func (n *NoopSTT) Transcribe(_ context.Context, _ []byte) (string, error) {
	return "", fmt.Errorf("speech-to-text not configured: set stt.engines to enable audio transcription")
}
