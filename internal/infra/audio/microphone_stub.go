//go:build !portaudio

package audio

import (
	"context"
	"errors"
	"log/slog"

	"voice-assistant/internal/domain"
)

var errNoPortAudio = errors.New("audio device support not built: rebuild with -tags portaudio")

type MicrophoneSource struct {
	opts   MicrophoneOptions
	logger *slog.Logger
}

func NewMicrophoneSource(opts MicrophoneOptions, logger *slog.Logger) *MicrophoneSource {
	return &MicrophoneSource{opts: opts.withDefaults(), logger: logger}
}

func (m *MicrophoneSource) Name() string {
	return "microphone"
}

func (m *MicrophoneSource) Start(_ context.Context) error {
	return errNoPortAudio
}

func (m *MicrophoneSource) Stop() error {
	return nil
}

func (m *MicrophoneSource) NextCommand(_ context.Context) ([]byte, error) {
	return nil, errNoPortAudio
}

type SpeakerPlayer struct{}

func NewSpeakerPlayer() *SpeakerPlayer {
	return &SpeakerPlayer{}
}

func (p *SpeakerPlayer) Play(_ context.Context, _ *domain.AudioClip) error {
	return errNoPortAudio
}
