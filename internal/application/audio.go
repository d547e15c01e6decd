package application

import (
	"context"
	"errors"

	"voice-assistant/internal/domain"
)

// ErrSourceClosed is returned by an AudioSource that will not produce any
// more commands.
var ErrSourceClosed = errors.New("audio source closed")

type AudioSource interface {
	Start(ctx context.Context) error
	Stop() error
	NextCommand(ctx context.Context) ([]byte, error)
	Name() string
}

// Player renders a clip. Play must return promptly once ctx is cancelled.
type Player interface {
	Play(ctx context.Context, clip *domain.AudioClip) error
}

type AudioFormat struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

func DefaultAudioFormat() AudioFormat {
	return AudioFormat{
		SampleRate: 16000,
		Channels:   1,
		BitDepth:   16,
	}
}
