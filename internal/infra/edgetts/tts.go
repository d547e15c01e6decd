// Package edgetts synthesises speech with the Microsoft Edge read-aloud
// service. It needs no API key, which makes it the last resort in the TTS
// chain.
package edgetts

import (
	"context"
	"fmt"
	"os"

	"github.com/difyz9/edge-tts-go/pkg/communicate"

	"voice-assistant/internal/domain"
)

const DefaultVoice = "en-US-AriaNeural"

type Options struct {
	Voice          string
	Rate           string
	Volume         string
	Pitch          string
	ConnectTimeout int // seconds
	ReceiveTimeout int // seconds
}

type Synthesizer struct {
	opts   Options
	tmpDir string
}

func NewSynthesizer(opts Options) *Synthesizer {
	if opts.Voice == "" {
		opts.Voice = DefaultVoice
	}
	if opts.Rate == "" {
		opts.Rate = "+0%"
	}
	if opts.Volume == "" {
		opts.Volume = "+0%"
	}
	if opts.Pitch == "" {
		opts.Pitch = "+0Hz"
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 10
	}
	if opts.ReceiveTimeout == 0 {
		opts.ReceiveTimeout = 60
	}
	return &Synthesizer{opts: opts, tmpDir: os.TempDir()}
}

// Synthesize returns MP3 audio.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) (*domain.AudioClip, error) {
	tmp, err := os.CreateTemp(s.tmpDir, "edge-tts-*.mp3")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	path := tmp.Name()
	tmp.Close()
	defer os.Remove(path)

	comm, err := communicate.NewCommunicate(
		text,
		s.opts.Voice,
		s.opts.Rate,
		s.opts.Volume,
		s.opts.Pitch,
		"", // proxy
		s.opts.ConnectTimeout,
		s.opts.ReceiveTimeout,
	)
	if err != nil {
		return nil, fmt.Errorf("creating edge tts session: %w", err)
	}

	if err := comm.Save(ctx, path, ""); err != nil {
		return nil, fmt.Errorf("edge tts: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading edge tts output: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("edge tts returned no audio")
	}

	return &domain.AudioClip{Data: data, Encoding: domain.EncodingMP3}, nil
}
