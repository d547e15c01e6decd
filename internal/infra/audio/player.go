package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"voice-assistant/internal/domain"
)

const DefaultOutputFile = "tts_output.wav"

// FilePlayer writes every clip it is asked to play to a WAV file, replacing
// the previous one.
type FilePlayer struct {
	path string
}

func NewFilePlayer(path string) *FilePlayer {
	if path == "" {
		path = DefaultOutputFile
	}
	return &FilePlayer{path: path}
}

func (p *FilePlayer) Path() string {
	return p.path
}

func (p *FilePlayer) Play(ctx context.Context, clip *domain.AudioClip) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	samples, rate, err := DecodeClip(clip)
	if err != nil {
		return err
	}
	data, err := EncodeWAV(samples, rate)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(p.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}

	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, p.path); err != nil {
		return fmt.Errorf("replacing %s: %w", p.path, err)
	}
	return nil
}

type DiscardPlayer struct{}

func (DiscardPlayer) Play(ctx context.Context, _ *domain.AudioClip) error {
	return ctx.Err()
}
