package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

const speakerQueueSize = 16

type utterance struct {
	text string
	gen  uint64
}

// Speaker serialises spoken output. Utterances queued before an Interrupt are
// dropped; the one currently playing is cancelled.
type Speaker struct {
	tts    TextToSpeech
	player Player
	logger *slog.Logger
	queue  chan utterance

	mu       sync.Mutex
	gen      uint64
	cancel   context.CancelFunc
	speaking bool
	pending  int
	idle     chan struct{}
}

func NewSpeaker(tts TextToSpeech, player Player, logger *slog.Logger) *Speaker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Speaker{
		tts:    tts,
		player: player,
		logger: logger,
		queue:  make(chan utterance, speakerQueueSize),
		idle:   closedChan(),
	}
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

// Run drains the queue until ctx is done.
func (s *Speaker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case u := <-s.queue:
			s.mu.Lock()
			if u.gen != s.gen {
				s.doneLocked()
				s.mu.Unlock()
				continue
			}
			speakCtx, cancel := context.WithCancel(ctx)
			s.cancel = cancel
			s.speaking = true
			s.mu.Unlock()

			err := s.speak(speakCtx, u.text)

			s.mu.Lock()
			s.cancel = nil
			s.speaking = false
			s.doneLocked()
			s.mu.Unlock()
			cancel()

			switch {
			case err == nil:
			case errors.Is(err, context.Canceled):
				s.logger.Info("speech interrupted")
			default:
				s.logger.Error("speaking", "error", err)
			}
		}
	}
}

// Say queues text for playback. It reports false when the queue is full.
func (s *Speaker) Say(text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := utterance{text: text, gen: s.gen}

	select {
	case s.queue <- u:
		if s.pending == 0 {
			s.idle = make(chan struct{})
		}
		s.pending++
		return true
	default:
		s.logger.Warn("speech queue full, dropping utterance", "text", text)
		return false
	}
}

// Wait blocks until every queued utterance has been played or dropped, or
// ctx is done. It needs Run to be draining the queue.
func (s *Speaker) Wait(ctx context.Context) error {
	s.mu.Lock()
	idle := s.idle
	s.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Speaker) doneLocked() {
	if s.pending == 0 {
		return
	}
	s.pending--
	if s.pending == 0 {
		close(s.idle)
	}
}

// SpeakNow synthesises and plays text on the caller's goroutine.
func (s *Speaker) SpeakNow(ctx context.Context, text string) error {
	return s.speak(ctx, text)
}

func (s *Speaker) Interrupt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Speaker) Speaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speaking
}

func (s *Speaker) speak(ctx context.Context, text string) error {
	clip, err := s.tts.Synthesize(ctx, text)
	if err != nil {
		return fmt.Errorf("synthesizing: %w", err)
	}
	if err := s.player.Play(ctx, clip); err != nil {
		return fmt.Errorf("playing: %w", err)
	}
	return nil
}
