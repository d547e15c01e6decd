//go:build portaudio

package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
)

const framesPerBuffer = 1024

// MicrophoneSource records one phrase per NextCommand from the default input
// device and returns it as a WAV file.
type MicrophoneSource struct {
	opts   MicrophoneOptions
	logger *slog.Logger

	mu        sync.Mutex
	stream    *portaudio.Stream
	frame     []int16
	threshold float64
}

func NewMicrophoneSource(opts MicrophoneOptions, logger *slog.Logger) *MicrophoneSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &MicrophoneSource{
		opts:   opts.withDefaults(),
		logger: logger,
	}
}

func (m *MicrophoneSource) Name() string {
	return "microphone"
}

func (m *MicrophoneSource) Start(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initializing portaudio: %w", err)
	}

	m.frame = make([]int16, framesPerBuffer)
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(m.opts.SampleRate), framesPerBuffer, m.frame)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("opening stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("starting stream: %w", err)
	}
	m.stream = stream

	m.threshold = m.calibrate()
	m.logger.Info("microphone started", "sampleRate", m.opts.SampleRate, "threshold", int(m.threshold))
	return nil
}

// calibrate samples the room for a moment and sets the speech threshold
// above the noise floor.
func (m *MicrophoneSource) calibrate() float64 {
	frames := int(m.opts.Calibration / m.frameDuration())
	if frames < 1 {
		frames = 1
	}

	var total float64
	read := 0
	for i := 0; i < frames; i++ {
		if err := m.stream.Read(); err != nil {
			m.logger.Warn("calibration read failed", "error", err)
			break
		}
		total += rms(m.frame)
		read++
	}
	if read == 0 {
		return ambientThreshold(0)
	}
	return ambientThreshold(total / float64(read))
}

func (m *MicrophoneSource) frameDuration() time.Duration {
	return time.Duration(framesPerBuffer) * time.Second / time.Duration(m.opts.SampleRate)
}

func (m *MicrophoneSource) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stream == nil {
		return nil
	}
	var errs []error
	if err := m.stream.Stop(); err != nil {
		errs = append(errs, err)
	}
	if err := m.stream.Close(); err != nil {
		errs = append(errs, err)
	}
	m.stream = nil
	if err := portaudio.Terminate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// NextCommand blocks until a phrase has been recorded. A listen timeout with
// nobody speaking starts a new wait rather than returning an error.
func (m *MicrophoneSource) NextCommand(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stream == nil {
		return nil, errors.New("microphone not started")
	}

	for {
		det := newPhraseDetector(m.threshold, m.frameDuration(), m.opts.ListenTimeout, m.opts.PhraseLimit, m.opts.Pause)
		m.logger.Debug("listening")

		for {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := m.stream.Read(); err != nil && !errors.Is(err, portaudio.InputOverflowed) {
				return nil, fmt.Errorf("reading from stream: %w", err)
			}

			state := det.Feed(m.frame)
			if state == phraseComplete {
				return EncodeWAV(det.Samples(), m.opts.SampleRate)
			}
			if state == phraseTimedOut {
				m.logger.Debug("listen timeout, no speech")
				break
			}
		}
	}
}
