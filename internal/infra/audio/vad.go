package audio

import (
	"math"
	"time"
)

type phraseState int

const (
	phraseWaiting phraseState = iota
	phraseRecording
	phraseComplete
	phraseTimedOut
)

// phraseDetector is a small energy-based endpointer: it waits for a frame
// louder than the threshold, records until a pause or the phrase limit, and
// gives up if nobody speaks within the listen timeout.
type phraseDetector struct {
	threshold     float64
	frameDuration time.Duration
	listenTimeout time.Duration
	phraseLimit   time.Duration
	pause         time.Duration

	state   phraseState
	waited  time.Duration
	spoken  time.Duration
	silence time.Duration
	samples []int16
}

func newPhraseDetector(threshold float64, frameDuration, listenTimeout, phraseLimit, pause time.Duration) *phraseDetector {
	return &phraseDetector{
		threshold:     threshold,
		frameDuration: frameDuration,
		listenTimeout: listenTimeout,
		phraseLimit:   phraseLimit,
		pause:         pause,
	}
}

func (d *phraseDetector) Feed(frame []int16) phraseState {
	loud := rms(frame) > d.threshold

	switch d.state {
	case phraseWaiting:
		if loud {
			d.state = phraseRecording
			d.samples = append(d.samples, frame...)
			d.spoken = d.frameDuration
			return d.state
		}
		d.waited += d.frameDuration
		if d.listenTimeout > 0 && d.waited >= d.listenTimeout {
			d.state = phraseTimedOut
		}
	case phraseRecording:
		d.samples = append(d.samples, frame...)
		d.spoken += d.frameDuration
		if loud {
			d.silence = 0
		} else {
			d.silence += d.frameDuration
		}
		if d.silence >= d.pause || d.spoken >= d.phraseLimit {
			d.state = phraseComplete
		}
	}

	return d.state
}

func (d *phraseDetector) Samples() []int16 {
	return d.samples
}

func rms(frame []int16) float64 {
	if len(frame) == 0 {
		return 0
	}
	var sum float64
	for _, s := range frame {
		v := float64(s)
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(frame)))
}

// ambientThreshold turns the measured noise floor into a speech threshold.
func ambientThreshold(noise float64) float64 {
	const (
		minThreshold = 300
		headroom     = 1.8
	)
	return math.Max(minThreshold, noise*headroom)
}
