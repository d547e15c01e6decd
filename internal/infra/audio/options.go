package audio

import "time"

type MicrophoneOptions struct {
	SampleRate    int
	Calibration   time.Duration
	ListenTimeout time.Duration
	PhraseLimit   time.Duration
	Pause         time.Duration
}

func (o MicrophoneOptions) withDefaults() MicrophoneOptions {
	if o.SampleRate == 0 {
		o.SampleRate = 16000
	}
	if o.Calibration == 0 {
		o.Calibration = time.Second
	}
	if o.ListenTimeout == 0 {
		o.ListenTimeout = 5 * time.Second
	}
	if o.PhraseLimit == 0 {
		o.PhraseLimit = 10 * time.Second
	}
	if o.Pause == 0 {
		o.Pause = 800 * time.Millisecond
	}
	return o
}
