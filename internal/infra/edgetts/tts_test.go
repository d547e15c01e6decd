package edgetts

import "testing"

func TestNewSynthesizerDefaults(t *testing.T) {
	s := NewSynthesizer(Options{Voice: "es-AR-ElenaNeural"})

	if s.opts.Voice != "es-AR-ElenaNeural" {
		t.Errorf("voice: got %s", s.opts.Voice)
	}
	if s.opts.Rate != "+0%" || s.opts.Volume != "+0%" || s.opts.Pitch != "+0Hz" {
		t.Errorf("prosody defaults not applied: %+v", s.opts)
	}
	if s.opts.ConnectTimeout != 10 || s.opts.ReceiveTimeout != 60 {
		t.Errorf("timeout defaults not applied: %+v", s.opts)
	}
}
