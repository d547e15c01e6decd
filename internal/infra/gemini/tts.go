package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"voice-assistant/internal/domain"
)

const (
	DefaultTTSModel = "gemini-2.5-flash-preview-tts"
	DefaultVoice    = "Kore"

	defaultPCMRate = 24000
)

var ErrNoAudio = errors.New("gemini did not return audio in TTS response")

type Synthesizer struct {
	client *Client
	model  string
	voice  string
}

func NewSynthesizer(client *Client, model, voice string) *Synthesizer {
	if model == "" {
		model = DefaultTTSModel
	}
	if voice == "" {
		voice = DefaultVoice
	}
	return &Synthesizer{client: client, model: model, voice: voice}
}

func (s *Synthesizer) Synthesize(ctx context.Context, text string) (*domain.AudioClip, error) {
	req := request{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: text}}},
		},
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &speechConfig{
				VoiceConfig: voiceConfig{
					PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: s.voice},
				},
			},
		},
	}

	resp, err := s.client.generate(ctx, s.model, req)
	if err != nil {
		return nil, fmt.Errorf("gemini tts: %w", err)
	}

	media := resp.inlineData()
	if media == nil {
		return nil, ErrNoAudio
	}

	data, err := base64.StdEncoding.DecodeString(media.Data)
	if err != nil {
		return nil, fmt.Errorf("decoding audio: %w", err)
	}

	return clipFromMime(media.MimeType, data), nil
}

// clipFromMime interprets mime types such as "audio/L16;codec=pcm;rate=24000",
// "audio/wav" and "audio/mpeg".
func clipFromMime(mime string, data []byte) *domain.AudioClip {
	clip := &domain.AudioClip{Data: data, Encoding: domain.EncodingPCM, SampleRate: defaultPCMRate}

	fields := strings.Split(strings.ToLower(mime), ";")
	switch strings.TrimSpace(fields[0]) {
	case "audio/wav", "audio/x-wav", "audio/wave":
		clip.Encoding = domain.EncodingWAV
		clip.SampleRate = 0
	case "audio/mpeg", "audio/mp3":
		clip.Encoding = domain.EncodingMP3
		clip.SampleRate = 0
	}

	for _, f := range fields[1:] {
		key, value, ok := strings.Cut(strings.TrimSpace(f), "=")
		if ok && key == "rate" {
			if rate, err := strconv.Atoi(value); err == nil && rate > 0 {
				clip.SampleRate = rate
			}
		}
	}

	return clip
}
