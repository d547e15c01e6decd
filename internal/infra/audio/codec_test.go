package audio_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-assistant/internal/domain"
	"voice-assistant/internal/infra/audio"
)

func TestEncodeWAV_DecodesBack(t *testing.T) {
	samples := []int16{0, 1000, -1000, 32767, -32768, 42}

	data, err := audio.EncodeWAV(samples, 16000)
	require.NoError(t, err)
	require.Greater(t, len(data), 44)
	assert.Equal(t, "RIFF", string(data[:4]))
	assert.Equal(t, "WAVE", string(data[8:12]))

	got, rate, err := audio.DecodeClip(&domain.AudioClip{Data: data, Encoding: domain.EncodingWAV})
	require.NoError(t, err)
	assert.Equal(t, 16000, rate)
	assert.Equal(t, samples, got)
}

func TestDecodeClip_PCM(t *testing.T) {
	clip := &domain.AudioClip{
		Data:     []byte{0x01, 0x00, 0xff, 0xff, 0x00, 0x80},
		Encoding: domain.EncodingPCM,
	}

	got, rate, err := audio.DecodeClip(clip)
	require.NoError(t, err)
	assert.Equal(t, 24000, rate, "raw PCM without a rate uses the Gemini default")
	assert.Equal(t, []int16{1, -1, -32768}, got)

	clip.SampleRate = 8000
	_, rate, err = audio.DecodeClip(clip)
	require.NoError(t, err)
	assert.Equal(t, 8000, rate)
}

func TestDecodeClip_Errors(t *testing.T) {
	tests := []struct {
		name string
		clip *domain.AudioClip
	}{
		{"nil clip", nil},
		{"empty data", &domain.AudioClip{Encoding: domain.EncodingWAV}},
		{"not a wav", &domain.AudioClip{Data: []byte("definitely not riff"), Encoding: domain.EncodingWAV}},
		{"not an mp3", &domain.AudioClip{Data: []byte{0, 1, 2, 3}, Encoding: domain.EncodingMP3}},
		{"unknown encoding", &domain.AudioClip{Data: []byte{1, 2}, Encoding: "ogg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := audio.DecodeClip(tt.clip)
			assert.Error(t, err)
		})
	}
}
