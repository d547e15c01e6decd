package gemini

import (
	"context"
	"encoding/base64"
	"fmt"

	"voice-assistant/internal/domain"
)

const (
	DefaultSTTModel = "gemini-2.0-flash-lite"

	transcribePrompt = "Transcribe this audio exactly as spoken. Reply with the transcript only, no commentary. If there is no speech, reply with nothing."
)

// Transcriber sends recorded audio inline to a multimodal model, labelled
// with the container sniffed from its header.
type Transcriber struct {
	client *Client
	model  string
}

func NewTranscriber(client *Client, model string) *Transcriber {
	if model == "" {
		model = DefaultSTTModel
	}
	return &Transcriber{client: client, model: model}
}

func (t *Transcriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	req := request{
		Contents: []content{
			{
				Role: "user",
				Parts: []part{
					{Text: transcribePrompt},
					{InlineData: &blob{MimeType: domain.DetectContainer(audio).MimeType(), Data: base64.StdEncoding.EncodeToString(audio)}},
				},
			},
		},
		GenerationConfig: &generationConfig{Temperature: temperature(0)},
	}

	resp, err := t.client.generate(ctx, t.model, req)
	if err != nil {
		return "", fmt.Errorf("gemini transcription: %w", err)
	}

	return resp.text(), nil
}
