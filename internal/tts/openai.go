package tts

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sashabaranov/go-openai"
)

// OpenAIEngine synthesizes speech via the OpenAI audio/speech endpoint.
type OpenAIEngine struct {
	client *openai.Client
	model  openai.SpeechModel
}

// NewOpenAIEngine creates an engine authenticated from OPENAI_API_KEY.
func NewOpenAIEngine() (*OpenAIEngine, error) {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("tts: OPENAI_API_KEY is not set")
	}
	return newOpenAIEngine(openai.DefaultConfig(key)), nil
}

func newOpenAIEngine(cfg openai.ClientConfig) *OpenAIEngine {
	return &OpenAIEngine{
		client: openai.NewClientWithConfig(cfg),
		model:  openai.TTSModel1,
	}
}

// Synthesize implements Synthesizer. The rate adjustment maps onto the
// endpoint's speed multiplier; an empty voice falls back to "alloy".
func (e *OpenAIEngine) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	speed, err := ParseRate(req.Rate)
	if err != nil {
		return nil, err
	}
	voice := req.Voice
	if voice == "" {
		voice = string(openai.VoiceAlloy)
	}

	resp, err := e.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          e.model,
		Input:          req.Text,
		Voice:          openai.SpeechVoice(voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Speed:          speed,
	})
	if err != nil {
		return nil, fmt.Errorf("tts: openai speech request: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("tts: read openai speech response: %w", err)
	}
	return audio, nil
}
