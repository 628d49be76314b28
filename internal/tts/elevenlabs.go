package tts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const defaultElevenLabsBaseURL = "https://api.elevenlabs.io"

// ElevenLabsEngine synthesizes speech via the ElevenLabs text-to-speech API.
// The API has no rate parameter, so Request.Rate is validated and ignored.
type ElevenLabsEngine struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewElevenLabsEngine creates an engine authenticated from ELEVENLABS_API_KEY.
func NewElevenLabsEngine() (*ElevenLabsEngine, error) {
	key := os.Getenv("ELEVENLABS_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("tts: ELEVENLABS_API_KEY is not set")
	}
	return &ElevenLabsEngine{
		apiKey:  key,
		baseURL: defaultElevenLabsBaseURL,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}, nil
}

type elevenLabsPayload struct {
	Text string `json:"text"`
}

// Synthesize implements Synthesizer. Voice must be an ElevenLabs voice ID.
func (e *ElevenLabsEngine) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	if _, err := ParseRate(req.Rate); err != nil {
		return nil, err
	}
	if req.Voice == "" {
		return nil, fmt.Errorf("tts: elevenlabs requires a voice ID")
	}

	body, err := json.Marshal(elevenLabsPayload{Text: req.Text})
	if err != nil {
		return nil, fmt.Errorf("tts: encode elevenlabs payload: %w", err)
	}

	endpoint := e.baseURL + "/v1/text-to-speech/" + url.PathEscape(req.Voice)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("tts: build elevenlabs request: %w", err)
	}
	httpReq.Header.Set("xi-api-key", e.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "audio/mpeg")

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("tts: elevenlabs request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("tts: elevenlabs status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tts: read elevenlabs response: %w", err)
	}
	return audio, nil
}
