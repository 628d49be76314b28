// Package tts synthesizes speech from text through an external service.
package tts

import (
	"context"
	"fmt"
	"strings"
)

// Request carries one synthesis call's inputs. Voice is an engine-specific
// voice identifier; Rate is a percentage adjustment such as "+15%" or "-5%"
// ("" and "+0%" mean unmodified speed).
type Request struct {
	Text  string
	Voice string
	Rate  string
}

// Synthesizer converts text to audio bytes (MP3). Implementations are safe
// for sequential reuse across many requests.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) ([]byte, error)
}

// NewEngine constructs the named synthesis engine. Credentials are read from
// the environment once, at construction.
func NewEngine(name string) (Synthesizer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "openai":
		return NewOpenAIEngine()
	case "elevenlabs":
		return NewElevenLabsEngine()
	default:
		return nil, fmt.Errorf("tts: unknown engine %q", name)
	}
}
