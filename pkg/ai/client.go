// pkg/ai/client.go

package ai

import (
	"context"
	"errors"

	"google.golang.org/genai"

	"cropcast/entities"
)

// ErrMissingAPIKey is returned when a provider client is built without a key.
var ErrMissingAPIKey = errors.New("ai: API key is required")

// Prompt is a single structured generation request: one system instruction,
// one text part, one inline image part, a response schema and a temperature.
type Prompt struct {
	System      string
	Text        string
	Image       *entities.SatelliteImage
	Schema      *genai.Schema
	Temperature float32
}

// Client sends a Prompt to a model and returns the raw reply text. A Client
// makes exactly one attempt per call; it never retries.
type Client interface {
	GenerateJSON(ctx context.Context, p Prompt) (string, error)
	Model() string
}
