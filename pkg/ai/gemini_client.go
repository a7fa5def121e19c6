// pkg/ai/gemini_client.go

package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

// contentGenerator is the slice of *genai.Models used here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type gemini struct {
	models contentGenerator
	model  string
	log    *zap.Logger
}

// NewGemini builds a Gemini client. An empty key is refused.
func NewGemini(ctx context.Context, apiKey, model string, log *zap.Logger) (Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newGemini(client.Models, model, log), nil
}

func newGemini(models contentGenerator, model string, log *zap.Logger) *gemini {
	if log == nil {
		log = zap.NewNop()
	}
	return &gemini{models: models, model: model, log: log.Named("gemini")}
}

func (c *gemini) Model() string { return c.model }

func (c *gemini) GenerateJSON(ctx context.Context, p Prompt) (string, error) {
	contents, cfg, err := buildRequest(p)
	if err != nil {
		return "", err
	}

	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		c.log.Warn("generate content failed", zap.String("model", c.model), zap.Duration("took", time.Since(start)), zap.Error(err))
		return "", err
	}
	if resp == nil || len(resp.Candidates) == 0 {
		reason := ""
		if resp != nil && resp.PromptFeedback != nil {
			reason = string(resp.PromptFeedback.BlockReason)
		}
		if reason != "" {
			return "", fmt.Errorf("no candidates returned (block reason: %s)", reason)
		}
		return "", errors.New("no candidates returned")
	}

	text := strings.TrimSpace(resp.Text())
	c.log.Debug("generate content",
		zap.String("model", c.model),
		zap.Duration("took", time.Since(start)),
		zap.Int("reply_len", len(text)),
		zap.String("finish_reason", string(resp.Candidates[0].FinishReason)),
	)
	return text, nil
}

// buildRequest maps a Prompt onto the Gemini wire types: the text and the
// image go in one user turn, the reply is constrained to JSON by the schema.
func buildRequest(p Prompt) ([]*genai.Content, *genai.GenerateContentConfig, error) {
	if p.Image == nil || len(p.Image.Data) == 0 {
		return nil, nil, errors.New("prompt has no image part")
	}
	parts := []*genai.Part{
		genai.NewPartFromText(p.Text),
		genai.NewPartFromBytes(p.Image.Data, p.Image.MIMEType),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(p.Temperature),
		ResponseMIMEType: "application/json",
		ResponseSchema:   p.Schema,
	}
	if p.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(p.System, genai.RoleUser)
	}
	return contents, cfg, nil
}
