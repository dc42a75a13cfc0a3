package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lamngoc/ascent/config"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-1.5-flash"

type geminiGenerator struct {
	client *genai.Client
	cfg    *config.Config
}

// NewGeminiGenerator builds the Gemini-backed TextGenerator. Without an API
// key the generator is constructed but non-functional, so the rest of the
// app can still start (every caller falls back to static content).
func NewGeminiGenerator(cfg *config.Config) (TextGenerator, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Text generation will be non-functional.")
		return &geminiGenerator{cfg: cfg, client: nil}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &geminiGenerator{client: client, cfg: cfg}, nil
}

func (g *geminiGenerator) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	if g.client == nil {
		return "", fmt.Errorf("gemini client not initialized")
	}

	modelName := req.Model
	if modelName == "" {
		modelName = defaultGeminiModel
	}
	model := g.client.GenerativeModel(modelName)
	model.SetTemperature(req.Temperature)

	var system, user strings.Builder
	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleSystem:
			system.WriteString(msg.Content)
			system.WriteString("\n")
		default:
			user.WriteString(msg.Content)
			user.WriteString("\n")
		}
	}
	if system.Len() > 0 {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system.String())}}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(user.String()))
	if err != nil {
		log.Error().Err(err).Str("model", modelName).Msg("Gemini API error")
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Warn().Str("model", modelName).Msg("Gemini returned no candidates or parts in response.")
		return "", fmt.Errorf("gemini returned no content")
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			out.WriteString(string(txt))
		}
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("gemini returned no text content")
	}
	return out.String(), nil
}
