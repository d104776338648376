package engine

import (
	"context"

	"google.golang.org/genai"
)

// DialGemini returns a DialFunc backed by the Gemini API. baseURL overrides
// the endpoint when non-empty.
func DialGemini(baseURL string) DialFunc {
	return func(ctx context.Context, apiKey string) (Generator, error) {
		cfg := &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}
		if baseURL != "" {
			cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
		}
		client, err := genai.NewClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &geminiGenerator{client: client}, nil
	}
}

type geminiGenerator struct {
	client *genai.Client
}

func (g *geminiGenerator) Generate(ctx context.Context, req Request) (string, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   req.Schema.GenAI(),
	}
	if req.ThinkingBudget > 0 {
		cfg.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: genai.Ptr(int32(req.ThinkingBudget))}
	}
	resp, err := g.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", nil
	}
	return resp.Text(), nil
}
