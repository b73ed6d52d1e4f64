package provider

import (
	"context"

	"google.golang.org/genai"
)

type googleCaller struct{}

func (c *googleCaller) complete(ctx context.Context, secret, model, prompt string, temperature float64, maxTokens int) (*completion, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  secret,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
	}
	if temperature > 0 {
		cfg.Temperature = genai.Ptr(float32(temperature))
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), cfg)
	if err != nil {
		return nil, err
	}

	var tokens int
	if resp.UsageMetadata != nil {
		tokens = int(resp.UsageMetadata.PromptTokenCount + resp.UsageMetadata.CandidatesTokenCount)
	}
	var finish string
	if len(resp.Candidates) > 0 {
		finish = string(resp.Candidates[0].FinishReason)
	}

	return &completion{
		text:         resp.Text(),
		tokens:       tokens,
		finishReason: finish,
	}, nil
}
