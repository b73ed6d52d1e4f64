package provider

import (
	"context"
	"net/http"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type anthropicCaller struct {
	timeout time.Duration
}

func (c *anthropicCaller) complete(ctx context.Context, secret, model, prompt string, temperature float64, maxTokens int) (*completion, error) {
	client := anthropic.NewClient(
		option.WithAPIKey(secret),
		option.WithHTTPClient(&http.Client{Timeout: c.timeout}),
	)

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if temperature > 0 {
		params.Temperature = anthropic.Float(temperature)
	}

	resp, err := client.Messages.New(ctx, params)
	if err != nil {
		return nil, err
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	return &completion{
		text:         text,
		tokens:       int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
		finishReason: string(resp.StopReason),
	}, nil
}
