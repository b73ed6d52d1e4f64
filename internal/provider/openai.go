package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const deepseekBaseURL = "https://api.deepseek.com/v1"

// openAICaller serves both OpenAI and DeepSeek: DeepSeek exposes an
// OpenAI-compatible API, so the only difference is the base URL.
type openAICaller struct {
	baseURL string
	timeout time.Duration
}

func (c *openAICaller) complete(ctx context.Context, secret, model, prompt string, temperature float64, maxTokens int) (*completion, error) {
	cfg := openai.DefaultConfig(secret)
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: c.timeout}
	return chatComplete(ctx, openai.NewClientWithConfig(cfg), model, prompt, temperature, maxTokens)
}

// azureCaller targets an Azure OpenAI deployment. The endpoint is a
// deployment-level setting; the per-user secret is the access key.
type azureCaller struct {
	endpoint string
	timeout  time.Duration
}

func (c *azureCaller) complete(ctx context.Context, secret, model, prompt string, temperature float64, maxTokens int) (*completion, error) {
	if c.endpoint == "" {
		return nil, fmt.Errorf("AZURE_OPENAI_ENDPOINT is not configured")
	}
	cfg := openai.DefaultAzureConfig(secret, c.endpoint)
	cfg.HTTPClient = &http.Client{Timeout: c.timeout}
	return chatComplete(ctx, openai.NewClientWithConfig(cfg), model, prompt, temperature, maxTokens)
}

func chatComplete(ctx context.Context, client *openai.Client, model, prompt string, temperature float64, maxTokens int) (*completion, error) {
	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: float32(temperature),
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return nil, err
	}

	var text, finish string
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Message.Content
		finish = string(resp.Choices[0].FinishReason)
	}

	return &completion{
		text:         text,
		tokens:       resp.Usage.TotalTokens,
		finishReason: finish,
	}, nil
}
