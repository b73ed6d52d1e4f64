// Package provider routes generation requests to upstream LLM vendors. A
// closed Provider enum drives every per-vendor decision: model-prefix
// resolution, secret format, request dispatch, and the cost rate table.
// Adding a vendor means adding one entry to each table.
package provider

import (
	"context"
	"strings"

	"github.com/rohankapur/finetune-studio/internal/validate"
)

// Provider identifies one upstream LLM vendor family.
type Provider string

const (
	OpenAI    Provider = "openai"
	Anthropic Provider = "anthropic"
	Google    Provider = "google"
	DeepSeek  Provider = "deepseek"
	Azure     Provider = "azure"
)

// All lists every supported provider.
func All() []Provider {
	return []Provider{OpenAI, Anthropic, Google, DeepSeek, Azure}
}

// Parse converts a user-supplied provider tag, rejecting anything outside the
// closed set.
func Parse(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case OpenAI, Anthropic, Google, DeepSeek, Azure:
		return p, nil
	}
	return "", validate.Errorf("unknown provider %q", s)
}

// Request carries one generation call's parameters. It is transient: nothing
// here is persisted.
type Request struct {
	ModelID      string  `json:"model_id"`
	Prompt       string  `json:"prompt"`
	Temperature  float64 `json:"temperature"`
	MaxTokens    int     `json:"max_tokens"`
	Context      string  `json:"context,omitempty"`
	SystemPrompt string  `json:"system_prompt,omitempty"`
}

// Result is the normalized response shape shared by all providers.
type Result struct {
	Text          string   `json:"text"`
	TokensUsed    int      `json:"tokens_used"`
	Provider      Provider `json:"provider"`
	ModelID       string   `json:"model_id"`
	EstimatedCost float64  `json:"estimated_cost"`
	FinishReason  string   `json:"finish_reason,omitempty"`
	LatencyMs     int64    `json:"latency_ms"`
}

// Chunk is one delivery of a streamed result. Content is the cumulative text
// so far, not a delta; exactly one chunk per stream has IsComplete set.
type Chunk struct {
	Content    string `json:"content"`
	IsComplete bool   `json:"is_complete"`
}

// SecretSource yields the active credential for a provider, if one exists.
// The credential store implements this; tests substitute a map.
type SecretSource interface {
	ActiveSecret(ctx context.Context, p Provider) (secret string, ok bool, err error)
}

// caller performs one completion call against a single vendor's API.
type caller interface {
	complete(ctx context.Context, secret, model, prompt string, temperature float64, maxTokens int) (*completion, error)
}

// completion is the raw normalized output of one upstream call, before cost
// estimation.
type completion struct {
	text         string
	tokens       int
	finishReason string
}
