package provider

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rohankapur/finetune-studio/internal/config"
	"github.com/rohankapur/finetune-studio/internal/validate"
)

const (
	defaultMaxTokens = 1024
	streamChunkDelay = 30 * time.Millisecond
)

// Gateway resolves a request's provider, selects the user's credential, and
// dispatches the call through the matching vendor caller. It holds no
// per-user state; credentials are re-fetched on every call.
type Gateway struct {
	creds   SecretSource
	callers map[Provider]caller
}

func NewGateway(creds SecretSource, cfg config.ProviderConfig) *Gateway {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Gateway{
		creds: creds,
		callers: map[Provider]caller{
			OpenAI:    &openAICaller{timeout: timeout},
			DeepSeek:  &openAICaller{baseURL: deepseekBaseURL, timeout: timeout},
			Azure:     &azureCaller{endpoint: cfg.AzureEndpoint, timeout: timeout},
			Anthropic: &anthropicCaller{timeout: timeout},
			Google:    &googleCaller{},
		},
	}
}

// Generate runs one completion: resolve provider, fetch the active
// credential, assemble the prompt, dispatch, normalize, and price the result.
// The sequence is strictly ordered; a missing credential is terminal and no
// upstream call is attempted.
func (g *Gateway) Generate(ctx context.Context, req Request) (*Result, error) {
	if req.MaxTokens == 0 {
		req.MaxTokens = defaultMaxTokens
	}
	if err := validate.Generation(validate.GenerationParams{
		Prompt:      req.Prompt,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}); err != nil {
		return nil, err
	}

	p := Resolve(req.ModelID)

	secret, ok, err := g.creds.ActiveSecret(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("look up credential: %w", err)
	}
	if !ok {
		return nil, &NoCredentialError{Provider: p}
	}

	c, ok := g.callers[p]
	if !ok {
		return nil, fmt.Errorf("no caller registered for provider %s", p)
	}

	start := time.Now()
	comp, err := c.complete(ctx, secret, req.ModelID, assemblePrompt(req), req.Temperature, req.MaxTokens)
	if err != nil {
		return nil, &GenerationError{Provider: p, Err: err}
	}
	latency := time.Since(start).Milliseconds()

	slog.Info("generation completed",
		"provider", p,
		"model", req.ModelID,
		"tokens", comp.tokens,
		"latency_ms", latency,
	)

	return &Result{
		Text:          comp.text,
		TokensUsed:    comp.tokens,
		Provider:      p,
		ModelID:       req.ModelID,
		EstimatedCost: EstimateCost(p, comp.tokens),
		FinishReason:  comp.finishReason,
		LatencyMs:     latency,
	}, nil
}

// StreamGenerate issues a full Generate call, then re-delivers the text to
// onChunk word by word with pacing delays. Each chunk carries the cumulative
// text; the final chunk has IsComplete set and equals the full result text.
// There is no upstream streaming transport behind this.
func (g *Gateway) StreamGenerate(ctx context.Context, req Request, onChunk func(Chunk)) (*Result, error) {
	res, err := g.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	words := strings.Split(res.Text, " ")
	var b strings.Builder
	for i, w := range words {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(w)

		last := i == len(words)-1
		onChunk(Chunk{Content: b.String(), IsComplete: last})
		if last {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(streamChunkDelay):
		}
	}

	return res, nil
}

// assemblePrompt concatenates the optional system instruction, the optional
// context block, and the raw prompt, in that order.
func assemblePrompt(req Request) string {
	var b strings.Builder
	if req.SystemPrompt != "" {
		b.WriteString(req.SystemPrompt)
		b.WriteString("\n\n")
	}
	if req.Context != "" {
		b.WriteString("Context:\n")
		b.WriteString(req.Context)
		b.WriteString("\n\n")
	}
	b.WriteString(req.Prompt)
	return b.String()
}
