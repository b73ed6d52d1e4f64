package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/rohankapur/finetune-studio/internal/config"
	"github.com/rohankapur/finetune-studio/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecrets map[Provider]string

func (f fakeSecrets) ActiveSecret(_ context.Context, p Provider) (string, bool, error) {
	s, ok := f[p]
	return s, ok, nil
}

type fakeCaller struct {
	comp  *completion
	err   error
	calls int

	gotSecret string
	gotModel  string
	gotPrompt string
}

func (f *fakeCaller) complete(_ context.Context, secret, model, prompt string, _ float64, _ int) (*completion, error) {
	f.calls++
	f.gotSecret = secret
	f.gotModel = model
	f.gotPrompt = prompt
	if f.err != nil {
		return nil, f.err
	}
	return f.comp, nil
}

func newTestGateway(secrets fakeSecrets) (*Gateway, map[Provider]*fakeCaller) {
	g := NewGateway(secrets, config.ProviderConfig{})
	fakes := map[Provider]*fakeCaller{}
	for _, p := range All() {
		f := &fakeCaller{comp: &completion{text: "generated text", tokens: 100, finishReason: "stop"}}
		fakes[p] = f
		g.callers[p] = f
	}
	return g, fakes
}

func TestGenerateNoCredential(t *testing.T) {
	g, fakes := newTestGateway(fakeSecrets{})

	_, err := g.Generate(context.Background(), Request{ModelID: "claude-3-opus", Prompt: "hello"})

	var ncErr *NoCredentialError
	require.ErrorAs(t, err, &ncErr)
	assert.Equal(t, Anthropic, ncErr.Provider)
	assert.Contains(t, ncErr.Error(), "anthropic")

	for p, f := range fakes {
		assert.Zero(t, f.calls, "caller %s must not be invoked without a credential", p)
	}
}

func TestGenerateSuccess(t *testing.T) {
	g, fakes := newTestGateway(fakeSecrets{OpenAI: "sk-test"})

	res, err := g.Generate(context.Background(), Request{
		ModelID:     "gpt-4o",
		Prompt:      "summarize this",
		Temperature: 0.5,
	})
	require.NoError(t, err)

	assert.Equal(t, "generated text", res.Text)
	assert.Equal(t, 100, res.TokensUsed)
	assert.Equal(t, OpenAI, res.Provider)
	assert.Equal(t, "gpt-4o", res.ModelID)
	assert.Equal(t, "stop", res.FinishReason)
	assert.InDelta(t, EstimateCost(OpenAI, 100), res.EstimatedCost, 1e-9)

	f := fakes[OpenAI]
	assert.Equal(t, 1, f.calls)
	assert.Equal(t, "sk-test", f.gotSecret)
	assert.Equal(t, "gpt-4o", f.gotModel)
}

func TestGeneratePromptAssembly(t *testing.T) {
	g, fakes := newTestGateway(fakeSecrets{Google: "AIza-test"})

	_, err := g.Generate(context.Background(), Request{
		ModelID:      "gemini-1.5-pro",
		Prompt:       "what changed?",
		SystemPrompt: "You are a release-notes assistant.",
		Context:      "v2.1 adds exports.",
	})
	require.NoError(t, err)

	want := "You are a release-notes assistant.\n\nContext:\nv2.1 adds exports.\n\nwhat changed?"
	assert.Equal(t, want, fakes[Google].gotPrompt)
}

func TestGenerateUpstreamFailure(t *testing.T) {
	g, fakes := newTestGateway(fakeSecrets{DeepSeek: "ds-test"})
	upstream := errors.New("429 rate limit exceeded")
	fakes[DeepSeek].err = upstream

	_, err := g.Generate(context.Background(), Request{ModelID: "deepseek-chat", Prompt: "hi there"})

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, DeepSeek, genErr.Provider)
	assert.ErrorIs(t, err, upstream, "upstream message must be preserved")
}

func TestGenerateValidationRejectsBeforeDispatch(t *testing.T) {
	g, fakes := newTestGateway(fakeSecrets{OpenAI: "sk-test"})

	_, err := g.Generate(context.Background(), Request{
		ModelID:     "gpt-4o",
		Prompt:      "hello",
		Temperature: 3.0,
	})

	var vErr *validate.Error
	require.ErrorAs(t, err, &vErr)
	assert.Zero(t, fakes[OpenAI].calls)
}

func TestGenerateDefaultsMaxTokens(t *testing.T) {
	g, _ := newTestGateway(fakeSecrets{OpenAI: "sk-test"})

	// MaxTokens omitted must not fail the [1,4096] bound.
	_, err := g.Generate(context.Background(), Request{ModelID: "gpt-4o", Prompt: "hello"})
	assert.NoError(t, err)
}

func TestStreamGenerateChunkContract(t *testing.T) {
	g, fakes := newTestGateway(fakeSecrets{OpenAI: "sk-test"})
	fakes[OpenAI].comp = &completion{text: "one two three", tokens: 3}

	var chunks []Chunk
	res, err := g.StreamGenerate(context.Background(), Request{ModelID: "gpt-4o", Prompt: "count"}, func(c Chunk) {
		chunks = append(chunks, c)
	})
	require.NoError(t, err)

	require.Len(t, chunks, 3)
	assert.Equal(t, "one", chunks[0].Content)
	assert.Equal(t, "one two", chunks[1].Content)
	assert.Equal(t, "one two three", chunks[2].Content)

	completeCount := 0
	for _, c := range chunks {
		if c.IsComplete {
			completeCount++
		}
	}
	assert.Equal(t, 1, completeCount, "exactly one chunk is final")
	assert.True(t, chunks[len(chunks)-1].IsComplete)
	assert.Equal(t, res.Text, chunks[len(chunks)-1].Content)
}

func TestStreamGenerateErrorProducesNoChunks(t *testing.T) {
	g, _ := newTestGateway(fakeSecrets{})

	called := false
	_, err := g.StreamGenerate(context.Background(), Request{ModelID: "gpt-4o", Prompt: "hello"}, func(Chunk) {
		called = true
	})

	var ncErr *NoCredentialError
	assert.ErrorAs(t, err, &ncErr)
	assert.False(t, called)
}
