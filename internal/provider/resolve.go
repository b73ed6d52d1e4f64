package provider

import (
	"log/slog"
	"strings"
)

var modelPrefixes = []struct {
	prefix   string
	provider Provider
}{
	{"gpt-", OpenAI},
	{"claude-", Anthropic},
	{"gemini-", Google},
	{"palm-", Google},
	{"deepseek-", DeepSeek},
}

// Resolve maps a model identifier to its provider. Prefix matches win; any
// identifier mentioning "azure" routes to Azure; everything else falls back
// to OpenAI with a warning instead of failing, so an unknown model still
// yields a well-typed result.
func Resolve(modelID string) Provider {
	id := strings.ToLower(modelID)
	for _, m := range modelPrefixes {
		if strings.HasPrefix(id, m.prefix) {
			return m.provider
		}
	}
	if strings.Contains(id, "azure") {
		return Azure
	}
	slog.Warn("unrecognized model identifier, defaulting to openai", "model", modelID)
	return OpenAI
}

// ModelFamily describes one recognized model-identifier pattern.
type ModelFamily struct {
	Provider Provider `json:"provider"`
	Pattern  string   `json:"pattern"`
}

// ModelFamilies lists the recognized identifier patterns, for the models
// listing endpoint.
func ModelFamilies() []ModelFamily {
	families := make([]ModelFamily, 0, len(modelPrefixes)+1)
	for _, m := range modelPrefixes {
		families = append(families, ModelFamily{Provider: m.provider, Pattern: m.prefix + "*"})
	}
	families = append(families, ModelFamily{Provider: Azure, Pattern: "*azure*"})
	return families
}
