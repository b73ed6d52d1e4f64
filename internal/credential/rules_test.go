package credential

import (
	"testing"

	"github.com/rohankapur/finetune-studio/internal/provider"
	"github.com/rohankapur/finetune-studio/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSecret(t *testing.T) {
	tests := []struct {
		name     string
		provider provider.Provider
		secret   string
		ok       bool
	}{
		{"openai valid", provider.OpenAI, "sk-abc123", true},
		{"openai wrong prefix", provider.OpenAI, "pk-abc123", false},
		{"anthropic valid", provider.Anthropic, "sk-ant-abc123", true},
		{"anthropic plain sk prefix", provider.Anthropic, "sk-abc123", false},
		{"google valid", provider.Google, "AIzaSyA1234567890", true},
		{"google wrong prefix", provider.Google, "sk-1234567890", false},
		{"deepseek valid", provider.DeepSeek, "ds-abc123", true},
		{"deepseek wrong prefix", provider.DeepSeek, "sk-abc123", false},
		{"azure long enough", provider.Azure, "0123456789", true},
		{"azure too short", provider.Azure, "012345678", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSecret(tt.provider, tt.secret)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				var vErr *validate.Error
				require.ErrorAs(t, err, &vErr)
				assert.Contains(t, vErr.Error(), string(tt.provider))
			}
		})
	}
}

func TestValidateSecretEmpty(t *testing.T) {
	for _, p := range provider.All() {
		err := ValidateSecret(p, "")
		var vErr *validate.Error
		require.ErrorAs(t, err, &vErr, "provider %s", p)
	}
}

func TestValidateSecretUnknownProvider(t *testing.T) {
	err := ValidateSecret(provider.Provider("mistral"), "sk-whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestEveryProviderHasARule(t *testing.T) {
	for _, p := range provider.All() {
		_, ok := secretRules[p]
		assert.True(t, ok, "no secret rule for %s", p)
	}
}
