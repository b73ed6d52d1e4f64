package credential

import (
	"strings"

	"github.com/rohankapur/finetune-studio/internal/provider"
	"github.com/rohankapur/finetune-studio/internal/validate"
)

type secretRule struct {
	prefix string
	minLen int
	hint   string
}

// One format rule per provider. Azure has no stable key prefix (the key pairs
// with a custom endpoint), so only a length floor applies there.
var secretRules = map[provider.Provider]secretRule{
	provider.OpenAI:    {prefix: "sk-", hint: `an OpenAI key starts with "sk-"`},
	provider.Anthropic: {prefix: "sk-ant-", hint: `an Anthropic key starts with "sk-ant-"`},
	provider.Google:    {prefix: "AIza", hint: `a Google AI key starts with "AIza"`},
	provider.DeepSeek:  {prefix: "ds-", hint: `a DeepSeek key starts with "ds-"`},
	provider.Azure:     {minLen: 10, hint: "an Azure key is at least 10 characters"},
}

// ValidateSecret checks a secret against its provider's format rule before
// anything is stored. The rules are deliberately shallow: they catch keys
// pasted into the wrong provider slot, not revoked or fabricated ones.
func ValidateSecret(p provider.Provider, secret string) error {
	if strings.TrimSpace(secret) == "" {
		return validate.Errorf("API key is required")
	}
	rule, ok := secretRules[p]
	if !ok {
		return validate.Errorf("unknown provider %q", string(p))
	}
	if rule.prefix != "" && !strings.HasPrefix(secret, rule.prefix) {
		return validate.Errorf("invalid %s API key: %s", p, rule.hint)
	}
	if rule.minLen > 0 && len(secret) < rule.minLen {
		return validate.Errorf("invalid %s API key: %s", p, rule.hint)
	}
	return nil
}
