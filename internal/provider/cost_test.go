package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateCost(t *testing.T) {
	assert.InDelta(t, 0.002, EstimateCost(OpenAI, 1000), 1e-9)
	assert.InDelta(t, 0.008, EstimateCost(Anthropic, 1000), 1e-9)
	assert.InDelta(t, 0.0005, EstimateCost(Google, 500), 1e-9)
	assert.InDelta(t, 0.0014, EstimateCost(DeepSeek, 1000), 1e-9)
}

func TestEstimateCostZeroTokens(t *testing.T) {
	for _, p := range All() {
		assert.Zero(t, EstimateCost(p, 0))
	}
}

func TestEstimateCostUnknownProviderUsesDefaultRate(t *testing.T) {
	assert.InDelta(t, defaultRatePerThousand, EstimateCost(Provider("mystery"), 1000), 1e-9)
}

func TestRateTableCoversAllProviders(t *testing.T) {
	for _, p := range All() {
		_, ok := ratePerThousand[p]
		assert.True(t, ok, "no rate for %s", p)
	}
}
