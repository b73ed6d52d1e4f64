package provider

// ratePerThousand is the flat USD estimate per 1K tokens for each provider.
// Deliberately coarse: real bills vary per model and per token direction,
// and this only feeds the spend estimate shown next to each generation.
var ratePerThousand = map[Provider]float64{
	OpenAI:    0.002,
	Anthropic: 0.008,
	Google:    0.001,
	DeepSeek:  0.0014,
	Azure:     0.002,
}

const defaultRatePerThousand = 0.002

// EstimateCost returns the estimated USD cost of a call. Unknown providers
// get the default rate. Pure function, no I/O.
func EstimateCost(p Provider, tokens int) float64 {
	rate, ok := ratePerThousand[p]
	if !ok {
		rate = defaultRatePerThousand
	}
	return float64(tokens) / 1000.0 * rate
}
