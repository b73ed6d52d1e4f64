package training

import (
	"testing"

	"github.com/rohankapur/finetune-studio/internal/models"
	"github.com/stretchr/testify/assert"
)

func pairWithScore(score int, tokens int) models.TrainingPair {
	return models.TrainingPair{Input: "in", Output: "out", QualityScore: &score, TokensUsed: tokens}
}

func unratedPair(tokens int) models.TrainingPair {
	return models.TrainingPair{Input: "in", Output: "out", TokensUsed: tokens}
}

func TestComputeStatsEmpty(t *testing.T) {
	st := ComputeStats(nil)
	assert.Zero(t, st.TotalPairs)
	assert.Zero(t, st.AverageQuality)
	assert.Zero(t, st.TotalTokens)
	assert.False(t, st.ReadyForTraining)
}

func TestComputeStatsAverageExcludesUnrated(t *testing.T) {
	pairs := []models.TrainingPair{
		pairWithScore(5, 10),
		pairWithScore(3, 20),
		unratedPair(30),
		unratedPair(40),
	}
	st := ComputeStats(pairs)

	assert.Equal(t, 4, st.TotalPairs)
	assert.Equal(t, 100, st.TotalTokens)
	// (5+3)/2, not (5+3)/4: unrated pairs stay out of the denominator.
	assert.InDelta(t, 4.0, st.AverageQuality, 1e-9)
}

func TestComputeStatsHighQualityCount(t *testing.T) {
	pairs := []models.TrainingPair{
		pairWithScore(5, 0),
		pairWithScore(4, 0),
		pairWithScore(3, 0),
		pairWithScore(2, 0),
		unratedPair(0),
	}
	st := ComputeStats(pairs)
	assert.Equal(t, 2, st.HighQualityPairs)
	assert.False(t, st.ReadyForTraining)
}

func TestComputeStatsReadiness(t *testing.T) {
	var pairs []models.TrainingPair
	for i := 0; i < 9; i++ {
		pairs = append(pairs, pairWithScore(4, 0))
	}
	// Low-rated pairs never push a session over the threshold.
	for i := 0; i < 20; i++ {
		pairs = append(pairs, pairWithScore(3, 0))
	}
	assert.False(t, ComputeStats(pairs).ReadyForTraining)

	pairs = append(pairs, pairWithScore(5, 0))
	st := ComputeStats(pairs)
	assert.Equal(t, 10, st.HighQualityPairs)
	assert.True(t, st.ReadyForTraining)
}
