package training

import "github.com/rohankapur/finetune-studio/internal/models"

// SessionStats summarizes the pairs collected under one session.
type SessionStats struct {
	TotalPairs       int     `json:"total_pairs"`
	AverageQuality   float64 `json:"average_quality"`
	TotalTokens      int     `json:"total_tokens"`
	HighQualityPairs int     `json:"high_quality_pairs"`
	ReadyForTraining bool    `json:"ready_for_training"`
}

const (
	// highQualityScore is the minimum rating that counts toward readiness.
	highQualityScore = 4
	// readyThreshold is the high-quality pair count at which a session is
	// flagged ready for training.
	readyThreshold = 10
)

// ComputeStats derives session statistics from its pairs. Totals are always
// recomputed from the stored pairs rather than incrementally maintained, so
// concurrent writers cannot leave counters drifting. Unrated pairs count
// toward totals but are excluded from the quality average's denominator: an
// unrated pair is unknown, not zero.
func ComputeStats(pairs []models.TrainingPair) SessionStats {
	st := SessionStats{TotalPairs: len(pairs)}

	rated, scoreSum := 0, 0
	for _, p := range pairs {
		st.TotalTokens += p.TokensUsed
		if p.QualityScore == nil {
			continue
		}
		rated++
		scoreSum += *p.QualityScore
		if *p.QualityScore >= highQualityScore {
			st.HighQualityPairs++
		}
	}

	if rated > 0 {
		st.AverageQuality = float64(scoreSum) / float64(rated)
	}
	st.ReadyForTraining = st.HighQualityPairs >= readyThreshold

	return st
}
