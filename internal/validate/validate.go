// Package validate holds the pre-flight checks applied before a generation
// request is dispatched or a training pair is persisted.
package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Error indicates caller-supplied input that violates a stated constraint.
// It is always recoverable: the caller corrects the input and retries.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return e.Msg }

func Errorf(format string, args ...any) *Error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}

const (
	MaxPromptChars = 100_000
	MinTemperature = 0.0
	MaxTemperature = 2.0
	MinOutputTokens = 1
	MaxOutputTokens = 4096
)

// GenerationParams are the request fields subject to hard bounds.
type GenerationParams struct {
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Generation rejects out-of-range generation parameters. It is side-effect
// free and called before any credential lookup or network dispatch.
func Generation(p GenerationParams) error {
	if strings.TrimSpace(p.Prompt) == "" {
		return Errorf("prompt is required")
	}
	if utf8.RuneCountInString(p.Prompt) > MaxPromptChars {
		return Errorf("prompt exceeds %d characters", MaxPromptChars)
	}
	if p.Temperature < MinTemperature || p.Temperature > MaxTemperature {
		return Errorf("temperature must be between %g and %g", MinTemperature, MaxTemperature)
	}
	if p.MaxTokens < MinOutputTokens || p.MaxTokens > MaxOutputTokens {
		return Errorf("max tokens must be between %d and %d", MinOutputTokens, MaxOutputTokens)
	}
	return nil
}

// QualityScore rejects ratings outside the 1-5 scale.
func QualityScore(score int) error {
	if score < 1 || score > 5 {
		return Errorf("quality score must be between 1 and 5")
	}
	return nil
}

// PairReport is the advisory verdict on a candidate training pair. Issues
// make the pair invalid; suggestions never do.
type PairReport struct {
	IsValid     bool     `json:"is_valid"`
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
}

const (
	minPairText    = 10
	maxPairPrompt  = 10_000
	lowScoreCutoff = 3
)

// TrainingPair inspects a candidate pair and reports problems without
// rejecting it. Persisting a flagged pair is the caller's choice.
func TrainingPair(input, output string, qualityScore *int) PairReport {
	issues := []string{}
	suggestions := []string{}

	if utf8.RuneCountInString(input) < minPairText {
		issues = append(issues, "prompt too short")
	}
	if utf8.RuneCountInString(input) > maxPairPrompt {
		issues = append(issues, "prompt too long")
	}
	if utf8.RuneCountInString(output) < minPairText {
		issues = append(issues, "response too short")
	}
	if qualityScore != nil && *qualityScore < lowScoreCutoff {
		suggestions = append(suggestions, "quality score is low; consider regenerating this pair")
	}

	return PairReport{
		IsValid:     len(issues) == 0,
		Issues:      issues,
		Suggestions: suggestions,
	}
}
