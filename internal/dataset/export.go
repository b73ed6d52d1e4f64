// Package dataset turns a session's training pairs into provider-ready
// fine-tuning files. Encoding is pure string-building: no file or network
// I/O happens here, and a call either yields the complete encoding or an
// error, never a partial document.
package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rohankapur/finetune-studio/internal/models"
	"github.com/rohankapur/finetune-studio/internal/provider"
	"github.com/rohankapur/finetune-studio/internal/validate"
)

type Format string

const (
	// FormatJSONL is the chat-message JSONL shape OpenAI-style fine-tuning
	// endpoints ingest: one {messages: [...]} object per line.
	FormatJSONL Format = "jsonl"
	// FormatAnnotated is a pretty-printed array of {input, output, quality}.
	FormatAnnotated Format = "annotated"
	FormatCSV       Format = "csv"
	FormatJSON      Format = "json"
)

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatJSONL, FormatAnnotated, FormatCSV, FormatJSON:
		return f, nil
	}
	return "", validate.Errorf("unknown export format %q", s)
}

// Options controls one export. MinQuality, when set, drops every pair rated
// below it; unrated pairs always fail the filter.
type Options struct {
	Format     Format
	MinQuality *int
}

// Encode renders the pairs in the requested format.
func Encode(pairs []models.TrainingPair, opts Options) (string, error) {
	kept := filterByQuality(pairs, opts.MinQuality)

	switch opts.Format {
	case FormatJSONL:
		return encodeJSONL(kept)
	case FormatAnnotated:
		return encodeAnnotated(kept)
	case FormatCSV:
		return encodeCSV(kept)
	case FormatJSON:
		return encodeJSON(kept)
	default:
		return "", validate.Errorf("unknown export format %q", opts.Format)
	}
}

func filterByQuality(pairs []models.TrainingPair, minQuality *int) []models.TrainingPair {
	if minQuality == nil {
		return pairs
	}
	kept := make([]models.TrainingPair, 0, len(pairs))
	for _, p := range pairs {
		if p.QualityScore != nil && *p.QualityScore >= *minQuality {
			kept = append(kept, p)
		}
	}
	return kept
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatExample struct {
	Messages []chatMessage `json:"messages"`
}

func encodeJSONL(pairs []models.TrainingPair) (string, error) {
	var b strings.Builder
	for i, p := range pairs {
		line, err := json.Marshal(chatExample{Messages: []chatMessage{
			{Role: "user", Content: p.Input},
			{Role: "assistant", Content: p.Output},
		}})
		if err != nil {
			return "", fmt.Errorf("marshal pair %d: %w", i, err)
		}
		b.Write(line)
		b.WriteString("\n")
	}
	return b.String(), nil
}

type annotatedPair struct {
	Input   string `json:"input"`
	Output  string `json:"output"`
	Quality int    `json:"quality"`
}

func encodeAnnotated(pairs []models.TrainingPair) (string, error) {
	out := make([]annotatedPair, len(pairs))
	for i, p := range pairs {
		out[i] = annotatedPair{Input: p.Input, Output: p.Output, Quality: scoreOrZero(p)}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal annotated pairs: %w", err)
	}
	return string(data), nil
}

func encodeCSV(pairs []models.TrainingPair) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write([]string{"prompt", "response", "quality_score", "tokens_used"}); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for i, p := range pairs {
		record := []string{
			p.Input,
			p.Output,
			strconv.Itoa(scoreOrZero(p)),
			strconv.Itoa(p.TokensUsed),
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("write csv record %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return b.String(), nil
}

type genericPair struct {
	Prompt       string    `json:"prompt"`
	Response     string    `json:"response"`
	QualityScore int       `json:"qualityScore"`
	TokensUsed   int       `json:"tokensUsed"`
	CreatedAt    time.Time `json:"createdAt"`
}

func encodeJSON(pairs []models.TrainingPair) (string, error) {
	out := make([]genericPair, len(pairs))
	for i, p := range pairs {
		out[i] = genericPair{
			Prompt:       p.Input,
			Response:     p.Output,
			QualityScore: scoreOrZero(p),
			TokensUsed:   p.TokensUsed,
			CreatedAt:    p.CreatedAt,
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal pairs: %w", err)
	}
	return string(data), nil
}

func scoreOrZero(p models.TrainingPair) int {
	if p.QualityScore == nil {
		return 0
	}
	return *p.QualityScore
}

// Ext returns the file extension for a format, without the dot.
func Ext(f Format) string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatJSONL:
		return "jsonl"
	default:
		return "json"
	}
}

// ContentType returns the MIME type an export artifact is stored under.
func ContentType(f Format) string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatJSONL:
		return "application/jsonl"
	default:
		return "application/json"
	}
}

// recommendedMinPairs is the advisory per-provider floor on dataset size.
// Not enforced anywhere; surfaced next to session stats as a hint.
var recommendedMinPairs = map[provider.Provider]int{
	provider.OpenAI:    10,
	provider.Anthropic: 20,
	provider.Google:    15,
	provider.DeepSeek:  10,
	provider.Azure:     10,
}

const defaultMinPairs = 10

func RecommendedMinPairs(p provider.Provider) int {
	if n, ok := recommendedMinPairs[p]; ok {
		return n
	}
	return defaultMinPairs
}
