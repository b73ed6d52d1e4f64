package dataset

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rohankapur/finetune-studio/internal/models"
	"github.com/rohankapur/finetune-studio/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scored(input, output string, score int) models.TrainingPair {
	return models.TrainingPair{Input: input, Output: output, QualityScore: &score, TokensUsed: 42}
}

func TestEncodeJSONLRoundTrip(t *testing.T) {
	pairs := []models.TrainingPair{
		scored("what is go?", "a programming language", 5),
		scored("line\nbreaks and \"quotes\"", "survive \"encoding\"", 4),
	}

	out, err := Encode(pairs, Options{Format: FormatJSONL})
	require.NoError(t, err)

	scanner := bufio.NewScanner(strings.NewReader(out))
	var decoded []chatExample
	for scanner.Scan() {
		var ex chatExample
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &ex))
		decoded = append(decoded, ex)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, decoded, len(pairs))
	for i, ex := range decoded {
		require.Len(t, ex.Messages, 2)
		assert.Equal(t, "user", ex.Messages[0].Role)
		assert.Equal(t, pairs[i].Input, ex.Messages[0].Content)
		assert.Equal(t, "assistant", ex.Messages[1].Role)
		assert.Equal(t, pairs[i].Output, ex.Messages[1].Content)
	}
}

func TestEncodeMinQualityFilter(t *testing.T) {
	pairs := []models.TrainingPair{
		scored("first", "kept", 5),
		scored("second", "dropped", 2),
		scored("third", "kept", 4),
	}
	min := 3

	out, err := Encode(pairs, Options{Format: FormatJSONL, MinQuality: &min})
	require.NoError(t, err)

	assert.Contains(t, out, "first")
	assert.Contains(t, out, "third")
	assert.NotContains(t, out, "second")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestEncodeMinQualityDropsUnrated(t *testing.T) {
	pairs := []models.TrainingPair{
		scored("rated", "yes", 3),
		{Input: "unrated", Output: "no"},
	}
	min := 1

	out, err := Encode(pairs, Options{Format: FormatJSONL, MinQuality: &min})
	require.NoError(t, err)
	assert.Contains(t, out, "rated")
	assert.NotContains(t, out, "unrated")
}

func TestEncodeCSVEscaping(t *testing.T) {
	pairs := []models.TrainingPair{
		scored(`say "hello", please`, "sure, \"hello\"\nthere", 4),
		{Input: "plain", Output: "text"},
	}

	out, err := Encode(pairs, Options{Format: FormatCSV})
	require.NoError(t, err)

	// Embedded quotes are doubled per RFC 4180.
	assert.Contains(t, out, `"say ""hello"", please"`)

	r := csv.NewReader(strings.NewReader(out))
	records, err := r.ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, []string{"prompt", "response", "quality_score", "tokens_used"}, records[0])
	assert.Equal(t, `say "hello", please`, records[1][0])
	assert.Equal(t, "sure, \"hello\"\nthere", records[1][1])
	assert.Equal(t, "4", records[1][2])
	assert.Equal(t, "42", records[1][3])

	// Absent score and tokens default to 0.
	assert.Equal(t, "0", records[2][2])
	assert.Equal(t, "0", records[2][3])
}

func TestEncodeAnnotated(t *testing.T) {
	out, err := Encode([]models.TrainingPair{scored("in", "out", 5)}, Options{Format: FormatAnnotated})
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "in", decoded[0]["input"])
	assert.Equal(t, "out", decoded[0]["output"])
	assert.EqualValues(t, 5, decoded[0]["quality"])
}

func TestEncodeGenericJSONFieldNames(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	pairs := []models.TrainingPair{{
		Input:      "prompt text",
		Output:     "response text",
		TokensUsed: 77,
		CreatedAt:  created,
	}}

	out, err := Encode(pairs, Options{Format: FormatJSON})
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 1)

	assert.Equal(t, "prompt text", decoded[0]["prompt"])
	assert.Equal(t, "response text", decoded[0]["response"])
	assert.EqualValues(t, 0, decoded[0]["qualityScore"])
	assert.EqualValues(t, 77, decoded[0]["tokensUsed"])
	assert.Equal(t, "2025-06-01T12:00:00Z", decoded[0]["createdAt"])
}

func TestEncodeEmptySets(t *testing.T) {
	out, err := Encode(nil, Options{Format: FormatJSONL})
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = Encode(nil, Options{Format: FormatJSON})
	require.NoError(t, err)
	assert.Equal(t, "[]", out)

	out, err = Encode(nil, Options{Format: FormatCSV})
	require.NoError(t, err)
	assert.Equal(t, "prompt,response,quality_score,tokens_used\n", out)
}

func TestEncodeUnknownFormat(t *testing.T) {
	_, err := Encode(nil, Options{Format: Format("xml")})
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" JSONL ")
	require.NoError(t, err)
	assert.Equal(t, FormatJSONL, f)

	_, err = ParseFormat("parquet")
	assert.Error(t, err)
}

func TestRecommendedMinPairs(t *testing.T) {
	assert.Equal(t, 10, RecommendedMinPairs(provider.OpenAI))
	assert.Equal(t, 20, RecommendedMinPairs(provider.Anthropic))
	assert.Equal(t, 15, RecommendedMinPairs(provider.Google))
	assert.Equal(t, 10, RecommendedMinPairs(provider.Provider("other")))
}
