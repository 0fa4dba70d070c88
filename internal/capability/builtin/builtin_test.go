package builtin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yqhp/chain-engine/internal/capability"
)

func TestAllRegisteredInDefaultRegistry(t *testing.T) {
	for _, id := range []string{"text_stat", "bag_of_words", "sentence_merger", "json_path"} {
		assert.True(t, capability.DefaultRegistry.Has(id), "missing %s", id)
	}
}

func TestTextStat(t *testing.T) {
	out, err := NewTextStat().Invoke(context.Background(), map[string]any{
		"text": "Go is small. Go is fast! Is Go simple?",
	})
	require.NoError(t, err)

	assert.Equal(t, 9, out["word_count"])
	assert.Equal(t, 3, out["sentence_count"])
	assert.Equal(t, 1, out["line_count"])
	// "go", "is", "small.", "fast!", "simple?" after lowercasing
	assert.Equal(t, 5, out["unique_words"])
	assert.Equal(t, 38, out["character_count"])
	assert.InDelta(t, 3.33, out["average_word_length"].(float64), 0.01)
}

func TestTextStatMissingText(t *testing.T) {
	_, err := NewTextStat().Invoke(context.Background(), map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'text' is missing")
}

func TestBagOfWords(t *testing.T) {
	out, err := NewBagOfWords().Invoke(context.Background(), map[string]any{
		"text": "the cat and the dog and the bird",
	})
	require.NoError(t, err)

	assert.Equal(t, 8, out["total_words"])
	assert.Equal(t, 4, out["unique_words"])
	assert.Equal(t, []string{"and", "bird", "cat", "dog", "the"}, out["word_list"])

	freq := out["word_frequencies"].(map[string]any)
	assert.Equal(t, 3, freq["the"])
	assert.Equal(t, 2, freq["and"])
	assert.Equal(t, 1, freq["cat"])
}

func TestBagOfWordsCutoff(t *testing.T) {
	out, err := NewBagOfWords().Invoke(context.Background(), map[string]any{
		"text":   "the cat and the dog and the bird",
		"cutoff": 2,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"and", "the"}, out["word_list"])
	assert.Equal(t, 8, out["total_words"])
	assert.Equal(t, 4, out["unique_words"])
}

func TestBagOfWordsCutoffFromJSONNumber(t *testing.T) {
	// JSON decoding produces float64 for all numbers.
	out, err := NewBagOfWords().Invoke(context.Background(), map[string]any{
		"text":   "a a b",
		"cutoff": float64(2),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, out["word_list"])
}

func TestSentenceMergerFromList(t *testing.T) {
	out, err := NewSentenceMerger().Invoke(context.Background(), map[string]any{
		"sentences": []any{"First", "Second", "Third"},
		"separator": ". ",
	})
	require.NoError(t, err)

	assert.Equal(t, "First. Second. Third", out["text"])
	assert.Equal(t, 3, out["sentence_count"])
}

func TestSentenceMergerFromText(t *testing.T) {
	out, err := NewSentenceMerger().Invoke(context.Background(), map[string]any{
		"text": "One done. Two done! Three done?",
	})
	require.NoError(t, err)

	assert.Equal(t, "One done Two done Three done", out["text"])
	assert.Equal(t, 3, out["sentence_count"])
}

func TestSentenceMergerRequiresInput(t *testing.T) {
	_, err := NewSentenceMerger().Invoke(context.Background(), map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "one of 'sentences' or 'text'")
}

func TestJSONPath(t *testing.T) {
	data := map[string]any{
		"users": []any{
			map[string]any{"name": "ann", "age": 31},
			map[string]any{"name": "bob", "age": 25},
		},
	}

	out, err := NewJSONPath().Invoke(context.Background(), map[string]any{
		"data": data,
		"path": "$.users[*].name",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, out["count"])
	assert.Equal(t, "ann", out["value"])
	assert.ElementsMatch(t, []any{"ann", "bob"}, out["values"].([]any))
}

func TestJSONPathNoMatch(t *testing.T) {
	out, err := NewJSONPath().Invoke(context.Background(), map[string]any{
		"data": map[string]any{"a": 1},
		"path": "$.missing",
	})
	require.NoError(t, err)

	assert.Equal(t, 0, out["count"])
	assert.Nil(t, out["value"])
}

func TestJSONPathInvalidExpression(t *testing.T) {
	_, err := NewJSONPath().Invoke(context.Background(), map[string]any{
		"data": map[string]any{},
		"path": "$..[",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSONPath")
}
