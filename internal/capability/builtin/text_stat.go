package builtin

import (
	"context"
	"regexp"
	"strings"

	"yqhp/chain-engine/pkg/types"
)

var sentenceSplitRe = regexp.MustCompile(`[.!?]+`)

// TextStat analyzes a text and produces basic statistics.
type TextStat struct{}

// NewTextStat creates the text_stat capability.
func NewTextStat() *TextStat {
	return &TextStat{}
}

// Manifest returns the capability's self-description.
func (c *TextStat) Manifest() *types.CapabilityManifest {
	return &types.CapabilityManifest{
		ID:          "text_stat",
		Name:        "Text Statistics",
		Version:     "1.0.0",
		Description: "Analyzes text and reports character, word and sentence statistics",
		Inputs: []types.CapabilityInput{
			{Name: "text", Label: "Text to Analyze", Type: types.InputTypeTextarea, Required: true},
		},
		Output: types.CapabilityOutput{
			Name: "statistics",
			Fields: []string{
				"character_count", "character_count_no_spaces", "word_count",
				"line_count", "unique_words", "sentence_count", "average_word_length",
			},
		},
		Tags: []string{"text", "analysis"},
	}
}

// Invoke implements capability.Capability.
func (c *TextStat) Invoke(ctx context.Context, input map[string]any) (map[string]any, error) {
	text, err := stringParam(input, "text")
	if err != nil {
		return nil, err
	}

	words := strings.Fields(text)
	unique := make(map[string]struct{}, len(words))
	totalWordLen := 0
	for _, w := range words {
		unique[strings.ToLower(w)] = struct{}{}
		totalWordLen += len([]rune(w))
	}

	avgWordLen := 0.0
	if len(words) > 0 {
		avgWordLen = float64(totalWordLen) / float64(len(words))
	}

	sentences := 0
	for _, s := range sentenceSplitRe.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			sentences++
		}
	}

	return map[string]any{
		"character_count":           len([]rune(text)),
		"character_count_no_spaces": len([]rune(strings.ReplaceAll(text, " ", ""))),
		"word_count":                len(words),
		"line_count":                len(strings.Split(text, "\n")),
		"unique_words":              len(unique),
		"sentence_count":            sentences,
		"average_word_length":       avgWordLen,
	}, nil
}
