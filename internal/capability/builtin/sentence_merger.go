package builtin

import (
	"context"
	"fmt"
	"strings"

	"yqhp/chain-engine/pkg/types"
)

// SentenceMerger joins a list of sentences (or a raw text split into
// sentences) into a single text.
type SentenceMerger struct{}

// NewSentenceMerger creates the sentence_merger capability.
func NewSentenceMerger() *SentenceMerger {
	return &SentenceMerger{}
}

// Manifest returns the capability's self-description.
func (c *SentenceMerger) Manifest() *types.CapabilityManifest {
	return &types.CapabilityManifest{
		ID:          "sentence_merger",
		Name:        "Sentence Merger",
		Version:     "1.0.0",
		Description: "Merges a list of sentences into one text",
		Inputs: []types.CapabilityInput{
			{Name: "sentences", Label: "Sentences", Type: types.InputTypeTextarea, Required: false},
			{Name: "text", Label: "Raw Text", Type: types.InputTypeTextarea, Required: false},
			{Name: "separator", Label: "Separator", Type: types.InputTypeText, Required: false, Default: " "},
		},
		Output: types.CapabilityOutput{
			Name:   "merged",
			Fields: []string{"text", "sentence_count"},
		},
		Tags: []string{"text"},
	}
}

// Invoke implements capability.Capability. One of "sentences" (a list) or
// "text" (split on sentence boundaries) must be present.
func (c *SentenceMerger) Invoke(ctx context.Context, input map[string]any) (map[string]any, error) {
	separator := optionalStringParam(input, "separator", " ")

	sentences, err := collectSentences(input)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"text":           strings.Join(sentences, separator),
		"sentence_count": len(sentences),
	}, nil
}

func collectSentences(input map[string]any) ([]string, error) {
	if raw, ok := input["sentences"]; ok {
		switch v := raw.(type) {
		case []string:
			return v, nil
		case []any:
			sentences := make([]string, 0, len(v))
			for _, item := range v {
				sentences = append(sentences, fmt.Sprintf("%v", item))
			}
			return sentences, nil
		default:
			return nil, fmt.Errorf("input field 'sentences' must be a list, got %T", raw)
		}
	}

	text, err := stringParam(input, "text")
	if err != nil {
		return nil, fmt.Errorf("one of 'sentences' or 'text' is required")
	}

	var sentences []string
	for _, s := range sentenceSplitRe.Split(text, -1) {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	return sentences, nil
}
