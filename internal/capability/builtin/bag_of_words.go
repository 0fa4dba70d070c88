package builtin

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"yqhp/chain-engine/pkg/types"
)

var wordRe = regexp.MustCompile(`[a-zA-Z0-9']+`)

// BagOfWords computes word frequencies with an optional cutoff threshold.
type BagOfWords struct{}

// NewBagOfWords creates the bag_of_words capability.
func NewBagOfWords() *BagOfWords {
	return &BagOfWords{}
}

// Manifest returns the capability's self-description.
func (c *BagOfWords) Manifest() *types.CapabilityManifest {
	return &types.CapabilityManifest{
		ID:          "bag_of_words",
		Name:        "Bag of Words",
		Version:     "1.0.0",
		Description: "Builds a word frequency map, dropping words below the cutoff",
		Inputs: []types.CapabilityInput{
			{Name: "text", Label: "Text to Analyze", Type: types.InputTypeTextarea, Required: true},
			{Name: "cutoff", Label: "Minimum Frequency", Type: types.InputTypeNumber, Required: false, Default: 0},
		},
		Output: types.CapabilityOutput{
			Name:   "frequencies",
			Fields: []string{"total_words", "unique_words", "word_frequencies", "word_list"},
		},
		Tags: []string{"text", "analysis"},
	}
}

// Invoke implements capability.Capability.
func (c *BagOfWords) Invoke(ctx context.Context, input map[string]any) (map[string]any, error) {
	text, err := stringParam(input, "text")
	if err != nil {
		return nil, err
	}
	cutoff := optionalIntParam(input, "cutoff", 0)
	if cutoff < 0 {
		cutoff = 0
	}

	words := wordRe.FindAllString(strings.ToLower(text), -1)
	freq := make(map[string]int, len(words))
	for _, w := range words {
		freq[w]++
	}

	filtered := make(map[string]any, len(freq))
	var wordList []string
	for w, n := range freq {
		if n >= cutoff {
			filtered[w] = n
			wordList = append(wordList, w)
		}
	}
	sort.Strings(wordList)

	return map[string]any{
		"total_words":      len(words),
		"unique_words":     len(freq),
		"word_frequencies": filtered,
		"word_list":        wordList,
	}, nil
}
