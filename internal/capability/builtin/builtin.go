// Package builtin registers the built-in capabilities that ship with the
// engine: text statistics, bag-of-words, sentence merging and JSONPath
// extraction. Importing the package for side effects is enough to make them
// available in the default registry:
//
//	import _ "yqhp/chain-engine/internal/capability/builtin"
package builtin

import (
	"fmt"

	"yqhp/chain-engine/internal/capability"
)

func init() {
	for _, c := range All() {
		capability.MustRegister(c)
	}
}

// All returns fresh instances of every built-in capability.
func All() []capability.Capability {
	return []capability.Capability{
		NewTextStat(),
		NewBagOfWords(),
		NewSentenceMerger(),
		NewJSONPath(),
	}
}

// stringParam extracts a string parameter from the input payload.
func stringParam(input map[string]any, name string) (string, error) {
	v, ok := input[name]
	if !ok {
		return "", fmt.Errorf("required input field '%s' is missing", name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("input field '%s' must be a string, got %T", name, v)
	}
	return s, nil
}

// optionalStringParam extracts an optional string parameter.
func optionalStringParam(input map[string]any, name, fallback string) string {
	if v, ok := input[name]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return fallback
}

// optionalIntParam extracts an optional integer parameter, tolerating the
// numeric types JSON and YAML decoders produce.
func optionalIntParam(input map[string]any, name string, fallback int) int {
	v, ok := input[name]
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return fallback
	}
}
