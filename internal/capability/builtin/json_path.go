package builtin

import (
	"context"
	"fmt"

	"github.com/ohler55/ojg/jp"

	"yqhp/chain-engine/pkg/types"
)

// JSONPath extracts values from a payload using a JSONPath expression.
type JSONPath struct{}

// NewJSONPath creates the json_path capability.
func NewJSONPath() *JSONPath {
	return &JSONPath{}
}

// Manifest returns the capability's self-description.
func (c *JSONPath) Manifest() *types.CapabilityManifest {
	return &types.CapabilityManifest{
		ID:          "json_path",
		Name:        "JSONPath Extractor",
		Version:     "1.0.0",
		Description: "Extracts values from structured data using a JSONPath expression",
		Inputs: []types.CapabilityInput{
			{Name: "data", Label: "Source Data", Type: types.InputTypeTextarea, Required: true},
			{Name: "path", Label: "JSONPath Expression", Type: types.InputTypeText, Required: true},
		},
		Output: types.CapabilityOutput{
			Name:   "extracted",
			Fields: []string{"value", "values", "count"},
		},
		Tags: []string{"data", "extraction"},
	}
}

// Invoke implements capability.Capability.
func (c *JSONPath) Invoke(ctx context.Context, input map[string]any) (map[string]any, error) {
	pathExpr, err := stringParam(input, "path")
	if err != nil {
		return nil, err
	}

	data, ok := input["data"]
	if !ok {
		return nil, fmt.Errorf("required input field 'data' is missing")
	}

	path, err := jp.ParseString(pathExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONPath expression '%s': %w", pathExpr, err)
	}

	results := path.Get(data)

	var value any
	if len(results) > 0 {
		value = results[0]
	}

	return map[string]any{
		"value":  value,
		"values": results,
		"count":  len(results),
	}, nil
}
