package chain

import (
	"fmt"

	"yqhp/chain-engine/pkg/types"
)

// Transform operations.
const (
	TransformExtract     = "extract"
	TransformRename      = "rename"
	TransformPassthrough = "passthrough"
	TransformDefault     = "default"
)

// applyTransform reshapes the input payload per the node's configuration.
//
// Supported operations:
//   - extract: project the fields named in config "fields"
//   - rename: rename keys per config "rename" (old name -> new name)
//   - passthrough: forward the payload unchanged
//   - default: fill fields missing from the payload with config "defaults"
//
// A referenced field that is absent from the payload fails with
// MissingFieldError unless config "defaults" carries a value for it.
func applyTransform(node *types.ChainNode, input map[string]any) (map[string]any, error) {
	op := configString(node.Config, "op", TransformPassthrough)
	defaults := configMap(node.Config, "defaults")

	switch op {
	case TransformPassthrough:
		return copyPayload(input), nil

	case TransformExtract:
		fields := configStringSlice(node.Config, "fields")
		output := make(map[string]any, len(fields))
		for _, field := range fields {
			value, ok := input[field]
			if !ok {
				if value, ok = defaults[field]; !ok {
					return nil, NewMissingFieldError(node.ID, field)
				}
			}
			output[field] = value
		}
		return output, nil

	case TransformRename:
		renames := configMap(node.Config, "rename")
		output := copyPayload(input)
		for oldName, newRaw := range renames {
			newName, ok := newRaw.(string)
			if !ok || newName == "" {
				return nil, fmt.Errorf("transform node '%s': rename target for '%s' must be a non-empty string", node.ID, oldName)
			}
			value, ok := input[oldName]
			if !ok {
				if value, ok = defaults[oldName]; !ok {
					return nil, NewMissingFieldError(node.ID, oldName)
				}
			}
			delete(output, oldName)
			output[newName] = value
		}
		return output, nil

	case TransformDefault:
		output := copyPayload(input)
		for field, value := range defaults {
			if _, ok := output[field]; !ok {
				output[field] = value
			}
		}
		return output, nil

	default:
		return nil, fmt.Errorf("transform node '%s': unknown operation '%s'", node.ID, op)
	}
}

// copyPayload returns a shallow copy of a payload.
func copyPayload(payload map[string]any) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = v
	}
	return out
}

// configString reads a string value from a node config.
func configString(config map[string]any, key, fallback string) string {
	if v, ok := config[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return fallback
}

// configMap reads a nested map from a node config.
func configMap(config map[string]any, key string) map[string]any {
	if v, ok := config[key]; ok {
		if m, ok := v.(map[string]any); ok {
			return m
		}
	}
	return nil
}

// configStringSlice reads a string list from a node config, tolerating the
// []any shape YAML and JSON decoders produce.
func configStringSlice(config map[string]any, key string) []string {
	v, ok := config[key]
	if !ok {
		return nil
	}
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
