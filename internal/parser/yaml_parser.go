package parser

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"yqhp/chain-engine/pkg/types"
)

// YAMLParser implements the Parser interface for YAML chain definitions.
type YAMLParser struct {
	resolver *DefaultVariableResolver
}

// NewYAMLParser creates a new YAMLParser.
func NewYAMLParser() *YAMLParser {
	return &YAMLParser{
		resolver: NewDefaultVariableResolver(),
	}
}

// WithResolver sets a custom variable resolver.
func (p *YAMLParser) WithResolver(resolver *DefaultVariableResolver) *YAMLParser {
	p.resolver = resolver
	return p
}

// Parse parses a chain definition from bytes.
func (p *YAMLParser) Parse(data []byte) (*types.ChainDefinition, error) {
	var def types.ChainDefinition

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Strict mode: error on unknown fields

	if err := decoder.Decode(&def); err != nil {
		return nil, p.wrapYAMLError(err)
	}

	if err := p.resolveConfigs(&def); err != nil {
		return nil, err
	}

	if err := p.checkStructure(&def); err != nil {
		return nil, err
	}

	return &def, nil
}

// ParseFile parses a chain definition from a file.
func (p *YAMLParser) ParseFile(path string) (*types.ChainDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewParseError(0, 0, fmt.Sprintf("failed to read file: %s", path), err)
	}
	return p.Parse(data)
}

// resolveConfigs substitutes prefixed variable references inside node
// configurations. Bare ${name} references survive untouched for the
// condition evaluator.
func (p *YAMLParser) resolveConfigs(def *types.ChainDefinition) error {
	for i := range def.Nodes {
		if def.Nodes[i].Config == nil {
			continue
		}
		resolved, err := p.resolver.ResolveValue(def.Nodes[i].Config)
		if err != nil {
			return err
		}
		def.Nodes[i].Config = resolved.(map[string]any)
	}
	return nil
}

// checkStructure verifies the fields the decoder cannot: required values and
// per-entry completeness. Graph-level validation (unknown endpoints, cycles,
// mapping targets) is the chain validator's job.
func (p *YAMLParser) checkStructure(def *types.ChainDefinition) error {
	if def.ID == "" {
		return NewDefinitionError("id", "chain ID is required")
	}
	if def.Name == "" {
		return NewDefinitionError("name", "chain name is required")
	}
	if len(def.Nodes) == 0 {
		return NewDefinitionError("nodes", "chain must have at least one node")
	}

	for i, node := range def.Nodes {
		field := fmt.Sprintf("nodes[%d]", i)
		if node.ID == "" {
			return NewDefinitionError(field+".id", "node ID is required")
		}
		if !node.Type.Valid() {
			return NewDefinitionError(field+".type", fmt.Sprintf("unknown node type '%s'", node.Type))
		}
		if node.Type == types.NodeTypePlugin && node.CapabilityID == "" {
			return NewDefinitionError(field+".capability_id", "plugin node requires a capability ID")
		}
	}

	for i, edge := range def.Edges {
		field := fmt.Sprintf("edges[%d]", i)
		if edge.Source == "" {
			return NewDefinitionError(field+".source", "edge source is required")
		}
		if edge.Target == "" {
			return NewDefinitionError(field+".target", "edge target is required")
		}
	}
	return nil
}

// wrapYAMLError converts a YAML error to a ParseError with line information.
func (p *YAMLParser) wrapYAMLError(err error) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()
	line, column := extractLineColumn(errStr)
	message := cleanYAMLErrorMessage(errStr)

	return NewParseError(line, column, message, err)
}

// extractLineColumn attempts to extract line and column from YAML error message.
func extractLineColumn(errStr string) (int, int) {
	var line, column int

	if idx := strings.Index(errStr, "line "); idx != -1 {
		fmt.Sscanf(errStr[idx:], "line %d", &line)
	}
	if idx := strings.Index(errStr, "column "); idx != -1 {
		fmt.Sscanf(errStr[idx:], "column %d", &column)
	}

	return line, column
}

// cleanYAMLErrorMessage creates a cleaner error message.
func cleanYAMLErrorMessage(errStr string) string {
	errStr = strings.TrimPrefix(errStr, "yaml: ")
	if len(errStr) > 0 {
		errStr = strings.ToUpper(errStr[:1]) + errStr[1:]
	}
	return errStr
}
