package parser

import (
	"bytes"
	"os"

	"gopkg.in/yaml.v3"

	"yqhp/chain-engine/pkg/types"
)

// YAMLPrinter implements the Printer interface for YAML chain definitions.
type YAMLPrinter struct {
	indent int // Number of spaces for indentation
}

// NewYAMLPrinter creates a new YAMLPrinter with default settings.
func NewYAMLPrinter() *YAMLPrinter {
	return &YAMLPrinter{
		indent: 2,
	}
}

// WithIndent sets the indentation level.
func (p *YAMLPrinter) WithIndent(spaces int) *YAMLPrinter {
	p.indent = spaces
	return p
}

// Print serializes a chain definition to YAML bytes.
func (p *YAMLPrinter) Print(def *types.ChainDefinition) ([]byte, error) {
	var buf bytes.Buffer

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(p.indent)

	if err := encoder.Encode(def); err != nil {
		return nil, NewParseError(0, 0, "failed to encode chain definition to YAML", err)
	}

	if err := encoder.Close(); err != nil {
		return nil, NewParseError(0, 0, "failed to close YAML encoder", err)
	}

	return buf.Bytes(), nil
}

// PrintToFile serializes a chain definition to a YAML file.
func (p *YAMLPrinter) PrintToFile(def *types.ChainDefinition, path string) error {
	data, err := p.Print(def)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return NewParseError(0, 0, "failed to write file: "+path, err)
	}

	return nil
}

// PrintPretty serializes a chain definition to a formatted YAML string.
func (p *YAMLPrinter) PrintPretty(def *types.ChainDefinition) (string, error) {
	data, err := p.Print(def)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
