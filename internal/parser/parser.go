// Package parser provides chain definition parsing and serialization.
package parser

import (
	"yqhp/chain-engine/pkg/types"
)

// Parser defines the interface for parsing chain definitions.
type Parser interface {
	// Parse parses a chain definition from bytes.
	Parse(data []byte) (*types.ChainDefinition, error)

	// ParseFile parses a chain definition from a file.
	ParseFile(path string) (*types.ChainDefinition, error)
}

// Printer defines the interface for serializing chain definitions.
type Printer interface {
	// Print serializes a chain definition to bytes.
	Print(def *types.ChainDefinition) ([]byte, error)

	// PrintToFile serializes a chain definition to a file.
	PrintToFile(def *types.ChainDefinition, path string) error
}

// VariableResolver defines the interface for resolving variable references.
type VariableResolver interface {
	// Resolve resolves a variable reference and returns its value.
	Resolve(ref string) (any, error)
}
