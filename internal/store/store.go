// Package store provides chain definition storage and run history retention.
package store

import (
	"fmt"

	"yqhp/chain-engine/pkg/types"
)

// DefinitionStore holds chain definitions keyed by chain id.
type DefinitionStore interface {
	// Get returns the definition for a chain id.
	Get(chainID string) (*types.ChainDefinition, error)

	// Put stores a definition, replacing any previous one with the same id.
	Put(def *types.ChainDefinition) error

	// Delete removes a definition. Deleting an unknown id is not an error.
	Delete(chainID string)

	// List returns all stored definitions sorted by chain id.
	List() []*types.ChainDefinition
}

// HistoryStore retains finished execution results.
type HistoryStore interface {
	// Append records a finished result.
	Append(result *types.ExecutionResult) error

	// Get returns a result by run id.
	Get(runID string) (*types.ExecutionResult, bool)

	// List returns retained results, most recent first.
	List() []*types.ExecutionResult
}

// NotFoundError indicates a chain id with no stored definition.
type NotFoundError struct {
	ChainID string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("chain definition '%s' not found", e.ChainID)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	_, ok := err.(*NotFoundError)
	return ok
}
