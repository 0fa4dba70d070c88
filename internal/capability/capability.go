// Package capability provides the capability provider used by plugin nodes.
//
// A capability is an opaque unit of work the engine can invoke. The registry
// maps capability ids to implementations and exposes their manifests to the
// chain validator.
package capability

import (
	"context"
	"fmt"

	"yqhp/chain-engine/pkg/types"
)

// Capability is a single invokable unit of work.
type Capability interface {
	// Manifest returns the capability's self-description.
	Manifest() *types.CapabilityManifest

	// Invoke executes the capability against the given input payload.
	// Implementations must honor ctx cancellation for long-running work.
	Invoke(ctx context.Context, input map[string]any) (map[string]any, error)
}

// Provider is the engine-facing view of a capability source. The built-in
// registry implements it; external providers can be plugged in through the
// same interface.
type Provider interface {
	// Invoke executes the capability with the given id.
	Invoke(ctx context.Context, capabilityID string, input map[string]any) (map[string]any, error)

	// Manifest returns the manifest for the given capability id.
	Manifest(capabilityID string) (*types.CapabilityManifest, bool)
}

// NotFoundError indicates that no capability is registered under an id.
type NotFoundError struct {
	CapabilityID string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no capability registered for id: %s", e.CapabilityID)
}

// IsNotFound reports whether err is a capability NotFoundError.
func IsNotFound(err error) bool {
	_, ok := err.(*NotFoundError)
	return ok
}
