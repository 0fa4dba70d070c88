package capability

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"yqhp/chain-engine/pkg/types"
)

// Registry manages capability registration and lookup. It implements
// Provider and is safe for concurrent use.
type Registry struct {
	capabilities map[string]Capability
	mu           sync.RWMutex
}

// NewRegistry creates a new capability registry.
func NewRegistry() *Registry {
	return &Registry{
		capabilities: make(map[string]Capability),
	}
}

// Register registers a capability under its manifest id.
// Registering a nil capability, an empty id or a duplicate id is an error.
func (r *Registry) Register(c Capability) error {
	if c == nil {
		return fmt.Errorf("cannot register nil capability")
	}

	manifest := c.Manifest()
	if manifest == nil || manifest.ID == "" {
		return fmt.Errorf("capability manifest id cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.capabilities[manifest.ID]; exists {
		return fmt.Errorf("capability already registered: %s", manifest.ID)
	}

	r.capabilities[manifest.ID] = c
	return nil
}

// MustRegister registers a capability and panics on error.
func (r *Registry) MustRegister(c Capability) {
	if err := r.Register(c); err != nil {
		panic(err)
	}
}

// Unregister removes the capability with the given id.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.capabilities, id)
}

// Get returns the capability with the given id, or nil.
func (r *Registry) Get(id string) Capability {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.capabilities[id]
}

// Has reports whether a capability is registered under the given id.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.capabilities[id]
	return exists
}

// IDs returns all registered capability ids, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.capabilities))
	for id := range r.capabilities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of registered capabilities.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.capabilities)
}

// Manifests returns the manifests of all registered capabilities, ordered by id.
func (r *Registry) Manifests() []*types.CapabilityManifest {
	ids := r.IDs()
	manifests := make([]*types.CapabilityManifest, 0, len(ids))
	for _, id := range ids {
		if c := r.Get(id); c != nil {
			manifests = append(manifests, c.Manifest())
		}
	}
	return manifests
}

// Invoke implements Provider.
func (r *Registry) Invoke(ctx context.Context, capabilityID string, input map[string]any) (map[string]any, error) {
	c := r.Get(capabilityID)
	if c == nil {
		return nil, &NotFoundError{CapabilityID: capabilityID}
	}
	return c.Invoke(ctx, input)
}

// Manifest implements Provider.
func (r *Registry) Manifest(capabilityID string) (*types.CapabilityManifest, bool) {
	c := r.Get(capabilityID)
	if c == nil {
		return nil, false
	}
	return c.Manifest(), true
}

// DefaultRegistry is the global default capability registry. Built-in
// capabilities register themselves here through their package init.
var DefaultRegistry = NewRegistry()

// Register registers a capability in the default registry.
func Register(c Capability) error {
	return DefaultRegistry.Register(c)
}

// MustRegister registers a capability in the default registry and panics on error.
func MustRegister(c Capability) {
	DefaultRegistry.MustRegister(c)
}
