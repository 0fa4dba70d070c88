package store

import (
	"fmt"
	"sort"
	"sync"

	"yqhp/chain-engine/pkg/types"
)

// MemoryDefinitionStore is an in-memory DefinitionStore. It is safe for
// concurrent use.
type MemoryDefinitionStore struct {
	mu   sync.RWMutex
	defs map[string]*types.ChainDefinition
}

// NewMemoryDefinitionStore creates an empty MemoryDefinitionStore.
func NewMemoryDefinitionStore() *MemoryDefinitionStore {
	return &MemoryDefinitionStore{
		defs: make(map[string]*types.ChainDefinition),
	}
}

// Get returns the definition for a chain id.
func (s *MemoryDefinitionStore) Get(chainID string) (*types.ChainDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	def, ok := s.defs[chainID]
	if !ok {
		return nil, &NotFoundError{ChainID: chainID}
	}
	return def, nil
}

// Put stores a definition, replacing any previous one with the same id.
func (s *MemoryDefinitionStore) Put(def *types.ChainDefinition) error {
	if def == nil {
		return fmt.Errorf("cannot store a nil definition")
	}
	if def.ID == "" {
		return fmt.Errorf("cannot store a definition without an id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defs[def.ID] = def
	return nil
}

// Delete removes a definition.
func (s *MemoryDefinitionStore) Delete(chainID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.defs, chainID)
}

// List returns all stored definitions sorted by chain id.
func (s *MemoryDefinitionStore) List() []*types.ChainDefinition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	defs := make([]*types.ChainDefinition, 0, len(s.defs))
	for _, def := range s.defs {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })
	return defs
}

// MemoryHistoryStore is a bounded in-memory HistoryStore. When the limit is
// reached, the oldest result is evicted. It is safe for concurrent use.
type MemoryHistoryStore struct {
	mu      sync.RWMutex
	limit   int
	order   []string // run ids, oldest first
	results map[string]*types.ExecutionResult
}

// NewMemoryHistoryStore creates a MemoryHistoryStore retaining up to limit
// results. A limit of zero or less means unbounded.
func NewMemoryHistoryStore(limit int) *MemoryHistoryStore {
	return &MemoryHistoryStore{
		limit:   limit,
		results: make(map[string]*types.ExecutionResult),
	}
}

// Append records a finished result, evicting the oldest when full.
func (s *MemoryHistoryStore) Append(result *types.ExecutionResult) error {
	if result == nil {
		return fmt.Errorf("cannot record a nil result")
	}
	if result.RunID == "" {
		return fmt.Errorf("cannot record a result without a run id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.results[result.RunID]; !exists {
		s.order = append(s.order, result.RunID)
	}
	s.results[result.RunID] = result

	if s.limit > 0 {
		for len(s.order) > s.limit {
			oldest := s.order[0]
			s.order = s.order[1:]
			delete(s.results, oldest)
		}
	}
	return nil
}

// Get returns a result by run id.
func (s *MemoryHistoryStore) Get(runID string) (*types.ExecutionResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[runID]
	return result, ok
}

// List returns retained results, most recent first.
func (s *MemoryHistoryStore) List() []*types.ExecutionResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := make([]*types.ExecutionResult, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		results = append(results, s.results[s.order[i]])
	}
	return results
}
