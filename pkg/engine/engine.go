// Package engine provides the public API of the chain engine: definition
// management, validation and execution behind a single facade.
package engine

import (
	"context"
	"time"

	"yqhp/chain-engine/internal/capability"
	"yqhp/chain-engine/internal/chain"
	"yqhp/chain-engine/internal/config"
	"yqhp/chain-engine/internal/metrics"
	"yqhp/chain-engine/internal/store"
	"yqhp/chain-engine/pkg/types"
)

// Options configures one execution.
type Options struct {
	// Timeout bounds the run. Zero means the engine default; a negative
	// value disables the deadline entirely.
	Timeout time.Duration
}

// Engine ties the validator, executor and stores together.
type Engine struct {
	cfg         *config.Config
	provider    capability.Provider
	definitions store.DefinitionStore
	history     store.HistoryStore
	collector   *metrics.Collector
	validator   *chain.Validator
	executor    *chain.Executor
}

// New creates an Engine from a configuration and a capability provider. A
// nil configuration uses defaults; a nil provider uses the default registry.
func New(cfg *config.Config, provider capability.Provider, extraSinks ...chain.HistorySink) *Engine {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if provider == nil {
		provider = capability.DefaultRegistry
	}

	history := store.NewMemoryHistoryStore(cfg.Store.HistoryLimit)
	collector := metrics.NewCollector()

	sinks := store.TeeHistory{history}
	for _, sink := range extraSinks {
		sinks = append(sinks, sink)
	}

	return &Engine{
		cfg:         cfg,
		provider:    provider,
		definitions: store.NewMemoryDefinitionStore(),
		history:     history,
		collector:   collector,
		validator:   chain.NewValidator(provider),
		executor: chain.NewExecutor(provider,
			chain.WithMetrics(collector),
			chain.WithHistory(sinks)),
	}
}

// Definitions returns the definition store.
func (e *Engine) Definitions() store.DefinitionStore {
	return e.definitions
}

// History returns the run history store.
func (e *Engine) History() store.HistoryStore {
	return e.history
}

// Provider returns the capability provider.
func (e *Engine) Provider() capability.Provider {
	return e.provider
}

// Manifests returns the manifests of every registered capability, when the
// provider can enumerate them.
func (e *Engine) Manifests() []*types.CapabilityManifest {
	type enumerator interface {
		Manifests() []*types.CapabilityManifest
	}
	if en, ok := e.provider.(enumerator); ok {
		return en.Manifests()
	}
	return nil
}

// Metrics returns per-capability latency snapshots.
func (e *Engine) Metrics() []metrics.CapabilitySnapshot {
	return e.collector.Snapshot()
}

// LoadDefinitions loads every definition file from the configured directory.
func (e *Engine) LoadDefinitions() (int, error) {
	if e.cfg.Store.DefinitionsDir == "" {
		return 0, nil
	}
	return store.LoadDirectory(e.definitions, e.cfg.Store.DefinitionsDir)
}

// Validate validates a chain definition without executing it.
func (e *Engine) Validate(def *types.ChainDefinition) types.ValidationReport {
	return e.validator.Validate(def)
}

// Execute validates and runs a stored definition by chain id.
func (e *Engine) Execute(ctx context.Context, chainID string, input map[string]any, opts Options) (*types.ExecutionResult, error) {
	def, err := e.definitions.Get(chainID)
	if err != nil {
		return nil, err
	}
	return e.ExecuteDefinition(ctx, def, input, opts)
}

// ExecuteDefinition validates and runs a definition directly. A failed
// validation aborts before any node starts and returns a ValidationError.
func (e *Engine) ExecuteDefinition(ctx context.Context, def *types.ChainDefinition, input map[string]any, opts Options) (*types.ExecutionResult, error) {
	report := e.validator.Validate(def)
	if !report.Valid {
		return nil, chain.NewValidationError(report)
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = e.cfg.Engine.DefaultTimeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if input == nil {
		input = map[string]any{}
	}
	return e.executor.Run(ctx, def, input)
}
