package chain

import (
	"sync"
	"time"

	"yqhp/chain-engine/pkg/types"
)

// ExecutionContext holds the per-run mutable state: node statuses, finalized
// outputs, timestamps and error details. It is created fresh for every run
// and discarded once the result is assembled, so concurrent runs of the same
// definition never share state.
//
// The output map is single-writer-per-key: each node writes exactly one
// entry, its own id, exactly once, after completing. Concurrent readers only
// ever observe entries finalized in strictly earlier batches.
type ExecutionContext struct {
	ChainID string
	RunID   string

	mu         sync.Mutex
	statuses   map[string]types.NodeStatus
	outputs    map[string]map[string]any
	starts     map[string]time.Time
	ends       map[string]time.Time
	errDetails map[string]string
	conditions map[string]bool // evaluated condition results keyed by node id
	pruned     map[string]bool // nodes skipped because no live path reaches them
}

// NewExecutionContext creates a fresh context with every node PENDING.
func NewExecutionContext(chainID, runID string, def *types.ChainDefinition) *ExecutionContext {
	statuses := make(map[string]types.NodeStatus, len(def.Nodes))
	for _, node := range def.Nodes {
		statuses[node.ID] = types.NodeStatusPending
	}
	return &ExecutionContext{
		ChainID:    chainID,
		RunID:      runID,
		statuses:   statuses,
		outputs:    make(map[string]map[string]any),
		starts:     make(map[string]time.Time),
		ends:       make(map[string]time.Time),
		errDetails: make(map[string]string),
		conditions: make(map[string]bool),
		pruned:     make(map[string]bool),
	}
}

// Status returns the current status of a node.
func (c *ExecutionContext) Status(nodeID string) types.NodeStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statuses[nodeID]
}

// SetRunning transitions a PENDING node to RUNNING and records its start time.
func (c *ExecutionContext) SetRunning(nodeID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.statuses[nodeID] != types.NodeStatusPending {
		return
	}
	c.statuses[nodeID] = types.NodeStatusRunning
	c.starts[nodeID] = time.Now()
}

// Finish transitions a node to a terminal status and records its end time.
// Transitions out of a terminal status are ignored.
func (c *ExecutionContext) Finish(nodeID string, status types.NodeStatus, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.statuses[nodeID].IsTerminal() {
		return
	}
	c.statuses[nodeID] = status
	c.ends[nodeID] = time.Now()
	if err != nil {
		c.errDetails[nodeID] = err.Error()
	}
}

// MarkSkipped transitions a node that has not run to SKIPPED with a reason.
func (c *ExecutionContext) MarkSkipped(nodeID, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.statuses[nodeID].IsTerminal() {
		return
	}
	c.statuses[nodeID] = types.NodeStatusSkipped
	if reason != "" {
		c.errDetails[nodeID] = reason
	}
}

// MarkPruned transitions a node to SKIPPED because no live path reaches it.
// Pruned skips do not block successors that are still reachable through a
// live path; the pruned node's edges simply contribute nothing.
func (c *ExecutionContext) MarkPruned(nodeID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.statuses[nodeID].IsTerminal() {
		return
	}
	c.statuses[nodeID] = types.NodeStatusSkipped
	c.errDetails[nodeID] = "branch not taken"
	c.pruned[nodeID] = true
}

// Pruned reports whether a node was skipped as unreachable on any live path.
func (c *ExecutionContext) Pruned(nodeID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pruned[nodeID]
}

// SetOutput finalizes a node's output payload. The first write wins; a node
// never writes its entry twice.
func (c *ExecutionContext) SetOutput(nodeID string, output map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.outputs[nodeID]; exists {
		return
	}
	c.outputs[nodeID] = output
}

// Output returns a node's finalized output.
func (c *ExecutionContext) Output(nodeID string) (map[string]any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out, ok := c.outputs[nodeID]
	return out, ok
}

// OutputsSnapshot returns the current finalized outputs. The returned map is
// a fresh copy; the payloads themselves are shared and must be treated as
// read-only.
func (c *ExecutionContext) OutputsSnapshot() map[string]map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot := make(map[string]map[string]any, len(c.outputs))
	for k, v := range c.outputs {
		snapshot[k] = v
	}
	return snapshot
}

// SetConditionResult stores the evaluated branch decision of a condition node.
func (c *ExecutionContext) SetConditionResult(nodeID string, result bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conditions[nodeID] = result
}

// ConditionResult returns the evaluated branch decision of a condition node.
func (c *ExecutionContext) ConditionResult(nodeID string) (bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	result, ok := c.conditions[nodeID]
	return result, ok
}

// record builds the accounting record for one node.
func (c *ExecutionContext) record(nodeID string) types.NodeRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec := types.NodeRecord{
		NodeID:    nodeID,
		Status:    c.statuses[nodeID],
		StartTime: c.starts[nodeID],
		EndTime:   c.ends[nodeID],
		Error:     c.errDetails[nodeID],
	}
	if !rec.StartTime.IsZero() && !rec.EndTime.IsZero() {
		rec.Duration = rec.EndTime.Sub(rec.StartTime)
	}
	return rec
}

// anyFailed reports whether any node is FAILED.
func (c *ExecutionContext) anyFailed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.statuses {
		if s == types.NodeStatusFailed {
			return true
		}
	}
	return false
}
