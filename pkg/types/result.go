package types

import "time"

// NodeStatus represents the execution status of a chain node.
type NodeStatus string

const (
	// NodeStatusPending indicates the node has not been dispatched yet.
	NodeStatusPending NodeStatus = "pending"
	// NodeStatusRunning indicates the node is executing.
	NodeStatusRunning NodeStatus = "running"
	// NodeStatusSucceeded indicates the node completed successfully.
	NodeStatusSucceeded NodeStatus = "succeeded"
	// NodeStatusFailed indicates the node failed.
	NodeStatusFailed NodeStatus = "failed"
	// NodeStatusSkipped indicates the node was never executed, either because
	// it sits on an untaken condition branch, a dependency failed, or the run
	// was cancelled before the node started.
	NodeStatusSkipped NodeStatus = "skipped"
)

// IsTerminal reports whether the status is final. No transitions occur out
// of a terminal status.
func (s NodeStatus) IsTerminal() bool {
	switch s {
	case NodeStatusSucceeded, NodeStatusFailed, NodeStatusSkipped:
		return true
	default:
		return false
	}
}

// NodeRecord is the per-node accounting entry of a run. One record is
// produced for every node of the definition, whatever its outcome.
type NodeRecord struct {
	NodeID    string        `json:"node_id"`
	Status    NodeStatus    `json:"status"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Error     string        `json:"error,omitempty"`
}

// ExecutionResult is the immutable outcome of one chain run.
//
// Success is true iff every node reachable from an entry node along taken
// branches succeeded. Nodes skipped on an untaken branch do not count
// against success.
type ExecutionResult struct {
	ChainID     string         `json:"chain_id"`
	RunID       string         `json:"run_id"`
	Success     bool           `json:"success"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt time.Time      `json:"completed_at"`
	Duration    time.Duration  `json:"duration"`
	Batches     [][]string     `json:"batches,omitempty"`
	Records     []NodeRecord   `json:"records"`
	Output      map[string]any `json:"output,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// Record returns the record for the given node id.
func (r *ExecutionResult) Record(nodeID string) (*NodeRecord, bool) {
	for i := range r.Records {
		if r.Records[i].NodeID == nodeID {
			return &r.Records[i], true
		}
	}
	return nil, false
}

// ValidationReport is the outcome of validating a chain definition.
// Validation never raises; structural problems are collected as errors and
// non-fatal findings as warnings, both in a deterministic order.
type ValidationReport struct {
	Valid    bool     `json:"is_valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// AddError appends a validation error and marks the report invalid.
func (r *ValidationReport) AddError(msg string) {
	r.Valid = false
	r.Errors = append(r.Errors, msg)
}

// AddWarning appends a validation warning.
func (r *ValidationReport) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}
