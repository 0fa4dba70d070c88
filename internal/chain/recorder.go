package chain

import (
	"time"

	"yqhp/chain-engine/pkg/types"
)

// HistorySink receives finished execution results. Implementations must be
// safe for concurrent use; a sink error never fails the run it records.
type HistorySink interface {
	Append(result *types.ExecutionResult) error
}

// buildResult assembles the immutable outcome of a run from the execution
// context. Records are ordered by batch, then by node id within a batch, so
// the same definition always yields the same record order.
func buildResult(def *types.ChainDefinition, ectx *ExecutionContext, batches [][]string, startedAt, completedAt time.Time, runErr error) *types.ExecutionResult {
	result := &types.ExecutionResult{
		ChainID:     ectx.ChainID,
		RunID:       ectx.RunID,
		StartedAt:   startedAt,
		CompletedAt: completedAt,
		Duration:    completedAt.Sub(startedAt),
		Batches:     batches,
		Records:     make([]types.NodeRecord, 0, len(def.Nodes)),
	}

	var firstNodeError string
	for _, batch := range batches {
		for _, nodeID := range batch {
			rec := ectx.record(nodeID)
			result.Records = append(result.Records, rec)
			if rec.Status == types.NodeStatusFailed && firstNodeError == "" {
				firstNodeError = rec.Error
			}
		}
	}

	result.Success = runErr == nil && !ectx.anyFailed()
	if runErr != nil {
		result.Error = runErr.Error()
	} else if firstNodeError != "" {
		result.Error = firstNodeError
	}

	result.Output = finalOutput(def, ectx)
	return result
}

// finalOutput extracts the run's output from the leaf nodes, the nodes with
// no outgoing edges. A single succeeded leaf yields its payload directly;
// several succeeded leaves are keyed by node id. Leaves that were skipped or
// failed contribute nothing.
func finalOutput(def *types.ChainDefinition, ectx *ExecutionContext) map[string]any {
	type leafOutput struct {
		nodeID  string
		payload map[string]any
	}

	var leaves []leafOutput
	for _, node := range def.Nodes {
		if len(def.OutgoingEdges(node.ID)) > 0 {
			continue
		}
		if ectx.Status(node.ID) != types.NodeStatusSucceeded {
			continue
		}
		if payload, ok := ectx.Output(node.ID); ok {
			leaves = append(leaves, leafOutput{nodeID: node.ID, payload: payload})
		}
	}

	switch len(leaves) {
	case 0:
		return nil
	case 1:
		return leaves[0].payload
	default:
		combined := make(map[string]any, len(leaves))
		for _, leaf := range leaves {
			combined[leaf.nodeID] = leaf.payload
		}
		return combined
	}
}
