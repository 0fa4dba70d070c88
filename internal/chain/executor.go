package chain

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"yqhp/chain-engine/internal/capability"
	"yqhp/chain-engine/internal/expression"
	"yqhp/chain-engine/pkg/logger"
	"yqhp/chain-engine/pkg/types"
)

// MetricsRecorder observes capability invocations. Implementations must be
// safe for concurrent use.
type MetricsRecorder interface {
	RecordInvocation(capabilityID string, duration time.Duration, failed bool)
}

// Executor runs a chain definition batch by batch. Nodes within a batch run
// concurrently; a batch boundary is a hard barrier, so every node only ever
// reads outputs finalized in strictly earlier batches.
type Executor struct {
	provider  capability.Provider
	evaluator expression.Evaluator
	metrics   MetricsRecorder
	history   HistorySink
}

// Option configures an Executor.
type Option func(*Executor)

// WithMetrics attaches an invocation metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(e *Executor) { e.metrics = m }
}

// WithHistory attaches a history sink that receives finished results.
func WithHistory(h HistorySink) Option {
	return func(e *Executor) { e.history = h }
}

// NewExecutor creates an Executor backed by the given capability provider.
func NewExecutor(provider capability.Provider, opts ...Option) *Executor {
	e := &Executor{
		provider:  provider,
		evaluator: expression.NewEvaluator(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes the definition against the run input and returns the result.
//
// An error is returned only when the run never starts: the definition could
// not be scheduled. Node failures do not produce an error here; they are
// reflected in the result's Success flag, node records and Error field. The
// same applies to cancellation and timeout, which terminate the run at the
// next batch boundary.
func (e *Executor) Run(ctx context.Context, def *types.ChainDefinition, input map[string]any) (*types.ExecutionResult, error) {
	batches, err := ComputeBatches(def)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	ectx := NewExecutionContext(def.ID, runID, def)
	startedAt := time.Now()

	logger.Info("run %s: chain '%s', %d nodes in %d batches", runID, def.ID, len(def.Nodes), len(batches))

	var runErr error

	for i, batch := range batches {
		if err := ctx.Err(); err != nil {
			runErr = classifyContextError(err)
			skipRemaining(ectx, batches[i:], "run aborted: "+runErr.Error())
			break
		}

		live := liveSet(def, ectx)
		snapshot := ectx.OutputsSnapshot()

		runnable := e.markUnrunnable(def, ectx, batch, live)

		logger.Debug("run %s: batch %d, %d of %d nodes runnable", runID, i, len(runnable), len(batch))

		var wg sync.WaitGroup
		for _, nodeID := range runnable {
			node, _ := def.Node(nodeID)
			wg.Add(1)
			go func(node *types.ChainNode) {
				defer wg.Done()
				e.runNode(ctx, ectx, def, node, input, snapshot)
			}(node)
		}
		wg.Wait()
	}

	completedAt := time.Now()
	result := buildResult(def, ectx, batches, startedAt, completedAt, runErr)

	if result.Success {
		logger.Info("run %s: completed in %v", runID, result.Duration)
	} else {
		logger.Warn("run %s: finished unsuccessfully: %s", runID, result.Error)
	}

	e.submitHistory(result)
	return result, nil
}

// markUnrunnable walks one batch and settles every node that must not run:
// nodes outside the live set are pruned as unreached branches, non-merge
// nodes with a failed or dependency-skipped predecessor are skipped, and
// merge nodes with a failed predecessor fail immediately. The remaining
// runnable node ids are returned.
func (e *Executor) markUnrunnable(def *types.ChainDefinition, ectx *ExecutionContext, batch []string, live map[string]bool) []string {
	runnable := make([]string, 0, len(batch))

	for _, nodeID := range batch {
		node, ok := def.Node(nodeID)
		if !ok {
			continue
		}

		if !live[nodeID] {
			ectx.MarkPruned(nodeID)
			continue
		}

		if node.Type == types.NodeTypeMerge {
			if failed := firstFailedPredecessor(def, ectx, nodeID); failed != "" {
				ectx.Finish(nodeID, types.NodeStatusFailed,
					fmt.Errorf("merge aborted: predecessor '%s' failed", failed))
				continue
			}
			if !anyPredecessorSucceeded(def, ectx, nodeID) {
				ectx.MarkSkipped(nodeID, "no live contributions")
				continue
			}
			runnable = append(runnable, nodeID)
			continue
		}

		if blocked, reason := blockedByPredecessor(def, ectx, nodeID); blocked {
			ectx.MarkSkipped(nodeID, reason)
			continue
		}
		runnable = append(runnable, nodeID)
	}
	return runnable
}

// runNode executes a single node and finalizes its status and output.
func (e *Executor) runNode(ctx context.Context, ectx *ExecutionContext, def *types.ChainDefinition, node *types.ChainNode, runInput map[string]any, outputs map[string]map[string]any) {
	ectx.SetRunning(node.ID)
	input := BuildInput(def, node.ID, runInput, outputs)

	var (
		output map[string]any
		err    error
	)

	switch node.Type {
	case types.NodeTypePlugin:
		output, err = e.runPlugin(ctx, node, input)
	case types.NodeTypeCondition:
		output, err = e.runCondition(ectx, node, input)
	case types.NodeTypeTransform:
		output, err = applyTransform(node, input)
	case types.NodeTypeMerge:
		output, err = applyMerge(node, collectContributions(def, node.ID, outputs))
	case types.NodeTypeSplit:
		output = copyPayload(input)
	default:
		err = fmt.Errorf("node '%s': unknown node type '%s'", node.ID, node.Type)
	}

	if err != nil {
		logger.Warn("run %s: node '%s' failed: %v", ectx.RunID, node.ID, err)
		ectx.Finish(node.ID, types.NodeStatusFailed, err)
		return
	}
	ectx.SetOutput(node.ID, output)
	ectx.Finish(node.ID, types.NodeStatusSucceeded, nil)
}

// runPlugin invokes the node's capability. Config "params" values act as
// defaults for input fields no edge mapping supplied.
func (e *Executor) runPlugin(ctx context.Context, node *types.ChainNode, input map[string]any) (map[string]any, error) {
	params := configMap(node.Config, "params")
	for k, v := range params {
		if _, ok := input[k]; !ok {
			input[k] = v
		}
	}

	start := time.Now()
	output, err := e.provider.Invoke(ctx, node.CapabilityID, input)
	elapsed := time.Since(start)

	if e.metrics != nil {
		e.metrics.RecordInvocation(node.CapabilityID, elapsed, err != nil)
	}
	if err != nil {
		return nil, NewPluginInvocationError(node.ID, node.CapabilityID, err)
	}
	if output == nil {
		output = map[string]any{}
	}
	return output, nil
}

// runCondition evaluates the node's expression against its input and records
// the branch decision. The output is the input payload plus the decision
// under "condition_result", so downstream nodes can route on it.
func (e *Executor) runCondition(ectx *ExecutionContext, node *types.ChainNode, input map[string]any) (map[string]any, error) {
	expr := configString(node.Config, "expression", "")
	if expr == "" {
		return nil, NewExpressionError(node.ID, expr, fmt.Errorf("condition node has no expression configured"))
	}

	result, err := e.evaluator.EvaluateString(expr, input)
	if err != nil {
		return nil, NewExpressionError(node.ID, expr, err)
	}
	ectx.SetConditionResult(node.ID, result)

	output := copyPayload(input)
	output["condition_result"] = result
	return output, nil
}

// submitHistory hands the finished result to the history sink. Sink failures
// are logged and swallowed; history is best effort and never fails a run.
func (e *Executor) submitHistory(result *types.ExecutionResult) {
	if e.history == nil {
		return
	}
	if err := e.history.Append(result); err != nil {
		logger.Warn("run %s: history sink rejected result: %v", result.RunID, err)
	}
}

// liveSet computes the nodes still reachable from the entry nodes given the
// branch decisions recorded so far. Edges out of a condition node with a
// recorded decision are followed only when their branch label matches (an
// unlabeled edge is always followed); a condition that has not run yet keeps
// all its outgoing edges open.
func liveSet(def *types.ChainDefinition, ectx *ExecutionContext) map[string]bool {
	live := make(map[string]bool, len(def.Nodes))
	queue := def.EntryNodes()
	for _, id := range queue {
		live[id] = true
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		node, ok := def.Node(id)
		if !ok {
			continue
		}

		decided := false
		var decision bool
		if node.Type == types.NodeTypeCondition {
			decision, decided = ectx.ConditionResult(id)
		}

		for _, edge := range def.OutgoingEdges(id) {
			if decided && edge.Branch != "" && edge.Branch != branchLabel(decision) {
				continue
			}
			if !live[edge.Target] {
				live[edge.Target] = true
				queue = append(queue, edge.Target)
			}
		}
	}
	return live
}

// branchLabel maps a condition decision to its edge label.
func branchLabel(decision bool) string {
	if decision {
		return types.BranchTrue
	}
	return types.BranchFalse
}

// firstFailedPredecessor returns the id of the first failed direct
// predecessor in edge declaration order, or "" if none failed.
func firstFailedPredecessor(def *types.ChainDefinition, ectx *ExecutionContext, nodeID string) string {
	for _, edge := range def.IncomingEdges(nodeID) {
		if ectx.Status(edge.Source) == types.NodeStatusFailed {
			return edge.Source
		}
	}
	return ""
}

// anyPredecessorSucceeded reports whether at least one direct predecessor
// finished successfully.
func anyPredecessorSucceeded(def *types.ChainDefinition, ectx *ExecutionContext, nodeID string) bool {
	for _, edge := range def.IncomingEdges(nodeID) {
		if ectx.Status(edge.Source) == types.NodeStatusSucceeded {
			return true
		}
	}
	return false
}

// blockedByPredecessor reports whether a non-merge node must be skipped
// because a direct predecessor failed or was skipped. A predecessor pruned
// on an untaken branch does not block: the node is only reached here when
// the live set still contains it, so some other live path feeds it and the
// pruned edge merely contributes nothing.
func blockedByPredecessor(def *types.ChainDefinition, ectx *ExecutionContext, nodeID string) (bool, string) {
	for _, edge := range def.IncomingEdges(nodeID) {
		switch ectx.Status(edge.Source) {
		case types.NodeStatusFailed:
			return true, fmt.Sprintf("dependency '%s' failed", edge.Source)
		case types.NodeStatusSkipped:
			if ectx.Pruned(edge.Source) {
				continue
			}
			return true, fmt.Sprintf("dependency '%s' was skipped", edge.Source)
		}
	}
	return false, ""
}

// skipRemaining marks every still-pending node in the given batches skipped.
func skipRemaining(ectx *ExecutionContext, batches [][]string, reason string) {
	for _, batch := range batches {
		for _, nodeID := range batch {
			if ectx.Status(nodeID) == types.NodeStatusPending {
				ectx.MarkSkipped(nodeID, reason)
			}
		}
	}
}

// classifyContextError converts a context error into the run-level error
// taxonomy.
func classifyContextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{}
	}
	return &CancellationError{Cause: err}
}
