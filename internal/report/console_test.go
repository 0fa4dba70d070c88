package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"yqhp/chain-engine/pkg/types"
)

func sampleResult() *types.ExecutionResult {
	return &types.ExecutionResult{
		ChainID:  "demo",
		RunID:    "run-1",
		Success:  true,
		Duration: 42 * time.Millisecond,
		Batches:  [][]string{{"first"}, {"second", "third"}},
		Records: []types.NodeRecord{
			{NodeID: "first", Status: types.NodeStatusSucceeded, Duration: 10 * time.Millisecond},
			{NodeID: "second", Status: types.NodeStatusSucceeded, Duration: 30 * time.Millisecond},
			{NodeID: "third", Status: types.NodeStatusSkipped, Error: "branch not taken"},
		},
	}
}

func TestWriteSummary(t *testing.T) {
	var sb strings.Builder
	WriteSummary(&sb, sampleResult(), &Config{ColorOutput: false})

	out := sb.String()
	assert.Contains(t, out, "chain demo  run run-1")
	assert.Contains(t, out, "+ first")
	assert.Contains(t, out, "- third")
	assert.Contains(t, out, "branch not taken")
	assert.Contains(t, out, "completed in 42ms")
	assert.NotContains(t, out, "batch 0")
	assert.NotContains(t, out, "\033[")
}

func TestWriteSummaryShowsBatches(t *testing.T) {
	var sb strings.Builder
	WriteSummary(&sb, sampleResult(), &Config{ColorOutput: false, ShowBatches: true})

	out := sb.String()
	assert.Contains(t, out, "batch 0: first")
	assert.Contains(t, out, "batch 1: second, third")
}

func TestWriteSummaryFailure(t *testing.T) {
	result := sampleResult()
	result.Success = false
	result.Error = "[PLUGIN_INVOCATION_ERROR] capability 'x' failed at node 'second': boom"
	result.Records[1].Status = types.NodeStatusFailed
	result.Records[1].Error = "boom"

	var sb strings.Builder
	WriteSummary(&sb, result, &Config{ColorOutput: false})

	out := sb.String()
	assert.Contains(t, out, "x second")
	assert.Contains(t, out, "failed after 42ms")
	assert.Contains(t, out, "boom")
}

func TestWriteSummaryColorMarkers(t *testing.T) {
	var sb strings.Builder
	WriteSummary(&sb, sampleResult(), &Config{ColorOutput: true})
	assert.Contains(t, sb.String(), "\033[32m+\033[0m")
}
