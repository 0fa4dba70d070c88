package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yqhp/chain-engine/pkg/types"
)

func TestComputeBatchesLinear(t *testing.T) {
	def := definition("linear",
		[]types.ChainNode{splitNode("a"), splitNode("b"), splitNode("c")},
		[]types.ChainEdge{plainEdge("a", "b"), plainEdge("b", "c")},
	)

	batches, err := ComputeBatches(def)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a"}, {"b"}, {"c"}}, batches)
}

func TestComputeBatchesDiamond(t *testing.T) {
	def := definition("diamond",
		[]types.ChainNode{splitNode("top"), splitNode("left"), splitNode("right"), splitNode("bottom")},
		[]types.ChainEdge{
			plainEdge("top", "left"),
			plainEdge("top", "right"),
			plainEdge("left", "bottom"),
			plainEdge("right", "bottom"),
		},
	)

	batches, err := ComputeBatches(def)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"top"}, {"left", "right"}, {"bottom"}}, batches)
}

func TestComputeBatchesDisconnected(t *testing.T) {
	def := definition("islands",
		[]types.ChainNode{splitNode("b"), splitNode("a")},
		nil,
	)

	batches, err := ComputeBatches(def)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	// Batch membership is sorted for determinism.
	assert.Equal(t, []string{"a", "b"}, batches[0])
}

func TestComputeBatchesCycle(t *testing.T) {
	def := definition("cyclic",
		[]types.ChainNode{splitNode("a"), splitNode("b"), splitNode("c")},
		[]types.ChainEdge{plainEdge("a", "b"), plainEdge("b", "c"), plainEdge("c", "a")},
	)

	_, err := ComputeBatches(def)
	require.Error(t, err)
	assert.True(t, IsCycleError(err))

	cycleErr := err.(*CycleError)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, cycleErr.Remaining)
}

func TestComputeBatchesPartialCycle(t *testing.T) {
	// "start" is schedulable; the b<->c loop is not.
	def := definition("partial",
		[]types.ChainNode{splitNode("start"), splitNode("b"), splitNode("c")},
		[]types.ChainEdge{plainEdge("start", "b"), plainEdge("b", "c"), plainEdge("c", "b")},
	)

	_, err := ComputeBatches(def)
	require.Error(t, err)
	cycleErr := err.(*CycleError)
	assert.ElementsMatch(t, []string{"b", "c"}, cycleErr.Remaining)
}
