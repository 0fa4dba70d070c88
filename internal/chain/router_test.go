package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"yqhp/chain-engine/pkg/types"
)

func TestBuildInputEntryNode(t *testing.T) {
	def := definition("entry", []types.ChainNode{splitNode("a")}, nil)
	runInput := map[string]any{"text": "hello"}

	input := BuildInput(def, "a", runInput, nil)
	assert.Equal(t, runInput, input)

	// The entry input is a copy; mutating it must not leak into the run input.
	input["text"] = "mutated"
	assert.Equal(t, "hello", runInput["text"])
}

func TestBuildInputMappedFieldsOnly(t *testing.T) {
	def := definition("mapped",
		[]types.ChainNode{splitNode("src"), splitNode("dst")},
		[]types.ChainEdge{plainEdge("src", "dst", mapping("count", "total"))},
	)

	outputs := map[string]map[string]any{
		"src": {"count": 7, "secret": "hidden"},
	}

	input := BuildInput(def, "dst", map[string]any{"run": true}, outputs)
	assert.Equal(t, map[string]any{"total": 7}, input)
}

func TestBuildInputLaterEdgeWins(t *testing.T) {
	def := definition("conflict",
		[]types.ChainNode{splitNode("one"), splitNode("two"), splitNode("sink")},
		[]types.ChainEdge{
			plainEdge("one", "sink", mapping("v", "value")),
			plainEdge("two", "sink", mapping("v", "value")),
		},
	)

	outputs := map[string]map[string]any{
		"one": {"v": "first"},
		"two": {"v": "second"},
	}

	input := BuildInput(def, "sink", nil, outputs)
	assert.Equal(t, "second", input["value"])
}

func TestBuildInputSkipsMissingSources(t *testing.T) {
	def := definition("partial",
		[]types.ChainNode{splitNode("live"), splitNode("gone"), splitNode("sink")},
		[]types.ChainEdge{
			plainEdge("live", "sink", mapping("a", "a")),
			plainEdge("gone", "sink", mapping("b", "b")),
		},
	)

	outputs := map[string]map[string]any{
		"live": {"a": 1, "b": 2},
	}

	input := BuildInput(def, "sink", nil, outputs)
	assert.Equal(t, map[string]any{"a": 1}, input)
}

func TestBuildInputMissingSourceField(t *testing.T) {
	def := definition("absent",
		[]types.ChainNode{splitNode("src"), splitNode("dst")},
		[]types.ChainEdge{plainEdge("src", "dst", mapping("nope", "out"))},
	)

	outputs := map[string]map[string]any{"src": {"other": 1}}

	input := BuildInput(def, "dst", nil, outputs)
	assert.Empty(t, input)
}
