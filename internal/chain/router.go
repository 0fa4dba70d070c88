package chain

import "yqhp/chain-engine/pkg/types"

// BuildInput assembles the input payload for a node from the finalized
// outputs of its predecessors.
//
// Entry nodes receive a copy of the run input directly. For every other
// node, the incoming edges are applied in declaration order: each edge
// copies the fields named in its mapping from the source node's output into
// the corresponding input field names, so a later edge overwrites an earlier
// one writing the same input field. Fields not named in any mapping are
// never forwarded.
//
// Edges whose source has no finalized output (a skipped predecessor) simply
// contribute nothing.
func BuildInput(def *types.ChainDefinition, nodeID string, runInput map[string]any, outputs map[string]map[string]any) map[string]any {
	incoming := def.IncomingEdges(nodeID)

	if len(incoming) == 0 {
		input := make(map[string]any, len(runInput))
		for k, v := range runInput {
			input[k] = v
		}
		return input
	}

	input := make(map[string]any)
	for _, edge := range incoming {
		source, ok := outputs[edge.Source]
		if !ok {
			continue
		}
		for _, m := range edge.Mappings {
			if value, ok := source[m.SourceField]; ok {
				input[m.TargetField] = value
			}
		}
	}
	return input
}
