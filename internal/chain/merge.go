package chain

import (
	"fmt"

	"dario.cat/mergo"

	"yqhp/chain-engine/pkg/types"
)

// Merge strategies.
const (
	MergeConcat    = "concat"
	MergeUnion     = "union"
	MergeDeepMerge = "deep_merge"
)

// mergeContribution is one predecessor's share of a merge, in edge
// declaration order. If the edge declares mappings, the contribution is the
// mapped projection of the source output; otherwise it is the full output.
type mergeContribution struct {
	sourceID string
	payload  map[string]any
}

// collectContributions gathers the finalized outputs of a merge node's
// predecessors in edge declaration order. Predecessors without a finalized
// output (skipped ones) contribute nothing.
func collectContributions(def *types.ChainDefinition, nodeID string, outputs map[string]map[string]any) []mergeContribution {
	var contributions []mergeContribution
	for _, edge := range def.IncomingEdges(nodeID) {
		source, ok := outputs[edge.Source]
		if !ok {
			continue
		}

		payload := source
		if len(edge.Mappings) > 0 {
			payload = make(map[string]any, len(edge.Mappings))
			for _, m := range edge.Mappings {
				if value, ok := source[m.SourceField]; ok {
					payload[m.TargetField] = value
				}
			}
		}
		contributions = append(contributions, mergeContribution{sourceID: edge.Source, payload: payload})
	}
	return contributions
}

// applyMerge combines the contributions per the node's configured strategy.
//
//   - concat: an ordered sequence of the contributions under "items"
//   - union: shallow key union, later contribution wins on conflicts
//   - deep_merge: recursive union of nested structures, later wins at every level
//
// The default strategy is union.
func applyMerge(node *types.ChainNode, contributions []mergeContribution) (map[string]any, error) {
	strategy := configString(node.Config, "strategy", MergeUnion)

	switch strategy {
	case MergeConcat:
		items := make([]any, 0, len(contributions))
		for _, c := range contributions {
			items = append(items, c.payload)
		}
		return map[string]any{"items": items}, nil

	case MergeUnion:
		merged := make(map[string]any)
		for _, c := range contributions {
			for k, v := range c.payload {
				merged[k] = v
			}
		}
		return merged, nil

	case MergeDeepMerge:
		merged := make(map[string]any)
		for _, c := range contributions {
			if err := mergo.Merge(&merged, c.payload, mergo.WithOverride); err != nil {
				return nil, fmt.Errorf("merge node '%s': deep merge of '%s' output failed: %w", node.ID, c.sourceID, err)
			}
		}
		return merged, nil

	default:
		return nil, fmt.Errorf("merge node '%s': unknown strategy '%s'", node.ID, strategy)
	}
}
