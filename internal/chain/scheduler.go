package chain

import (
	"sort"

	"yqhp/chain-engine/pkg/types"
)

// ComputeBatches converts a validated definition into an ordered sequence of
// batches using layered Kahn's algorithm. Nodes within a batch have no
// dependencies on one another and may execute concurrently; a node's batch
// index is strictly greater than every predecessor's batch index.
//
// Batch membership is a set; node ids within a batch are sorted only to keep
// the output deterministic.
//
// A definition that still has unschedulable nodes after layering contains a
// cycle and yields a CycleError. The validator rejects cyclic definitions,
// so a run only sees this when a definition bypassed validation.
func ComputeBatches(def *types.ChainDefinition) ([][]string, error) {
	inDegree := make(map[string]int, len(def.Nodes))
	successors := make(map[string][]string, len(def.Nodes))

	for _, node := range def.Nodes {
		inDegree[node.ID] = 0
	}
	for _, edge := range def.Edges {
		successors[edge.Source] = append(successors[edge.Source], edge.Target)
		inDegree[edge.Target]++
	}

	var current []string
	for _, node := range def.Nodes {
		if inDegree[node.ID] == 0 {
			current = append(current, node.ID)
		}
	}

	var batches [][]string
	scheduled := 0

	for len(current) > 0 {
		sort.Strings(current)
		batches = append(batches, current)
		scheduled += len(current)

		var next []string
		for _, id := range current {
			for _, succ := range successors[id] {
				inDegree[succ]--
				if inDegree[succ] == 0 {
					next = append(next, succ)
				}
			}
		}
		current = next
	}

	if scheduled != len(def.Nodes) {
		var remaining []string
		for id, deg := range inDegree {
			if deg > 0 {
				remaining = append(remaining, id)
			}
		}
		sort.Strings(remaining)
		return nil, NewCycleError(remaining)
	}

	return batches, nil
}
