package chain

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"yqhp/chain-engine/pkg/types"
)

// TestComputeBatchesPartition checks the scheduling invariants on random
// DAGs: every node is scheduled exactly once, and every edge crosses from a
// strictly earlier batch into a later one.
func TestComputeBatchesPartition(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		nodeCount := rapid.IntRange(1, 20).Draw(t, "nodes")

		nodes := make([]types.ChainNode, nodeCount)
		for i := range nodes {
			nodes[i] = splitNode(fmt.Sprintf("n%02d", i))
		}

		// Edges only go from a lower index to a higher one, so the graph is
		// acyclic by construction.
		var edges []types.ChainEdge
		edgeCount := rapid.IntRange(0, nodeCount*2).Draw(t, "edges")
		seen := make(map[string]bool)
		for i := 0; i < edgeCount; i++ {
			from := rapid.IntRange(0, nodeCount-1).Draw(t, "from")
			to := rapid.IntRange(0, nodeCount-1).Draw(t, "to")
			if from >= to {
				continue
			}
			key := fmt.Sprintf("%d-%d", from, to)
			if seen[key] {
				continue
			}
			seen[key] = true
			edges = append(edges, plainEdge(nodes[from].ID, nodes[to].ID))
		}

		def := definition("random", nodes, edges)
		batches, err := ComputeBatches(def)
		if err != nil {
			t.Fatalf("unexpected scheduling error: %v", err)
		}

		batchOf := make(map[string]int)
		for i, batch := range batches {
			for _, id := range batch {
				if prev, dup := batchOf[id]; dup {
					t.Fatalf("node %s scheduled in batches %d and %d", id, prev, i)
				}
				batchOf[id] = i
			}
		}
		if len(batchOf) != nodeCount {
			t.Fatalf("scheduled %d of %d nodes", len(batchOf), nodeCount)
		}

		for _, edge := range edges {
			if batchOf[edge.Source] >= batchOf[edge.Target] {
				t.Fatalf("edge %s->%s does not cross batches forward (%d >= %d)",
					edge.Source, edge.Target, batchOf[edge.Source], batchOf[edge.Target])
			}
		}
	})
}

// TestComputeBatchesDeterministic checks that scheduling the same definition
// twice yields identical batches.
func TestComputeBatchesDeterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		nodeCount := rapid.IntRange(1, 12).Draw(t, "nodes")
		nodes := make([]types.ChainNode, nodeCount)
		for i := range nodes {
			nodes[i] = splitNode(fmt.Sprintf("n%02d", i))
		}

		var edges []types.ChainEdge
		for i := 0; i < nodeCount; i++ {
			for j := i + 1; j < nodeCount; j++ {
				if rapid.Bool().Draw(t, "edge") {
					edges = append(edges, plainEdge(nodes[i].ID, nodes[j].ID))
				}
			}
		}

		def := definition("repeat", nodes, edges)
		first, err := ComputeBatches(def)
		if err != nil {
			t.Fatalf("unexpected scheduling error: %v", err)
		}
		second, err := ComputeBatches(def)
		if err != nil {
			t.Fatalf("unexpected scheduling error: %v", err)
		}

		if len(first) != len(second) {
			t.Fatalf("batch counts differ: %d vs %d", len(first), len(second))
		}
		for i := range first {
			if len(first[i]) != len(second[i]) {
				t.Fatalf("batch %d sizes differ", i)
			}
			for j := range first[i] {
				if first[i][j] != second[i][j] {
					t.Fatalf("batch %d differs at %d: %s vs %s", i, j, first[i][j], second[i][j])
				}
			}
		}
	})
}
