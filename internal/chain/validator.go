package chain

import (
	"fmt"
	"strings"

	"yqhp/chain-engine/internal/capability"
	"yqhp/chain-engine/pkg/types"
)

// Validator checks chain definitions for structural soundness before
// execution. Validate never returns an error: every finding lands in the
// report, and repeated calls on an unchanged definition yield identical
// reports.
type Validator struct {
	provider capability.Provider
}

// NewValidator creates a new Validator. The provider is used to resolve
// plugin node capability references; it may be nil, in which case capability
// resolution is skipped.
func NewValidator(provider capability.Provider) *Validator {
	return &Validator{provider: provider}
}

// Validate runs all structural checks against the definition.
func (v *Validator) Validate(def *types.ChainDefinition) types.ValidationReport {
	report := types.ValidationReport{Valid: true}

	if def == nil {
		report.AddError("chain definition is nil")
		return report
	}

	if len(def.Nodes) == 0 {
		report.AddError("chain must contain at least one node")
	}

	nodeIDs := v.checkNodes(def, &report)
	v.checkEdges(def, nodeIDs, &report)
	v.checkCycles(def, &report)
	v.checkOrphans(def, &report)

	return report
}

// checkNodes validates node ids, types and capability references.
// It returns the set of declared node ids.
func (v *Validator) checkNodes(def *types.ChainDefinition, report *types.ValidationReport) map[string]bool {
	nodeIDs := make(map[string]bool, len(def.Nodes))

	for _, node := range def.Nodes {
		if node.ID == "" {
			report.AddError("node with empty id")
			continue
		}
		if nodeIDs[node.ID] {
			report.AddError(fmt.Sprintf("duplicate node id: %s", node.ID))
			continue
		}
		nodeIDs[node.ID] = true

		if !node.Type.Valid() {
			report.AddError(fmt.Sprintf("node '%s' has unknown type: %s", node.ID, node.Type))
			continue
		}

		if node.Type == types.NodeTypePlugin {
			v.checkCapability(&node, report)
		}
	}

	return nodeIDs
}

// checkCapability resolves a plugin node's capability reference and checks
// declared mappings against the manifest.
func (v *Validator) checkCapability(node *types.ChainNode, report *types.ValidationReport) {
	if node.CapabilityID == "" {
		report.AddError(fmt.Sprintf("plugin node '%s' is missing a capability reference", node.ID))
		return
	}
	if v.provider == nil {
		return
	}
	if _, ok := v.provider.Manifest(node.CapabilityID); !ok {
		report.AddError(fmt.Sprintf("capability '%s' not found for node '%s'", node.CapabilityID, node.ID))
	}
}

// checkEdges validates edge endpoint references, self-loops and branch labels.
func (v *Validator) checkEdges(def *types.ChainDefinition, nodeIDs map[string]bool, report *types.ValidationReport) {
	for i, edge := range def.Edges {
		name := edge.ID
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}

		if !nodeIDs[edge.Source] {
			report.AddError(fmt.Sprintf("edge %s references non-existent source node: %s", name, edge.Source))
		}
		if !nodeIDs[edge.Target] {
			report.AddError(fmt.Sprintf("edge %s references non-existent target node: %s", name, edge.Target))
		}
		if edge.Source != "" && edge.Source == edge.Target {
			report.AddError(fmt.Sprintf("edge %s is a self-loop on node: %s", name, edge.Source))
		}

		if edge.Branch != "" {
			v.checkBranchLabel(def, edge, name, report)
		}

		v.checkMappings(def, edge, name, report)
	}
}

// checkBranchLabel ensures branch labels only appear on condition edges and
// carry a known value.
func (v *Validator) checkBranchLabel(def *types.ChainDefinition, edge types.ChainEdge, name string, report *types.ValidationReport) {
	if edge.Branch != types.BranchTrue && edge.Branch != types.BranchFalse {
		report.AddError(fmt.Sprintf("edge %s has invalid branch label: %s", name, edge.Branch))
		return
	}
	if src, ok := def.Node(edge.Source); ok && src.Type != types.NodeTypeCondition {
		report.AddWarning(fmt.Sprintf("edge %s has branch label '%s' but its source node '%s' is not a condition node", name, edge.Branch, edge.Source))
	}
}

// checkMappings sanity-checks mapped input fields against the target
// capability's manifest. Schema mismatches are warnings only: capabilities
// may accept fields they do not declare.
func (v *Validator) checkMappings(def *types.ChainDefinition, edge types.ChainEdge, name string, report *types.ValidationReport) {
	if v.provider == nil || len(edge.Mappings) == 0 {
		return
	}

	target, ok := def.Node(edge.Target)
	if !ok || target.Type != types.NodeTypePlugin || target.CapabilityID == "" {
		return
	}
	manifest, ok := v.provider.Manifest(target.CapabilityID)
	if !ok {
		return
	}

	declared := make(map[string]bool, len(manifest.Inputs))
	for _, in := range manifest.Inputs {
		declared[in.Name] = true
	}

	for _, m := range edge.Mappings {
		if m.TargetField == "" || m.SourceField == "" {
			report.AddError(fmt.Sprintf("edge %s has a mapping with an empty field name", name))
			continue
		}
		if !declared[m.TargetField] {
			report.AddWarning(fmt.Sprintf("edge %s maps into field '%s' which capability '%s' does not declare", name, m.TargetField, target.CapabilityID))
		}
	}
}

// checkCycles detects cycles via depth-first coloring and reports one
// offending cycle by name.
func (v *Validator) checkCycles(def *types.ChainDefinition, report *types.ValidationReport) {
	adj := make(map[string][]string, len(def.Nodes))
	for _, e := range def.Edges {
		adj[e.Source] = append(adj[e.Source], e.Target)
	}

	const (
		white = 0 // unvisited
		gray  = 1 // on the current DFS stack
		black = 2 // fully explored
	)
	color := make(map[string]int, len(def.Nodes))
	var stack []string
	var cycle []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		color[id] = gray
		stack = append(stack, id)

		for _, next := range adj[id] {
			switch color[next] {
			case white:
				if dfs(next) {
					return true
				}
			case gray:
				// Back edge: the cycle is the stack suffix starting at next.
				for i, s := range stack {
					if s == next {
						cycle = append(append([]string{}, stack[i:]...), next)
						return true
					}
				}
				cycle = []string{next, next}
				return true
			}
		}

		stack = stack[:len(stack)-1]
		color[id] = black
		return false
	}

	for _, node := range def.Nodes {
		if color[node.ID] == white {
			if dfs(node.ID) {
				report.AddError(fmt.Sprintf("cycle detected: %s", strings.Join(cycle, " -> ")))
				return
			}
		}
	}
}

// checkOrphans warns about nodes with no edges at all. A single-node chain
// has no edges by construction and is not flagged.
func (v *Validator) checkOrphans(def *types.ChainDefinition, report *types.ValidationReport) {
	if len(def.Nodes) <= 1 {
		return
	}

	connected := make(map[string]bool, len(def.Nodes))
	for _, e := range def.Edges {
		connected[e.Source] = true
		connected[e.Target] = true
	}

	for _, node := range def.Nodes {
		if !connected[node.ID] {
			report.AddWarning(fmt.Sprintf("node '%s' is not connected to any other node", node.ID))
		}
	}
}
