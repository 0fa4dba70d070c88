// Package types defines the core data structures for the chain execution engine.
package types

// NodeType represents the variant of a chain node.
type NodeType string

const (
	// NodeTypePlugin invokes a registered capability.
	NodeTypePlugin NodeType = "plugin"
	// NodeTypeCondition evaluates a boolean expression and selects a branch.
	NodeTypeCondition NodeType = "condition"
	// NodeTypeTransform reshapes its input payload.
	NodeTypeTransform NodeType = "transform"
	// NodeTypeMerge combines the outputs of all its predecessors.
	NodeTypeMerge NodeType = "merge"
	// NodeTypeSplit broadcasts its input to all outgoing edges.
	NodeTypeSplit NodeType = "split"
)

// Valid reports whether the node type is one of the known variants.
func (t NodeType) Valid() bool {
	switch t {
	case NodeTypePlugin, NodeTypeCondition, NodeTypeTransform, NodeTypeMerge, NodeTypeSplit:
		return true
	default:
		return false
	}
}

// Branch labels for edges leaving a condition node.
const (
	BranchTrue  = "true"
	BranchFalse = "false"
)

// Position is the node position in the visual editor. The engine ignores it.
type Position struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// FieldMapping maps one output field of the source node to one input field
// of the target node.
type FieldMapping struct {
	SourceField string `yaml:"source_field" json:"source_field"`
	TargetField string `yaml:"target_field" json:"target_field"`
}

// ChainNode is a single node in a chain definition.
type ChainNode struct {
	ID           string         `yaml:"id" json:"id"`
	Type         NodeType       `yaml:"type" json:"type"`
	CapabilityID string         `yaml:"capability_id,omitempty" json:"capability_id,omitempty"`
	Label        string         `yaml:"label,omitempty" json:"label,omitempty"`
	Config       map[string]any `yaml:"config,omitempty" json:"config,omitempty"`
	Position     *Position      `yaml:"position,omitempty" json:"position,omitempty"`
}

// ChainEdge is a directed connection between two chain nodes.
//
// Mappings are applied in declaration order when the target input is
// assembled; a later edge overwrites an earlier one writing the same input
// field. Branch is only meaningful when the source node is a condition node
// and must then be BranchTrue or BranchFalse.
type ChainEdge struct {
	ID       string         `yaml:"id,omitempty" json:"id,omitempty"`
	Source   string         `yaml:"source" json:"source"`
	Target   string         `yaml:"target" json:"target"`
	Mappings []FieldMapping `yaml:"mappings,omitempty" json:"mappings,omitempty"`
	Branch   string         `yaml:"branch,omitempty" json:"branch,omitempty"`
}

// ChainDefinition is a complete chain definition as produced by the editor.
// The engine treats it as read-only for the duration of a run, so a single
// definition is safe to share across concurrent runs.
type ChainDefinition struct {
	ID          string            `yaml:"id" json:"id"`
	Name        string            `yaml:"name" json:"name"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	Version     string            `yaml:"version,omitempty" json:"version,omitempty"`
	Nodes       []ChainNode       `yaml:"nodes" json:"nodes"`
	Edges       []ChainEdge       `yaml:"edges" json:"edges"`
	Tags        []string          `yaml:"tags,omitempty" json:"tags,omitempty"`
	Metadata    map[string]string `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// Node returns the node with the given id.
func (d *ChainDefinition) Node(id string) (*ChainNode, bool) {
	for i := range d.Nodes {
		if d.Nodes[i].ID == id {
			return &d.Nodes[i], true
		}
	}
	return nil, false
}

// IncomingEdges returns the edges targeting the given node, in declaration order.
func (d *ChainDefinition) IncomingEdges(nodeID string) []ChainEdge {
	var edges []ChainEdge
	for _, e := range d.Edges {
		if e.Target == nodeID {
			edges = append(edges, e)
		}
	}
	return edges
}

// OutgoingEdges returns the edges leaving the given node, in declaration order.
func (d *ChainDefinition) OutgoingEdges(nodeID string) []ChainEdge {
	var edges []ChainEdge
	for _, e := range d.Edges {
		if e.Source == nodeID {
			edges = append(edges, e)
		}
	}
	return edges
}

// EntryNodes returns the ids of nodes with no incoming edges, in node
// declaration order. Entry nodes receive the run input directly.
func (d *ChainDefinition) EntryNodes() []string {
	hasIncoming := make(map[string]bool, len(d.Nodes))
	for _, e := range d.Edges {
		hasIncoming[e.Target] = true
	}

	var entries []string
	for _, n := range d.Nodes {
		if !hasIncoming[n.ID] {
			entries = append(entries, n.ID)
		}
	}
	return entries
}
