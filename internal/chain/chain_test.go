package chain

import (
	"context"
	"fmt"

	"yqhp/chain-engine/pkg/types"
)

// invokeFunc is one fake capability implementation.
type invokeFunc func(ctx context.Context, input map[string]any) (map[string]any, error)

// fakeProvider implements capability.Provider for tests.
type fakeProvider struct {
	fns map[string]invokeFunc
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{fns: make(map[string]invokeFunc)}
}

func (p *fakeProvider) on(capabilityID string, fn invokeFunc) *fakeProvider {
	p.fns[capabilityID] = fn
	return p
}

func (p *fakeProvider) Invoke(ctx context.Context, capabilityID string, input map[string]any) (map[string]any, error) {
	fn, ok := p.fns[capabilityID]
	if !ok {
		return nil, fmt.Errorf("capability '%s' not registered", capabilityID)
	}
	return fn(ctx, input)
}

func (p *fakeProvider) Manifest(capabilityID string) (*types.CapabilityManifest, bool) {
	if _, ok := p.fns[capabilityID]; !ok {
		return nil, false
	}
	return &types.CapabilityManifest{ID: capabilityID, Name: capabilityID, Version: "1.0.0"}, true
}

// echo returns a capability that copies its input and adds the given fields.
func echo(extra map[string]any) invokeFunc {
	return func(ctx context.Context, input map[string]any) (map[string]any, error) {
		out := make(map[string]any, len(input)+len(extra))
		for k, v := range input {
			out[k] = v
		}
		for k, v := range extra {
			out[k] = v
		}
		return out, nil
	}
}

func pluginNode(id, capabilityID string) types.ChainNode {
	return types.ChainNode{ID: id, Type: types.NodeTypePlugin, CapabilityID: capabilityID}
}

func conditionNode(id, expr string) types.ChainNode {
	return types.ChainNode{ID: id, Type: types.NodeTypeCondition, Config: map[string]any{"expression": expr}}
}

func transformNode(id string, config map[string]any) types.ChainNode {
	return types.ChainNode{ID: id, Type: types.NodeTypeTransform, Config: config}
}

func mergeNode(id, strategy string) types.ChainNode {
	return types.ChainNode{ID: id, Type: types.NodeTypeMerge, Config: map[string]any{"strategy": strategy}}
}

func splitNode(id string) types.ChainNode {
	return types.ChainNode{ID: id, Type: types.NodeTypeSplit}
}

func plainEdge(source, target string, mappings ...types.FieldMapping) types.ChainEdge {
	return types.ChainEdge{
		ID:       source + "-" + target,
		Source:   source,
		Target:   target,
		Mappings: mappings,
	}
}

func branchEdge(source, target, branch string, mappings ...types.FieldMapping) types.ChainEdge {
	e := plainEdge(source, target, mappings...)
	e.Branch = branch
	return e
}

func mapping(sourceField, targetField string) types.FieldMapping {
	return types.FieldMapping{SourceField: sourceField, TargetField: targetField}
}

func definition(id string, nodes []types.ChainNode, edges []types.ChainEdge) *types.ChainDefinition {
	return &types.ChainDefinition{
		ID:    id,
		Name:  id,
		Nodes: nodes,
		Edges: edges,
	}
}
