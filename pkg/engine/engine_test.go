package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "yqhp/chain-engine/internal/capability/builtin"
	"yqhp/chain-engine/internal/chain"
	"yqhp/chain-engine/internal/config"
	"yqhp/chain-engine/internal/store"
	"yqhp/chain-engine/pkg/types"
)

func textStatChain(id string) *types.ChainDefinition {
	return &types.ChainDefinition{
		ID:   id,
		Name: "Text Statistics",
		Nodes: []types.ChainNode{
			{ID: "stats", Type: types.NodeTypePlugin, CapabilityID: "text_stat"},
			{ID: "shape", Type: types.NodeTypeTransform, Config: map[string]any{
				"operation": "extract",
				"fields":    []any{"word_count", "sentence_count"},
			}},
		},
		Edges: []types.ChainEdge{
			{Source: "stats", Target: "shape", Mappings: []types.FieldMapping{
				{SourceField: "word_count", TargetField: "word_count"},
				{SourceField: "sentence_count", TargetField: "sentence_count"},
			}},
		},
	}
}

func TestExecuteDefinition(t *testing.T) {
	eng := New(nil, nil)

	result, err := eng.ExecuteDefinition(context.Background(), textStatChain("stats"),
		map[string]any{"text": "One two three. Four five."}, Options{})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "stats", result.ChainID)
	assert.Equal(t, map[string]any{"word_count": 5, "sentence_count": 2}, result.Output)
}

func TestExecuteStoredChain(t *testing.T) {
	eng := New(nil, nil)
	require.NoError(t, eng.Definitions().Put(textStatChain("stored")))

	result, err := eng.Execute(context.Background(), "stored",
		map[string]any{"text": "Hello world."}, Options{})
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestExecuteUnknownChain(t *testing.T) {
	eng := New(nil, nil)

	_, err := eng.Execute(context.Background(), "ghost", nil, Options{})
	require.Error(t, err)
	assert.True(t, store.IsNotFound(err))
}

func TestExecuteInvalidDefinition(t *testing.T) {
	eng := New(nil, nil)

	def := &types.ChainDefinition{
		ID:   "bad",
		Name: "Bad",
		Nodes: []types.ChainNode{
			{ID: "p", Type: types.NodeTypePlugin, CapabilityID: "no_such_capability"},
		},
	}

	_, err := eng.ExecuteDefinition(context.Background(), def, nil, Options{})
	require.Error(t, err)
	assert.True(t, chain.IsValidationError(err))
}

func TestExecuteRecordsHistoryAndMetrics(t *testing.T) {
	eng := New(nil, nil)

	result, err := eng.ExecuteDefinition(context.Background(), textStatChain("tracked"),
		map[string]any{"text": "Some text."}, Options{})
	require.NoError(t, err)

	got, ok := eng.History().Get(result.RunID)
	require.True(t, ok)
	assert.Equal(t, "tracked", got.ChainID)

	snapshots := eng.Metrics()
	require.NotEmpty(t, snapshots)
	found := false
	for _, s := range snapshots {
		if s.CapabilityID == "text_stat" {
			found = true
			assert.GreaterOrEqual(t, s.Count, int64(1))
		}
	}
	assert.True(t, found)
}

func TestExecuteWithExtraSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	sink, err := store.NewFileHistorySink(path)
	require.NoError(t, err)
	defer sink.Close()

	eng := New(nil, nil, sink)

	result, err := eng.ExecuteDefinition(context.Background(), textStatChain("sinked"),
		map[string]any{"text": "Some text."}, Options{})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), result.RunID)
}

func TestExecuteTimeout(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Engine.DefaultTimeout = time.Nanosecond

	eng := New(cfg, nil)

	result, err := eng.ExecuteDefinition(context.Background(), textStatChain("slow"),
		map[string]any{"text": "text"}, Options{})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "TIMEOUT_ERROR")
}

func TestExecuteNegativeTimeoutDisablesDeadline(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Engine.DefaultTimeout = time.Nanosecond

	eng := New(cfg, nil)

	result, err := eng.ExecuteDefinition(context.Background(), textStatChain("unbounded"),
		map[string]any{"text": "text"}, Options{Timeout: -1})
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestValidate(t *testing.T) {
	eng := New(nil, nil)

	report := eng.Validate(textStatChain("ok"))
	assert.True(t, report.Valid)

	report = eng.Validate(&types.ChainDefinition{ID: "empty", Name: "Empty"})
	assert.False(t, report.Valid)
}

func TestManifests(t *testing.T) {
	eng := New(nil, nil)

	manifests := eng.Manifests()
	require.NotEmpty(t, manifests)

	ids := make(map[string]bool, len(manifests))
	for _, m := range manifests {
		ids[m.ID] = true
	}
	assert.True(t, ids["text_stat"])
	assert.True(t, ids["json_path"])
}

func TestLoadDefinitions(t *testing.T) {
	dir := t.TempDir()
	data := []byte(`
id: from-disk
name: From Disk
nodes:
  - id: only
    type: split
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chain.yaml"), data, 0o644))

	cfg := config.DefaultConfig()
	cfg.Store.DefinitionsDir = dir

	eng := New(cfg, nil)
	loaded, err := eng.LoadDefinitions()
	require.NoError(t, err)
	assert.Equal(t, 1, loaded)

	def, err := eng.Definitions().Get("from-disk")
	require.NoError(t, err)
	assert.Equal(t, "From Disk", def.Name)
}
