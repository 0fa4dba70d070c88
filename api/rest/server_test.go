package rest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "yqhp/chain-engine/internal/capability/builtin"
	"yqhp/chain-engine/pkg/engine"
	"yqhp/chain-engine/pkg/types"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(engine.New(nil, nil), DefaultConfig())
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func statChain(id string) *types.ChainDefinition {
	return &types.ChainDefinition{
		ID:   id,
		Name: "Stats",
		Nodes: []types.ChainNode{
			{ID: "stats", Type: types.NodeTypePlugin, CapabilityID: "text_stat"},
		},
	}
}

func TestHealth(t *testing.T) {
	s := testServer(t)

	for _, path := range []string{"/health", "/api/v1/health"} {
		resp := doJSON(t, s, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		health := decodeBody[HealthResponse](t, resp)
		assert.Equal(t, "ok", health.Status)
	}
}

func TestCreateChainInline(t *testing.T) {
	s := testServer(t)

	resp := doJSON(t, s, http.MethodPost, "/api/v1/chains",
		ChainSubmitRequest{Chain: statChain("inline")})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decodeBody[ChainSubmitResponse](t, resp)
	assert.Equal(t, "inline", created.ChainID)
	assert.Equal(t, "stored", created.Status)
}

func TestCreateChainFromYAML(t *testing.T) {
	s := testServer(t)

	yaml := `
id: from-yaml
name: From YAML
nodes:
  - id: stats
    type: plugin
    capability_id: text_stat
`
	resp := doJSON(t, s, http.MethodPost, "/api/v1/chains", ChainSubmitRequest{YAML: yaml})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, s, http.MethodGet, "/api/v1/chains/from-yaml", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	def := decodeBody[types.ChainDefinition](t, resp)
	assert.Equal(t, "From YAML", def.Name)
}

func TestCreateChainRejectsInvalid(t *testing.T) {
	s := testServer(t)

	bad := statChain("bad")
	bad.Nodes[0].CapabilityID = "no_such_capability"

	resp := doJSON(t, s, http.MethodPost, "/api/v1/chains", ChainSubmitRequest{Chain: bad})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	errResp := decodeBody[ErrorResponse](t, resp)
	assert.Equal(t, "invalid_chain", errResp.Error)
	assert.NotNil(t, errResp.Details)
}

func TestCreateChainRejectsEmptyBody(t *testing.T) {
	s := testServer(t)

	resp := doJSON(t, s, http.MethodPost, "/api/v1/chains", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListChains(t *testing.T) {
	s := testServer(t)

	for _, id := range []string{"beta", "alpha"} {
		resp := doJSON(t, s, http.MethodPost, "/api/v1/chains",
			ChainSubmitRequest{Chain: statChain(id)})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := doJSON(t, s, http.MethodGet, "/api/v1/chains", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	list := decodeBody[ChainListResponse](t, resp)
	require.Equal(t, 2, list.Total)
	assert.Equal(t, "alpha", list.Chains[0].ID)
	assert.Equal(t, "beta", list.Chains[1].ID)
	assert.Equal(t, 1, list.Chains[0].Nodes)
}

func TestDeleteChain(t *testing.T) {
	s := testServer(t)

	resp := doJSON(t, s, http.MethodPost, "/api/v1/chains",
		ChainSubmitRequest{Chain: statChain("gone")})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, s, http.MethodDelete, "/api/v1/chains/gone", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, s, http.MethodGet, "/api/v1/chains/gone", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestValidateChainEndpoint(t *testing.T) {
	s := testServer(t)

	resp := doJSON(t, s, http.MethodPost, "/api/v1/chains/validate",
		ChainSubmitRequest{Chain: statChain("ok")})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	report := decodeBody[types.ValidationReport](t, resp)
	assert.True(t, report.Valid)

	bad := statChain("bad")
	bad.Nodes[0].CapabilityID = "no_such_capability"

	resp = doJSON(t, s, http.MethodPost, "/api/v1/chains/validate",
		ChainSubmitRequest{Chain: bad})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	report = decodeBody[types.ValidationReport](t, resp)
	assert.False(t, report.Valid)
	assert.NotEmpty(t, report.Errors)
}

func TestExecuteChain(t *testing.T) {
	s := testServer(t)

	resp := doJSON(t, s, http.MethodPost, "/api/v1/chains",
		ChainSubmitRequest{Chain: statChain("runnable")})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, s, http.MethodPost, "/api/v1/chains/runnable/execute",
		ExecuteRequest{Input: map[string]any{"text": "One two three."}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	result := decodeBody[types.ExecutionResult](t, resp)
	assert.True(t, result.Success)
	assert.Equal(t, "runnable", result.ChainID)
	assert.NotEmpty(t, result.RunID)
	assert.EqualValues(t, 3, result.Output["word_count"])
}

func TestExecuteChainNotFound(t *testing.T) {
	s := testServer(t)

	resp := doJSON(t, s, http.MethodPost, "/api/v1/chains/ghost/execute", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	errResp := decodeBody[ErrorResponse](t, resp)
	assert.Equal(t, "not_found", errResp.Error)
}

func TestExecuteChainBadTimeout(t *testing.T) {
	s := testServer(t)

	resp := doJSON(t, s, http.MethodPost, "/api/v1/chains",
		ChainSubmitRequest{Chain: statChain("timed")})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, s, http.MethodPost, "/api/v1/chains/timed/execute",
		ExecuteRequest{Timeout: "not-a-duration"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExecutionHistoryEndpoints(t *testing.T) {
	s := testServer(t)

	resp := doJSON(t, s, http.MethodPost, "/api/v1/chains",
		ChainSubmitRequest{Chain: statChain("tracked")})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, s, http.MethodPost, "/api/v1/chains/tracked/execute",
		ExecuteRequest{Input: map[string]any{"text": "Text."}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decodeBody[types.ExecutionResult](t, resp)

	resp = doJSON(t, s, http.MethodGet, "/api/v1/executions", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeBody[ExecutionListResponse](t, resp)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, result.RunID, list.Executions[0].RunID)

	resp = doJSON(t, s, http.MethodGet, "/api/v1/executions?chain_id=other", nil)
	list = decodeBody[ExecutionListResponse](t, resp)
	assert.Equal(t, 0, list.Total)

	resp = doJSON(t, s, http.MethodGet, "/api/v1/executions/"+result.RunID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, s, http.MethodGet, "/api/v1/executions/ghost", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListCapabilities(t *testing.T) {
	s := testServer(t)

	resp := doJSON(t, s, http.MethodGet, "/api/v1/capabilities", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	list := decodeBody[CapabilityListResponse](t, resp)
	require.NotZero(t, list.Total)

	ids := make(map[string]bool, list.Total)
	for _, m := range list.Capabilities {
		ids[m.ID] = true
	}
	assert.True(t, ids["text_stat"])
	assert.True(t, ids["bag_of_words"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := testServer(t)

	resp := doJSON(t, s, http.MethodPost, "/api/v1/chains",
		ChainSubmitRequest{Chain: statChain("measured")})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, s, http.MethodPost, "/api/v1/chains/measured/execute",
		ExecuteRequest{Input: map[string]any{"text": "Text."}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	resp = doJSON(t, s, http.MethodGet, "/api/v1/metrics", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	snapshots := decodeBody[[]map[string]any](t, resp)
	require.NotEmpty(t, snapshots)
	assert.Equal(t, "text_stat", snapshots[0]["capability_id"])
}
