package rest

import (
	"time"

	"yqhp/chain-engine/pkg/types"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// SuccessResponse represents a generic success response.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// ChainSubmitRequest represents a chain definition submission. The
// definition is given either inline or as YAML text.
type ChainSubmitRequest struct {
	Chain *types.ChainDefinition `json:"chain,omitempty"`
	YAML  string                 `json:"yaml,omitempty"`
}

// ChainSubmitResponse represents a chain submission response.
type ChainSubmitResponse struct {
	ChainID string `json:"chain_id"`
	Status  string `json:"status"`
}

// ChainSummary is a compact listing entry for a stored definition.
type ChainSummary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Version     string   `json:"version,omitempty"`
	Nodes       int      `json:"nodes"`
	Edges       int      `json:"edges"`
	Tags        []string `json:"tags,omitempty"`
}

// ChainListResponse represents a definition listing response.
type ChainListResponse struct {
	Chains []ChainSummary `json:"chains"`
	Total  int            `json:"total"`
}

// ExecuteRequest represents a chain execution request.
type ExecuteRequest struct {
	Input   map[string]any `json:"input,omitempty"`
	Timeout string         `json:"timeout,omitempty"` // Go duration string, e.g. "30s"
}

// ExecutionListResponse represents an execution history listing.
type ExecutionListResponse struct {
	Executions []ExecutionSummary `json:"executions"`
	Total      int                `json:"total"`
}

// ExecutionSummary is a compact listing entry for a finished run.
type ExecutionSummary struct {
	RunID       string `json:"run_id"`
	ChainID     string `json:"chain_id"`
	Success     bool   `json:"success"`
	StartedAt   string `json:"started_at"`
	CompletedAt string `json:"completed_at"`
	DurationMs  int64  `json:"duration_ms"`
	Error       string `json:"error,omitempty"`
}

// CapabilityListResponse represents the registered capability manifests.
type CapabilityListResponse struct {
	Capabilities []*types.CapabilityManifest `json:"capabilities"`
	Total        int                         `json:"total"`
}

// formatTime formats a timestamp as RFC3339, empty for the zero time.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// toChainSummary converts a definition to its listing entry.
func toChainSummary(def *types.ChainDefinition) ChainSummary {
	return ChainSummary{
		ID:          def.ID,
		Name:        def.Name,
		Description: def.Description,
		Version:     def.Version,
		Nodes:       len(def.Nodes),
		Edges:       len(def.Edges),
		Tags:        def.Tags,
	}
}

// toExecutionSummary converts a result to its listing entry.
func toExecutionSummary(result *types.ExecutionResult) ExecutionSummary {
	return ExecutionSummary{
		RunID:       result.RunID,
		ChainID:     result.ChainID,
		Success:     result.Success,
		StartedAt:   formatTime(result.StartedAt),
		CompletedAt: formatTime(result.CompletedAt),
		DurationMs:  result.Duration.Milliseconds(),
		Error:       result.Error,
	}
}
