package rest

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"yqhp/chain-engine/internal/chain"
	"yqhp/chain-engine/internal/parser"
	"yqhp/chain-engine/internal/store"
	"yqhp/chain-engine/pkg/engine"
	"yqhp/chain-engine/pkg/types"
)

// healthCheck handles GET /health
func (s *Server) healthCheck(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// createChain handles POST /api/v1/chains
func (s *Server) createChain(c *fiber.Ctx) error {
	def, errResp := s.decodeDefinition(c)
	if errResp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(*errResp)
	}

	report := s.engine.Validate(def)
	if !report.Valid {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
			Error:   "invalid_chain",
			Message: "Chain definition failed validation",
			Details: report,
		})
	}

	if err := s.engine.Definitions().Put(def); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "storage_failed",
			Message: "Failed to store chain definition: " + err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(ChainSubmitResponse{
		ChainID: def.ID,
		Status:  "stored",
	})
}

// listChains handles GET /api/v1/chains
func (s *Server) listChains(c *fiber.Ctx) error {
	defs := s.engine.Definitions().List()
	summaries := make([]ChainSummary, 0, len(defs))
	for _, def := range defs {
		summaries = append(summaries, toChainSummary(def))
	}
	return c.JSON(ChainListResponse{
		Chains: summaries,
		Total:  len(summaries),
	})
}

// getChain handles GET /api/v1/chains/:id
func (s *Server) getChain(c *fiber.Ctx) error {
	def, err := s.engine.Definitions().Get(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	}
	return c.JSON(def)
}

// deleteChain handles DELETE /api/v1/chains/:id
func (s *Server) deleteChain(c *fiber.Ctx) error {
	s.engine.Definitions().Delete(c.Params("id"))
	return c.JSON(SuccessResponse{Success: true})
}

// validateChain handles POST /api/v1/chains/validate
func (s *Server) validateChain(c *fiber.Ctx) error {
	def, errResp := s.decodeDefinition(c)
	if errResp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(*errResp)
	}
	return c.JSON(s.engine.Validate(def))
}

// executeChain handles POST /api/v1/chains/:id/execute
func (s *Server) executeChain(c *fiber.Ctx) error {
	chainID := c.Params("id")

	var req ExecuteRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid_request",
				Message: "Failed to parse request body: " + err.Error(),
			})
		}
	}

	opts := engine.Options{}
	if req.Timeout != "" {
		timeout, err := time.ParseDuration(req.Timeout)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid_request",
				Message: "Invalid timeout: " + err.Error(),
			})
		}
		opts.Timeout = timeout
	}

	result, err := s.engine.Execute(c.UserContext(), chainID, req.Input, opts)
	if err != nil {
		if store.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Error:   "not_found",
				Message: err.Error(),
			})
		}
		if verr, ok := err.(*chain.ValidationError); ok {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
				Error:   "invalid_chain",
				Message: "Chain definition failed validation",
				Details: verr.Report,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "execution_failed",
			Message: err.Error(),
		})
	}

	return c.JSON(result)
}

// listExecutions handles GET /api/v1/executions
func (s *Server) listExecutions(c *fiber.Ctx) error {
	results := s.engine.History().List()

	chainID := c.Query("chain_id")
	summaries := make([]ExecutionSummary, 0, len(results))
	for _, result := range results {
		if chainID != "" && result.ChainID != chainID {
			continue
		}
		summaries = append(summaries, toExecutionSummary(result))
	}

	return c.JSON(ExecutionListResponse{
		Executions: summaries,
		Total:      len(summaries),
	})
}

// getExecution handles GET /api/v1/executions/:id
func (s *Server) getExecution(c *fiber.Ctx) error {
	result, ok := s.engine.History().Get(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "execution '" + c.Params("id") + "' not found",
		})
	}
	return c.JSON(result)
}

// listCapabilities handles GET /api/v1/capabilities
func (s *Server) listCapabilities(c *fiber.Ctx) error {
	manifests := s.engine.Manifests()
	return c.JSON(CapabilityListResponse{
		Capabilities: manifests,
		Total:        len(manifests),
	})
}

// getMetrics handles GET /api/v1/metrics
func (s *Server) getMetrics(c *fiber.Ctx) error {
	return c.JSON(s.engine.Metrics())
}

// decodeDefinition extracts a chain definition from a submit request body,
// accepting either an inline definition or YAML text.
func (s *Server) decodeDefinition(c *fiber.Ctx) (*types.ChainDefinition, *ErrorResponse) {
	var req ChainSubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, &ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to parse request body: " + err.Error(),
		}
	}

	if req.YAML != "" {
		def, err := parser.NewYAMLParser().Parse([]byte(req.YAML))
		if err != nil {
			return nil, &ErrorResponse{
				Error:   "invalid_chain",
				Message: "Failed to parse chain YAML: " + err.Error(),
			}
		}
		return def, nil
	}

	if req.Chain != nil {
		return req.Chain, nil
	}

	return nil, &ErrorResponse{
		Error:   "invalid_request",
		Message: "Either 'chain' or 'yaml' must be provided",
	}
}
