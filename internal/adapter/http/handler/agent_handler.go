package handler

import (
	"net/http"

	"genesis-settlement/internal/adapter/http/dto"
	"genesis-settlement/internal/core/ports"
	"genesis-settlement/pkg/apperror"
	"genesis-settlement/pkg/response"

	"github.com/gin-gonic/gin"
)

// AgentHandler handles agent onboarding and token endpoints.
type AgentHandler struct {
	agentSvc ports.AgentService
}

// NewAgentHandler creates a new AgentHandler.
func NewAgentHandler(agentSvc ports.AgentService) *AgentHandler {
	return &AgentHandler{agentSvc: agentSvc}
}

// Register handles POST /api/v1/agents/register.
func (h *AgentHandler) Register(c *gin.Context) {
	var req dto.AgentRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.agentSvc.Register(c.Request.Context(), ports.AgentRegisterRequest{
		Name:   req.Name,
		Domain: req.Domain,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.AgentRegisterResponse{
		AgentID:       result.Agent.ID.String(),
		Name:          result.Agent.Name,
		Address:       result.Agent.Address,
		OnChainID:     result.Agent.OnChainID,
		RegisteredVia: string(result.Agent.RegisteredVia),
		Secret:        result.Secret,
	})
}

// IssueToken handles POST /api/v1/auth/token.
func (h *AgentHandler) IssueToken(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	token, expiry, err := h.agentSvc.IssueToken(c.Request.Context(), req.Name, req.Secret)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.TokenResponse{
		Token:  token,
		Expiry: expiry.Unix(),
	})
}

// HealthCheck handles GET /health. Pings every wired dependency and reports
// per-dependency status.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		type depStatus struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		}

		deps := make(map[string]depStatus)
		allHealthy := true

		for _, checker := range checkers {
			if err := checker.Ping(c.Request.Context()); err != nil {
				deps[checker.Name()] = depStatus{Status: "unhealthy", Error: err.Error()}
				allHealthy = false
			} else {
				deps[checker.Name()] = depStatus{Status: "healthy"}
			}
		}

		status := "healthy"
		httpCode := http.StatusOK
		if !allHealthy {
			status = "degraded"
			httpCode = http.StatusServiceUnavailable
		}

		c.JSON(httpCode, gin.H{
			"status":       status,
			"dependencies": deps,
		})
	}
}
