package handler

import (
	"encoding/json"

	"genesis-settlement/internal/adapter/http/dto"
	"genesis-settlement/internal/adapter/http/middleware"
	"genesis-settlement/internal/core/ports"
	"genesis-settlement/pkg/apperror"
	"genesis-settlement/pkg/response"

	"github.com/gin-gonic/gin"
)

// EvidenceHandler handles evidence blob endpoints.
type EvidenceHandler struct {
	evidenceSvc ports.EvidenceService
}

// NewEvidenceHandler creates a new EvidenceHandler.
func NewEvidenceHandler(evidenceSvc ports.EvidenceService) *EvidenceHandler {
	return &EvidenceHandler{evidenceSvc: evidenceSvc}
}

// Store handles POST /api/v1/evidence.
func (h *EvidenceHandler) Store(c *gin.Context) {
	agentName, ok := c.Get(middleware.CtxAgentName)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.EvidenceSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	payload, err := json.Marshal(req.Payload)
	if err != nil {
		response.Error(c, apperror.Validation("payload must be a JSON object"))
		return
	}

	cid, err := h.evidenceSvc.StoreJSON(c.Request.Context(), agentName.(string), req.EvidenceType, payload)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.EvidenceSubmitResponse{
		CID:        cid,
		GatewayURL: h.evidenceSvc.GatewayURL(cid),
	})
}

// Retrieve handles GET /api/v1/evidence/:cid.
func (h *EvidenceHandler) Retrieve(c *gin.Context) {
	pkg, err := h.evidenceSvc.Retrieve(c.Request.Context(), c.Param("cid"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, pkg)
}
