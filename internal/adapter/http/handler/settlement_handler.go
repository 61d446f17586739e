package handler

import (
	"genesis-settlement/internal/adapter/http/dto"
	"genesis-settlement/internal/adapter/http/middleware"
	"genesis-settlement/internal/core/domain"
	"genesis-settlement/internal/core/ports"
	"genesis-settlement/pkg/apperror"
	"genesis-settlement/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// SettlementHandler handles settlement execution and receipt lookups.
type SettlementHandler struct {
	settlementSvc ports.SettlementService
}

// NewSettlementHandler creates a new SettlementHandler.
func NewSettlementHandler(settlementSvc ports.SettlementService) *SettlementHandler {
	return &SettlementHandler{settlementSvc: settlementSvc}
}

// Execute handles POST /api/v1/settlements. The authenticated agent is the
// payer.
func (h *SettlementHandler) Execute(c *gin.Context) {
	payer, ok := c.Get(middleware.CtxAgentName)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.SettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	gross, err := decimal.NewFromString(req.GrossAmount)
	if err != nil {
		response.Error(c, apperror.Validation("gross_amount must be a decimal string"))
		return
	}

	result, err := h.settlementSvc.Execute(c.Request.Context(), domain.SettlementRequest{
		PayerID:            payer.(string),
		PayeeID:            req.PayeeID,
		GrossAmount:        gross,
		ServiceDescription: req.ServiceDescription,
		EvidenceCID:        req.EvidenceCID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToSettlementResponse(result))
}

// GetReceipt handles GET /api/v1/settlements/:payment_id.
func (h *SettlementHandler) GetReceipt(c *gin.Context) {
	result, err := h.settlementSvc.GetReceipt(c.Request.Context(), c.Param("payment_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToSettlementResponse(result))
}

// History handles GET /api/v1/settlements. The participant query parameter
// defaults to the authenticated agent.
func (h *SettlementHandler) History(c *gin.Context) {
	participant := c.Query("participant")
	if participant == "" {
		name, ok := c.Get(middleware.CtxAgentName)
		if !ok {
			response.Error(c, apperror.ErrInvalidToken())
			return
		}
		participant = name.(string)
	}

	results, err := h.settlementSvc.History(c.Request.Context(), participant)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.SettlementResponse, 0, len(results))
	for i := range results {
		out = append(out, dto.ToSettlementResponse(&results[i]))
	}
	response.OK(c, out)
}

// GetEvidencePackage handles GET /api/v1/settlements/:payment_id/evidence.
// Returns the receipt wrapped as an evidence package ready for off-chain
// storage.
func (h *SettlementHandler) GetEvidencePackage(c *gin.Context) {
	pkg, err := h.settlementSvc.ReceiptForEvidence(c.Request.Context(), c.Param("payment_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, pkg)
}

// Summary handles GET /api/v1/summary.
func (h *SettlementHandler) Summary(c *gin.Context) {
	summary, err := h.settlementSvc.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, summary)
}
