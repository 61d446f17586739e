package dto

import (
	"genesis-settlement/internal/core/domain"
)

// AgentRegisterRequest is the request body for agent onboarding.
type AgentRegisterRequest struct {
	Name   string `json:"name" binding:"required,min=3,max=50,safe_id"`
	Domain string `json:"domain" binding:"required,max=255"`
}

// AgentRegisterResponse is the response body for successful onboarding.
// Secret is shown exactly once.
type AgentRegisterResponse struct {
	AgentID       string `json:"agent_id"`
	Name          string `json:"name"`
	Address       string `json:"address"`
	OnChainID     uint64 `json:"on_chain_id"`
	RegisteredVia string `json:"registered_via"`
	Secret        string `json:"secret"`
}

// TokenRequest is the request body for JWT issuance.
type TokenRequest struct {
	Name   string `json:"name" binding:"required"`
	Secret string `json:"secret" binding:"required"`
}

// TokenResponse is the response body for successful token issuance.
type TokenResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// SettlementRequest is the request body for settlement execution. The amount
// travels as a string to avoid float mangling in transit.
type SettlementRequest struct {
	PayeeID            string `json:"payee_id" binding:"required,max=100"`
	GrossAmount        string `json:"gross_amount" binding:"required"`
	ServiceDescription string `json:"service_description" binding:"max=500"`
	EvidenceCID        string `json:"evidence_cid" binding:"omitempty,max=200"`
}

// SettlementResponse is the response body for a settlement receipt.
type SettlementResponse struct {
	PaymentID          string `json:"payment_id"`
	PayerID            string `json:"payer_id"`
	PayeeID            string `json:"payee_id"`
	GrossAmount        string `json:"gross_amount"`
	ProtocolFeeAmount  string `json:"protocol_fee_amount"`
	NetAmount          string `json:"net_amount"`
	FeeTransferID      string `json:"fee_transfer_id,omitempty"`
	NetTransferID      string `json:"net_transfer_id,omitempty"`
	Status             string `json:"status"`
	ErrorMessage       string `json:"error_message,omitempty"`
	Simulated          bool   `json:"simulated"`
	ServiceDescription string `json:"service_description"`
	EvidenceCID        string `json:"evidence_cid,omitempty"`
	ExecutedAt         string `json:"executed_at"`
}

// ToSettlementResponse maps a domain receipt onto the wire shape.
func ToSettlementResponse(r *domain.SettlementResult) SettlementResponse {
	return SettlementResponse{
		PaymentID:          r.PaymentID.String(),
		PayerID:            r.PayerID,
		PayeeID:            r.PayeeID,
		GrossAmount:        r.GrossAmount.String(),
		ProtocolFeeAmount:  r.ProtocolFeeAmount.String(),
		NetAmount:          r.NetAmount.String(),
		FeeTransferID:      r.FeeTransferID,
		NetTransferID:      r.NetTransferID,
		Status:             string(r.Status),
		ErrorMessage:       r.ErrorMessage,
		Simulated:          r.Simulated,
		ServiceDescription: r.ServiceDescription,
		EvidenceCID:        r.EvidenceCID,
		ExecutedAt:         r.ExecutedAt.UTC().Format("2006-01-02T15:04:05.999999Z07:00"),
	}
}

// EvidenceSubmitRequest is the request body for storing an evidence blob.
type EvidenceSubmitRequest struct {
	EvidenceType string `json:"evidence_type" binding:"required,max=100,safe_id"`
	// Payload is stored verbatim; the server never reinterprets it.
	Payload map[string]any `json:"payload" binding:"required"`
}

// EvidenceSubmitResponse is the response body after storing evidence.
type EvidenceSubmitResponse struct {
	CID        string `json:"cid"`
	GatewayURL string `json:"gateway_url"`
}
