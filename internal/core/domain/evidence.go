package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EvidencePackage is the envelope written to the evidence store. The
// settlement core never parses the payload of packages it did not create.
type EvidencePackage struct {
	EvidenceType string          `json:"evidence_type"`
	AgentName    string          `json:"agent_name,omitempty"`
	Data         json.RawMessage `json:"data"`
	StoredAt     time.Time       `json:"stored_at"`
}

// PaymentProof is the receipt projection included in evidence packages so a
// third party can verify a settlement without access to the ledger.
type PaymentProof struct {
	PaymentID          uuid.UUID        `json:"payment_id"`
	PayerID            string           `json:"payer_id"`
	PayeeID            string           `json:"payee_id"`
	GrossAmount        decimal.Decimal  `json:"gross_amount"`
	NetTransferID      string           `json:"net_transfer_id,omitempty"`
	FeeTransferID      string           `json:"fee_transfer_id,omitempty"`
	ServiceDescription string           `json:"service_description"`
	Status             SettlementStatus `json:"status"`
	Simulated          bool             `json:"simulated"`
	ExecutedAt         time.Time        `json:"executed_at"`
}

// ProofOf builds the payment proof for a settlement receipt.
func ProofOf(r *SettlementResult) PaymentProof {
	return PaymentProof{
		PaymentID:          r.PaymentID,
		PayerID:            r.PayerID,
		PayeeID:            r.PayeeID,
		GrossAmount:        r.GrossAmount,
		NetTransferID:      r.NetTransferID,
		FeeTransferID:      r.FeeTransferID,
		ServiceDescription: r.ServiceDescription,
		Status:             r.Status,
		Simulated:          r.Simulated,
		ExecutedAt:         r.ExecutedAt,
	}
}
