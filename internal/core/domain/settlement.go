package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SettlementStatus represents the terminal state of a settlement attempt.
type SettlementStatus string

const (
	SettlementStatusCompleted SettlementStatus = "completed"
	SettlementStatusFailed    SettlementStatus = "failed"
)

// SettlementRequest is a caller's intent to pay a peer for a service.
// Immutable once constructed.
type SettlementRequest struct {
	PayerID            string
	PayeeID            string
	GrossAmount        decimal.Decimal
	ServiceDescription string
	EvidenceCID        string // optional, opaque to the settlement core
}

// SettlementResult is the immutable receipt of exactly one settlement
// attempt. Failures produce a terminal "failed" record; nothing is mutated
// or retried in place. Owned by the receipt ledger once appended.
type SettlementResult struct {
	PaymentID          uuid.UUID        `json:"payment_id"`
	PayerID            string           `json:"payer_id"`
	PayeeID            string           `json:"payee_id"`
	GrossAmount        decimal.Decimal  `json:"gross_amount"`
	ProtocolFeeAmount  decimal.Decimal  `json:"protocol_fee_amount"`
	NetAmount          decimal.Decimal  `json:"net_amount"`
	FeeTransferID      string           `json:"fee_transfer_id,omitempty"` // empty when fee below dust threshold or collection failed
	NetTransferID      string           `json:"net_transfer_id,omitempty"`
	Status             SettlementStatus `json:"status"`
	ErrorMessage       string           `json:"error_message,omitempty"`
	Simulated          bool             `json:"simulated"`
	ServiceDescription string           `json:"service_description"`
	EvidenceCID        string           `json:"evidence_cid,omitempty"`
	ExecutedAt         time.Time        `json:"executed_at"`
}

// IsCompleted returns true if the settlement finished successfully.
func (r *SettlementResult) IsCompleted() bool {
	return r.Status == SettlementStatusCompleted
}

// Involves returns true if the participant was payer or payee.
func (r *SettlementResult) Involves(participantID string) bool {
	return r.PayerID == participantID || r.PayeeID == participantID
}

// ParticipantTotals aggregates completed volume sent and received by one
// participant.
type ParticipantTotals struct {
	Sent     decimal.Decimal `json:"sent"`
	Received decimal.Decimal `json:"received"`
}

// LedgerSummary is a point-in-time aggregate over the full receipt ledger.
type LedgerSummary struct {
	TotalPayments     int64                        `json:"total_payments"`
	Successful        int64                        `json:"successful_payments"`
	SuccessRate       float64                      `json:"success_rate"` // 0 when the ledger is empty
	TotalVolume       decimal.Decimal              `json:"total_volume"` // gross of completed settlements
	ParticipantTotals map[string]ParticipantTotals `json:"participant_totals"`
	GeneratedAt       time.Time                    `json:"generated_at"`
}
