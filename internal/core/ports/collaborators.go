package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"genesis-settlement/internal/core/domain"
)

// TransferResult reports the outcome of one funds transfer.
type TransferResult struct {
	Success    bool
	TransferID string // transaction identifier assigned by the collaborator
	Simulated  bool   // transfer was fabricated rather than executed for real
	Error      string // collaborator-reported failure reason, empty on success
}

// FundsTransferClient executes token transfers between participants. The
// concrete implementation (chain RPC, payment rail, demo simulator) is
// outside the settlement core.
type FundsTransferClient interface {
	Transfer(ctx context.Context, from, to string, amount decimal.Decimal) (TransferResult, error)
}

// RegistrationEvent is one event attached to a registration confirmation.
type RegistrationEvent struct {
	AgentID uint64
}

// Confirmation is the registrar's acknowledgement of a submitted
// registration transaction.
type Confirmation struct {
	Success bool
	TxHash  string
	Events  []RegistrationEvent // may be empty even when the submission succeeded
}

// IdentityRegistrar registers entities and assigns persistent integer
// identifiers. ResolveByAddress returns 0 for unknown addresses.
type IdentityRegistrar interface {
	ResolveByAddress(ctx context.Context, address string) (uint64, error)
	SubmitRegistration(ctx context.Context, agentDomain, address string) (Confirmation, error)
}

// EvidenceStore is content-addressed off-chain storage for evidence blobs
// (IPFS-like). Get returns nil, nil for unknown CIDs.
type EvidenceStore interface {
	Put(ctx context.Context, blob []byte) (string, error)
	Get(ctx context.Context, cid string) ([]byte, error)
}

// ReceiptLedger is the append-only store of settlement receipts. Append
// never rejects a well-formed result; QueryByParticipant preserves insertion
// order; Summary observes appends atomically.
type ReceiptLedger interface {
	Append(ctx context.Context, result *domain.SettlementResult) error
	GetByPaymentID(ctx context.Context, paymentID string) (*domain.SettlementResult, error)
	QueryByParticipant(ctx context.Context, participantID string) ([]domain.SettlementResult, error)
	Summary(ctx context.Context) (*domain.LedgerSummary, error)
}
