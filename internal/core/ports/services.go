package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"genesis-settlement/internal/core/domain"
)

// SettlementService defines the settlement execution and receipt lookup
// business logic.
type SettlementService interface {
	Execute(ctx context.Context, req domain.SettlementRequest) (*domain.SettlementResult, error)
	GetReceipt(ctx context.Context, paymentID string) (*domain.SettlementResult, error)
	History(ctx context.Context, participantID string) ([]domain.SettlementResult, error)
	Summary(ctx context.Context) (*domain.LedgerSummary, error)
	ReceiptForEvidence(ctx context.Context, paymentID string) (*domain.EvidencePackage, error)
}

// RegistrationService resolves an assigned on-chain identifier for an agent,
// submitting a registration transaction when needed.
type RegistrationService interface {
	Resolve(ctx context.Context, agentDomain, address string) (*domain.RegistrationOutcome, error)
}

// AgentService defines onboarding and credential issuance.
type AgentService interface {
	Register(ctx context.Context, req AgentRegisterRequest) (*AgentRegisterResponse, error)
	IssueToken(ctx context.Context, name, secret string) (string, time.Time, error)
	GetByName(ctx context.Context, name string) (*domain.Agent, error)
}

// AgentRegisterRequest holds validated input for agent onboarding.
type AgentRegisterRequest struct {
	Name   string
	Domain string
}

// AgentRegisterResponse carries the credentials shown exactly once.
type AgentRegisterResponse struct {
	Agent  *domain.Agent
	Secret string // plaintext API secret, not stored
}

// EvidenceService stores and retrieves opaque evidence packages.
type EvidenceService interface {
	StoreJSON(ctx context.Context, agentName, evidenceType string, payload []byte) (string, error)
	Retrieve(ctx context.Context, cid string) (*domain.EvidencePackage, error)
	GatewayURL(cid string) string
}

// HashService handles API secret hashing (argon2id).
type HashService interface {
	Hash(secret string) (string, error)
	Verify(secret string, hash string) (bool, error)
}

// TokenService handles JWT token operations for agent sessions.
type TokenService interface {
	Generate(agentID uuid.UUID, agentName string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	AgentID   uuid.UUID
	AgentName string
}
