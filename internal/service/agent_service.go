package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"genesis-settlement/internal/core/domain"
	"genesis-settlement/internal/core/ports"
	"genesis-settlement/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AgentServiceImpl implements ports.AgentService: onboarding of autonomous
// agents (wallet address, on-chain identity, API credentials) and token
// issuance.
type AgentServiceImpl struct {
	agents       ports.AgentRepository
	registration ports.RegistrationService
	hashSvc      ports.HashService
	tokenSvc     ports.TokenService
	log          zerolog.Logger
}

// NewAgentService creates a new AgentServiceImpl.
func NewAgentService(
	agents ports.AgentRepository,
	registration ports.RegistrationService,
	hashSvc ports.HashService,
	tokenSvc ports.TokenService,
	log zerolog.Logger,
) *AgentServiceImpl {
	return &AgentServiceImpl{
		agents:       agents,
		registration: registration,
		hashSvc:      hashSvc,
		tokenSvc:     tokenSvc,
		log:          log,
	}
}

// Register onboards a new agent: generates a wallet address, resolves its
// on-chain identifier through the registration resolver, and issues an API
// secret returned exactly once.
func (s *AgentServiceImpl) Register(ctx context.Context, req ports.AgentRegisterRequest) (*ports.AgentRegisterResponse, error) {
	existing, err := s.agents.GetByName(ctx, req.Name)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lookup agent: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrAgentNameExists()
	}

	address, err := newWalletAddress()
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate wallet address: %w", err))
	}

	outcome, err := s.registration.Resolve(ctx, req.Domain, address)
	if err != nil {
		return nil, err
	}

	secret, err := generateRandomHex(32)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate secret: %w", err))
	}
	secretHash, err := s.hashSvc.Hash(secret)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash secret: %w", err))
	}

	agent := &domain.Agent{
		ID:            uuid.New(),
		Name:          req.Name,
		Domain:        req.Domain,
		Address:       address,
		OnChainID:     outcome.AssignedID,
		RegisteredVia: outcome.Method,
		SecretHash:    secretHash,
		Status:        domain.AgentStatusActive,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.agents.Create(ctx, agent); err != nil {
		if errors.Is(err, ports.ErrDuplicateAgent) {
			return nil, apperror.ErrAgentNameExists()
		}
		return nil, apperror.InternalError(fmt.Errorf("create agent: %w", err))
	}

	s.log.Info().
		Str("agent", agent.Name).
		Str("address", agent.Address).
		Uint64("on_chain_id", agent.OnChainID).
		Str("resolved_via", string(agent.RegisteredVia)).
		Msg("agent onboarded")

	return &ports.AgentRegisterResponse{Agent: agent, Secret: secret}, nil
}

// IssueToken verifies an agent's API secret and returns a session JWT.
func (s *AgentServiceImpl) IssueToken(ctx context.Context, name, secret string) (string, time.Time, error) {
	agent, err := s.agents.GetByName(ctx, name)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("lookup agent: %w", err))
	}
	if agent == nil {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}
	if !agent.IsActive() {
		return "", time.Time{}, apperror.ErrAgentSuspended()
	}

	ok, err := s.hashSvc.Verify(secret, agent.SecretHash)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("verify secret: %w", err))
	}
	if !ok {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	token, expiresAt, err := s.tokenSvc.Generate(agent.ID, agent.Name)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}
	return token, expiresAt, nil
}

// GetByName fetches an onboarded agent.
func (s *AgentServiceImpl) GetByName(ctx context.Context, name string) (*domain.Agent, error) {
	agent, err := s.agents.GetByName(ctx, name)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lookup agent: %w", err))
	}
	if agent == nil {
		return nil, apperror.ErrNotFound("agent")
	}
	return agent, nil
}

// newWalletAddress generates a fresh 20-byte hex address for the demo
// collaborators. Real deployments derive this from a key pair.
func newWalletAddress() (string, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "0x" + hex.EncodeToString(b), nil
}

// generateRandomHex generates a random hex string of n bytes.
func generateRandomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
