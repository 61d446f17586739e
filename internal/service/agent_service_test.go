package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"genesis-settlement/internal/core/domain"
	"genesis-settlement/internal/core/ports"
	"genesis-settlement/internal/core/ports/mocks"
	"genesis-settlement/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type agentTestDeps struct {
	svc          *AgentServiceImpl
	agents       *mocks.MockAgentRepository
	registration *mocks.MockRegistrationService
	hashSvc      *mocks.MockHashService
	tokenSvc     *mocks.MockTokenService
	ctrl         *gomock.Controller
}

func setupAgentService(t *testing.T) *agentTestDeps {
	ctrl := gomock.NewController(t)
	d := &agentTestDeps{
		agents:       mocks.NewMockAgentRepository(ctrl),
		registration: mocks.NewMockRegistrationService(ctrl),
		hashSvc:      mocks.NewMockHashService(ctrl),
		tokenSvc:     mocks.NewMockTokenService(ctrl),
		ctrl:         ctrl,
	}
	d.svc = NewAgentService(d.agents, d.registration, d.hashSvc, d.tokenSvc, zerolog.Nop())
	return d
}

// ==================== Register Tests ====================

func TestAgentService_Register_Success(t *testing.T) {
	d := setupAgentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	req := ports.AgentRegisterRequest{Name: "analyst", Domain: "analyst.example.com"}

	d.agents.EXPECT().GetByName(ctx, "analyst").Return(nil, nil)
	d.registration.EXPECT().
		Resolve(ctx, "analyst.example.com", gomock.Any()).
		Return(&domain.RegistrationOutcome{
			AssignedID: 42,
			Method:     domain.ResolutionEventLog,
			TxHash:     "0xtx1",
		}, nil)
	d.hashSvc.EXPECT().Hash(gomock.Any()).Return("$argon2id$...", nil)
	d.agents.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, a *domain.Agent) error {
			assert.Equal(t, "analyst", a.Name)
			assert.Equal(t, uint64(42), a.OnChainID)
			assert.Equal(t, domain.ResolutionEventLog, a.RegisteredVia)
			assert.Equal(t, "$argon2id$...", a.SecretHash)
			assert.Equal(t, domain.AgentStatusActive, a.Status)
			assert.Regexp(t, "^0x[0-9a-f]{40}$", a.Address)
			return nil
		})

	resp, err := d.svc.Register(ctx, req)

	require.NoError(t, err)
	assert.Len(t, resp.Secret, 64) // 32 random bytes, hex encoded
	assert.True(t, resp.Agent.IsActive())
}

func TestAgentService_Register_NameTaken(t *testing.T) {
	d := setupAgentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.agents.EXPECT().GetByName(ctx, "analyst").Return(&domain.Agent{Name: "analyst"}, nil)

	_, err := d.svc.Register(ctx, ports.AgentRegisterRequest{Name: "analyst", Domain: "d"})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "AUTH_002", appErr.Code)
}

func TestAgentService_Register_ResolutionErrorPassedThrough(t *testing.T) {
	d := setupAgentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.agents.EXPECT().GetByName(ctx, "analyst").Return(nil, nil)
	d.registration.EXPECT().
		Resolve(ctx, "d", gomock.Any()).
		Return(nil, apperror.ErrRegistrationAmbiguous(3))
	// No agent is created when identity resolution fails.

	_, err := d.svc.Register(ctx, ports.AgentRegisterRequest{Name: "analyst", Domain: "d"})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "REG_002", appErr.Code)
}

// ==================== IssueToken Tests ====================

func TestAgentService_IssueToken_Success(t *testing.T) {
	d := setupAgentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	agentID := uuid.New()
	agent := &domain.Agent{
		ID:         agentID,
		Name:       "analyst",
		SecretHash: "hash",
		Status:     domain.AgentStatusActive,
	}
	expiry := time.Now().Add(time.Hour)

	d.agents.EXPECT().GetByName(ctx, "analyst").Return(agent, nil)
	d.hashSvc.EXPECT().Verify("s3cret", "hash").Return(true, nil)
	d.tokenSvc.EXPECT().Generate(agentID, "analyst").Return("jwt-token", expiry, nil)

	token, expiresAt, err := d.svc.IssueToken(ctx, "analyst", "s3cret")

	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token)
	assert.Equal(t, expiry, expiresAt)
}

func TestAgentService_IssueToken_UnknownAgent(t *testing.T) {
	d := setupAgentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.agents.EXPECT().GetByName(ctx, "ghost").Return(nil, nil)

	_, _, err := d.svc.IssueToken(ctx, "ghost", "whatever")

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "AUTH_001", appErr.Code)
}

func TestAgentService_IssueToken_WrongSecret(t *testing.T) {
	d := setupAgentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	agent := &domain.Agent{Name: "analyst", SecretHash: "hash", Status: domain.AgentStatusActive}

	d.agents.EXPECT().GetByName(ctx, "analyst").Return(agent, nil)
	d.hashSvc.EXPECT().Verify("wrong", "hash").Return(false, nil)

	_, _, err := d.svc.IssueToken(ctx, "analyst", "wrong")

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "AUTH_001", appErr.Code)
}

func TestAgentService_IssueToken_Suspended(t *testing.T) {
	d := setupAgentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	agent := &domain.Agent{Name: "analyst", SecretHash: "hash", Status: domain.AgentStatusSuspended}

	d.agents.EXPECT().GetByName(ctx, "analyst").Return(agent, nil)
	// Secret is never checked for a suspended agent.

	_, _, err := d.svc.IssueToken(ctx, "analyst", "s3cret")

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "AUTH_004", appErr.Code)
}

// ==================== GetByName Tests ====================

func TestAgentService_GetByName_NotFound(t *testing.T) {
	d := setupAgentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.agents.EXPECT().GetByName(ctx, "ghost").Return(nil, nil)

	_, err := d.svc.GetByName(ctx, "ghost")

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PAY_003", appErr.Code)
}

func TestAgentService_GetByName_RepositoryError(t *testing.T) {
	d := setupAgentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.agents.EXPECT().GetByName(ctx, "analyst").Return(nil, errors.New("db down"))

	_, err := d.svc.GetByName(ctx, "analyst")

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SYS_001", appErr.Code)
}
