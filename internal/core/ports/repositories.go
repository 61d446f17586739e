package ports

import (
	"context"
	"errors"

	"genesis-settlement/internal/core/domain"
)

// ErrDuplicateAgent is returned by Create when the agent name is taken.
// Concurrent registrations race past the lookup, so Create enforces
// uniqueness and callers map this to a conflict.
var ErrDuplicateAgent = errors.New("agent name already exists")

// AgentRepository defines persistence operations for onboarded agents.
type AgentRepository interface {
	// Create persists a new agent, returning ErrDuplicateAgent on a
	// name collision.
	Create(ctx context.Context, agent *domain.Agent) error
	GetByName(ctx context.Context, name string) (*domain.Agent, error)
	GetByAddress(ctx context.Context, address string) (*domain.Agent, error)
	List(ctx context.Context) ([]domain.Agent, error)
}
