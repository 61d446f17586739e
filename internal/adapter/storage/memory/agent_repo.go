package memory

import (
	"context"
	"sync"

	"genesis-settlement/internal/core/domain"
	"genesis-settlement/internal/core/ports"
)

// AgentRepo is an in-memory implementation of ports.AgentRepository.
// Safe for concurrent use.
type AgentRepo struct {
	mu     sync.RWMutex
	byName map[string]*domain.Agent
	order  []string // registration order, for List
}

// NewAgentRepo creates an empty agent repository.
func NewAgentRepo() *AgentRepo {
	return &AgentRepo{byName: make(map[string]*domain.Agent)}
}

func (r *AgentRepo) Create(_ context.Context, agent *domain.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[agent.Name]; exists {
		return ports.ErrDuplicateAgent
	}
	cp := *agent
	r.byName[agent.Name] = &cp
	r.order = append(r.order, agent.Name)
	return nil
}

func (r *AgentRepo) GetByName(_ context.Context, name string) (*domain.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byName[name]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *AgentRepo) GetByAddress(_ context.Context, address string) (*domain.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.byName {
		if a.Address == address {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *AgentRepo) List(_ context.Context) ([]domain.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	agents := make([]domain.Agent, 0, len(r.order))
	for _, name := range r.order {
		agents = append(agents, *r.byName[name])
	}
	return agents, nil
}
