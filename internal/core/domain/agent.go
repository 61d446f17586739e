package domain

import (
	"time"

	"github.com/google/uuid"
)

// AgentStatus represents the lifecycle state of an onboarded agent.
type AgentStatus string

const (
	AgentStatusActive    AgentStatus = "ACTIVE"
	AgentStatusSuspended AgentStatus = "SUSPENDED"
)

// Agent is an autonomous participant onboarded into the settlement service.
// The wallet address identifies it to the funds-transfer and identity
// collaborators; the on-chain ID comes from the identity registrar.
type Agent struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	Domain        string           `json:"domain"`
	Address       string           `json:"address"`
	OnChainID     uint64           `json:"on_chain_id"`
	RegisteredVia ResolutionMethod `json:"registered_via"`
	SecretHash    string           `json:"-"` // argon2id hash of the API secret
	Status        AgentStatus      `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
}

// IsActive returns true if the agent may call authenticated endpoints.
func (a *Agent) IsActive() bool {
	return a.Status == AgentStatusActive
}
