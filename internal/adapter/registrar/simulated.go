// Package registrar provides the demo identity registrar: an in-process
// stand-in for an on-chain identity registry contract.
package registrar

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"genesis-settlement/internal/core/ports"
)

// Simulated implements ports.IdentityRegistrar with sequential identifier
// assignment. Submitting the same address twice returns the same ID; the
// registry is idempotent per address like the contract it stands in for.
// The emitEvents knob drops events from confirmations to exercise the
// resolver's direct-query fallback.
type Simulated struct {
	mu         sync.Mutex
	nextID     uint64
	byAddress  map[string]uint64
	emitEvents bool
	log        zerolog.Logger
}

// NewSimulated creates a simulated registrar.
func NewSimulated(emitEvents bool, log zerolog.Logger) *Simulated {
	return &Simulated{
		nextID:     1,
		byAddress:  make(map[string]uint64),
		emitEvents: emitEvents,
		log:        log.With().Str("component", "simulated_registrar").Logger(),
	}
}

// ResolveByAddress returns the assigned ID for an address, 0 when unknown.
func (r *Simulated) ResolveByAddress(_ context.Context, address string) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byAddress[address], nil
}

// SubmitRegistration assigns an identifier to the address and returns a
// confirmation. Repeat submissions for a known address reuse its ID.
func (r *Simulated) SubmitRegistration(_ context.Context, agentDomain, address string) (ports.Confirmation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byAddress[address]
	if !ok {
		id = r.nextID
		r.nextID++
		r.byAddress[address] = id
	}

	conf := ports.Confirmation{
		Success: true,
		TxHash:  "0x" + uuid.NewString(),
	}
	if r.emitEvents {
		conf.Events = []ports.RegistrationEvent{{AgentID: id}}
	}

	r.log.Debug().
		Uint64("agent_id", id).
		Str("domain", agentDomain).
		Str("address", address).
		Str("tx_hash", conf.TxHash).
		Bool("event_emitted", r.emitEvents).
		Msg("registration confirmed")

	return conf, nil
}
