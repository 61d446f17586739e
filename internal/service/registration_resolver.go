package service

import (
	"context"
	"fmt"
	"time"

	"genesis-settlement/internal/core/domain"
	"genesis-settlement/internal/core/ports"
	"genesis-settlement/pkg/apperror"

	"github.com/rs/zerolog"
)

// RegistrationResolver implements ports.RegistrationService: a three-path
// state machine for obtaining an assigned identifier from the identity
// registrar. Paths are attempted in order, first success wins:
//
//  1. already_registered: the registrar knows the address, no transaction.
//  2. event_log: submit the registration, parse the ID from the
//     confirmation's events.
//  3. direct_query: bounded polling of the registrar with a fixed delay.
//
// A rejected submission is fatal immediately; resubmitting could
// double-register.
type RegistrationResolver struct {
	registrar    ports.IdentityRegistrar
	pollAttempts int
	pollDelay    time.Duration
	log          zerolog.Logger
}

// NewRegistrationResolver creates a new RegistrationResolver.
func NewRegistrationResolver(registrar ports.IdentityRegistrar, pollAttempts int, pollDelay time.Duration, log zerolog.Logger) *RegistrationResolver {
	return &RegistrationResolver{
		registrar:    registrar,
		pollAttempts: pollAttempts,
		pollDelay:    pollDelay,
		log:          log,
	}
}

// Resolve obtains the assigned identifier for the given address, submitting
// a registration transaction when the address is not yet known.
func (r *RegistrationResolver) Resolve(ctx context.Context, agentDomain, address string) (*domain.RegistrationOutcome, error) {
	// Path 1: the address may already be registered.
	id, err := r.registrar.ResolveByAddress(ctx, address)
	if err != nil {
		// A failed lookup is expected for fresh addresses; proceed.
		r.log.Debug().Err(err).Str("address", address).Msg("pre-registration lookup failed")
	}
	if id > 0 {
		r.log.Info().Uint64("agent_id", id).Str("address", address).Msg("address already registered")
		return &domain.RegistrationOutcome{
			AssignedID: id,
			Method:     domain.ResolutionAlreadyRegistered,
		}, nil
	}

	conf, err := r.registrar.SubmitRegistration(ctx, agentDomain, address)
	if err != nil {
		return nil, apperror.ErrRegistrationFailed(err)
	}
	if !conf.Success {
		return nil, apperror.ErrRegistrationFailed(
			fmt.Errorf("confirmation reported non-success status, tx %s", conf.TxHash))
	}

	// Path 2: parse the assigned ID from the confirmation's event data.
	for _, ev := range conf.Events {
		if ev.AgentID > 0 {
			r.log.Info().Uint64("agent_id", ev.AgentID).Str("tx_hash", conf.TxHash).Msg("agent registered")
			return &domain.RegistrationOutcome{
				AssignedID: ev.AgentID,
				Method:     domain.ResolutionEventLog,
				TxHash:     conf.TxHash,
			}, nil
		}
	}

	// Path 3: the confirmation carried no usable event; poll the registrar
	// with a fixed delay before each attempt to let its state catch up.
	for attempt := 1; attempt <= r.pollAttempts; attempt++ {
		if err := sleepCtx(ctx, r.pollDelay); err != nil {
			return nil, err
		}

		id, err := r.registrar.ResolveByAddress(ctx, address)
		if err != nil {
			r.log.Warn().Err(err).Int("attempt", attempt).Msg("direct-query fallback failed")
			continue
		}
		if id > 0 {
			r.log.Info().Uint64("agent_id", id).Int("attempts", attempt).Msg("agent resolved by direct query")
			return &domain.RegistrationOutcome{
				AssignedID:   id,
				Method:       domain.ResolutionDirectQuery,
				TxHash:       conf.TxHash,
				AttemptsUsed: attempt,
			}, nil
		}
	}

	// The transaction may have succeeded on-chain without the ID being
	// determinable; surface the ambiguity rather than retrying forever.
	return nil, apperror.ErrRegistrationAmbiguous(r.pollAttempts)
}

// sleepCtx waits for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
