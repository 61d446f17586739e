// Package wallet provides the demo funds-transfer collaborator: an
// in-process balance book standing in for a chain RPC or payment rail.
package wallet

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"genesis-settlement/internal/core/ports"
)

// SimulatedClient implements ports.FundsTransferClient against an in-memory
// balance book. Accounts are lazily seeded with the configured initial
// balance on first touch. When allowSimulated is set, a transfer that would
// overdraw the payer is fabricated instead of rejected, flagged Simulated so
// the receipt records it honestly.
type SimulatedClient struct {
	mu             sync.Mutex
	balances       map[string]decimal.Decimal
	initialBalance decimal.Decimal
	allowSimulated bool
	log            zerolog.Logger
}

// NewSimulatedClient creates a simulated transfer client.
func NewSimulatedClient(initialBalance decimal.Decimal, allowSimulated bool, log zerolog.Logger) *SimulatedClient {
	return &SimulatedClient{
		balances:       make(map[string]decimal.Decimal),
		initialBalance: initialBalance,
		allowSimulated: allowSimulated,
		log:            log.With().Str("component", "simulated_wallet").Logger(),
	}
}

// Transfer moves amount from one account to another. Never returns a
// transport error; failures are reported in the result like a real rail
// reporting a declined transfer.
func (c *SimulatedClient) Transfer(_ context.Context, from, to string, amount decimal.Decimal) (ports.TransferResult, error) {
	if amount.IsNegative() {
		return ports.TransferResult{
			Success: false,
			Error:   "negative transfer amount",
		}, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	fromBal := c.balance(from)

	if fromBal.LessThan(amount) {
		if !c.allowSimulated {
			return ports.TransferResult{
				Success: false,
				Error:   fmt.Sprintf("insufficient balance: have %s, need %s", fromBal, amount),
			}, nil
		}
		// Fabricated transfer: balances untouched, flagged for the receipt.
		id := "sim-" + uuid.NewString()
		c.log.Debug().
			Str("from", from).
			Str("to", to).
			Str("amount", amount.String()).
			Str("transfer_id", id).
			Msg("insufficient balance, transfer simulated")
		return ports.TransferResult{Success: true, TransferID: id, Simulated: true}, nil
	}

	c.balances[from] = fromBal.Sub(amount)
	c.balances[to] = c.balance(to).Add(amount)

	id := "0x" + uuid.NewString()
	c.log.Debug().
		Str("from", from).
		Str("to", to).
		Str("amount", amount.String()).
		Str("transfer_id", id).
		Msg("transfer executed")
	return ports.TransferResult{Success: true, TransferID: id}, nil
}

// Balance returns the current balance of an account, seeding it first.
func (c *SimulatedClient) Balance(account string) decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.balance(account)
}

// balance lazily seeds and reads an account. Caller holds the lock.
func (c *SimulatedClient) balance(account string) decimal.Decimal {
	b, ok := c.balances[account]
	if !ok {
		b = c.initialBalance
		c.balances[account] = b
	}
	return b
}
