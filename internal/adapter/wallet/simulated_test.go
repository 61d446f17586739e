package wallet

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSimulatedClient_Transfer(t *testing.T) {
	c := NewSimulatedClient(dec("10"), false, zerolog.Nop())
	ctx := context.Background()

	res, err := c.Transfer(ctx, "a", "b", dec("2.5"))

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.False(t, res.Simulated)
	assert.NotEmpty(t, res.TransferID)
	assert.True(t, c.Balance("a").Equal(dec("7.5")))
	assert.True(t, c.Balance("b").Equal(dec("12.5")))
}

func TestSimulatedClient_InsufficientBalanceRejected(t *testing.T) {
	c := NewSimulatedClient(dec("1"), false, zerolog.Nop())
	ctx := context.Background()

	res, err := c.Transfer(ctx, "a", "b", dec("5"))

	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "insufficient balance")
	// Balances untouched on decline.
	assert.True(t, c.Balance("a").Equal(dec("1")))
	assert.True(t, c.Balance("b").Equal(dec("1")))
}

func TestSimulatedClient_InsufficientBalanceSimulated(t *testing.T) {
	c := NewSimulatedClient(dec("1"), true, zerolog.Nop())
	ctx := context.Background()

	res, err := c.Transfer(ctx, "a", "b", dec("5"))

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.True(t, res.Simulated)
	assert.True(t, strings.HasPrefix(res.TransferID, "sim-"))
	// Simulated transfers never move funds.
	assert.True(t, c.Balance("a").Equal(dec("1")))
	assert.True(t, c.Balance("b").Equal(dec("1")))
}

func TestSimulatedClient_NegativeAmountRejected(t *testing.T) {
	c := NewSimulatedClient(dec("10"), true, zerolog.Nop())

	res, err := c.Transfer(context.Background(), "a", "b", dec("-1"))

	require.NoError(t, err)
	assert.False(t, res.Success)
}

func TestSimulatedClient_ConcurrentTransfersConserveFunds(t *testing.T) {
	c := NewSimulatedClient(dec("100"), false, zerolog.Nop())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Transfer(ctx, "a", "b", dec("1"))
		}()
	}
	wg.Wait()

	total := c.Balance("a").Add(c.Balance("b"))
	assert.True(t, total.Equal(dec("200")))
	assert.True(t, c.Balance("a").Equal(dec("50")))
	assert.True(t, c.Balance("b").Equal(dec("150")))
}
