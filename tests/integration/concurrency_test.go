package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrentSettlements runs many settlements against the same payer in
// parallel and verifies the ledger records exactly one receipt per attempt
// and the wallet conserves funds. 100 payments of 1.5 against a balance of
// 100 means some must fail with insufficient funds; failed attempts still
// land on the ledger as terminal records.
func TestConcurrentSettlements(t *testing.T) {
	app := newTestApp(t)

	secret := app.onboard(t, "busy-agent")
	app.onboard(t, "merchant-agent")
	token := app.login(t, "busy-agent", secret)

	const workers = 100
	var completed, failed atomic.Int64

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			body := fmt.Sprintf(
				`{"payee_id":"merchant-agent","gross_amount":"1.5","service_description":"job %d"}`, n)
			req, err := http.NewRequest(http.MethodPost, app.server.URL+"/api/v1/settlements", bytes.NewBufferString(body))
			if !assert.NoError(t, err) {
				return
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := http.DefaultClient.Do(req)
			if !assert.NoError(t, err) {
				return
			}
			var parsed struct {
				Data struct {
					Status string `json:"status"`
				} `json:"data"`
			}
			err = json.NewDecoder(resp.Body).Decode(&parsed)
			resp.Body.Close()
			if !assert.NoError(t, err) {
				return
			}
			assert.Equal(t, http.StatusCreated, resp.StatusCode)

			switch parsed.Data.Status {
			case "completed":
				completed.Add(1)
			case "failed":
				failed.Add(1)
			}
		}(i)
	}
	wg.Wait()

	// Every attempt produced exactly one terminal receipt.
	assert.Equal(t, int64(workers), completed.Load()+failed.Load())
	require.NotZero(t, completed.Load(), "no settlement completed")
	require.NotZero(t, failed.Load(), "balance should not cover all attempts")

	summary, err := app.ledger.Summary(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int64(workers), summary.TotalPayments)
	assert.Equal(t, completed.Load(), summary.Successful)

	// Volume is the gross of completed settlements only.
	wantVolume := decimal.RequireFromString("1.5").Mul(decimal.NewFromInt(completed.Load()))
	assert.True(t, summary.TotalVolume.Equal(wantVolume),
		"volume %s != %s", summary.TotalVolume, wantVolume)

	// Funds are conserved across payer, payee, and treasury. Each of the
	// three accounts was seeded with 100 on first touch.
	total := app.wallet.Balance("busy-agent").
		Add(app.wallet.Balance("merchant-agent")).
		Add(app.wallet.Balance("treasury"))
	assert.True(t, total.Equal(decimal.RequireFromString("300")),
		"total balance drifted: %s", total)

	// The payer never went negative.
	assert.False(t, app.wallet.Balance("busy-agent").IsNegative())
}

// TestConcurrentOnboarding registers distinct agents in parallel and checks
// each gets a unique sequential on-chain ID.
func TestConcurrentOnboarding(t *testing.T) {
	app := newTestApp(t)

	const workers = 20
	ids := make(chan float64, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			body := fmt.Sprintf(`{"name":"agent-%02d","domain":"agent%d.test.local"}`, n, n)
			resp, err := http.Post(app.server.URL+"/api/v1/agents/register", "application/json", bytes.NewBufferString(body))
			if !assert.NoError(t, err) {
				return
			}
			var parsed struct {
				Data struct {
					OnChainID float64 `json:"on_chain_id"`
				} `json:"data"`
			}
			err = json.NewDecoder(resp.Body).Decode(&parsed)
			resp.Body.Close()
			if !assert.NoError(t, err) {
				return
			}
			assert.Equal(t, http.StatusCreated, resp.StatusCode)
			ids <- parsed.Data.OnChainID
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[float64]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate on-chain ID %v", id)
		assert.GreaterOrEqual(t, id, float64(1))
		assert.LessOrEqual(t, id, float64(workers))
		seen[id] = true
	}
	assert.Len(t, seen, workers)
}

// TestConcurrentDuplicateName fires the same registration in parallel and
// expects exactly one winner.
func TestConcurrentDuplicateName(t *testing.T) {
	app := newTestApp(t)

	const workers = 10
	var created, conflicted atomic.Int64

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			body := `{"name":"contested-agent","domain":"contested.test.local"}`
			resp, err := http.Post(app.server.URL+"/api/v1/agents/register", "application/json", bytes.NewBufferString(body))
			if !assert.NoError(t, err) {
				return
			}
			resp.Body.Close()
			switch resp.StatusCode {
			case http.StatusCreated:
				created.Add(1)
			case http.StatusConflict:
				conflicted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), created.Load())
	assert.Equal(t, int64(workers-1), conflicted.Load())
}
