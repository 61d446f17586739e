// Package memory provides in-process implementations of the storage ports.
// The receipt ledger here is the authoritative store for the demo deployment;
// the postgres archive mirrors it for durable installs.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"genesis-settlement/internal/core/domain"
)

// ReceiptLedger is an append-only, insertion-ordered in-memory ledger.
// Safe for concurrent use.
type ReceiptLedger struct {
	mu       sync.RWMutex
	receipts []domain.SettlementResult
	byID     map[string]int // payment ID -> index into receipts
}

// NewReceiptLedger creates an empty ledger.
func NewReceiptLedger() *ReceiptLedger {
	return &ReceiptLedger{byID: make(map[string]int)}
}

// Append records a settlement receipt. Receipts are immutable once appended;
// the ledger stores a copy so later caller mutations cannot leak in.
func (l *ReceiptLedger) Append(_ context.Context, result *domain.SettlementResult) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.byID[result.PaymentID.String()] = len(l.receipts)
	l.receipts = append(l.receipts, *result)
	return nil
}

// GetByPaymentID returns the receipt for a payment ID, or nil when unknown.
func (l *ReceiptLedger) GetByPaymentID(_ context.Context, paymentID string) (*domain.SettlementResult, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	idx, ok := l.byID[paymentID]
	if !ok {
		return nil, nil
	}
	r := l.receipts[idx]
	return &r, nil
}

// QueryByParticipant returns every receipt involving the participant as payer
// or payee, in insertion order.
func (l *ReceiptLedger) QueryByParticipant(_ context.Context, participantID string) ([]domain.SettlementResult, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	results := make([]domain.SettlementResult, 0)
	for _, r := range l.receipts {
		if r.Involves(participantID) {
			results = append(results, r)
		}
	}
	return results, nil
}

// Summary folds the whole ledger under one read lock, so concurrent appends
// never produce a torn aggregate.
func (l *ReceiptLedger) Summary(_ context.Context) (*domain.LedgerSummary, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	summary := &domain.LedgerSummary{
		TotalPayments:     int64(len(l.receipts)),
		TotalVolume:       decimal.Zero,
		ParticipantTotals: make(map[string]domain.ParticipantTotals),
		GeneratedAt:       time.Now().UTC(),
	}

	for _, r := range l.receipts {
		if !r.IsCompleted() {
			continue
		}
		summary.Successful++
		summary.TotalVolume = summary.TotalVolume.Add(r.GrossAmount)

		// Sent is the payer's gross outlay; Received is the net after the
		// protocol fee, what the payee was actually paid.
		payer := summary.ParticipantTotals[r.PayerID]
		payer.Sent = payer.Sent.Add(r.GrossAmount)
		summary.ParticipantTotals[r.PayerID] = payer

		payee := summary.ParticipantTotals[r.PayeeID]
		payee.Received = payee.Received.Add(r.NetAmount)
		summary.ParticipantTotals[r.PayeeID] = payee
	}

	if summary.TotalPayments > 0 {
		summary.SuccessRate = float64(summary.Successful) / float64(summary.TotalPayments)
	}
	return summary, nil
}
