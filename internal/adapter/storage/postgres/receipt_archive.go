package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"genesis-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ReceiptArchive implements ports.ReceiptLedger on PostgreSQL. Amounts are
// stored as micro-unit BIGINT columns so aggregation stays exact; the seq
// column preserves insertion order across restarts.
type ReceiptArchive struct {
	pool Pool
}

// NewReceiptArchive creates a new ReceiptArchive.
func NewReceiptArchive(pool Pool) *ReceiptArchive {
	return &ReceiptArchive{pool: pool}
}

const receiptColumns = `payment_id, payer_id, payee_id, gross_micro, fee_micro, net_micro,
		fee_transfer_id, net_transfer_id, status, error_message, simulated,
		service_description, evidence_cid, executed_at`

// Append inserts a settlement receipt. Receipts are immutable; there is no
// update path.
func (a *ReceiptArchive) Append(ctx context.Context, result *domain.SettlementResult) error {
	gross, err := domain.MicroUnits(result.GrossAmount)
	if err != nil {
		return fmt.Errorf("gross amount: %w", err)
	}
	fee, err := domain.MicroUnits(result.ProtocolFeeAmount)
	if err != nil {
		return fmt.Errorf("fee amount: %w", err)
	}
	net, err := domain.MicroUnits(result.NetAmount)
	if err != nil {
		return fmt.Errorf("net amount: %w", err)
	}

	query := `INSERT INTO settlement_receipts (` + receiptColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err = a.pool.Exec(ctx, query,
		result.PaymentID, result.PayerID, result.PayeeID,
		gross, fee, net,
		result.FeeTransferID, result.NetTransferID,
		result.Status, result.ErrorMessage, result.Simulated,
		result.ServiceDescription, result.EvidenceCID, result.ExecutedAt,
	)
	if err != nil {
		return fmt.Errorf("insert receipt: %w", err)
	}
	return nil
}

// GetByPaymentID fetches a receipt by payment ID. Returns nil, nil when
// unknown.
func (a *ReceiptArchive) GetByPaymentID(ctx context.Context, paymentID string) (*domain.SettlementResult, error) {
	id, err := uuid.Parse(paymentID)
	if err != nil {
		// A malformed ID cannot exist in the archive.
		return nil, nil
	}

	query := `SELECT ` + receiptColumns + ` FROM settlement_receipts WHERE payment_id = $1`
	return a.scanReceipt(a.pool.QueryRow(ctx, query, id))
}

// QueryByParticipant fetches every receipt involving the participant as
// payer or payee, in insertion order.
func (a *ReceiptArchive) QueryByParticipant(ctx context.Context, participantID string) ([]domain.SettlementResult, error) {
	query := `SELECT ` + receiptColumns + ` FROM settlement_receipts
		WHERE payer_id = $1 OR payee_id = $1 ORDER BY seq`

	rows, err := a.pool.Query(ctx, query, participantID)
	if err != nil {
		return nil, fmt.Errorf("query receipts: %w", err)
	}
	defer rows.Close()

	results := make([]domain.SettlementResult, 0)
	for rows.Next() {
		r, err := scanReceiptRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan receipt row: %w", err)
		}
		results = append(results, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate receipt rows: %w", err)
	}
	return results, nil
}

// Summary aggregates the full archive server-side.
func (a *ReceiptArchive) Summary(ctx context.Context) (*domain.LedgerSummary, error) {
	summary := &domain.LedgerSummary{
		ParticipantTotals: make(map[string]domain.ParticipantTotals),
		GeneratedAt:       time.Now().UTC(),
	}

	var volumeMicro int64
	totalsQuery := `SELECT COUNT(*),
		COUNT(*) FILTER (WHERE status = 'completed'),
		COALESCE(SUM(gross_micro) FILTER (WHERE status = 'completed'), 0)
		FROM settlement_receipts`
	err := a.pool.QueryRow(ctx, totalsQuery).Scan(
		&summary.TotalPayments, &summary.Successful, &volumeMicro,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregate receipts: %w", err)
	}
	summary.TotalVolume = domain.FromMicroUnits(volumeMicro)
	if summary.TotalPayments > 0 {
		summary.SuccessRate = float64(summary.Successful) / float64(summary.TotalPayments)
	}

	// Sent is the payer's gross outlay; Received is the payee's net after
	// the protocol fee.
	participantQuery := `SELECT payer_id, SUM(gross_micro), 0::bigint
		FROM settlement_receipts WHERE status = 'completed' GROUP BY payer_id
		UNION ALL
		SELECT payee_id, 0::bigint, SUM(net_micro)
		FROM settlement_receipts WHERE status = 'completed' GROUP BY payee_id`

	rows, err := a.pool.Query(ctx, participantQuery)
	if err != nil {
		return nil, fmt.Errorf("aggregate participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var participant string
		var sentMicro, receivedMicro int64
		if err := rows.Scan(&participant, &sentMicro, &receivedMicro); err != nil {
			return nil, fmt.Errorf("scan participant row: %w", err)
		}
		totals := summary.ParticipantTotals[participant]
		totals.Sent = totals.Sent.Add(domain.FromMicroUnits(sentMicro))
		totals.Received = totals.Received.Add(domain.FromMicroUnits(receivedMicro))
		summary.ParticipantTotals[participant] = totals
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participant rows: %w", err)
	}

	return summary, nil
}

// scanReceipt scans a single receipt row, mapping no-rows to nil, nil.
func (a *ReceiptArchive) scanReceipt(row pgx.Row) (*domain.SettlementResult, error) {
	r, err := scanReceiptRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan receipt: %w", err)
	}
	return r, nil
}

func scanReceiptRow(row pgx.Row) (*domain.SettlementResult, error) {
	var r domain.SettlementResult
	var gross, fee, net int64
	err := row.Scan(
		&r.PaymentID, &r.PayerID, &r.PayeeID,
		&gross, &fee, &net,
		&r.FeeTransferID, &r.NetTransferID,
		&r.Status, &r.ErrorMessage, &r.Simulated,
		&r.ServiceDescription, &r.EvidenceCID, &r.ExecutedAt,
	)
	if err != nil {
		return nil, err
	}
	r.GrossAmount = domain.FromMicroUnits(gross)
	r.ProtocolFeeAmount = domain.FromMicroUnits(fee)
	r.NetAmount = domain.FromMicroUnits(net)
	return &r, nil
}
