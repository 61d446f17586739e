package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"genesis-settlement/internal/core/domain"
	"genesis-settlement/internal/core/ports"
	"genesis-settlement/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// SettlementServiceImpl implements ports.SettlementService.
type SettlementServiceImpl struct {
	transfer ports.FundsTransferClient
	ledger   ports.ReceiptLedger
	feePct   decimal.Decimal
	dust     decimal.Decimal
	treasury string
	log      zerolog.Logger
}

// NewSettlementService creates a new SettlementServiceImpl. feePct is the
// protocol fee percentage (e.g. 2.5), dust the minimum fee worth collecting,
// treasury the fee recipient account.
func NewSettlementService(
	transfer ports.FundsTransferClient,
	ledger ports.ReceiptLedger,
	feePct decimal.Decimal,
	dust decimal.Decimal,
	treasury string,
	log zerolog.Logger,
) *SettlementServiceImpl {
	return &SettlementServiceImpl{
		transfer: transfer,
		ledger:   ledger,
		feePct:   feePct,
		dust:     dust,
		treasury: treasury,
		log:      log,
	}
}

// Execute converts a SettlementRequest into exactly one immutable
// SettlementResult: fee split, optional fee transfer to the treasury, net
// transfer to the payee, one ledger append. A failed net transfer yields a
// terminal "failed" receipt rather than an error; callers inspect Status.
func (s *SettlementServiceImpl) Execute(ctx context.Context, req domain.SettlementRequest) (*domain.SettlementResult, error) {
	// Fail fast before any external call; an invalid request never becomes
	// a settlement attempt and produces no ledger entry.
	if req.PayerID == "" || req.PayeeID == "" {
		return nil, apperror.ErrInvalidParticipant("payer and payee are required")
	}
	if req.PayerID == req.PayeeID {
		return nil, apperror.ErrInvalidParticipant("payer and payee must differ")
	}

	fee, net, err := domain.SplitAmount(req.GrossAmount, s.feePct)
	if err != nil {
		return nil, apperror.ErrInvalidAmount(err)
	}

	result := &domain.SettlementResult{
		PaymentID:          uuid.New(),
		PayerID:            req.PayerID,
		PayeeID:            req.PayeeID,
		GrossAmount:        req.GrossAmount,
		ProtocolFeeAmount:  fee,
		NetAmount:          net,
		ServiceDescription: req.ServiceDescription,
		EvidenceCID:        req.EvidenceCID,
		ExecutedAt:         time.Now().UTC(),
	}

	// Step 1: collect the protocol fee. Skipped entirely below the dust
	// threshold (the payer keeps the dust). Failure is logged and swallowed:
	// fee collection must never block paying the service provider.
	if fee.IsPositive() && fee.GreaterThanOrEqual(s.dust) {
		feeRes, err := s.transfer.Transfer(ctx, req.PayerID, s.treasury, fee)
		switch {
		case err != nil:
			s.log.Warn().Err(err).
				Str("payer", req.PayerID).
				Str("fee", fee.String()).
				Msg("protocol fee collection errored, continuing with net transfer")
		case !feeRes.Success:
			s.log.Warn().
				Str("payer", req.PayerID).
				Str("fee", fee.String()).
				Str("reason", feeRes.Error).
				Msg("protocol fee collection failed, continuing with net transfer")
		default:
			result.FeeTransferID = feeRes.TransferID
			result.Simulated = result.Simulated || feeRes.Simulated
		}
	}

	// Step 2: pay the service provider. Attempted unconditionally.
	netRes, err := s.transfer.Transfer(ctx, req.PayerID, req.PayeeID, net)
	switch {
	case err != nil:
		result.Status = domain.SettlementStatusFailed
		result.ErrorMessage = err.Error()
	case !netRes.Success:
		result.Status = domain.SettlementStatusFailed
		result.ErrorMessage = netRes.Error
	default:
		result.Status = domain.SettlementStatusCompleted
		result.NetTransferID = netRes.TransferID
		result.Simulated = result.Simulated || netRes.Simulated
	}

	// Exactly one append per attempt, success or failure.
	if err := s.ledger.Append(ctx, result); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("append receipt: %w", err))
	}

	event := s.log.Info()
	if result.Status == domain.SettlementStatusFailed {
		event = s.log.Error().Str("reason", result.ErrorMessage)
	}
	event.
		Str("payment_id", result.PaymentID.String()).
		Str("payer", req.PayerID).
		Str("payee", req.PayeeID).
		Str("gross", req.GrossAmount.String()).
		Str("fee", fee.String()).
		Str("net", net.String()).
		Bool("simulated", result.Simulated).
		Str("status", string(result.Status)).
		Msg("settlement executed")

	return result, nil
}

// GetReceipt fetches a single receipt by payment ID.
func (s *SettlementServiceImpl) GetReceipt(ctx context.Context, paymentID string) (*domain.SettlementResult, error) {
	r, err := s.ledger.GetByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get receipt: %w", err))
	}
	if r == nil {
		return nil, apperror.ErrNotFound("receipt")
	}
	return r, nil
}

// History returns every receipt involving the participant as payer or payee,
// in insertion order. An unknown participant yields an empty history, not an
// error.
func (s *SettlementServiceImpl) History(ctx context.Context, participantID string) ([]domain.SettlementResult, error) {
	results, err := s.ledger.QueryByParticipant(ctx, participantID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("query receipts: %w", err))
	}
	return results, nil
}

// Summary returns the ledger-wide aggregate.
func (s *SettlementServiceImpl) Summary(ctx context.Context) (*domain.LedgerSummary, error) {
	summary, err := s.ledger.Summary(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("ledger summary: %w", err))
	}
	return summary, nil
}

// ReceiptForEvidence wraps a receipt's payment proof in an evidence package
// suitable for off-chain storage alongside work products.
func (s *SettlementServiceImpl) ReceiptForEvidence(ctx context.Context, paymentID string) (*domain.EvidencePackage, error) {
	r, err := s.GetReceipt(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	payload := struct {
		PaymentProof domain.PaymentProof `json:"payment_proof"`
	}{
		PaymentProof: domain.ProofOf(r),
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("marshal payment proof: %w", err))
	}

	return &domain.EvidencePackage{
		EvidenceType: "payment_receipt",
		AgentName:    r.PayeeID,
		Data:         raw,
		StoredAt:     time.Now().UTC(),
	}, nil
}
