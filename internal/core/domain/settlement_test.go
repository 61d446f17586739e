package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *SettlementResult {
	return &SettlementResult{
		PaymentID:          uuid.New(),
		PayerID:            "Alice",
		PayeeID:            "Bob",
		GrossAmount:        dec("1.00"),
		ProtocolFeeAmount:  dec("0.025"),
		NetAmount:          dec("0.975"),
		FeeTransferID:      "0xfee1",
		NetTransferID:      "0xnet1",
		Status:             SettlementStatusCompleted,
		ServiceDescription: "AI Market Analysis Service",
		ExecutedAt:         time.Now().UTC(),
	}
}

func TestSettlementResult_Involves(t *testing.T) {
	r := sampleResult()

	assert.True(t, r.Involves("Alice"))
	assert.True(t, r.Involves("Bob"))
	assert.False(t, r.Involves("Charlie"))
}

func TestSettlementResult_IsCompleted(t *testing.T) {
	r := sampleResult()
	assert.True(t, r.IsCompleted())

	r.Status = SettlementStatusFailed
	assert.False(t, r.IsCompleted())
}

func TestSettlementResult_JSONSchema(t *testing.T) {
	r := sampleResult()

	raw, err := json.Marshal(r)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))

	for _, key := range []string{
		"payment_id", "payer_id", "payee_id", "gross_amount",
		"protocol_fee_amount", "net_amount", "fee_transfer_id",
		"net_transfer_id", "status", "simulated", "executed_at",
	} {
		assert.Contains(t, fields, key)
	}

	// Empty optional fields stay out of the evidence-facing JSON.
	r.FeeTransferID = ""
	r.ErrorMessage = ""
	raw, err = json.Marshal(r)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "fee_transfer_id")
	assert.NotContains(t, string(raw), "error_message")
}

func TestProofOf_ProjectsReceipt(t *testing.T) {
	r := sampleResult()
	proof := ProofOf(r)

	assert.Equal(t, r.PaymentID, proof.PaymentID)
	assert.Equal(t, r.NetTransferID, proof.NetTransferID)
	assert.Equal(t, r.Status, proof.Status)
	assert.True(t, proof.GrossAmount.Equal(r.GrossAmount))
}
