package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"genesis-settlement/internal/core/domain"
	"genesis-settlement/internal/core/ports"
	"genesis-settlement/pkg/apperror"
)

// EvidenceServiceImpl wraps opaque payloads into evidence packages and hands
// them to the content-addressed store.
type EvidenceServiceImpl struct {
	store      ports.EvidenceStore
	gatewayURL string
	log        zerolog.Logger
}

// NewEvidenceService creates a new evidence service.
func NewEvidenceService(store ports.EvidenceStore, gatewayURL string, log zerolog.Logger) *EvidenceServiceImpl {
	return &EvidenceServiceImpl{
		store:      store,
		gatewayURL: strings.TrimRight(gatewayURL, "/"),
		log:        log.With().Str("component", "evidence_service").Logger(),
	}
}

// StoreJSON packages the payload and writes it to the store, returning the CID.
// The payload must be valid JSON; it is stored verbatim, never reinterpreted.
func (s *EvidenceServiceImpl) StoreJSON(ctx context.Context, agentName, evidenceType string, payload []byte) (string, error) {
	if !json.Valid(payload) {
		return "", apperror.Validation("evidence payload must be valid JSON")
	}

	pkg := domain.EvidencePackage{
		EvidenceType: evidenceType,
		AgentName:    agentName,
		Data:         json.RawMessage(payload),
		StoredAt:     time.Now().UTC(),
	}

	blob, err := json.Marshal(pkg)
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("marshaling evidence package: %w", err))
	}

	cid, err := s.store.Put(ctx, blob)
	if err != nil {
		s.log.Error().Err(err).
			Str("evidence_type", evidenceType).
			Str("agent_name", agentName).
			Msg("evidence store write failed")
		return "", apperror.ErrEvidenceStoreFailure(err)
	}

	s.log.Info().
		Str("cid", cid).
		Str("evidence_type", evidenceType).
		Str("agent_name", agentName).
		Int("bytes", len(blob)).
		Msg("evidence stored")

	return cid, nil
}

// Retrieve fetches and decodes an evidence package by CID.
func (s *EvidenceServiceImpl) Retrieve(ctx context.Context, cid string) (*domain.EvidencePackage, error) {
	blob, err := s.store.Get(ctx, cid)
	if err != nil {
		return nil, apperror.ErrEvidenceStoreFailure(err)
	}
	if blob == nil {
		return nil, apperror.ErrNotFound("evidence")
	}

	var pkg domain.EvidencePackage
	if err := json.Unmarshal(blob, &pkg); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("decoding evidence package %s: %w", cid, err))
	}

	return &pkg, nil
}

// GatewayURL returns the public gateway URL for a CID.
func (s *EvidenceServiceImpl) GatewayURL(cid string) string {
	return fmt.Sprintf("%s/%s", s.gatewayURL, cid)
}
