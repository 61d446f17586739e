package redis

import (
	"context"
	"crypto/sha256"
	"encoding/base32"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// EvidenceStore implements ports.EvidenceStore using Redis as a
// content-addressed blob store. The CID is derived from the blob's SHA-256,
// so identical content always maps to the same identifier and a Put is
// naturally idempotent. Blobs are kept without TTL; evidence outlives the
// settlements it documents.
type EvidenceStore struct {
	client *goredis.Client
	prefix string
}

// NewEvidenceStore creates a new Redis-backed evidence store.
func NewEvidenceStore(client *goredis.Client) *EvidenceStore {
	return &EvidenceStore{
		client: client,
		prefix: "evidence:",
	}
}

// Put stores the blob and returns its content identifier.
func (s *EvidenceStore) Put(ctx context.Context, blob []byte) (string, error) {
	cid := contentID(blob)
	if err := s.client.Set(ctx, s.prefix+cid, blob, 0).Err(); err != nil {
		return "", fmt.Errorf("redis evidence put: %w", err)
	}
	return cid, nil
}

// Get retrieves a blob by CID. Returns nil, nil if the CID is unknown.
func (s *EvidenceStore) Get(ctx context.Context, cid string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.prefix+cid).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis evidence get: %w", err)
	}
	return val, nil
}

// Lowercase base32 alphabet, matching how IPFS renders CIDv1.
var cidEncoding = base32.NewEncoding("abcdefghijklmnopqrstuvwxyz234567").WithPadding(base32.NoPadding)

// contentID derives a CIDv1-shaped identifier from the blob's SHA-256.
func contentID(blob []byte) string {
	sum := sha256.Sum256(blob)
	return "baf" + cidEncoding.EncodeToString(sum[:])
}
