package redis

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *EvidenceStore {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	return NewEvidenceStore(client)
}

func TestEvidenceStore_PutAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	blob := []byte(`{"evidence_type":"market_analysis","data":{}}`)

	cid, err := store.Put(ctx, blob)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(cid, "baf"))

	got, err := store.Get(ctx, cid)
	require.NoError(t, err)
	assert.Equal(t, blob, got)
}

func TestEvidenceStore_GetUnknownCID(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Get(context.Background(), "bafunknown")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEvidenceStore_ContentAddressing(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cid1, err := store.Put(ctx, []byte(`{"a":1}`))
	require.NoError(t, err)
	cid2, err := store.Put(ctx, []byte(`{"a":1}`))
	require.NoError(t, err)
	cid3, err := store.Put(ctx, []byte(`{"a":2}`))
	require.NoError(t, err)

	assert.Equal(t, cid1, cid2, "identical content should map to the same CID")
	assert.NotEqual(t, cid1, cid3, "different content should map to different CIDs")
}

func TestEvidenceStore_HealthCheck(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	hc := NewHealthCheck(client)

	assert.Equal(t, "redis", hc.Name())
	assert.NoError(t, hc.Ping(context.Background()))
}
