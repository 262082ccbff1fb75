package blacklist_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kln-se/uml-diagrams/internal/auth/blacklist"
)

type fakeKV struct {
	data map[string][]byte
	ttls map[string]int
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string][]byte{}, ttls: map[string]int{}}
}

func (f *fakeKV) SetNX(_ context.Context, key string, val []byte, ttlSeconds int) (bool, error) {
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	f.data[key] = val
	f.ttls[key] = ttlSeconds
	return true, nil
}

func (f *fakeKV) Exists(_ context.Context, key string) (bool, error) {
	_, ok := f.data[key]
	return ok, nil
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	s := blacklist.NewStore(kv)

	revoked, err := s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, s.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))

	revoked, err = s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.True(t, revoked)

	// TTL соответствует остатку жизни токена
	require.InDelta(t, 3600, kv.ttls["jti:jti-1"], 5)
}

func TestRevoke_PastExp(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	s := blacklist.NewStore(kv)

	// exp в прошлом: запись всё равно появляется с минимальным TTL
	require.NoError(t, s.Revoke(ctx, "jti-2", time.Now().Add(-time.Hour)))
	require.Equal(t, 60, kv.ttls["jti:jti-2"])
}
