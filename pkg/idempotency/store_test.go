package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewStore(rdb, ttl), mr
}

func TestSeen_FirstCallerClaims(t *testing.T) {
	store, _ := newStore(t, time.Minute)
	ctx := context.Background()

	seen, err := store.Seen(ctx, Key("payment", "gw_1"))
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = store.Seen(ctx, Key("payment", "gw_1"))
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestSeen_KeysAreScoped(t *testing.T) {
	store, _ := newStore(t, time.Minute)
	ctx := context.Background()

	_, err := store.Seen(ctx, Key("payment", "gw_1"))
	require.NoError(t, err)

	seen, err := store.Seen(ctx, Key("coupon", "gw_1"))
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestRelease_FreesTheKey(t *testing.T) {
	store, _ := newStore(t, time.Minute)
	ctx := context.Background()
	key := Key("coupon", "u1")

	_, err := store.Seen(ctx, key)
	require.NoError(t, err)
	require.NoError(t, store.Release(ctx, key))

	seen, err := store.Seen(ctx, key)
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestSeen_ExpiresAfterTTL(t *testing.T) {
	store, mr := newStore(t, time.Minute)
	ctx := context.Background()

	_, err := store.Seen(ctx, Key("payment", "gw_1"))
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	seen, err := store.Seen(ctx, Key("payment", "gw_1"))
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestKey_JoinsParts(t *testing.T) {
	assert.Equal(t, "idem:payment:gw_1:pay_2", Key("payment", "gw_1", "pay_2"))
	assert.Equal(t, "idem:coupon", Key("coupon"))
}
