package oauth

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStateStore(t *testing.T) *StateStore {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewStateStore(rdb)
}

func TestStateStore_RoundTrip(t *testing.T) {
	store := setupStateStore(t)
	ctx := context.Background()

	state, err := store.GenerateState(ctx, "https://example.com/done")
	require.NoError(t, err)
	assert.Len(t, state, 64) // 32 bytes hex

	redirectURI, err := store.ValidateState(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/done", redirectURI)
}

func TestStateStore_ValidateTwice(t *testing.T) {
	store := setupStateStore(t)
	ctx := context.Background()

	state, err := store.GenerateState(ctx, "https://example.com/done")
	require.NoError(t, err)

	_, err = store.ValidateState(ctx, state)
	require.NoError(t, err)

	// state 一次性有效
	_, err = store.ValidateState(ctx, state)
	assert.Error(t, err)
}

func TestStateStore_ValidateUnknown(t *testing.T) {
	store := setupStateStore(t)

	_, err := store.ValidateState(context.Background(), "deadbeef")
	assert.Error(t, err)

	_, err = store.ValidateState(context.Background(), "")
	assert.Error(t, err)
}
