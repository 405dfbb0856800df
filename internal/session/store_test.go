package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSessionTest(t *testing.T) (*miniredis.Miniredis, *Store) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return mr, NewStore(client, time.Hour)
}

func TestStore_SetAndIsActive(t *testing.T) {
	_, store := setupSessionTest(t)
	ctx := context.Background()

	err := store.Set(ctx, 1, "token-a")
	require.NoError(t, err)

	active, err := store.IsActive(ctx, 1, "token-a")
	require.NoError(t, err)
	assert.True(t, active)

	active, err = store.IsActive(ctx, 1, "token-b")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestStore_IsActive_NoSession(t *testing.T) {
	_, store := setupSessionTest(t)

	active, err := store.IsActive(context.Background(), 99, "any-token")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestStore_ReissueDisplacesPreviousToken(t *testing.T) {
	_, store := setupSessionTest(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, 1, "old-token"))
	require.NoError(t, store.Set(ctx, 1, "new-token"))

	active, err := store.IsActive(ctx, 1, "old-token")
	require.NoError(t, err)
	assert.False(t, active, "displaced token must no longer be active")

	active, err = store.IsActive(ctx, 1, "new-token")
	require.NoError(t, err)
	assert.True(t, active)
}

func TestStore_Delete(t *testing.T) {
	_, store := setupSessionTest(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, 1, "token-a"))
	require.NoError(t, store.Delete(ctx, 1))

	active, err := store.IsActive(ctx, 1, "token-a")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestStore_EntriesExpireWithTTL(t *testing.T) {
	mr, store := setupSessionTest(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, 1, "token-a"))

	// Advance past the TTL
	mr.FastForward(2 * time.Hour)

	active, err := store.IsActive(ctx, 1, "token-a")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestStore_SessionsAreIndependentPerUser(t *testing.T) {
	_, store := setupSessionTest(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, 1, "token-1"))
	require.NoError(t, store.Set(ctx, 2, "token-2"))

	require.NoError(t, store.Delete(ctx, 1))

	active, err := store.IsActive(ctx, 2, "token-2")
	require.NoError(t, err)
	assert.True(t, active, "revoking one user's session must not affect another's")
}
