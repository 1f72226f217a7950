package repositories

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homework-agent/internal/app/models"
)

func newRedisStore(t *testing.T, maxSessions int) *RedisSessionStore {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return newRedisSessionStore(rdb, maxSessions)
}

func TestRedisStoreUpsertAndList(t *testing.T) {
	store := newRedisStore(t, MaxSessions)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, makeSession("a", 100)))
	require.NoError(t, store.Upsert(ctx, makeSession("b", 200)))
	require.NoError(t, store.Upsert(ctx, makeSession("c", 150)))

	sessions, err := store.List(ctx, models.ModeSolve)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, "b", sessions[0].SessionID)
	assert.Equal(t, "c", sessions[1].SessionID)
	assert.Equal(t, "a", sessions[2].SessionID)
}

func TestRedisStoreUpsertDeduplicates(t *testing.T) {
	store := newRedisStore(t, MaxSessions)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, makeSession("a", 100)))
	updated := makeSession("a", 300)
	updated.Title = "新标题"
	require.NoError(t, store.Upsert(ctx, updated))

	sessions, err := store.List(ctx, models.ModeSolve)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "新标题", sessions[0].Title)
}

func TestRedisStoreEvictsOldest(t *testing.T) {
	store := newRedisStore(t, 3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("s-%d", i)
		require.NoError(t, store.Upsert(ctx, makeSession(id, int64(i))))
	}

	sessions, err := store.List(ctx, models.ModeSolve)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, "s-4", sessions[0].SessionID)
	assert.Equal(t, "s-2", sessions[2].SessionID)
}

func TestRedisStoreDelete(t *testing.T) {
	store := newRedisStore(t, MaxSessions)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, makeSession("a", 100)))
	require.NoError(t, store.Delete(ctx, models.ModeSolve, "a"))

	sessions, err := store.List(ctx, models.ModeSolve)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	assert.ErrorIs(t, store.Delete(ctx, models.ModeSolve, "a"), ErrSessionNotFound)
}
