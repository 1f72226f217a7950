package repositories

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homework-agent/internal/app/models"
	"homework-agent/pkg/config"
)

func newLocalStore(t *testing.T) *LocalSessionStore {
	t.Helper()
	store, err := NewLocalSessionStore(config.Store{Dir: t.TempDir(), MaxSessions: MaxSessions})
	require.NoError(t, err)
	return store
}

func makeSession(id string, ts int64) *models.ChatSession {
	return &models.ChatSession{
		SessionID: id,
		Title:     "会话 " + id,
		Mode:      models.ModeSolve,
		Messages: []models.Message{
			{Role: models.RoleUser, Content: "题目"},
			{Role: models.RoleAssistant, Content: "解答"},
		},
		Timestamp: ts,
	}
}

func TestLocalStoreUpsertAndList(t *testing.T) {
	store := newLocalStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, makeSession("a", 100)))
	require.NoError(t, store.Upsert(ctx, makeSession("b", 200)))

	sessions, err := store.List(ctx, models.ModeSolve)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	// 最近的排在前面
	assert.Equal(t, "b", sessions[0].SessionID)
	assert.Equal(t, "a", sessions[1].SessionID)
}

func TestLocalStoreUpsertDeduplicates(t *testing.T) {
	store := newLocalStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, makeSession("a", 100)))
	updated := makeSession("a", 300)
	updated.Title = "更新后的标题"
	require.NoError(t, store.Upsert(ctx, updated))

	sessions, err := store.List(ctx, models.ModeSolve)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "更新后的标题", sessions[0].Title)
	assert.EqualValues(t, 300, sessions[0].Timestamp)
}

func TestLocalStoreEvictsOldestBeyondCap(t *testing.T) {
	store := newLocalStore(t)
	ctx := context.Background()

	for i := 0; i < MaxSessions+1; i++ {
		id := fmt.Sprintf("s-%02d", i)
		require.NoError(t, store.Upsert(ctx, makeSession(id, int64(i))))
	}

	sessions, err := store.List(ctx, models.ModeSolve)
	require.NoError(t, err)
	require.Len(t, sessions, MaxSessions)
	for _, sess := range sessions {
		// 最旧的 s-00 被淘汰
		assert.NotEqual(t, "s-00", sess.SessionID)
	}
}

func TestLocalStoreModesAreIsolated(t *testing.T) {
	store := newLocalStore(t)
	ctx := context.Background()

	solve := makeSession("a", 100)
	review := makeSession("b", 200)
	review.Mode = models.ModeReview
	require.NoError(t, store.Upsert(ctx, solve))
	require.NoError(t, store.Upsert(ctx, review))

	solveList, err := store.List(ctx, models.ModeSolve)
	require.NoError(t, err)
	reviewList, err := store.List(ctx, models.ModeReview)
	require.NoError(t, err)
	require.Len(t, solveList, 1)
	require.Len(t, reviewList, 1)
	assert.Equal(t, "a", solveList[0].SessionID)
	assert.Equal(t, "b", reviewList[0].SessionID)
}

func TestLocalStoreCorruptFileDegradesToEmpty(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalSessionStore(config.Store{Dir: dir})
	require.NoError(t, err)

	path := filepath.Join(dir, "sessions_solve.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	sessions, err := store.List(context.Background(), models.ModeSolve)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	// 损坏的文件不影响后续写入
	require.NoError(t, store.Upsert(context.Background(), makeSession("a", 1)))
	sessions, err = store.List(context.Background(), models.ModeSolve)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestLocalStoreDelete(t *testing.T) {
	store := newLocalStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, makeSession("a", 100)))
	require.NoError(t, store.Delete(ctx, models.ModeSolve, "a"))

	sessions, err := store.List(ctx, models.ModeSolve)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	assert.ErrorIs(t, store.Delete(ctx, models.ModeSolve, "a"), ErrSessionNotFound)
}
