package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/assistant-threads/internal/model"
)

func TestThreadRepo_CreateAndGet(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := NewThreadRepo(rdb, testKeys)
	ctx := context.Background()
	created := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, model.Thread{
		ID: "thread_1", AssistantID: "asst_1", UserID: "u1", CreatedAt: created,
	}))

	got, err := repo.Get(ctx, "thread_1")
	require.NoError(t, err)
	assert.Equal(t, model.Thread{ID: "thread_1", AssistantID: "asst_1", UserID: "u1", CreatedAt: created}, got)

	asst, err := repo.GetAssistantID(ctx, "thread_1")
	require.NoError(t, err)
	assert.Equal(t, "asst_1", asst)
}

func TestThreadRepo_CreateWithoutOwner(t *testing.T) {
	mr, rdb := newTestRedis(t)
	repo := NewThreadRepo(rdb, testKeys)

	require.NoError(t, repo.Create(context.Background(), model.Thread{
		ID: "thread_2", AssistantID: "asst_1", CreatedAt: time.Now(),
	}))

	assert.True(t, mr.Exists(testKeys.Thread("thread_2")))
	assert.Empty(t, mr.HGet(testKeys.Thread("thread_2"), "user_id"))
	got, err := repo.Get(context.Background(), "thread_2")
	require.NoError(t, err)
	assert.Empty(t, got.UserID)
}

func TestThreadRepo_CreateOverwrites(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := NewThreadRepo(rdb, testKeys)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, model.Thread{ID: "t", AssistantID: "a1", CreatedAt: time.Now()}))
	require.NoError(t, repo.Create(ctx, model.Thread{ID: "t", AssistantID: "a2", CreatedAt: time.Now()}))

	asst, err := repo.GetAssistantID(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, "a2", asst)
}

func TestThreadRepo_NotFound(t *testing.T) {
	mr, rdb := newTestRedis(t)
	repo := NewThreadRepo(rdb, testKeys)
	ctx := context.Background()

	_, err := repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetAssistantID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	mr.HSet(testKeys.Thread("no-assistant"), "user_id", "u1")
	_, err = repo.GetAssistantID(ctx, "no-assistant")
	assert.ErrorIs(t, err, ErrNotFound)
}
