package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepo_GetUser(t *testing.T) {
	mr, rdb := newTestRedis(t)
	mr.HSet(testKeys.User("u1"), "created_at", "2024-01-01T00:00:00Z")
	repo := NewUserRepo(rdb, testKeys)

	u, err := repo.GetUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
}

func TestUserRepo_GetUserNotFound(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := NewUserRepo(rdb, testKeys)

	_, err := repo.GetUser(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetUser(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepo_GetUserStoreDown(t *testing.T) {
	repo := NewUserRepo(unreachableRedis(t), testKeys)

	_, err := repo.GetUser(context.Background(), "u1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
