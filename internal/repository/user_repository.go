package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/assistant-threads/internal/model"
)

// UserRepo reads the user registry.  Users are registered by another
// service; this repo only confirms they exist.
type UserRepo struct {
	RDB  *redis.Client
	Keys Keyspace
}

func NewUserRepo(rdb *redis.Client, keys Keyspace) *UserRepo {
	return &UserRepo{RDB: rdb, Keys: keys}
}

// GetUser returns the registered user with id userID, or ErrNotFound.
func (r *UserRepo) GetUser(ctx context.Context, userID string) (model.User, error) {
	if userID == "" {
		return model.User{}, ErrNotFound
	}
	n, err := r.RDB.Exists(ctx, r.Keys.User(userID)).Result()
	if err != nil {
		return model.User{}, fmt.Errorf("lookup user %s: %w", userID, err)
	}
	if n == 0 {
		return model.User{}, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	return model.User{ID: userID}, nil
}
