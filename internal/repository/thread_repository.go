package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/assistant-threads/internal/model"
)

// ThreadRepo persists thread records as Redis hashes.
type ThreadRepo struct {
	RDB  *redis.Client
	Keys Keyspace
}

func NewThreadRepo(rdb *redis.Client, keys Keyspace) *ThreadRepo {
	return &ThreadRepo{RDB: rdb, Keys: keys}
}

// Create writes t.  An existing record with the same id is overwritten; ids
// come from the assistant service and are unique there.
func (r *ThreadRepo) Create(ctx context.Context, t model.Thread) error {
	fields := map[string]any{
		"assistant_id": t.AssistantID,
		"created_at":   t.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if t.UserID != "" {
		fields["user_id"] = t.UserID
	}
	if err := r.RDB.HSet(ctx, r.Keys.Thread(t.ID), fields).Err(); err != nil {
		return fmt.Errorf("save thread %s: %w", t.ID, err)
	}
	return nil
}

// Get loads a thread by id.
func (r *ThreadRepo) Get(ctx context.Context, threadID string) (model.Thread, error) {
	if threadID == "" {
		return model.Thread{}, ErrNotFound
	}
	vals, err := r.RDB.HGetAll(ctx, r.Keys.Thread(threadID)).Result()
	if err != nil {
		return model.Thread{}, fmt.Errorf("load thread %s: %w", threadID, err)
	}
	if len(vals) == 0 {
		return model.Thread{}, fmt.Errorf("thread %s: %w", threadID, ErrNotFound)
	}
	t := model.Thread{
		ID:          threadID,
		AssistantID: vals["assistant_id"],
		UserID:      vals["user_id"],
	}
	if s := vals["created_at"]; s != "" {
		if t.CreatedAt, err = time.Parse(time.RFC3339Nano, s); err != nil {
			return model.Thread{}, fmt.Errorf("thread %s created_at %q: %w", threadID, s, err)
		}
	}
	return t, nil
}

// GetAssistantID returns the assistant bound to a thread.  A missing thread
// and a thread without an assistant id are both ErrNotFound.
func (r *ThreadRepo) GetAssistantID(ctx context.Context, threadID string) (string, error) {
	if threadID == "" {
		return "", ErrNotFound
	}
	id, err := r.RDB.HGet(ctx, r.Keys.Thread(threadID), "assistant_id").Result()
	if errors.Is(err, redis.Nil) || (err == nil && id == "") {
		return "", fmt.Errorf("assistant for thread %s: %w", threadID, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("load assistant for thread %s: %w", threadID, err)
	}
	return id, nil
}
