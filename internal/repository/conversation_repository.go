package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/assistant-threads/internal/model"
)

// ConversationRepo stores thread messages.  Each message is a hash keyed by
// (thread id, message id); a per-thread sorted set scored by creation time
// in unix milliseconds orders them.
type ConversationRepo struct {
	RDB  *redis.Client
	Keys Keyspace
}

func NewConversationRepo(rdb *redis.Client, keys Keyspace) *ConversationRepo {
	return &ConversationRepo{RDB: rdb, Keys: keys}
}

// Append writes m and indexes it under its thread in one transaction.
// Writing the same (thread id, message id) again overwrites the record.
func (r *ConversationRepo) Append(ctx context.Context, m model.Message) error {
	if m.ThreadID == "" || m.MessageID == "" {
		return errors.New("append message: thread id and message id are required")
	}
	_, err := r.RDB.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, r.Keys.Message(m.ThreadID, m.MessageID), map[string]any{
			"role":         string(m.Role),
			"content":      m.Content,
			"created_at":   m.CreatedAt.UnixMilli(),
			"assistant_id": m.AssistantID,
		})
		p.ZAdd(ctx, r.Keys.ThreadMessages(m.ThreadID), redis.Z{
			Score:  float64(m.CreatedAt.UnixMilli()),
			Member: m.MessageID,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("append message %s to thread %s: %w", m.MessageID, m.ThreadID, err)
	}
	return nil
}

// ListPage returns page pageNumber (1-indexed) of a thread's messages,
// newest first.  Only the requested window is read; pages past the end
// are empty.
func (r *ConversationRepo) ListPage(ctx context.Context, threadID string, pageSize, pageNumber int) ([]model.Message, error) {
	if pageSize < 1 || pageNumber < 1 {
		return nil, fmt.Errorf("list messages: invalid page %d of size %d", pageNumber, pageSize)
	}
	start := int64(pageNumber-1) * int64(pageSize)
	stop := start + int64(pageSize) - 1

	ids, err := r.RDB.ZRevRange(ctx, r.Keys.ThreadMessages(threadID), start, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("list messages of thread %s: %w", threadID, err)
	}
	if len(ids) == 0 {
		return []model.Message{}, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = r.RDB.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = p.HGetAll(ctx, r.Keys.Message(threadID, id))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load messages of thread %s: %w", threadID, err)
	}

	out := make([]model.Message, 0, len(ids))
	for i, cmd := range cmds {
		vals := cmd.Val()
		if len(vals) == 0 {
			// index entry without a record; skip rather than fail the page
			continue
		}
		out = append(out, decodeMessage(threadID, ids[i], vals))
	}
	return out, nil
}

// Count returns the number of messages stored for a thread.
func (r *ConversationRepo) Count(ctx context.Context, threadID string) (int64, error) {
	n, err := r.RDB.ZCard(ctx, r.Keys.ThreadMessages(threadID)).Result()
	if err != nil {
		return 0, fmt.Errorf("count messages of thread %s: %w", threadID, err)
	}
	return n, nil
}

func decodeMessage(threadID, messageID string, vals map[string]string) model.Message {
	m := model.Message{
		ThreadID:    threadID,
		MessageID:   messageID,
		Role:        model.Role(vals["role"]),
		Content:     vals["content"],
		AssistantID: vals["assistant_id"],
	}
	if ms, err := strconv.ParseInt(vals["created_at"], 10, 64); err == nil {
		m.CreatedAt = time.UnixMilli(ms).UTC()
	}
	return m
}
