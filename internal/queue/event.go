// Package queue defines message payloads exchanged over the message broker
// and the consumer that audits them.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// EventType names what happened to a conversation.
type EventType string

const (
	ThreadCreated EventType = "thread.created"
	MessageSaved  EventType = "message.saved"
)

// ConversationEvent is published after a thread or message is persisted.
// It carries ids and metadata only, never message content, so downstream
// consumers (audit, analytics) cannot leak conversation text.
type ConversationEvent struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	ThreadID    string    `json:"thread_id"`
	UserID      string    `json:"user_id,omitempty"`
	AssistantID string    `json:"assistant_id,omitempty"`
	MessageID   string    `json:"message_id,omitempty"`
	Role        string    `json:"role,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// NewEvent stamps a fresh event id and the current UTC time.
func NewEvent(typ EventType, threadID string) ConversationEvent {
	return ConversationEvent{
		ID:         uuid.NewString(),
		Type:       typ,
		ThreadID:   threadID,
		OccurredAt: time.Now().UTC(),
	}
}
