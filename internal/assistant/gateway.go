// Package assistant talks to the hosted conversational assistant.  The
// service owns thread and message ids; this package only translates between
// its wire types and the domain model.
package assistant

import (
	"context"
	"time"

	"github.com/iliyamo/assistant-threads/internal/model"
)

// RunStatus is the lifecycle state of an assistant run.
type RunStatus string

const (
	RunQueued         RunStatus = "queued"
	RunInProgress     RunStatus = "in_progress"
	RunRequiresAction RunStatus = "requires_action"
	RunCancelling     RunStatus = "cancelling"
	RunCancelled      RunStatus = "cancelled"
	RunFailed         RunStatus = "failed"
	RunCompleted      RunStatus = "completed"
	RunIncomplete     RunStatus = "incomplete"
	RunExpired        RunStatus = "expired"
)

// Terminal reports whether polling a run in this state can stop.
// requires_action is terminal here because no tool outputs are ever
// submitted.
func (s RunStatus) Terminal() bool {
	switch s {
	case RunQueued, RunInProgress, RunCancelling:
		return false
	}
	return true
}

// Run is the outcome of RunAndAwait.
type Run struct {
	ID     string
	Status RunStatus
}

// Message is a message as returned by the assistant service, before its
// content blocks are flattened for storage.
type Message struct {
	ID          string
	ThreadID    string
	Role        model.Role
	Blocks      []model.ContentBlock
	CreatedAt   time.Time
	AssistantID string
}

// Text returns the message body with only text blocks kept.
func (m Message) Text() string { return model.FlattenText(m.Blocks) }

// Record converts m into the persisted message shape.
func (m Message) Record() model.Message {
	return model.Message{
		ThreadID:    m.ThreadID,
		MessageID:   m.ID,
		Role:        m.Role,
		Content:     m.Text(),
		CreatedAt:   m.CreatedAt,
		AssistantID: m.AssistantID,
	}
}

// Gateway is the contract handlers rely on.
type Gateway interface {
	// CreateThread opens an empty thread and returns its id.
	CreateThread(ctx context.Context) (string, error)
	// PostMessage appends text to a thread.
	PostMessage(ctx context.Context, threadID string, role model.Role, text string) (Message, error)
	// RunAndAwait starts a run and waits for a terminal status.  If the
	// wait is cut short it returns the last observed status and no error.
	RunAndAwait(ctx context.Context, threadID, assistantID, instructions string) (Run, error)
	// ListMessages returns up to limit messages, newest first.
	ListMessages(ctx context.Context, threadID string, limit int) ([]Message, error)
}
