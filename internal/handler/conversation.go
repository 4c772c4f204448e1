package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/assistant-threads/internal/assistant"
	"github.com/iliyamo/assistant-threads/internal/model"
	"github.com/iliyamo/assistant-threads/internal/queue"
	"github.com/iliyamo/assistant-threads/internal/repository"
)

// UserStore confirms that a user is registered.
type UserStore interface {
	GetUser(ctx context.Context, userID string) (model.User, error)
}

// ThreadStore persists thread records.
type ThreadStore interface {
	Create(ctx context.Context, t model.Thread) error
	Get(ctx context.Context, threadID string) (model.Thread, error)
	GetAssistantID(ctx context.Context, threadID string) (string, error)
}

// MessageStore persists and pages thread messages.
type MessageStore interface {
	Append(ctx context.Context, m model.Message) error
	ListPage(ctx context.Context, threadID string, pageSize, pageNumber int) ([]model.Message, error)
	Count(ctx context.Context, threadID string) (int64, error)
}

// EventPublisher emits conversation events.  Failures never fail a request.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.ConversationEvent) error
}

// Settings are the per-deployment values the handlers need.
type Settings struct {
	AssistantID    string        // assistant bound to new threads
	Instructions   string        // instructions sent with every run
	RequestTimeout time.Duration // bound for store and gateway calls
	RunTimeout     time.Duration // how long SendMessage waits on a run
}

// ConversationHandler bundles dependencies for the thread and message
// endpoints.
type ConversationHandler struct {
	Users    UserStore
	Threads  ThreadStore
	Messages MessageStore
	Gateway  assistant.Gateway
	Events   EventPublisher
	Settings Settings
	Logger   *zap.Logger
	now      func() time.Time
}

// NewConversationHandler constructs a handler and panics if a dependency
// is missing.
func NewConversationHandler(users UserStore, threads ThreadStore, messages MessageStore, gw assistant.Gateway, events EventPublisher, s Settings, logger *zap.Logger) *ConversationHandler {
	if users == nil || threads == nil || messages == nil || gw == nil || events == nil || logger == nil {
		panic("nil dependency passed to NewConversationHandler")
	}
	return &ConversationHandler{
		Users:    users,
		Threads:  threads,
		Messages: messages,
		Gateway:  gw,
		Events:   events,
		Settings: s,
		Logger:   logger,
		now:      time.Now,
	}
}

// ----- helpers -----

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// serverError logs err with the request context and answers with a generic
// 500 so internal details never reach the client.
func (h *ConversationHandler) serverError(c echo.Context, msg string, err error) error {
	h.Logger.Error(msg,
		zap.Error(err),
		zap.String("path", c.Path()),
		zap.String("thread_id", c.Param("thread_id")),
		zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": msg})
}

// authorizeThread loads a thread and checks that userID may use it.  The
// returned error is ErrNotFound, ErrForbidden or a store failure.
func (h *ConversationHandler) authorizeThread(ctx context.Context, threadID, userID string) (model.Thread, error) {
	t, err := h.Threads.Get(ctx, threadID)
	if err != nil {
		return model.Thread{}, err
	}
	if !t.OwnedBy(userID) {
		return model.Thread{}, repository.ErrForbidden
	}
	return t, nil
}

// threadError maps authorizeThread failures onto responses.
func (h *ConversationHandler) threadError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return badRequest(c, "thread not found")
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return h.serverError(c, "load thread failed", err)
}

// publish emits ev and only logs on failure.
func (h *ConversationHandler) publish(ctx context.Context, ev queue.ConversationEvent) {
	if err := h.Events.Publish(ctx, ev); err != nil {
		h.Logger.Warn("publish conversation event failed",
			zap.Error(err),
			zap.String("type", string(ev.Type)),
			zap.String("thread_id", ev.ThreadID))
	}
}
