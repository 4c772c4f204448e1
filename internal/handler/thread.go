package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/assistant-threads/internal/middleware"
	"github.com/iliyamo/assistant-threads/internal/model"
	"github.com/iliyamo/assistant-threads/internal/queue"
	"github.com/iliyamo/assistant-threads/internal/repository"
)

type createThreadReq struct {
	UserID string `json:"userId"`
}

type createThreadResp struct {
	Message     string `json:"message"`
	ThreadID    string `json:"thread_id"`
	AssistantID string `json:"assistant_id"`
	CreatedAt   string `json:"created_at"`
}

// CreateThread opens a thread on the assistant service for the
// authenticated user and records it.  An optional userId in the body must
// name the token owner.
func (h *ConversationHandler) CreateThread(c echo.Context) error {
	userID := middleware.UserID(c)

	var req createThreadReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if claimed := strings.TrimSpace(req.UserID); claimed != "" && claimed != userID {
		return badRequest(c, "userId does not match token")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Settings.RequestTimeout)
	defer cancel()

	if _, err := h.Users.GetUser(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return badRequest(c, "user not found")
		}
		return h.serverError(c, "load user failed", err)
	}

	threadID, err := h.Gateway.CreateThread(ctx)
	if err != nil {
		return h.serverError(c, "create thread failed", err)
	}

	t := model.Thread{
		ID:          threadID,
		AssistantID: h.Settings.AssistantID,
		UserID:      userID,
		CreatedAt:   h.now().UTC(),
	}
	if err := h.Threads.Create(ctx, t); err != nil {
		return h.serverError(c, "save thread failed", err)
	}

	ev := queue.NewEvent(queue.ThreadCreated, t.ID)
	ev.UserID = userID
	ev.AssistantID = t.AssistantID
	h.publish(ctx, ev)

	h.Logger.Info("thread created", zap.String("thread_id", t.ID), zap.String("user_id", userID))
	return c.JSON(http.StatusOK, createThreadResp{
		Message:     "Thread created successfully",
		ThreadID:    t.ID,
		AssistantID: t.AssistantID,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339Nano),
	})
}
