package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/assistant-threads/internal/assistant"
	"github.com/iliyamo/assistant-threads/internal/middleware"
	"github.com/iliyamo/assistant-threads/internal/model"
	"github.com/iliyamo/assistant-threads/internal/queue"
	"github.com/iliyamo/assistant-threads/internal/repository"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// ----- DTOs -----

type sendMessageReq struct {
	Message string `json:"message"`
}

type listMessagesReq struct {
	PageSize   int `json:"pageSize" query:"pageSize"`     // 0 means default
	PageNumber int `json:"pageNumber" query:"pageNumber"` // 0 means first page
}

type messageItem struct {
	MessageID string     `json:"message_id"`
	Role      model.Role `json:"role"`
	Content   string     `json:"content"`
	CreatedAt int64      `json:"created_at"` // unix seconds
}

type listMessagesResp struct {
	MessageList []messageItem `json:"message_list"`
	TotalPages  int64         `json:"total_pages"`
	CurrentPage int           `json:"current_page"`
}

// SendMessage posts the caller's message to the thread, runs the assistant
// and returns its reply.  Both messages are persisted.  A run that has not
// finished within the configured wait is reported as still processing with
// a 200 so the client polls the message list.
func (h *ConversationHandler) SendMessage(c echo.Context) error {
	userID := middleware.UserID(c)
	threadID := strings.TrimSpace(c.Param("thread_id"))
	if threadID == "" {
		return badRequest(c, "thread_id is required")
	}

	var req sendMessageReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if strings.TrimSpace(req.Message) == "" {
		return badRequest(c, "message is required")
	}

	// The run wait is bounded by the gateway; the rest gets the usual budget.
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Settings.RunTimeout+2*h.Settings.RequestTimeout)
	defer cancel()

	if _, err := h.authorizeThread(ctx, threadID, userID); err != nil {
		return h.threadError(c, err)
	}
	assistantID, err := h.Threads.GetAssistantID(ctx, threadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return badRequest(c, "thread has no assistant")
		}
		return h.serverError(c, "load thread failed", err)
	}

	sent, err := h.Gateway.PostMessage(ctx, threadID, model.RoleUser, req.Message)
	if err != nil {
		return h.serverError(c, "post message failed", err)
	}
	if err := h.saveMessage(ctx, sent, userID); err != nil {
		return h.serverError(c, "save message failed", err)
	}

	run, err := h.Gateway.RunAndAwait(ctx, threadID, assistantID, h.Settings.Instructions)
	if err != nil {
		return h.serverError(c, "assistant run failed", err)
	}
	if run.Status != assistant.RunCompleted {
		return c.JSON(http.StatusOK, echo.Map{
			"message": "Assistant is still processing",
			"status":  run.Status,
		})
	}

	latest, err := h.Gateway.ListMessages(ctx, threadID, 1)
	if err != nil {
		return h.serverError(c, "fetch reply failed", err)
	}
	if len(latest) == 0 {
		return h.serverError(c, "fetch reply failed", errors.New("completed run left no messages"))
	}
	reply := latest[0]
	if err := h.saveMessage(ctx, reply, userID); err != nil {
		return h.serverError(c, "save reply failed", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Message sent successfully",
		"response": reply.Text(),
	})
}

func (h *ConversationHandler) saveMessage(ctx context.Context, m assistant.Message, userID string) error {
	if err := h.Messages.Append(ctx, m.Record()); err != nil {
		return err
	}
	ev := queue.NewEvent(queue.MessageSaved, m.ThreadID)
	ev.UserID = userID
	ev.AssistantID = m.AssistantID
	ev.MessageID = m.ID
	ev.Role = string(m.Role)
	h.publish(ctx, ev)
	return nil
}

// ListMessages returns one page of a thread's history, newest first.
// pageSize and pageNumber may come from the query string or a JSON body.
func (h *ConversationHandler) ListMessages(c echo.Context) error {
	userID := middleware.UserID(c)
	threadID := strings.TrimSpace(c.Param("thread_id"))
	if threadID == "" {
		return badRequest(c, "thread_id is required")
	}

	var req listMessagesReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid paging parameters")
	}
	size, page := req.PageSize, req.PageNumber
	if size == 0 {
		size = defaultPageSize
	}
	if page == 0 {
		page = 1
	}
	if size < 0 || page < 0 {
		return badRequest(c, "pageSize and pageNumber must be positive")
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Settings.RequestTimeout)
	defer cancel()

	_, err := h.authorizeThread(ctx, threadID, userID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		// unknown threads have no history
		return c.JSON(http.StatusOK, listMessagesResp{MessageList: []messageItem{}, CurrentPage: page})
	case err != nil:
		return h.threadError(c, err)
	}

	msgs, err := h.Messages.ListPage(ctx, threadID, size, page)
	if err != nil {
		return h.serverError(c, "list messages failed", err)
	}
	total, err := h.Messages.Count(ctx, threadID)
	if err != nil {
		return h.serverError(c, "count messages failed", err)
	}

	items := make([]messageItem, 0, len(msgs))
	for _, m := range msgs {
		items = append(items, messageItem{
			MessageID: m.MessageID,
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt.Unix(),
		})
	}
	return c.JSON(http.StatusOK, listMessagesResp{
		MessageList: items,
		TotalPages:  (total + int64(size) - 1) / int64(size),
		CurrentPage: page,
	})
}
