package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/iliyamo/assistant-threads/internal/assistant"
	"github.com/iliyamo/assistant-threads/internal/handler"
	"github.com/iliyamo/assistant-threads/internal/middleware"
	"github.com/iliyamo/assistant-threads/internal/model"
	"github.com/iliyamo/assistant-threads/internal/queue"
)

var errUnused = errors.New("not reached")

// unreachable satisfies every store and the gateway; routes under test
// never get past authentication.
type unreachable struct{}

func (unreachable) GetUser(context.Context, string) (model.User, error) { return model.User{}, errUnused }
func (unreachable) Create(context.Context, model.Thread) error { return errUnused }
func (unreachable) Get(context.Context, string) (model.Thread, error) { return model.Thread{}, errUnused }
func (unreachable) GetAssistantID(context.Context, string) (string, error) { return "", errUnused }
func (unreachable) Append(context.Context, model.Message) error { return errUnused }
func (unreachable) Count(context.Context, string) (int64, error) { return 0, errUnused }
func (unreachable) CreateThread(context.Context) (string, error) { return "", errUnused }
func (unreachable) Publish(context.Context, queue.ConversationEvent) error { return nil }
func (unreachable) Verify(context.Context, string) (string, bool) { return "", false }
func (unreachable) ListPage(context.Context, string, int, int) ([]model.Message, error) {
	return nil, errUnused
}
func (unreachable) PostMessage(context.Context, string, model.Role, string) (assistant.Message, error) {
	return assistant.Message{}, errUnused
}
func (unreachable) RunAndAwait(context.Context, string, string, string) (assistant.Run, error) {
	return assistant.Run{}, errUnused
}
func (unreachable) ListMessages(context.Context, string, int) ([]assistant.Message, error) {
	return nil, errUnused
}

func newServer() *echo.Echo {
	var u unreachable
	h := handler.NewConversationHandler(u, u, u, u, u, handler.Settings{RequestTimeout: time.Second}, zap.NewNop())

	e := echo.New()
	Use(e, zap.NewNop())
	RegisterRoutes(e)
	RegisterConversation(e, h, middleware.BearerAuth(u, time.Second), nil)
	return e
}

func TestHealthzIsPublic(t *testing.T) {
	e := newServer()
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestConversationRoutesRequireToken(t *testing.T) {
	e := newServer()
	cases := []struct{ method, path string }{
		{http.MethodPost, "/v1/threads"},
		{http.MethodPost, "/v1/threads/th_1/messages"},
		{http.MethodGet, "/v1/threads/th_1/messages"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
			assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
		})
	}
}
