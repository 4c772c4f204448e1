package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/google/uuid"                        // request id generator
	"github.com/labstack/echo/v4"                   // Echo web framework for routing
	echomw "github.com/labstack/echo/v4/middleware" // Echo's bundled middleware: recover, request id, CORS
	"go.uber.org/zap"                               // structured request logging

	"github.com/iliyamo/assistant-threads/internal/handler"    // handlers that implement the endpoints
	"github.com/iliyamo/assistant-threads/internal/middleware" // bearer auth, rate limiting and logging
)

// Use installs the middleware shared by every route: panic recovery,
// request ids, request logging and the cross-origin headers the browser
// client relies on.
func Use(e *echo.Echo, logger *zap.Logger) {
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.AllowAnyOrigin())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	}))
}

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterConversation registers the thread and message endpoints under
// /v1.  Every route requires a bearer token; the rate limiter runs after
// authentication so buckets can be keyed by user.
func RegisterConversation(e *echo.Echo, h *handler.ConversationHandler, auth echo.MiddlewareFunc, limiter *middleware.RateLimiter) {
	g := e.Group("/v1", auth, limiter.Middleware())

	g.POST("/threads", h.CreateThread)
	g.POST("/threads/:thread_id/messages", h.SendMessage)
	g.GET("/threads/:thread_id/messages", h.ListMessages)
}
