package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "context"  // context for the verification deadline
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming
    "time"     // timeout for the token lookup

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers
)

// TokenVerifier resolves an opaque bearer token to the id of its owner.
// ok is false for unknown tokens and for lookup failures alike.
type TokenVerifier interface {
    Verify(ctx context.Context, token string) (userID string, ok bool)
}

// BearerAuth returns an Echo middleware that requires an
// "Authorization: Bearer <token>" header and resolves the token through v on
// every request.  A missing, malformed or unknown token is rejected with
// 401 Unauthorized.  On success the owner's id is stored in the context and
// can be read with UserID.
func BearerAuth(v TokenVerifier, timeout time.Duration) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // The scheme is case-insensitive per RFC 6750; the token itself
            // is passed through untouched.
            auth := c.Request().Header.Get(echo.HeaderAuthorization)
            scheme, raw, found := strings.Cut(auth, " ")
            if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }

            ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
            defer cancel()

            userID, ok := v.Verify(ctx, strings.TrimSpace(raw))
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }
            c.Set(userIDKey, userID)
            return next(c)
        }
    }
}
