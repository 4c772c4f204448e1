package middleware

// identity.go holds the context key shared by the auth middleware and the
// handlers.  BearerAuth stores the resolved user id under it; UserID reads
// it back.

import "github.com/labstack/echo/v4"

const userIDKey = "user_id"

// UserID returns the authenticated user id, or "" when the request did not
// pass through BearerAuth.
func UserID(c echo.Context) string {
    if s, ok := c.Get(userIDKey).(string); ok {
        return s
    }
    return ""
}

// rateKeyUser is UserID with a placeholder for anonymous requests so rate
// limit keys never collapse to an empty segment.
func rateKeyUser(c echo.Context) string {
    if s := UserID(c); s != "" {
        return s
    }
    return "anon"
}
