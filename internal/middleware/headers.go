package middleware

import "github.com/labstack/echo/v4"

// AllowAnyOrigin stamps a permissive Access-Control-Allow-Origin header on
// every response, including errors and requests that carry no Origin
// header.  Echo's CORS middleware still answers preflight requests.
func AllowAnyOrigin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set(echo.HeaderAccessControlAllowOrigin, "*")
			return next(c)
		}
	}
}
