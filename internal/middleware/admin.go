package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

// AdminKeyHeader carries the shared secret for administrative endpoints
const AdminKeyHeader = "X-Admin-Key"

// AdminKey rejects requests whose X-Admin-Key header does not match key.
// An empty key disables the check.
func AdminKey(key string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if key == "" {
			return next
		}

		return func(c echo.Context) error {
			given := c.Request().Header.Get(AdminKeyHeader)
			if subtle.ConstantTimeCompare([]byte(given), []byte(key)) != 1 {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "Admin key required",
				})
			}
			return next(c)
		}
	}
}
