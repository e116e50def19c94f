package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// requestUserID returns the authenticated user id as a string for use
// in rate-limit keys. Unauthenticated requests share the "anon"
// identity and are limited per IP instead.
func requestUserID(c echo.Context) string {
	if v, ok := c.Get(ContextUserID).(uint64); ok && v != 0 {
		return strconv.FormatUint(v, 10)
	}
	return "anon"
}
