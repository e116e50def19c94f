// Package middleware provides the reusable Echo middleware of the API:
// JWT authentication, role enforcement, a Redis token-bucket rate
// limiter and a Redis response cache.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/showtime/movie-booking/internal/utils"
)

// Context keys set by JWTAuth and read by handlers and downstream
// middleware.
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// JWTAuth returns a middleware that validates a Bearer access token
// and injects the user id and role into the request context. Protected
// routes read them via c.Get(ContextUserID) and c.Get(ContextRole).
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			userID, role, err := utils.ParseAccessToken(raw, secret)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set(ContextUserID, userID)
			c.Set(ContextRole, role)
			return next(c)
		}
	}
}
