package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/showtime/movie-booking/internal/model"
	"github.com/showtime/movie-booking/internal/utils"
)

const testSecret = "test-secret"

func protectedEcho(mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	h := func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"user_id": c.Get(ContextUserID),
			"role":    c.Get(ContextRole),
		})
	}
	e.GET("/protected", h, mw...)
	return e
}

func TestJWTAuthValidToken(t *testing.T) {
	token, err := utils.NewAccessToken(42, model.RoleUser, testSecret, time.Minute)
	require.NoError(t, err)

	e := protectedEcho(JWTAuth(testSecret))
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":42`)
	assert.Contains(t, rec.Body.String(), `"role":"USER"`)
}

func TestJWTAuthMissingHeader(t *testing.T) {
	e := protectedEcho(JWTAuth(testSecret))
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthBadToken(t *testing.T) {
	token, err := utils.NewAccessToken(42, model.RoleUser, "other-secret", time.Minute)
	require.NoError(t, err)

	e := protectedEcho(JWTAuth(testSecret))
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoleAllows(t *testing.T) {
	token, err := utils.NewAccessToken(1, model.RoleAdmin, testSecret, time.Minute)
	require.NoError(t, err)

	e := protectedEcho(JWTAuth(testSecret), RequireRole(model.RoleAdmin))
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleRejects(t *testing.T) {
	token, err := utils.NewAccessToken(1, model.RoleUser, testSecret, time.Minute)
	require.NoError(t, err)

	e := protectedEcho(JWTAuth(testSecret), RequireRole(model.RoleAdmin))
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
