package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/showtime/movie-booking/internal/config"
)

func TestTokenBucketDisabledPassThrough(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: false}

	e := echo.New()
	e.POST("/v1/bookings", func(c echo.Context) error {
		return c.NoContent(http.StatusCreated)
	}, NewTokenBucket(cfg, nil))

	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestRateKeyStrategies(t *testing.T) {
	cfg := config.RateLimitConfig{
		Prefix:         "rl",
		RefillInterval: time.Second,
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", nil)
	req.RemoteAddr = "10.1.2.3:5000"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/bookings")
	c.Set(ContextUserID, uint64(42))

	cfg.KeyStrategy = "user"
	assert.Equal(t, "rl:user:42", rateKey(cfg, c))

	cfg.KeyStrategy = "ip"
	assert.Equal(t, "rl:ip:10.1.2.3", rateKey(cfg, c))

	cfg.KeyStrategy = "ip_user_route"
	assert.Equal(t, "rl:ip:10.1.2.3:user:42:route:POST /v1/bookings", rateKey(cfg, c))
}

func TestRateKeyAnonymous(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/movies", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	assert.Equal(t, "rl:user:anon", rateKey(cfg, c))
}
