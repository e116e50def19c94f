package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/showtime/movie-booking/internal/config"
)

func cacheTestConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:     true,
		Methods:     map[string]bool{"GET": true},
		TTL:         30 * time.Second,
		KeyStrategy: "route_query",
		Prefix:      "cache",
	}
}

// routedCacheKey reproduces the key the middleware derives after echo
// has matched the route and set the context path.
func routedCacheKey(cfg config.CacheConfig, e *echo.Echo, req *http.Request, path string) string {
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath(path)
	return cacheKey(cfg, c)
}

func TestRedisCacheMissThenStore(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	cfg := cacheTestConfig()

	e := echo.New()
	e.GET("/v1/movies", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"items": []string{}})
	}, NewRedisCache(cfg, rdb))

	req := httptest.NewRequest(http.MethodGet, "/v1/movies", nil)
	rec := httptest.NewRecorder()

	key := routedCacheKey(cfg, e, req, "/v1/movies")
	mock.ExpectGet(key).RedisNil()
	mock.Regexp().ExpectSetEx(key, `(?s).*`, cfg.TTL).SetVal("OK")

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheHitServesStoredPayload(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	cfg := cacheTestConfig()

	e := echo.New()
	handlerCalls := 0
	e.GET("/v1/movies", func(c echo.Context) error {
		handlerCalls++
		return c.JSON(http.StatusOK, echo.Map{"items": []string{}})
	}, NewRedisCache(cfg, rdb))

	hdr := http.Header{"Content-Type": []string{"application/json"}}
	payload, err := encodePayload(http.StatusOK, hdr, []byte(`{"items":["cached"]}`))
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/movies", nil)
	rec := httptest.NewRecorder()

	key := routedCacheKey(cfg, e, req, "/v1/movies")
	mock.ExpectGet(key).SetVal(string(payload))

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, `{"items":["cached"]}`, rec.Body.String())
	assert.Zero(t, handlerCalls, "handler must not run on a cache hit")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheSkipsUncachedMethod(t *testing.T) {
	rdb, mock := redismock.NewClientMock()

	e := echo.New()
	e.POST("/v1/movies", func(c echo.Context) error {
		return c.NoContent(http.StatusCreated)
	}, NewRedisCache(cacheTestConfig(), rdb))

	req := httptest.NewRequest(http.MethodPost, "/v1/movies", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheDisabledPassThrough(t *testing.T) {
	cfg := cacheTestConfig()
	cfg.Enabled = false

	e := echo.New()
	e.GET("/v1/movies", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, NewRedisCache(cfg, nil))

	req := httptest.NewRequest(http.MethodGet, "/v1/movies", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"application/json"}}
	payload, err := encodePayload(http.StatusOK, hdr, []byte("body"))
	assert.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(payload)
	assert.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, "body", string(body))
}

func TestDecodePayloadTooShort(t *testing.T) {
	_, _, _, ok := decodePayload([]byte{1, 2, 3})
	assert.False(t, ok)
}
