// Package router registers the HTTP routes of the API. Public browse
// endpoints carry the Redis response cache; everything that mutates
// state sits behind JWT auth, and the booking endpoints additionally
// behind the rate limiter.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/showtime/movie-booking/internal/config"
	"github.com/showtime/movie-booking/internal/handler"
	"github.com/showtime/movie-booking/internal/middleware"
)

// Deps bundles everything route registration needs.
type Deps struct {
	Cfg      config.Config
	CacheCfg config.CacheConfig
	LimitCfg config.RateLimitConfig
	Redis    *redis.Client
	Auth     *handler.AuthHandler
	Users    *handler.UserHandler
	Movies   *handler.MovieHandler
	Theaters *handler.TheaterHandler
	Shows    *handler.ShowHandler
	Bookings *handler.BookingHandler
	Payments *handler.PaymentHandler
	Admin    *handler.AdminHandler
	Notifs   *handler.NotificationHandler
}

// Register wires all routes onto the Echo instance.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	registerAuth(e, d)
	registerPublic(e, d)
	registerUser(e, d)
	registerAdmin(e, d)
}

func registerAuth(e *echo.Echo, d Deps) {
	g := e.Group("/v1/auth")
	g.POST("/register", d.Auth.Register)
	g.POST("/login", d.Auth.Login)
	g.POST("/refresh", d.Auth.Refresh)

	p := e.Group("/v1/auth", middleware.JWTAuth(d.Cfg.JWTSecret))
	p.POST("/logout", d.Auth.Logout)
	p.GET("/me", d.Auth.Me)
}

// registerPublic exposes the browse endpoints guests may call. GET
// responses are cached in Redis.
func registerPublic(e *echo.Echo, d Deps) {
	cache := middleware.NewRedisCache(d.CacheCfg, d.Redis)
	g := e.Group("/v1", cache)

	g.GET("/movies", d.Movies.List)
	g.GET("/movies/upcoming", d.Movies.Upcoming)
	g.GET("/movies/:id", d.Movies.Get)
	g.GET("/movies/:id/shows", d.Shows.ListByMovie)
	g.GET("/movies/:id/show-dates", d.Shows.AvailableDates)

	g.GET("/theaters", d.Theaters.List)
	g.GET("/theaters/cities", d.Theaters.Cities)
	g.GET("/theaters/:id", d.Theaters.Get)
	g.GET("/theaters/:id/shows", d.Shows.ListByTheater)

	g.GET("/shows/:id", d.Shows.Get)

	// Seat availability must always be fresh, so it bypasses the cache.
	e.GET("/v1/shows/:id/seats", d.Shows.SeatLayout)
}
