package router

import (
	"github.com/labstack/echo/v4"

	"github.com/showtime/movie-booking/internal/middleware"
	"github.com/showtime/movie-booking/internal/model"
)

// registerUser wires the endpoints of authenticated users: seat locks,
// bookings, payments, profile, wishlist and notifications. The seat
// lock and booking creation endpoints additionally pass the Redis
// token-bucket limiter.
func registerUser(e *echo.Echo, d Deps) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(d.Cfg.JWTSecret),
		middleware.RequireRole(model.RoleUser, model.RoleAdmin),
	)
	limited := middleware.NewTokenBucket(d.LimitCfg, d.Redis)

	g.POST("/shows/:id/lock", d.Shows.LockSeats, limited)
	g.DELETE("/shows/:id/lock", d.Shows.ReleaseSeats)

	g.POST("/bookings", d.Bookings.Create, limited)
	g.GET("/bookings/:id", d.Bookings.Get)
	g.POST("/bookings/:id/cancel", d.Bookings.Cancel)
	g.GET("/bookings/:id/tickets", d.Bookings.ListTickets)
	g.GET("/bookings/:id/payment", d.Payments.GetByBooking)
	g.POST("/bookings/:id/payment/verify", d.Payments.Verify)
	g.GET("/my-bookings", d.Bookings.ListMine)
	g.GET("/my-bookings/history", d.Bookings.History)

	g.GET("/users/me", d.Users.GetProfile)
	g.PUT("/users/me", d.Users.UpdateProfile)
	g.POST("/users/me/password", d.Users.ChangePassword)
	g.GET("/users/me/wishlist", d.Users.ListWishlist)
	g.POST("/users/me/wishlist/:movieID", d.Users.AddWishlist)
	g.DELETE("/users/me/wishlist/:movieID", d.Users.RemoveWishlist)

	g.GET("/notifications", d.Notifs.List)
	g.GET("/notifications/stream", d.Notifs.Stream)
	g.POST("/notifications/read-all", d.Notifs.MarkAllRead)
	g.POST("/notifications/:id/read", d.Notifs.MarkRead)
}
