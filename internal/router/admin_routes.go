package router

import (
	"github.com/labstack/echo/v4"

	"github.com/showtime/movie-booking/internal/middleware"
	"github.com/showtime/movie-booking/internal/model"
)

// registerAdmin wires catalog management and booking administration
// under /v1/admin, restricted to the ADMIN role.
func registerAdmin(e *echo.Echo, d Deps) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(d.Cfg.JWTSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	g.POST("/movies", d.Movies.Create)
	g.PUT("/movies/:id", d.Movies.Update)
	g.DELETE("/movies/:id", d.Movies.Delete)

	g.POST("/theaters", d.Theaters.Create)
	g.PUT("/theaters/:id", d.Theaters.Update)
	g.POST("/theaters/:id/screens", d.Theaters.CreateScreen)

	g.POST("/shows", d.Shows.Create)
	g.POST("/shows/:id/cancel", d.Shows.Cancel)
	g.DELETE("/shows/:id", d.Shows.Delete)
	g.POST("/shows/:id/maintenance", d.Shows.SetMaintenance)

	g.PATCH("/bookings/:id/status", d.Admin.UpdateBookingStatus)
	g.GET("/stats", d.Admin.Stats)
}
