package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/showtime/movie-booking/internal/model"
	"github.com/showtime/movie-booking/internal/repository"
)

// TheaterHandler serves theater and screen endpoints.
type TheaterHandler struct {
	Theaters *repository.TheaterRepo
}

func NewTheaterHandler(t *repository.TheaterRepo) *TheaterHandler {
	return &TheaterHandler{Theaters: t}
}

// List handles GET /v1/theaters with an optional city filter.
func (h *TheaterHandler) List(c echo.Context) error {
	city := strings.TrimSpace(c.QueryParam("city"))
	theaters, err := h.Theaters.List(c.Request().Context(), city)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load theaters failed"})
	}
	items := make([]theaterResp, 0, len(theaters))
	for _, t := range theaters {
		items = append(items, toTheaterResp(t))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Cities handles GET /v1/theaters/cities.
func (h *TheaterHandler) Cities(c echo.Context) error {
	cities, err := h.Theaters.Cities(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load cities failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": cities})
}

// Get handles GET /v1/theaters/:id, including the theater's screens.
func (h *TheaterHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx := c.Request().Context()
	t, err := h.Theaters.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTheaterNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theater not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	screens, err := h.Theaters.ListScreens(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load screens failed"})
	}
	out := make([]screenResp, 0, len(screens))
	for _, s := range screens {
		out = append(out, toScreenResp(s))
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toTheaterResp(t), "screens": out})
}

// Create handles POST /v1/admin/theaters.
func (h *TheaterHandler) Create(c echo.Context) error {
	var req struct {
		Name    string  `json:"name"`
		City    string  `json:"city"`
		Address *string `json:"address"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.City = strings.TrimSpace(req.City)
	if req.Name == "" || req.City == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and city required"})
	}
	id, err := h.Theaters.Create(c.Request().Context(), req.Name, req.City, req.Address)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create theater failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// Update handles PUT /v1/admin/theaters/:id.
func (h *TheaterHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req struct {
		Name     string  `json:"name"`
		City     string  `json:"city"`
		Address  *string `json:"address"`
		IsActive *bool   `json:"is_active"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.City = strings.TrimSpace(req.City)
	if req.Name == "" || req.City == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and city required"})
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	t := model.Theater{ID: id, Name: req.Name, City: req.City, Address: req.Address, IsActive: active}
	if err := h.Theaters.Update(c.Request().Context(), t); err != nil {
		if errors.Is(err, repository.ErrTheaterNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theater not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update theater failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateScreen handles POST /v1/admin/theaters/:id/screens.
func (h *TheaterHandler) CreateScreen(c echo.Context) error {
	theaterID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req struct {
		ScreenNumber uint32 `json:"screen_number"`
		Name         string `json:"name"`
		TotalSeats   uint32 `json:"total_seats"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ScreenNumber == 0 || req.TotalSeats == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "screen_number and total_seats must be positive"})
	}
	ctx := c.Request().Context()
	if _, err := h.Theaters.GetByID(ctx, theaterID); err != nil {
		if errors.Is(err, repository.ErrTheaterNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theater not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	id, err := h.Theaters.CreateScreen(ctx, model.Screen{
		TheaterID:    theaterID,
		ScreenNumber: req.ScreenNumber,
		Name:         strings.TrimSpace(req.Name),
		TotalSeats:   req.TotalSeats,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create screen failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}
