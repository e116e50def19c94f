package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/showtime/movie-booking/internal/model"
	"github.com/showtime/movie-booking/internal/repository"
)

// MovieHandler serves the public movie catalog plus the admin CRUD
// endpoints.
type MovieHandler struct {
	Movies *repository.MovieRepo
}

func NewMovieHandler(m *repository.MovieRepo) *MovieHandler {
	return &MovieHandler{Movies: m}
}

type movieReq struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Genre       string  `json:"genre"`
	Language    string  `json:"language"`
	DurationMin uint32  `json:"duration_min"`
	ReleaseDate *string `json:"release_date"` // YYYY-MM-DD
	Rating      *string `json:"rating"`
	PosterURL   *string `json:"poster_url"`
}

func (r *movieReq) toModel() (model.Movie, error) {
	m := model.Movie{
		Title:       strings.TrimSpace(r.Title),
		Description: r.Description,
		Genre:       strings.TrimSpace(r.Genre),
		Language:    strings.TrimSpace(r.Language),
		DurationMin: r.DurationMin,
		Rating:      r.Rating,
		PosterURL:   r.PosterURL,
		IsActive:    true,
	}
	if m.Title == "" || m.Genre == "" || m.Language == "" {
		return model.Movie{}, errors.New("title, genre and language required")
	}
	if m.DurationMin == 0 {
		return model.Movie{}, errors.New("duration_min must be positive")
	}
	if r.ReleaseDate != nil && *r.ReleaseDate != "" {
		d, err := time.Parse("2006-01-02", *r.ReleaseDate)
		if err != nil {
			return model.Movie{}, errors.New("release_date must be YYYY-MM-DD")
		}
		m.ReleaseDate = &d
	}
	return m, nil
}

// List handles GET /v1/movies. With a q parameter it searches title,
// genre and language; without one it lists all active movies.
func (h *MovieHandler) List(c echo.Context) error {
	var (
		movies []model.Movie
		err    error
	)
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		movies, err = h.Movies.Search(c.Request().Context(), q)
	} else {
		movies, err = h.Movies.ListActive(c.Request().Context())
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load movies failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toMovieResps(movies)})
}

// Upcoming handles GET /v1/movies/upcoming.
func (h *MovieHandler) Upcoming(c echo.Context) error {
	movies, err := h.Movies.ListUpcoming(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load movies failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toMovieResps(movies)})
}

// Get handles GET /v1/movies/:id.
func (h *MovieHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	m, err := h.Movies.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toMovieResp(m)})
}

// Create handles POST /v1/admin/movies.
func (h *MovieHandler) Create(c echo.Context) error {
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	m, err := req.toModel()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	id, err := h.Movies.Create(c.Request().Context(), m)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create movie failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// Update handles PUT /v1/admin/movies/:id.
func (h *MovieHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	m, err := req.toModel()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	m.ID = id
	if err := h.Movies.Update(c.Request().Context(), m); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update movie failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /v1/admin/movies/:id. The movie is only
// deactivated; shows and bookings that reference it stay intact.
func (h *MovieHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Movies.Deactivate(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete movie failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
