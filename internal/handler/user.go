package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/showtime/movie-booking/internal/config"
	"github.com/showtime/movie-booking/internal/repository"
	"github.com/showtime/movie-booking/internal/utils"
)

// UserHandler serves profile and wishlist endpoints of the current
// user.
type UserHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
	Movies *repository.MovieRepo
}

func NewUserHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo, m *repository.MovieRepo) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: u, Tokens: t, Movies: m}
}

type profileResp struct {
	ID       uint64  `json:"id"`
	Email    string  `json:"email"`
	FullName string  `json:"full_name"`
	Phone    *string `json:"phone"`
	Role     string  `json:"role"`
}

// GetProfile handles GET /v1/users/me.
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	u, err := h.Users.GetByID(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, profileResp{
		ID: u.ID, Email: u.Email, FullName: u.FullName, Phone: u.Phone, Role: u.Role,
	})
}

// UpdateProfile handles PUT /v1/users/me.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req struct {
		FullName string  `json:"full_name"`
		Phone    *string `json:"phone"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.FullName = strings.TrimSpace(req.FullName)
	if req.FullName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "full_name required"})
	}
	if err := h.Users.UpdateProfile(c.Request().Context(), userID, req.FullName, req.Phone); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ChangePassword handles POST /v1/users/me/password. All refresh
// tokens are revoked on success so stolen sessions die with the old
// password.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req.NewPassword) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 8 characters"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	if !utils.CheckPassword(u.PasswordHash, req.CurrentPassword) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "current password incorrect"})
	}
	hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}
	if err := h.Users.UpdatePassword(ctx, userID, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	_ = h.Tokens.RevokeAllForUser(ctx, userID)
	return c.NoContent(http.StatusNoContent)
}

// AddWishlist handles POST /v1/users/me/wishlist/:movieID.
func (h *UserHandler) AddWishlist(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	movieID, err := pathID(c, "movieID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx := c.Request().Context()
	if _, err := h.Movies.GetByID(ctx, movieID); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := h.Movies.AddToWishlist(ctx, userID, movieID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "wishlist update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveWishlist handles DELETE /v1/users/me/wishlist/:movieID.
func (h *UserHandler) RemoveWishlist(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	movieID, err := pathID(c, "movieID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Movies.RemoveFromWishlist(c.Request().Context(), userID, movieID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "wishlist update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListWishlist handles GET /v1/users/me/wishlist.
func (h *UserHandler) ListWishlist(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	movies, err := h.Movies.ListWishlist(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load wishlist failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toMovieResps(movies)})
}
