package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/showtime/movie-booking/internal/config"
	"github.com/showtime/movie-booking/internal/model"
	"github.com/showtime/movie-booking/internal/repository"
	"github.com/showtime/movie-booking/internal/service"
)

// Default per-seat prices in cents, applied when a show is scheduled
// without explicit prices.
const (
	defaultClassicCents = 20000
	defaultPremiumCents = 35000
)

// ShowHandler serves show browsing, the seat layout, the seat lock
// endpoints and the admin show lifecycle. Seat state changes run in
// transactions that also refresh the shows availability cache.
type ShowHandler struct {
	Cfg      config.Config
	Movies   *repository.MovieRepo
	Theaters *repository.TheaterRepo
	Shows    *repository.ShowRepo
	Seats    *repository.SeatRepo
}

func NewShowHandler(cfg config.Config, m *repository.MovieRepo, t *repository.TheaterRepo, sh *repository.ShowRepo, se *repository.SeatRepo) *ShowHandler {
	if m == nil || t == nil || sh == nil || se == nil {
		panic("nil repository passed to NewShowHandler")
	}
	return &ShowHandler{Cfg: cfg, Movies: m, Theaters: t, Shows: sh, Seats: se}
}

// refreshSeatCacheTx recomputes the denormalized availability columns
// of a show from its seat rows, inside the caller's transaction.
func (h *ShowHandler) refreshSeatCacheTx(ctx context.Context, tx *sql.Tx, showID uint64) error {
	available, err := h.Seats.CountAvailableTx(ctx, tx, showID)
	if err != nil {
		return err
	}
	booked, err := h.Seats.BookedLabelsTx(ctx, tx, showID)
	if err != nil {
		return err
	}
	return h.Shows.UpdateSeatCacheTx(ctx, tx, showID, available, labelsJSON(booked))
}

// ListByMovie handles GET /v1/movies/:id/shows?city=&date=.
func (h *ShowHandler) ListByMovie(c echo.Context) error {
	movieID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var date *time.Time
	if raw := c.QueryParam("date"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
		}
		date = &d
	}
	shows, err := h.Shows.ListByMovie(c.Request().Context(), movieID, c.QueryParam("city"), date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load shows failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toShowResps(shows)})
}

// AvailableDates handles GET /v1/movies/:id/show-dates?city=.
func (h *ShowHandler) AvailableDates(c echo.Context) error {
	movieID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	dates, err := h.Shows.AvailableDates(c.Request().Context(), movieID, c.QueryParam("city"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load dates failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": dates})
}

// ListByTheater handles GET /v1/theaters/:id/shows?date=.
func (h *ShowHandler) ListByTheater(c echo.Context) error {
	theaterID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	date := time.Now().UTC()
	if raw := c.QueryParam("date"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
		}
		date = d
	}
	shows, err := h.Shows.ListByTheaterAndDate(c.Request().Context(), theaterID, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load shows failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toShowResps(shows)})
}

// Get handles GET /v1/shows/:id.
func (h *ShowHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	s, err := h.Shows.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toShowResp(s)})
}

// SeatLayout handles GET /v1/shows/:id/seats. Availability comes from
// the seat rows themselves, not the cached counters.
func (h *ShowHandler) SeatLayout(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx := c.Request().Context()
	if _, err := h.Shows.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	seats, err := h.Seats.ListByShow(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load seats failed"})
	}
	available := 0
	for _, s := range seats {
		if s.Status == model.SeatAvailable {
			available++
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"rows":      toSeatRows(service.GroupByRow(seats)),
		"available": available,
	})
}

// LockSeats handles POST /v1/shows/:id/lock. It places a time-boxed
// lock on the requested seats so the user can complete payment. The
// expiry sweep, the availability check and the lock itself run in one
// transaction; if any requested seat cannot be locked the whole
// request fails and no seat is held.
func (h *ShowHandler) LockSeats(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		Seats []string `json:"seats"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	labels := normalizeLabels(body.Seats)
	if len(labels) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats is required"})
	}

	ctx := c.Request().Context()
	show, err := h.Shows.GetByID(ctx, showID)
	if err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !show.IsActive || show.Status != model.ShowScheduled || !show.StartsAt.After(time.Now().UTC()) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "show is not open for booking"})
	}

	tx, err := h.Shows.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := h.Seats.ReleaseExpiredLocksTx(ctx, tx, showID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cleanup expired locks"})
	}

	expiresAt := time.Now().UTC().Add(time.Duration(h.Cfg.LockTTLMin) * time.Minute)
	locked, err := h.Seats.LockTx(ctx, tx, showID, labels, userID, expiresAt)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to lock seats"})
	}
	if locked != int64(len(labels)) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "some seats are unavailable"})
	}
	if err := h.refreshSeatCacheTx(ctx, tx, showID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update availability"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusCreated, echo.Map{
		"seats":      labels,
		"expires_at": expiresAt.Format(time.RFC3339),
	})
}

// ReleaseSeats handles DELETE /v1/shows/:id/lock. It releases the
// caller's locks on the named seats, or all of their locks on the show
// when no body is sent.
func (h *ShowHandler) ReleaseSeats(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		Seats []string `json:"seats"`
	}
	_ = c.Bind(&body)
	labels := normalizeLabels(body.Seats)

	ctx := c.Request().Context()
	tx, err := h.Shows.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if len(labels) == 0 {
		// No explicit labels: release everything this user holds.
		seats, err := h.Seats.ListByShow(ctx, showID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seats"})
		}
		for _, s := range seats {
			if s.Status == model.SeatLocked && s.LockedBy != nil && *s.LockedBy == userID {
				labels = append(labels, s.Label)
			}
		}
	}

	released := int64(0)
	if len(labels) > 0 {
		released, err = h.Seats.ReleaseLocksTx(ctx, tx, showID, labels, userID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release locks"})
		}
	}
	if err := h.refreshSeatCacheTx(ctx, tx, showID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update availability"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusOK, echo.Map{"released": released})
}

// Create handles POST /v1/admin/shows. Creating a show materializes
// its seats from the screen layout in the same transaction.
func (h *ShowHandler) Create(c echo.Context) error {
	var req struct {
		MovieID           uint64 `json:"movie_id"`
		TheaterID         uint64 `json:"theater_id"`
		ScreenNumber      uint32 `json:"screen_number"`
		StartsAt          string `json:"starts_at"` // RFC3339
		TotalSeats        uint32 `json:"total_seats"`
		PriceClassicCents uint32 `json:"price_classic_cents"`
		PricePremiumCents uint32 `json:"price_premium_cents"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.MovieID == 0 || req.TheaterID == 0 || req.ScreenNumber == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_id, theater_id and screen_number required"})
	}
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be RFC3339"})
	}
	startsAt = startsAt.UTC()
	if !startsAt.After(time.Now().UTC()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be in the future"})
	}

	ctx := c.Request().Context()
	movie, err := h.Movies.GetByID(ctx, req.MovieID)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if _, err := h.Theaters.GetByID(ctx, req.TheaterID); err != nil {
		if errors.Is(err, repository.ErrTheaterNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theater not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	totalSeats := req.TotalSeats
	if totalSeats == 0 {
		totalSeats = 50
	}
	screenID, err := h.Theaters.FindOrCreateScreen(ctx, req.TheaterID, req.ScreenNumber, totalSeats)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "resolve screen failed"})
	}
	if screen, err := h.Theaters.GetScreen(ctx, screenID); err == nil && req.TotalSeats == 0 {
		totalSeats = screen.TotalSeats
	}

	priceClassic := req.PriceClassicCents
	if priceClassic == 0 {
		priceClassic = defaultClassicCents
	}
	pricePremium := req.PricePremiumCents
	if pricePremium == 0 {
		pricePremium = defaultPremiumCents
	}

	tx, err := h.Shows.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	show := model.Show{
		MovieID:           req.MovieID,
		TheaterID:         req.TheaterID,
		ScreenID:          screenID,
		ShowDate:          time.Date(startsAt.Year(), startsAt.Month(), startsAt.Day(), 0, 0, 0, 0, time.UTC),
		StartsAt:          startsAt,
		EndsAt:            service.ComputeEndTime(startsAt, movie.DurationMin),
		PriceClassicCents: priceClassic,
		PricePremiumCents: pricePremium,
		AvailableSeats:    totalSeats,
		BookedSeats:       "[]",
		Status:            model.ShowScheduled,
	}
	showID, err := h.Shows.CreateTx(ctx, tx, show)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create show failed"})
	}
	seats := service.MaterializeSeats(showID, totalSeats, priceClassic, pricePremium)
	if err := h.Seats.CreateBulkTx(ctx, tx, seats); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create seats failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusCreated, echo.Map{
		"id":          showID,
		"total_seats": totalSeats,
		"ends_at":     show.EndsAt.Format(time.RFC3339),
	})
}

// Cancel handles POST /v1/admin/shows/:id/cancel. The show stops being
// bookable; existing bookings are handled through the booking status
// endpoints.
func (h *ShowHandler) Cancel(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Shows.UpdateStatus(c.Request().Context(), id, model.ShowCancelled); err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel show failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /v1/admin/shows/:id. Deletion is blocked while
// confirmed bookings reference the show.
func (h *ShowHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx := c.Request().Context()
	busy, err := h.Shows.HasConfirmedBookings(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if busy {
		return c.JSON(http.StatusConflict, echo.Map{"error": "show has confirmed bookings"})
	}

	tx, err := h.Shows.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := h.Seats.DeleteByShowTx(ctx, tx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete seats failed"})
	}
	if err := h.Shows.DeleteTx(ctx, tx, id); err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete show failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.NoContent(http.StatusNoContent)
}

// SetMaintenance handles POST /v1/admin/shows/:id/maintenance. Only
// AVAILABLE seats can enter maintenance and only MAINTENANCE seats can
// leave it.
func (h *ShowHandler) SetMaintenance(c echo.Context) error {
	showID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req struct {
		Seats       []string `json:"seats"`
		Maintenance bool     `json:"maintenance"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	labels := normalizeLabels(req.Seats)
	if len(labels) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats is required"})
	}
	changed, err := h.Seats.SetMaintenance(c.Request().Context(), showID, labels, req.Maintenance)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update seats failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": changed})
}
