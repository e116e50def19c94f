package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/showtime/movie-booking/internal/model"
	"github.com/showtime/movie-booking/internal/repository"
	"github.com/showtime/movie-booking/internal/service"
)

// AdminHandler serves booking administration: forced status changes
// (with the same transition whitelist users get) and aggregate stats.
type AdminHandler struct {
	Bookings *repository.BookingRepo
	Seats    *repository.SeatRepo
	Shows    *repository.ShowRepo
	Payments *repository.PaymentRepo
}

func NewAdminHandler(b *repository.BookingRepo, se *repository.SeatRepo, sh *repository.ShowRepo, p *repository.PaymentRepo) *AdminHandler {
	return &AdminHandler{Bookings: b, Seats: se, Shows: sh, Payments: p}
}

// UpdateBookingStatus handles PATCH /v1/admin/bookings/:id/status.
// Transitions must pass the whitelist; moves into CANCELLED or EXPIRED
// release the booking's seats.
func (h *AdminHandler) UpdateBookingStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	target := strings.ToUpper(strings.TrimSpace(body.Status))
	switch target {
	case model.BookingConfirmed, model.BookingCancelled, model.BookingExpired:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be CONFIRMED, CANCELLED or EXPIRED"})
	}

	ctx := c.Request().Context()
	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := h.Bookings.GetByIDTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !service.CanTransition(b.BookingStatus, target) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "illegal transition " + b.BookingStatus + " -> " + target,
		})
	}

	paymentStatus := b.PaymentStatus
	var reasonPtr *string
	if r := strings.TrimSpace(body.Reason); r != "" {
		reasonPtr = &r
	}

	if target == model.BookingCancelled || target == model.BookingExpired {
		if _, err := h.Seats.ReleaseByBookingTx(ctx, tx, id); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release seats"})
		}
		if target == model.BookingCancelled && (b.PaymentStatus == model.PaymentCompleted || b.PaymentStatus == model.PaymentPending) {
			paymentStatus = model.PaymentRefunded
			if err := h.Payments.MarkRefundedTx(ctx, tx, id, b.TotalCents, reasonPtr); err != nil && !errors.Is(err, repository.ErrPaymentNotFound) {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record refund"})
			}
		}
	}

	if err := h.Bookings.UpdateStatusTx(ctx, tx, id, target, paymentStatus, reasonPtr); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking"})
	}
	if err := h.refreshSeatCacheTx(ctx, tx, b.ShowID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update availability"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusOK, echo.Map{"booking_status": target})
}

func (h *AdminHandler) refreshSeatCacheTx(ctx context.Context, tx *sql.Tx, showID uint64) error {
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

// Stats handles GET /v1/admin/stats?days=N. Revenue covers confirmed
// bookings only.
func (h *AdminHandler) Stats(c echo.Context) error {
	days := 30
	if raw := c.QueryParam("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "days must be a positive integer"})
		}
		days = n
	}
	since := time.Now().UTC().AddDate(0, 0, -days)
	ctx := c.Request().Context()

	total, err := h.Bookings.CountSince(ctx, since, "")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load stats failed"})
	}
	confirmed, err := h.Bookings.CountSince(ctx, since, model.BookingConfirmed)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load stats failed"})
	}
	cancelled, err := h.Bookings.CountSince(ctx, since, model.BookingCancelled)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load stats failed"})
	}
	revenue, err := h.Bookings.RevenueSince(ctx, since)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load stats failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"since":              since.Format(time.RFC3339),
		"bookings_total":     total,
		"bookings_confirmed": confirmed,
		"bookings_cancelled": cancelled,
		"revenue_cents":      revenue,
	})
}
