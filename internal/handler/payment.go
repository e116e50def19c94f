package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/showtime/movie-booking/internal/model"
	"github.com/showtime/movie-booking/internal/repository"
	"github.com/showtime/movie-booking/internal/service"
)

// PaymentHandler exposes the payment record of a booking and the
// verify step that settles it. Booking creation inserts the payment in
// PENDING state; verification flips it to COMPLETED.
type PaymentHandler struct {
	Bookings *repository.BookingRepo
	Payments *repository.PaymentRepo
	Gateway  *service.DummyGateway
}

func NewPaymentHandler(b *repository.BookingRepo, p *repository.PaymentRepo, g *service.DummyGateway) *PaymentHandler {
	return &PaymentHandler{Bookings: b, Payments: p, Gateway: g}
}

// GetByBooking handles GET /v1/bookings/:id/payment.
func (h *PaymentHandler) GetByBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx := c.Request().Context()
	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if b.UserID != userID && c.Get("role") != model.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	p, err := h.Payments.GetByBooking(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "payment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toPaymentResp(p)})
}

// Verify handles POST /v1/bookings/:id/payment/verify. The pending
// payment of a confirmed booking is captured through the gateway and
// marked COMPLETED, together with the booking's payment status, in one
// transaction.
func (h *PaymentHandler) Verify(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
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
	if b.UserID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if b.BookingStatus != model.BookingConfirmed {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not confirmed"})
	}
	if b.PaymentStatus != model.PaymentPending {
		return c.JSON(http.StatusConflict, echo.Map{"error": "payment already processed"})
	}

	orderID := ""
	if p, err := h.Payments.GetByBooking(ctx, id); err == nil && p.OrderID != nil {
		orderID = *p.OrderID
	}
	txnID, paidAt := h.Gateway.Verify(orderID)

	if err := h.Payments.MarkCompletedTx(ctx, tx, id, txnID, paidAt); err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "payment already processed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to complete payment"})
	}
	if err := h.Bookings.UpdateStatusTx(ctx, tx, id, b.BookingStatus, model.PaymentCompleted, nil); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	p, err := h.Payments.GetByBooking(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load payment failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toPaymentResp(p)})
}
