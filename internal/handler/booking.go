package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/showtime/movie-booking/internal/config"
	"github.com/showtime/movie-booking/internal/model"
	"github.com/showtime/movie-booking/internal/queue"
	"github.com/showtime/movie-booking/internal/repository"
	"github.com/showtime/movie-booking/internal/service"
	"github.com/showtime/movie-booking/internal/utils"
)

// BookingHandler implements booking creation, lookup, history and
// cancellation. Creation is the hot path of the whole system: the seat
// transition to BOOKED, the booking row, the payment and the tickets
// all commit in one transaction, and the rows-affected count of the
// seat update is what guarantees no seat is ever sold twice.
type BookingHandler struct {
	Cfg      config.Config
	Bookings *repository.BookingRepo
	Shows    *repository.ShowRepo
	Seats    *repository.SeatRepo
	Payments *repository.PaymentRepo
	Tickets  *repository.TicketRepo
	Movies   *repository.MovieRepo
	Theaters *repository.TheaterRepo
	Gateway  *service.DummyGateway
}

func NewBookingHandler(cfg config.Config, b *repository.BookingRepo, sh *repository.ShowRepo, se *repository.SeatRepo,
	p *repository.PaymentRepo, t *repository.TicketRepo, m *repository.MovieRepo, th *repository.TheaterRepo,
	g *service.DummyGateway) *BookingHandler {
	if b == nil || sh == nil || se == nil || p == nil || t == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{
		Cfg: cfg, Bookings: b, Shows: sh, Seats: se,
		Payments: p, Tickets: t, Movies: m, Theaters: th, Gateway: g,
	}
}

type bookingResp struct {
	ID            uint64                 `json:"id"`
	Reference     string                 `json:"booking_reference"`
	ShowID        uint64                 `json:"show_id"`
	Seats         []string               `json:"seats"`
	SeatType      string                 `json:"seat_type"`
	Price         service.PriceBreakdown `json:"price"`
	BookingStatus string                 `json:"booking_status"`
	PaymentStatus string                 `json:"payment_status"`
	BookedAt      time.Time              `json:"booked_at"`
}

func toBookingResp(b model.Booking) bookingResp {
	return bookingResp{
		ID:        b.ID,
		Reference: b.Reference,
		ShowID:    b.ShowID,
		Seats:     labelsFromJSON(b.SeatLabels),
		SeatType:  b.SeatType,
		Price: service.PriceBreakdown{
			SubtotalCents:    b.SubtotalCents,
			ConvenienceCents: b.ConvenienceCents,
			TaxCents:         b.TaxCents,
			TotalCents:       b.TotalCents,
		},
		BookingStatus: b.BookingStatus,
		PaymentStatus: b.PaymentStatus,
		BookedAt:      b.BookedAt,
	}
}

// seatType derives the booking tier from the selected seats.
func seatType(seats []model.Seat) string {
	t := seats[0].SeatType
	for _, s := range seats[1:] {
		if s.SeatType != t {
			return "MIXED"
		}
	}
	return t
}

// Create handles POST /v1/bookings.
//
// Inside one transaction: expired locks are swept, the requested seats
// are loaded and validated, the booking row is inserted, the seats are
// transitioned to BOOKED with a single conditional UPDATE (counting
// rows affected), tickets and a pending payment order are written and
// the show availability cache refreshed. If the seat update touches
// fewer rows than requested, another booking won the race and
// everything rolls back. The booking commits CONFIRMED with its
// payment still PENDING; capture happens through the payment verify
// endpoint.
func (h *BookingHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		ShowID uint64   `json:"show_id"`
		Seats  []string `json:"seats"`
		Method string   `json:"payment_method"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.ShowID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "show_id is required"})
	}
	labels := normalizeLabels(body.Seats)
	if len(labels) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats is required"})
	}
	if len(labels) > 10 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at most 10 seats per booking"})
	}
	method := strings.ToUpper(strings.TrimSpace(body.Method))
	if method == "" {
		method = "CARD"
	}

	ctx := c.Request().Context()
	show, err := h.Shows.GetByID(ctx, body.ShowID)
	if err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !show.IsActive || show.Status != model.ShowScheduled || !show.StartsAt.After(time.Now().UTC()) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "show is not open for booking"})
	}

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

	if _, err := h.Seats.ReleaseExpiredLocksTx(ctx, tx, show.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cleanup expired locks"})
	}

	seats, err := h.Seats.FindByShowAndLabelsTx(ctx, tx, show.ID, labels)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seats"})
	}
	if len(seats) != len(labels) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown seat labels for this show"})
	}

	price := service.ComputePrice(seats)
	now := time.Now().UTC()
	booking := model.Booking{
		Reference:        utils.BookingReference(userID, now),
		UserID:           userID,
		ShowID:           show.ID,
		SeatLabels:       labelsJSON(labels),
		SeatType:         seatType(seats),
		TotalSeats:       uint32(len(labels)),
		SubtotalCents:    price.SubtotalCents,
		ConvenienceCents: price.ConvenienceCents,
		TaxCents:         price.TaxCents,
		TotalCents:       price.TotalCents,
		BookingStatus:    model.BookingPending,
		PaymentStatus:    model.PaymentPending,
	}
	bookingID, err := h.Bookings.CreateTx(ctx, tx, booking)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
	}

	booked, err := h.Seats.MarkBookedTx(ctx, tx, show.ID, labels, bookingID, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to book seats"})
	}
	if booked != int64(len(labels)) {
		// Another request won one of the seats; the deferred rollback
		// undoes the booking row and any partial seat updates.
		return c.JSON(http.StatusConflict, echo.Map{"error": "some seats are no longer available"})
	}

	payment := h.Gateway.CreateOrder(bookingID, method, price.TotalCents)
	if _, err := h.Payments.CreateTx(ctx, tx, payment); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record payment"})
	}

	tickets := make([]model.Ticket, 0, len(seats))
	for _, s := range seats {
		tickets = append(tickets, model.Ticket{
			BookingID:    bookingID,
			TicketNumber: utils.TicketNumber(),
			SeatLabel:    s.Label,
			SeatType:     s.SeatType,
			PriceCents:   s.PriceCents,
			QRRef:        utils.QRRef(booking.Reference, s.Label),
		})
	}
	if err := h.Tickets.CreateBulkTx(ctx, tx, tickets); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue tickets"})
	}

	if err := h.Bookings.UpdateStatusTx(ctx, tx, bookingID, model.BookingConfirmed, model.PaymentPending, nil); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to confirm booking"})
	}
	if err := h.refreshSeatCacheTx(ctx, tx, show.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update availability"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	go h.publishConfirmed(bookingID, booking, show, labels, price.TotalCents, now)

	booking.ID = bookingID
	booking.BookingStatus = model.BookingConfirmed
	booking.BookedAt = now
	return c.JSON(http.StatusCreated, toBookingResp(booking))
}

// publishConfirmed emits the confirmation event after commit. Failures
// are logged by the publisher and otherwise ignored; the booking is
// already durable.
func (h *BookingHandler) publishConfirmed(bookingID uint64, b model.Booking, show model.Show, labels []string, totalCents uint32, at time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ev := queue.BookingConfirmedEvent{
		BookingID:        bookingID,
		Reference:        b.Reference,
		UserID:           b.UserID,
		ShowID:           show.ID,
		StartsAt:         show.StartsAt.Format(time.RFC3339),
		SeatLabels:       labels,
		TotalAmountCents: totalCents,
		ConfirmedAt:      at.Format(time.RFC3339),
	}
	if movie, err := h.Movies.GetByID(ctx, show.MovieID); err == nil {
		ev.MovieTitle = movie.Title
	}
	if theater, err := h.Theaters.GetByID(ctx, show.TheaterID); err == nil {
		ev.TheaterName = theater.Name
		ev.City = theater.City
	}
	_ = queue.PublishBookingConfirmed(ctx, ev)
}

// refreshSeatCacheTx mirrors ShowHandler.refreshSeatCacheTx for the
// booking paths.
func (h *BookingHandler) refreshSeatCacheTx(ctx context.Context, tx *sql.Tx, showID uint64) error {
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

// Get handles GET /v1/bookings/:id. Owners see their own bookings;
// admins see all.
func (h *BookingHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	b, err := h.Bookings.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if b.UserID != userID && c.Get("role") != model.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toBookingResp(b)})
}

// ListMine handles GET /v1/my-bookings.
func (h *BookingHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookings, err := h.Bookings.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load bookings failed"})
	}
	items := make([]bookingResp, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, toBookingResp(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// History handles GET /v1/my-bookings/history?bucket=upcoming|past|cancelled.
func (h *BookingHandler) History(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bucket := strings.ToLower(strings.TrimSpace(c.QueryParam("bucket")))
	switch bucket {
	case "", "upcoming", "past", "cancelled":
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bucket must be upcoming, past or cancelled"})
	}
	bookings, err := h.Bookings.History(c.Request().Context(), userID, bucket)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load history failed"})
	}
	items := make([]bookingResp, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, toBookingResp(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Tickets handles GET /v1/bookings/:id/tickets.
func (h *BookingHandler) ListTickets(c echo.Context) error {
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
	tickets, err := h.Tickets.ListByBooking(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load tickets failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toTicketResps(tickets)})
}

// Cancel handles POST /v1/bookings/:id/cancel. Only the owner may
// cancel, only while the status transition is legal and only before
// the show starts. Seats return to AVAILABLE and a full dummy refund
// is recorded, all in one transaction.
func (h *BookingHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.Bind(&body)
	reason := strings.TrimSpace(body.Reason)

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
	if !service.CanTransition(b.BookingStatus, model.BookingCancelled) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking cannot be cancelled from status " + b.BookingStatus})
	}
	show, err := h.Shows.GetByIDTx(ctx, tx, b.ShowID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load show failed"})
	}
	if !show.StartsAt.After(time.Now().UTC()) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "show already started"})
	}

	released, err := h.Seats.ReleaseByBookingTx(ctx, tx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release seats"})
	}

	refund := h.Gateway.RefundAmount(b)
	paymentStatus := b.PaymentStatus
	if refund > 0 {
		paymentStatus = model.PaymentRefunded
		var reasonPtr *string
		if reason != "" {
			reasonPtr = &reason
		}
		if err := h.Payments.MarkRefundedTx(ctx, tx, id, refund, reasonPtr); err != nil && !errors.Is(err, repository.ErrPaymentNotFound) {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record refund"})
		}
	}

	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}
	if err := h.Bookings.UpdateStatusTx(ctx, tx, id, model.BookingCancelled, paymentStatus, reasonPtr); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking"})
	}
	if err := h.refreshSeatCacheTx(ctx, tx, b.ShowID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update availability"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	go h.publishCancelled(b, show, released, refund, reason)

	return c.JSON(http.StatusOK, echo.Map{
		"booking_status": model.BookingCancelled,
		"refund_cents":   refund,
	})
}

func (h *BookingHandler) publishCancelled(b model.Booking, show model.Show, labels []string, refund uint32, reason string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ev := queue.BookingCancelledEvent{
		BookingID:   b.ID,
		Reference:   b.Reference,
		UserID:      b.UserID,
		ShowID:      b.ShowID,
		SeatLabels:  labels,
		RefundCents: refund,
		Reason:      reason,
		CancelledAt: time.Now().UTC().Format(time.RFC3339),
	}
	if movie, err := h.Movies.GetByID(ctx, show.MovieID); err == nil {
		ev.MovieTitle = movie.Title
	}
	_ = queue.PublishBookingCancelled(ctx, ev)
}
