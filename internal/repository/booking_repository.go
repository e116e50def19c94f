package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/showtime/movie-booking/internal/model"
)

// ErrBookingNotFound is returned when a booking lookup yields no rows.
var ErrBookingNotFound = errors.New("booking not found")

// BookingRepo provides data access to the bookings table.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning multiple repositories.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingColumns = `id, booking_reference, user_id, show_id, seat_labels, seat_type, total_seats,
                        subtotal_cents, convenience_cents, tax_cents, total_cents,
                        booking_status, payment_status, booked_at, cancelled_at, cancellation_reason`

func scanBooking(row interface{ Scan(...interface{}) error }) (model.Booking, error) {
	var b model.Booking
	var cancelledAt sql.NullTime
	var reason sql.NullString
	err := row.Scan(&b.ID, &b.Reference, &b.UserID, &b.ShowID, &b.SeatLabels, &b.SeatType, &b.TotalSeats,
		&b.SubtotalCents, &b.ConvenienceCents, &b.TaxCents, &b.TotalCents,
		&b.BookingStatus, &b.PaymentStatus, &b.BookedAt, &cancelledAt, &reason)
	if err != nil {
		return model.Booking{}, err
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		b.CancelledAt = &t
	}
	if reason.Valid {
		b.CancellationReason = &reason.String
	}
	return b, nil
}

func collectBookings(rows *sql.Rows) ([]model.Booking, error) {
	defer rows.Close()
	var bookings []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

// CreateTx inserts a booking within the caller's transaction and
// returns its id. The reference column carries a unique index, so a
// duplicate reference fails the insert rather than silently colliding.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b model.Booking) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (booking_reference, user_id, show_id, seat_labels, seat_type, total_seats,
		                       subtotal_cents, convenience_cents, tax_cents, total_cents,
		                       booking_status, payment_status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Reference, b.UserID, b.ShowID, b.SeatLabels, b.SeatType, b.TotalSeats,
		b.SubtotalCents, b.ConvenienceCents, b.TaxCents, b.TotalCents,
		b.BookingStatus, b.PaymentStatus,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a booking by id.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Booking{}, ErrBookingNotFound
	}
	return b, err
}

// GetByIDTx is GetByID inside the caller's transaction with a row lock,
// so concurrent cancellations of the same booking serialize.
func (r *BookingRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Booking, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ? FOR UPDATE`, id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Booking{}, ErrBookingNotFound
	}
	return b, err
}

// GetByReference fetches a booking by its public reference.
func (r *BookingRepo) GetByReference(ctx context.Context, reference string) (model.Booking, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE booking_reference = ?`, reference)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Booking{}, ErrBookingNotFound
	}
	return b, err
}

// ListByUser returns a user's bookings newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE user_id = ? ORDER BY booked_at DESC, id DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

// History filters a user's bookings into the upcoming, past or
// cancelled bucket. Upcoming and past are judged by the show start
// time; cancelled covers CANCELLED and EXPIRED bookings regardless of
// show time.
func (r *BookingRepo) History(ctx context.Context, userID uint64, bucket string) ([]model.Booking, error) {
	query := `SELECT b.id, b.booking_reference, b.user_id, b.show_id, b.seat_labels, b.seat_type, b.total_seats,
	                 b.subtotal_cents, b.convenience_cents, b.tax_cents, b.total_cents,
	                 b.booking_status, b.payment_status, b.booked_at, b.cancelled_at, b.cancellation_reason
	          FROM bookings b
	          JOIN shows s ON s.id = b.show_id
	          WHERE b.user_id = ?`
	switch bucket {
	case "upcoming":
		query += ` AND b.booking_status = '` + model.BookingConfirmed + `' AND s.starts_at > UTC_TIMESTAMP()
		           ORDER BY s.starts_at`
	case "past":
		query += ` AND b.booking_status = '` + model.BookingConfirmed + `' AND s.starts_at <= UTC_TIMESTAMP()
		           ORDER BY s.starts_at DESC`
	case "cancelled":
		query += ` AND b.booking_status IN ('` + model.BookingCancelled + `', '` + model.BookingExpired + `')
		           ORDER BY b.cancelled_at DESC, b.id DESC`
	default:
		query += ` ORDER BY b.booked_at DESC, b.id DESC`
	}
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

// UpdateStatusTx applies a status change within the caller's
// transaction. CancelledAt and the reason are only written when the
// new booking status is a terminal one.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, bookingStatus, paymentStatus string, reason *string) error {
	var err error
	if bookingStatus == model.BookingCancelled || bookingStatus == model.BookingExpired {
		_, err = tx.ExecContext(ctx,
			`UPDATE bookings
			 SET booking_status = ?, payment_status = ?, cancelled_at = UTC_TIMESTAMP(), cancellation_reason = ?
			 WHERE id = ?`,
			bookingStatus, paymentStatus, reason, id,
		)
	} else {
		_, err = tx.ExecContext(ctx,
			`UPDATE bookings SET booking_status = ?, payment_status = ? WHERE id = ?`,
			bookingStatus, paymentStatus, id,
		)
	}
	return err
}

// CountSince counts bookings created at or after a timestamp,
// optionally restricted to one status.
func (r *BookingRepo) CountSince(ctx context.Context, since time.Time, status string) (uint64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE booked_at >= ?`
	args := []interface{}{since.UTC().Format(dbTime)}
	if status != "" {
		query += ` AND booking_status = ?`
		args = append(args, status)
	}
	var n uint64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}

// RevenueSince sums the total of confirmed bookings created at or
// after a timestamp, in cents.
func (r *BookingRepo) RevenueSince(ctx context.Context, since time.Time) (uint64, error) {
	var cents sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT SUM(total_cents) FROM bookings WHERE booked_at >= ? AND booking_status = ?`,
		since.UTC().Format(dbTime), model.BookingConfirmed,
	).Scan(&cents)
	if err != nil {
		return 0, err
	}
	if !cents.Valid {
		return 0, nil
	}
	return uint64(cents.Int64), nil
}
