package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/showtime/movie-booking/internal/model"
)

// ErrTicketNotFound is returned when a ticket lookup yields no rows.
var ErrTicketNotFound = errors.New("ticket not found")

// TicketRepo provides data access to the tickets table. One ticket is
// issued per booked seat at booking time.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

const ticketColumns = `id, booking_id, ticket_number, seat_label, seat_type, price_cents, qr_ref, is_used, created_at`

// CreateBulkTx inserts all tickets of a booking in a single statement
// within the caller's transaction.
func (r *TicketRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, tickets []model.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	query := `INSERT INTO tickets (booking_id, ticket_number, seat_label, seat_type, price_cents, qr_ref) VALUES `
	args := make([]interface{}, 0, len(tickets)*6)
	for i, t := range tickets {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?)"
		args = append(args, t.BookingID, t.TicketNumber, t.SeatLabel, t.SeatType, t.PriceCents, t.QRRef)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// ListByBooking returns the tickets of a booking ordered by seat label.
func (r *TicketRepo) ListByBooking(ctx context.Context, bookingID uint64) ([]model.Ticket, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE booking_id = ? ORDER BY seat_label`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tickets []model.Ticket
	for rows.Next() {
		var t model.Ticket
		if err := rows.Scan(&t.ID, &t.BookingID, &t.TicketNumber, &t.SeatLabel, &t.SeatType,
			&t.PriceCents, &t.QRRef, &t.IsUsed, &t.CreatedAt); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tickets, nil
}

// GetByNumber fetches a ticket by its unique number.
func (r *TicketRepo) GetByNumber(ctx context.Context, number string) (model.Ticket, error) {
	var t model.Ticket
	err := r.db.QueryRowContext(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE ticket_number = ?`, number,
	).Scan(&t.ID, &t.BookingID, &t.TicketNumber, &t.SeatLabel, &t.SeatType,
		&t.PriceCents, &t.QRRef, &t.IsUsed, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Ticket{}, ErrTicketNotFound
	}
	return t, err
}

// MarkUsed flips the used flag at entry validation. The conditional
// UPDATE makes double validation of the same ticket visible as a zero
// rows-affected count.
func (r *TicketRepo) MarkUsed(ctx context.Context, number string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tickets SET is_used = 1 WHERE ticket_number = ? AND is_used = 0`, number)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTicketNotFound
	}
	return nil
}
