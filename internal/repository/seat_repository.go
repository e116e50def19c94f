package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/showtime/movie-booking/internal/model"
)

// ErrSeatNotFound is returned when a seat lookup yields no rows.
var ErrSeatNotFound = errors.New("seat not found")

// SeatRepo provides data access to the seats table. Seats belong to
// exactly one show and are created in bulk when the show is scheduled.
//
// Status transitions are implemented as single conditional UPDATE
// statements filtered on the current status, so two concurrent booking
// attempts for the same seat can never both succeed: the database
// applies the filter and the write atomically and the loser sees a
// smaller rows-affected count. Callers must treat a partial count as a
// race and roll back their transaction. All timestamps are UTC.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo returns a SeatRepo bound to the given database.
func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{db: db} }

const seatColumns = `id, show_id, seat_label, row_label, seat_column, seat_type, price_cents,
                     status, booking_id, locked_by, locked_until, created_at, updated_at`

func scanSeat(row interface{ Scan(...interface{}) error }) (model.Seat, error) {
	var s model.Seat
	var bookingID, lockedBy sql.NullInt64
	var lockedUntil sql.NullTime
	err := row.Scan(
		&s.ID, &s.ShowID, &s.Label, &s.RowLabel, &s.SeatColumn, &s.SeatType, &s.PriceCents,
		&s.Status, &bookingID, &lockedBy, &lockedUntil, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return model.Seat{}, err
	}
	if bookingID.Valid {
		v := uint64(bookingID.Int64)
		s.BookingID = &v
	}
	if lockedBy.Valid {
		v := uint64(lockedBy.Int64)
		s.LockedBy = &v
	}
	if lockedUntil.Valid {
		t := lockedUntil.Time
		s.LockedUntil = &t
	}
	return s, nil
}

// placeholders returns "?, ?, ..." with n entries for IN clauses.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// CreateBulkTx inserts all seats of a show in a single statement within
// the provided transaction. Passing an empty slice has no effect.
func (r *SeatRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seats (show_id, seat_label, row_label, seat_column, seat_type, price_cents, status) VALUES `
	args := make([]interface{}, 0, len(seats)*7)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?, ?)"
		args = append(args, s.ShowID, s.Label, s.RowLabel, s.SeatColumn, s.SeatType, s.PriceCents, s.Status)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// ListByShow returns all seats for a show ordered by row then column.
func (r *SeatRepo) ListByShow(ctx context.Context, showID uint64) ([]model.Seat, error) {
	const q = `SELECT ` + seatColumns + `
	           FROM seats
	           WHERE show_id = ?
	           ORDER BY row_label, seat_column`
	rows, err := r.db.QueryContext(ctx, q, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Seat
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// FindByShowAndLabelsTx returns the seats of a show matching the given
// labels, inside the caller's transaction. When fewer rows come back
// than labels were requested, some labels do not exist for the show and
// the caller must fail the whole request.
func (r *SeatRepo) FindByShowAndLabelsTx(ctx context.Context, tx *sql.Tx, showID uint64, labels []string) ([]model.Seat, error) {
	if len(labels) == 0 {
		return []model.Seat{}, nil
	}
	query := `SELECT ` + seatColumns + `
	          FROM seats
	          WHERE show_id = ? AND seat_label IN (` + placeholders(len(labels)) + `)
	          ORDER BY row_label, seat_column`
	args := make([]interface{}, 0, len(labels)+1)
	args = append(args, showID)
	for _, l := range labels {
		args = append(args, l)
	}
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Seat
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// LockTx attempts to transition the named seats from AVAILABLE to
// LOCKED for the given holder, with the supplied expiry. It is a single
// filtered UPDATE; the returned count is the number of seats actually
// locked. A count smaller than len(labels) means another request won
// one or more of the seats and the caller must roll back.
func (r *SeatRepo) LockTx(ctx context.Context, tx *sql.Tx, showID uint64, labels []string, userID uint64, until time.Time) (int64, error) {
	if len(labels) == 0 {
		return 0, nil
	}
	query := `UPDATE seats
	          SET status = ?, locked_by = ?, locked_until = ?, updated_at = CURRENT_TIMESTAMP
	          WHERE show_id = ? AND seat_label IN (` + placeholders(len(labels)) + `) AND status = ?`
	args := make([]interface{}, 0, len(labels)+5)
	args = append(args, model.SeatLocked, userID, until.UTC().Format("2006-01-02 15:04:05"), showID)
	for _, l := range labels {
		args = append(args, l)
	}
	args = append(args, model.SeatAvailable)
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ReleaseLocksTx releases the holder's locks on the named seats back to
// AVAILABLE. Expired or never-locked labels are simply not matched.
func (r *SeatRepo) ReleaseLocksTx(ctx context.Context, tx *sql.Tx, showID uint64, labels []string, userID uint64) (int64, error) {
	if len(labels) == 0 {
		return 0, nil
	}
	query := `UPDATE seats
	          SET status = ?, locked_by = NULL, locked_until = NULL, updated_at = CURRENT_TIMESTAMP
	          WHERE show_id = ? AND seat_label IN (` + placeholders(len(labels)) + `)
	            AND status = ? AND locked_by = ?`
	args := make([]interface{}, 0, len(labels)+4)
	args = append(args, model.SeatAvailable, showID)
	for _, l := range labels {
		args = append(args, l)
	}
	args = append(args, model.SeatLocked, userID)
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ReleaseExpiredLocksTx sweeps locks of a show whose expiry has passed
// back to AVAILABLE. The sweep is opportunistic: it runs at the start
// of lock and booking transactions rather than on a timer.
func (r *SeatRepo) ReleaseExpiredLocksTx(ctx context.Context, tx *sql.Tx, showID uint64) (int64, error) {
	const q = `UPDATE seats
	           SET status = ?, locked_by = NULL, locked_until = NULL, updated_at = CURRENT_TIMESTAMP
	           WHERE show_id = ? AND status = ? AND locked_until <= UTC_TIMESTAMP()`
	res, err := tx.ExecContext(ctx, q, model.SeatAvailable, showID, model.SeatLocked)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// MarkBookedTx transitions the named seats to BOOKED and associates
// them with a booking. This is the correctness-critical write of the
// whole system: the availability check and the status transition are
// one conditional statement, so a seat is only booked when its current
// status is AVAILABLE or it is LOCKED by this same user with an
// unexpired lock. The caller must verify the returned count equals
// len(labels) and roll back otherwise.
func (r *SeatRepo) MarkBookedTx(ctx context.Context, tx *sql.Tx, showID uint64, labels []string, bookingID, userID uint64) (int64, error) {
	if len(labels) == 0 {
		return 0, nil
	}
	query := `UPDATE seats
	          SET status = ?, booking_id = ?, locked_by = NULL, locked_until = NULL, updated_at = CURRENT_TIMESTAMP
	          WHERE show_id = ? AND seat_label IN (` + placeholders(len(labels)) + `)
	            AND (status = ? OR (status = ? AND locked_by = ? AND locked_until > UTC_TIMESTAMP()))`
	args := make([]interface{}, 0, len(labels)+7)
	args = append(args, model.SeatBooked, bookingID, showID)
	for _, l := range labels {
		args = append(args, l)
	}
	args = append(args, model.SeatAvailable, model.SeatLocked, userID)
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ReleaseByBookingTx returns all seats of a booking to AVAILABLE and
// clears the association. It returns the labels that were released so
// callers can refresh denormalized caches.
func (r *SeatRepo) ReleaseByBookingTx(ctx context.Context, tx *sql.Tx, bookingID uint64) ([]string, error) {
	rows, err := tx.QueryContext(ctx, `SELECT seat_label FROM seats WHERE booking_id = ?`, bookingID)
	if err != nil {
		return nil, err
	}
	var labels []string
	for rows.Next() {
		var l string
		if scanErr := rows.Scan(&l); scanErr != nil {
			rows.Close()
			return nil, scanErr
		}
		labels = append(labels, l)
	}
	if err = rows.Close(); err != nil {
		return nil, err
	}
	if len(labels) == 0 {
		return []string{}, nil
	}
	const q = `UPDATE seats
	           SET status = ?, booking_id = NULL, updated_at = CURRENT_TIMESTAMP
	           WHERE booking_id = ?`
	if _, err := tx.ExecContext(ctx, q, model.SeatAvailable, bookingID); err != nil {
		return nil, err
	}
	return labels, nil
}

// CountAvailableTx returns the authoritative number of AVAILABLE seats
// for a show, read from the seat rows inside the caller's transaction.
func (r *SeatRepo) CountAvailableTx(ctx context.Context, tx *sql.Tx, showID uint64) (uint32, error) {
	var n uint32
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM seats WHERE show_id = ? AND status = ?`,
		showID, model.SeatAvailable,
	).Scan(&n)
	return n, err
}

// CountAvailable is CountAvailableTx outside a transaction.
func (r *SeatRepo) CountAvailable(ctx context.Context, showID uint64) (uint32, error) {
	var n uint32
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM seats WHERE show_id = ? AND status = ?`,
		showID, model.SeatAvailable,
	).Scan(&n)
	return n, err
}

// BookedLabelsTx lists the labels of all BOOKED seats of a show,
// ordered for deterministic cache contents.
func (r *SeatRepo) BookedLabelsTx(ctx context.Context, tx *sql.Tx, showID uint64) ([]string, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT seat_label FROM seats WHERE show_id = ? AND status = ? ORDER BY row_label, seat_column`,
		showID, model.SeatBooked,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	labels := []string{}
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return labels, nil
}

// SetMaintenance marks AVAILABLE seats as MAINTENANCE (or back). Only
// the AVAILABLE<->MAINTENANCE pair is allowed here; booked and locked
// seats are never touched by admin maintenance.
func (r *SeatRepo) SetMaintenance(ctx context.Context, showID uint64, labels []string, maintenance bool) (int64, error) {
	if len(labels) == 0 {
		return 0, nil
	}
	from, to := model.SeatAvailable, model.SeatMaintenance
	if !maintenance {
		from, to = model.SeatMaintenance, model.SeatAvailable
	}
	query := `UPDATE seats
	          SET status = ?, updated_at = CURRENT_TIMESTAMP
	          WHERE show_id = ? AND seat_label IN (` + placeholders(len(labels)) + `) AND status = ?`
	args := make([]interface{}, 0, len(labels)+3)
	args = append(args, to, showID)
	for _, l := range labels {
		args = append(args, l)
	}
	args = append(args, from)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteByShowTx removes all seats of a show. Used when a show is
// deleted; callers must first ensure no confirmed bookings reference it.
func (r *SeatRepo) DeleteByShowTx(ctx context.Context, tx *sql.Tx, showID uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM seats WHERE show_id = ?`, showID)
	return err
}
