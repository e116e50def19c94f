package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/showtime/movie-booking/internal/model"
)

// ErrShowNotFound is returned when a show lookup yields no rows.
var ErrShowNotFound = errors.New("show not found")

// ShowRepo provides data access to the shows table.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo returns a ShowRepo bound to the given database.
func NewShowRepo(db *sql.DB) *ShowRepo { return &ShowRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning multiple repositories.
func (r *ShowRepo) DB() *sql.DB { return r.db }

const showColumns = `id, movie_id, theater_id, screen_id, show_date, starts_at, ends_at,
                     price_classic_cents, price_premium_cents, available_seats, booked_seats,
                     status, is_active, created_at, updated_at`

func scanShow(row interface{ Scan(...interface{}) error }) (model.Show, error) {
	var s model.Show
	err := row.Scan(&s.ID, &s.MovieID, &s.TheaterID, &s.ScreenID, &s.ShowDate, &s.StartsAt, &s.EndsAt,
		&s.PriceClassicCents, &s.PricePremiumCents, &s.AvailableSeats, &s.BookedSeats,
		&s.Status, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return model.Show{}, err
	}
	return s, nil
}

func collectShows(rows *sql.Rows) ([]model.Show, error) {
	defer rows.Close()
	var shows []model.Show
	for rows.Next() {
		s, err := scanShow(rows)
		if err != nil {
			return nil, err
		}
		shows = append(shows, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return shows, nil
}

const dbTime = "2006-01-02 15:04:05"

// CreateTx inserts a show within the caller's transaction so the seat
// materialization that follows commits atomically with it.
func (r *ShowRepo) CreateTx(ctx context.Context, tx *sql.Tx, s model.Show) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO shows (movie_id, theater_id, screen_id, show_date, starts_at, ends_at,
		                    price_classic_cents, price_premium_cents, available_seats, booked_seats, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.MovieID, s.TheaterID, s.ScreenID,
		s.ShowDate.UTC().Format("2006-01-02"),
		s.StartsAt.UTC().Format(dbTime), s.EndsAt.UTC().Format(dbTime),
		s.PriceClassicCents, s.PricePremiumCents, s.AvailableSeats, s.BookedSeats, s.Status,
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

// GetByID fetches a show by id.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (model.Show, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+showColumns+` FROM shows WHERE id = ?`, id)
	s, err := scanShow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Show{}, ErrShowNotFound
	}
	return s, err
}

// GetByIDTx is GetByID inside the caller's transaction, with a row
// lock so concurrent bookings serialize on the show.
func (r *ShowRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Show, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+showColumns+` FROM shows WHERE id = ? FOR UPDATE`, id)
	s, err := scanShow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Show{}, ErrShowNotFound
	}
	return s, err
}

// ListByMovie returns upcoming active shows of a movie, optionally
// restricted to a city and a calendar date.
func (r *ShowRepo) ListByMovie(ctx context.Context, movieID uint64, city string, date *time.Time) ([]model.Show, error) {
	query := `SELECT s.id, s.movie_id, s.theater_id, s.screen_id, s.show_date, s.starts_at, s.ends_at,
	                 s.price_classic_cents, s.price_premium_cents, s.available_seats, s.booked_seats,
	                 s.status, s.is_active, s.created_at, s.updated_at
	          FROM shows s
	          JOIN theaters t ON t.id = s.theater_id
	          WHERE s.movie_id = ? AND s.is_active = 1 AND s.status = ? AND s.starts_at > UTC_TIMESTAMP()`
	args := []interface{}{movieID, model.ShowScheduled}
	if city != "" {
		query += ` AND t.city = ?`
		args = append(args, city)
	}
	if date != nil {
		query += ` AND s.show_date = ?`
		args = append(args, date.UTC().Format("2006-01-02"))
	}
	query += ` ORDER BY s.starts_at`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectShows(rows)
}

// ListByTheaterAndDate returns a theater's shows for one calendar date.
func (r *ShowRepo) ListByTheaterAndDate(ctx context.Context, theaterID uint64, date time.Time) ([]model.Show, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+showColumns+` FROM shows
		 WHERE theater_id = ? AND show_date = ? AND is_active = 1
		 ORDER BY starts_at`,
		theaterID, date.UTC().Format("2006-01-02"),
	)
	if err != nil {
		return nil, err
	}
	return collectShows(rows)
}

// AvailableDates returns the distinct upcoming dates a movie screens
// on, optionally restricted to a city.
func (r *ShowRepo) AvailableDates(ctx context.Context, movieID uint64, city string) ([]string, error) {
	query := `SELECT DISTINCT s.show_date
	          FROM shows s
	          JOIN theaters t ON t.id = s.theater_id
	          WHERE s.movie_id = ? AND s.is_active = 1 AND s.status = ? AND s.starts_at > UTC_TIMESTAMP()`
	args := []interface{}{movieID, model.ShowScheduled}
	if city != "" {
		query += ` AND t.city = ?`
		args = append(args, city)
	}
	query += ` ORDER BY s.show_date`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	dates := []string{}
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d.Format("2006-01-02"))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return dates, nil
}

// UpdateSeatCacheTx refreshes the denormalized availability cache of a
// show. Must run in the same transaction as the seat status change it
// reflects.
func (r *ShowRepo) UpdateSeatCacheTx(ctx context.Context, tx *sql.Tx, showID uint64, available uint32, bookedJSON string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE shows SET available_seats = ?, booked_seats = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		available, bookedJSON, showID,
	)
	return err
}

// UpdateStatus moves a show to a new lifecycle status.
func (r *ShowRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE shows SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrShowNotFound
	}
	return nil
}

// HasConfirmedBookings reports whether any non-cancelled booking still
// references the show, used to block deletion.
func (r *ShowRepo) HasConfirmedBookings(ctx context.Context, showID uint64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE show_id = ? AND booking_status = ?`,
		showID, model.BookingConfirmed,
	).Scan(&n)
	return n > 0, err
}

// DeleteTx removes a show row. Seats must be deleted first in the same
// transaction; callers check HasConfirmedBookings before reaching here.
func (r *ShowRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM shows WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrShowNotFound
	}
	return nil
}
