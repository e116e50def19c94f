package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/showtime/movie-booking/internal/model"
)

// ErrTheaterNotFound is returned when a theater lookup yields no rows.
var ErrTheaterNotFound = errors.New("theater not found")

// ErrScreenNotFound is returned when a screen lookup yields no rows.
var ErrScreenNotFound = errors.New("screen not found")

// TheaterRepo provides data access to theaters and their screens.
type TheaterRepo struct {
	db *sql.DB
}

// NewTheaterRepo returns a TheaterRepo bound to the given database.
func NewTheaterRepo(db *sql.DB) *TheaterRepo { return &TheaterRepo{db: db} }

func scanTheater(row interface{ Scan(...interface{}) error }) (model.Theater, error) {
	var t model.Theater
	var address sql.NullString
	err := row.Scan(&t.ID, &t.Name, &t.City, &address, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return model.Theater{}, err
	}
	if address.Valid {
		t.Address = &address.String
	}
	return t, nil
}

// Create inserts a theater and returns its id.
func (r *TheaterRepo) Create(ctx context.Context, name, city string, address *string) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO theaters (name, city, address) VALUES (?, ?, ?)`,
		name, city, address,
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

// GetByID fetches a theater by id.
func (r *TheaterRepo) GetByID(ctx context.Context, id uint64) (model.Theater, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, city, address, is_active, created_at, updated_at FROM theaters WHERE id = ?`, id)
	t, err := scanTheater(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Theater{}, ErrTheaterNotFound
	}
	return t, err
}

// List returns active theaters, optionally filtered by city.
func (r *TheaterRepo) List(ctx context.Context, city string) ([]model.Theater, error) {
	query := `SELECT id, name, city, address, is_active, created_at, updated_at
	          FROM theaters WHERE is_active = 1`
	args := []interface{}{}
	if city != "" {
		query += ` AND city = ?`
		args = append(args, city)
	}
	query += ` ORDER BY city, name`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var theaters []model.Theater
	for rows.Next() {
		t, err := scanTheater(rows)
		if err != nil {
			return nil, err
		}
		theaters = append(theaters, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return theaters, nil
}

// Cities returns the distinct cities that have active theaters.
func (r *TheaterRepo) Cities(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT city FROM theaters WHERE is_active = 1 ORDER BY city`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	cities := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cities, nil
}

// Update replaces the mutable fields of a theater.
func (r *TheaterRepo) Update(ctx context.Context, t model.Theater) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE theaters SET name = ?, city = ?, address = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		t.Name, t.City, t.Address, t.IsActive, t.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTheaterNotFound
	}
	return nil
}

// CreateScreen adds a screen to a theater.
func (r *TheaterRepo) CreateScreen(ctx context.Context, s model.Screen) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO screens (theater_id, screen_number, name, total_seats) VALUES (?, ?, ?, ?)`,
		s.TheaterID, s.ScreenNumber, s.Name, s.TotalSeats,
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

// GetScreen fetches a screen by id.
func (r *TheaterRepo) GetScreen(ctx context.Context, id uint64) (model.Screen, error) {
	var s model.Screen
	err := r.db.QueryRowContext(ctx,
		`SELECT id, theater_id, screen_number, name, total_seats, is_active, created_at, updated_at
		 FROM screens WHERE id = ?`, id,
	).Scan(&s.ID, &s.TheaterID, &s.ScreenNumber, &s.Name, &s.TotalSeats, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Screen{}, ErrScreenNotFound
	}
	return s, err
}

// ListScreens returns the active screens of a theater ordered by
// screen number.
func (r *TheaterRepo) ListScreens(ctx context.Context, theaterID uint64) ([]model.Screen, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, theater_id, screen_number, name, total_seats, is_active, created_at, updated_at
		 FROM screens WHERE theater_id = ? AND is_active = 1
		 ORDER BY screen_number`, theaterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var screens []model.Screen
	for rows.Next() {
		var s model.Screen
		if err := rows.Scan(&s.ID, &s.TheaterID, &s.ScreenNumber, &s.Name, &s.TotalSeats, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		screens = append(screens, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return screens, nil
}

// FindOrCreateScreen returns the screen with the given number in a
// theater, creating it when missing. Used by show scheduling so admins
// can reference screens by number without registering them first.
func (r *TheaterRepo) FindOrCreateScreen(ctx context.Context, theaterID uint64, screenNumber, totalSeats uint32) (uint64, error) {
	var id uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM screens WHERE theater_id = ? AND screen_number = ?`,
		theaterID, screenNumber,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	return r.CreateScreen(ctx, model.Screen{
		TheaterID:    theaterID,
		ScreenNumber: screenNumber,
		Name:         "",
		TotalSeats:   totalSeats,
	})
}
