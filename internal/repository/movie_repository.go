package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/showtime/movie-booking/internal/model"
)

// ErrMovieNotFound is returned when a movie lookup yields no rows.
var ErrMovieNotFound = errors.New("movie not found")

// MovieRepo provides data access to the movies table and the per-user
// wishlist join table.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo returns a MovieRepo bound to the given database.
func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

const movieColumns = `id, title, description, genre, language, duration_min, release_date,
                      rating, poster_url, is_active, created_at, updated_at`

func scanMovie(row interface{ Scan(...interface{}) error }) (model.Movie, error) {
	var m model.Movie
	var description, rating, posterURL sql.NullString
	var releaseDate sql.NullTime
	err := row.Scan(&m.ID, &m.Title, &description, &m.Genre, &m.Language, &m.DurationMin,
		&releaseDate, &rating, &posterURL, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return model.Movie{}, err
	}
	if description.Valid {
		m.Description = &description.String
	}
	if releaseDate.Valid {
		t := releaseDate.Time
		m.ReleaseDate = &t
	}
	if rating.Valid {
		m.Rating = &rating.String
	}
	if posterURL.Valid {
		m.PosterURL = &posterURL.String
	}
	return m, nil
}

func (r *MovieRepo) collect(rows *sql.Rows) ([]model.Movie, error) {
	defer rows.Close()
	var movies []model.Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return movies, nil
}

// Create inserts a movie and returns its id.
func (r *MovieRepo) Create(ctx context.Context, m model.Movie) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO movies (title, description, genre, language, duration_min, release_date, rating, poster_url, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Title, m.Description, m.Genre, m.Language, m.DurationMin, m.ReleaseDate, m.Rating, m.PosterURL, m.IsActive,
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

// GetByID fetches a movie by id regardless of active flag.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (model.Movie, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+movieColumns+` FROM movies WHERE id = ?`, id)
	m, err := scanMovie(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Movie{}, ErrMovieNotFound
	}
	return m, err
}

// ListActive returns active movies newest-release first.
func (r *MovieRepo) ListActive(ctx context.Context) ([]model.Movie, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE is_active = 1 ORDER BY release_date DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

// Search returns active movies matching the query against title, genre
// or language, case-insensitively.
func (r *MovieRepo) Search(ctx context.Context, query string) ([]model.Movie, error) {
	like := "%" + query + "%"
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+movieColumns+` FROM movies
		 WHERE is_active = 1 AND (title LIKE ? OR genre LIKE ? OR language LIKE ?)
		 ORDER BY release_date DESC, id DESC`,
		like, like, like,
	)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

// ListUpcoming returns active movies whose release date lies in the
// future.
func (r *MovieRepo) ListUpcoming(ctx context.Context) ([]model.Movie, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+movieColumns+` FROM movies
		 WHERE is_active = 1 AND release_date > UTC_TIMESTAMP()
		 ORDER BY release_date ASC`)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

// Update replaces the mutable fields of a movie.
func (r *MovieRepo) Update(ctx context.Context, m model.Movie) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE movies
		 SET title = ?, description = ?, genre = ?, language = ?, duration_min = ?,
		     release_date = ?, rating = ?, poster_url = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		m.Title, m.Description, m.Genre, m.Language, m.DurationMin,
		m.ReleaseDate, m.Rating, m.PosterURL, m.IsActive, m.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMovieNotFound
	}
	return nil
}

// Deactivate soft-deletes a movie. Existing shows keep running; the
// movie just stops appearing in listings.
func (r *MovieRepo) Deactivate(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE movies SET is_active = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMovieNotFound
	}
	return nil
}

// AddToWishlist records a user's interest in a movie. Adding the same
// movie twice is a no-op thanks to the unique index.
func (r *MovieRepo) AddToWishlist(ctx context.Context, userID, movieID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT IGNORE INTO movie_wishlist (user_id, movie_id) VALUES (?, ?)`,
		userID, movieID,
	)
	return err
}

// RemoveFromWishlist deletes a wishlist entry if present.
func (r *MovieRepo) RemoveFromWishlist(ctx context.Context, userID, movieID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM movie_wishlist WHERE user_id = ? AND movie_id = ?`,
		userID, movieID,
	)
	return err
}

// ListWishlist returns the active movies on a user's wishlist, most
// recently added first.
func (r *MovieRepo) ListWishlist(ctx context.Context, userID uint64) ([]model.Movie, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT m.id, m.title, m.description, m.genre, m.language, m.duration_min, m.release_date,
		        m.rating, m.poster_url, m.is_active, m.created_at, m.updated_at
		 FROM movie_wishlist w
		 JOIN movies m ON m.id = w.movie_id
		 WHERE w.user_id = ? AND m.is_active = 1
		 ORDER BY w.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}
