package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/showtime/movie-booking/internal/model"
)

// ErrUserNotFound is returned when a user lookup yields no rows.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailExists is returned when registering with an email that is
// already taken.
var ErrEmailExists = errors.New("email already registered")

// UserRepo provides data access to the users table.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = `id, email, password_hash, full_name, phone, role, is_active, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (model.User, error) {
	var u model.User
	var phone sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &phone, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	if phone.Valid {
		u.Phone = &phone.String
	}
	return u, nil
}

// Create inserts a new user and returns its id. Email uniqueness is
// checked up front; the unique index still backs it against races.
func (r *UserRepo) Create(ctx context.Context, email, passwordHash, fullName string, phone *string, role string) (uint64, error) {
	var exists int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`, email).Scan(&exists)
	if err != nil {
		return 0, err
	}
	if exists > 0 {
		return 0, ErrEmailExists
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, full_name, phone, role) VALUES (?, ?, ?, ?, ?)`,
		email, passwordHash, fullName, phone, role,
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

// GetByEmail fetches a user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// UpdateProfile changes the mutable profile fields of a user.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, fullName string, phone *string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET full_name = ?, phone = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		fullName, phone, id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdatePassword replaces a user's password hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, passwordHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		passwordHash, id,
	)
	return err
}

// Deactivate soft-disables a user account. Inactive users cannot log in.
func (r *UserRepo) Deactivate(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_active = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	return err
}
