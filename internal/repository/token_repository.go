package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrTokenNotFound is returned when no live refresh token matches.
var ErrTokenNotFound = errors.New("refresh token not found")

// TokenRepo stores hashed refresh tokens. Only the SHA-256 hash of the
// raw token ever reaches the database.
type TokenRepo struct {
	db *sql.DB
}

// NewTokenRepo returns a TokenRepo bound to the given database.
func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{db: db} }

// Store saves a refresh token hash with its expiry.
func (r *TokenRepo) Store(ctx context.Context, userID uint64, tokenHash string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?, ?, ?)`,
		userID, tokenHash, expiresAt.UTC().Format("2006-01-02 15:04:05"),
	)
	return err
}

// FindLive returns the owning user of an unrevoked, unexpired token
// hash, or ErrTokenNotFound.
func (r *TokenRepo) FindLive(ctx context.Context, tokenHash string) (uint64, error) {
	var userID uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id FROM refresh_tokens
		 WHERE token_hash = ? AND revoked_at IS NULL AND expires_at > UTC_TIMESTAMP()`,
		tokenHash,
	).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrTokenNotFound
	}
	return userID, err
}

// Revoke marks a single token hash as revoked. Revoking an already
// revoked or unknown hash is not an error.
func (r *TokenRepo) Revoke(ctx context.Context, tokenHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP() WHERE token_hash = ? AND revoked_at IS NULL`,
		tokenHash,
	)
	return err
}

// RevokeAllForUser revokes every live token of a user, used on password
// change and logout-everywhere.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP() WHERE user_id = ? AND revoked_at IS NULL`,
		userID,
	)
	return err
}
