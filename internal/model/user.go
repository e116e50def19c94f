package model

import "time"

// Role values form a closed set. Authorization decisions compare
// against these constants rather than free-form strings.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents an application account as stored in the `users`
// table. Handlers define separate response types with JSON tags; the
// repository layer works with this struct directly.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique email address, stored lower-case.
//  PasswordHash – bcrypt hashed password.
//  FullName     – display name shown on tickets and notifications.
//  Phone        – optional contact number.
//  Role         – USER or ADMIN.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	FullName     string    // users.full_name
	Phone        *string   // users.phone (nullable)
	Role         string    // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table. Each
// refresh token belongs to a user and carries expiry and revocation
// metadata. The plain token is never stored; only its SHA-256 hash.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
