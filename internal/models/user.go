package models

import (
	"database/sql"
	"time"
)

// User represents a user row. Authentication is either local (password hash)
// or delegated to an external provider such as Google.
type User struct {
	UserID          string         `db:"user_id"`
	Name            string         `db:"name"`
	Email           string         `db:"email"`
	PasswordHash    sql.NullString `db:"password_hash"`
	AuthProvider    string         `db:"auth_provider"`
	ProviderUserID  sql.NullString `db:"provider_user_id"`
	IsEmailVerified bool           `db:"is_email_verified"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`

	// Refresh token fields; only the SHA-256 hash of the token is stored.
	RefreshTokenHash       sql.NullString `db:"refresh_token_hash"`
	RefreshTokenExpiryTime sql.NullTime   `db:"refresh_token_expiry_time"`
}
