package domain

import "time"

// AuthProvider identifies how a user authenticates.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "LOCAL"
	ProviderGoogle AuthProvider = "GOOGLE"
)

// User represents a user of the application in the domain.
type User struct {
	UserID          string       `json:"userID"` // Primary key (UUID)
	Name            string       `json:"name"`
	Email           string       `json:"email"`
	PasswordHash    string       `json:"-"` // empty for OAuth-only users
	AuthProvider    AuthProvider `json:"authProvider"`
	ProviderUserID  string       `json:"-"` // provider's subject id, e.g. Google "sub"
	IsEmailVerified bool         `json:"isEmailVerified"`

	// Refresh token state: only the SHA-256 hash is kept at rest.
	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`

	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // soft delete
}

// GoogleUserInfo mirrors the subset of Google's userinfo payload the
// application consumes.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
