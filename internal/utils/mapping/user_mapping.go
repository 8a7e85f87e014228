package mapping

import (
	"database/sql"

	"compromisos/internal/core/domain"
	"compromisos/internal/models"
)

// ToModelUser converts a domain User to a model User
func ToModelUser(d domain.User) models.User {
	m := models.User{
		UserID:          d.UserID,
		Name:            d.Name,
		Email:           d.Email,
		AuthProvider:    string(d.AuthProvider),
		IsEmailVerified: d.IsEmailVerified,
		AuditFields:     ToModelAuditFields(d.AuditFields),
		DeletedAt:       d.DeletedAt,
	}
	if d.PasswordHash != "" {
		m.PasswordHash = sql.NullString{String: d.PasswordHash, Valid: true}
	}
	if d.ProviderUserID != "" {
		m.ProviderUserID = sql.NullString{String: d.ProviderUserID, Valid: true}
	}
	if d.RefreshTokenHash != "" {
		m.RefreshTokenHash = sql.NullString{String: d.RefreshTokenHash, Valid: true}
	}
	if d.RefreshTokenExpiryTime != nil {
		m.RefreshTokenExpiryTime = sql.NullTime{Time: *d.RefreshTokenExpiryTime, Valid: true}
	}
	return m
}

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	d := domain.User{
		UserID:          m.UserID,
		Name:            m.Name,
		Email:           m.Email,
		AuthProvider:    domain.AuthProvider(m.AuthProvider),
		IsEmailVerified: m.IsEmailVerified,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
		DeletedAt:       m.DeletedAt,
	}
	if m.PasswordHash.Valid {
		d.PasswordHash = m.PasswordHash.String
	}
	if m.ProviderUserID.Valid {
		d.ProviderUserID = m.ProviderUserID.String
	}
	if m.RefreshTokenHash.Valid {
		d.RefreshTokenHash = m.RefreshTokenHash.String
	}
	if m.RefreshTokenExpiryTime.Valid {
		t := m.RefreshTokenExpiryTime.Time
		d.RefreshTokenExpiryTime = &t
	}
	return d
}

// ToDomainUserSlice converts a slice of model Users to a slice of domain Users
func ToDomainUserSlice(ms []models.User) []domain.User {
	ds := make([]domain.User, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainUser(m)
	}
	return ds
}
