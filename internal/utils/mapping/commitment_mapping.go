package mapping

import (
	"database/sql"

	"compromisos/internal/core/domain"
	"compromisos/internal/models"
)

// ToModelCommitment converts a domain Commitment to a model Commitment.
// Terms are persisted separately and are not carried on the row.
func ToModelCommitment(d domain.Commitment) models.Commitment {
	m := models.Commitment{
		CommitmentID: d.CommitmentID,
		UserID:       d.UserID,
		Name:         d.Name,
		Flow:         string(d.Flow),
		Important:    d.Important,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
	if d.CategoryID != "" {
		m.CategoryID = sql.NullString{String: d.CategoryID, Valid: true}
	}
	if d.LinkedCommitmentID != nil {
		m.LinkedCommitmentID = sql.NullString{String: *d.LinkedCommitmentID, Valid: true}
	}
	if d.LinkRole != nil {
		m.LinkRole = sql.NullString{String: *d.LinkRole, Valid: true}
	}
	return m
}

// ToDomainCommitment converts a model Commitment to a domain Commitment.
// Terms must be attached by the caller.
func ToDomainCommitment(m models.Commitment) domain.Commitment {
	d := domain.Commitment{
		CommitmentID: m.CommitmentID,
		UserID:       m.UserID,
		Name:         m.Name,
		Flow:         domain.FlowType(m.Flow),
		Important:    m.Important,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
	if m.CategoryID.Valid {
		d.CategoryID = m.CategoryID.String
	}
	if m.LinkedCommitmentID.Valid {
		s := m.LinkedCommitmentID.String
		d.LinkedCommitmentID = &s
	}
	if m.LinkRole.Valid {
		s := m.LinkRole.String
		d.LinkRole = &s
	}
	return d
}
