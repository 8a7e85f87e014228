package models

import (
	"database/sql"
	"time"
)

// Commitment represents a commitment row. Its term versions live in the
// commitment_terms table and are loaded separately.
type Commitment struct {
	CommitmentID       string         `db:"commitment_id"`
	UserID             string         `db:"user_id"`
	Name               string         `db:"name"`
	CategoryID         sql.NullString `db:"category_id"`
	Flow               string         `db:"flow"`
	Important          bool           `db:"important"`
	LinkedCommitmentID sql.NullString `db:"linked_commitment_id"`
	LinkRole           sql.NullString `db:"link_role"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
