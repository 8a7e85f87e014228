package models

import "time"

// Category represents a user-defined grouping for commitments.
type Category struct {
	CategoryID string `db:"category_id"`
	UserID     string `db:"user_id"`
	Name       string `db:"name"`
	Kind       string `db:"kind"`
	Icon       string `db:"icon"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
