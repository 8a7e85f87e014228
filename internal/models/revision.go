package models

import "time"

// Revision tracks a per-user data revision counter. Every mutation of a
// user's commitments, terms, payments or rates bumps it, which invalidates
// cached dashboard responses keyed by the old value.
type Revision struct {
	UserID        string    `db:"user_id"`
	Revision      int64     `db:"revision"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
}
