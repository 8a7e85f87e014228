package repositories

import "context"

// RevisionReader exposes the per-user data revision counter. Mutating
// repositories bump the counter inside their own transactions; readers use it
// to key cached dashboard responses.
type RevisionReader interface {
	// GetRevision returns the user's current revision, 0 when the user has
	// never written anything.
	GetRevision(ctx context.Context, userID string) (int64, error)
}
