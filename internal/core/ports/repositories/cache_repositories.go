package repositories

import (
	"context"
	"time"
)

// DashboardCache stores serialized dashboard responses. Keys embed the user's
// data revision, so stale entries are never served; they simply expire.
type DashboardCache interface {
	// Get returns the cached payload for key, or apperrors.ErrNotFound when
	// the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores payload under key for the given TTL.
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}
