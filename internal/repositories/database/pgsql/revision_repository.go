package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	portsrepo "compromisos/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxRevisionRepository struct {
	BaseRepository
}

func newPgxRevisionRepository(pool *pgxpool.Pool) portsrepo.RevisionReader {
	return &PgxRevisionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxRevisionRepository implements portsrepo.RevisionReader
var _ portsrepo.RevisionReader = (*PgxRevisionRepository)(nil)

// GetRevision returns the user's current data revision. A user without a row
// has never mutated anything and reads as revision 0.
func (r *PgxRevisionRepository) GetRevision(ctx context.Context, userID string) (int64, error) {
	query := `
		SELECT revision
		FROM user_revisions
		WHERE user_id = $1;
	`
	var revision int64
	err := r.Pool.QueryRow(ctx, query, userID).Scan(&revision)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read revision for user %s: %w", userID, err)
	}
	return revision, nil
}

// bumpUserRevision advances the user's revision counter inside the caller's
// transaction, so the bump is atomic with the mutation it reports. Every
// repository write that changes what a dashboard would show must call this.
func bumpUserRevision(ctx context.Context, tx pgx.Tx, userID string) error {
	query := `
		INSERT INTO user_revisions (user_id, revision, last_updated_at)
		VALUES ($1, 1, $2)
		ON CONFLICT (user_id) DO UPDATE SET
			revision = user_revisions.revision + 1,
			last_updated_at = EXCLUDED.last_updated_at;
	`
	if _, err := tx.Exec(ctx, query, userID, time.Now()); err != nil {
		return fmt.Errorf("failed to bump revision for user %s: %w", userID, err)
	}
	return nil
}
