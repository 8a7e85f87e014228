package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"compromisos/internal/apperrors"
	"compromisos/internal/core/domain"
	portsrepo "compromisos/internal/core/ports/repositories"
	"compromisos/internal/models"
	"compromisos/internal/utils/mapping"
	"compromisos/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCommitmentRepository struct {
	BaseRepository
}

func newPgxCommitmentRepository(pool *pgxpool.Pool) portsrepo.CommitmentRepositoryFacade {
	return &PgxCommitmentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxCommitmentRepository implements portsrepo.CommitmentRepositoryFacade
var _ portsrepo.CommitmentRepositoryFacade = (*PgxCommitmentRepository)(nil)

const commitmentColumns = `commitment_id, user_id, name, category_id, flow, important, linked_commitment_id, link_role, created_at, created_by, last_updated_at, last_updated_by`

const termColumns = `term_id, commitment_id, version, effective_from, effective_until, frequency, installments_count, due_day, currency_code, original_amount, fx_rate, base_amount, estimation_mode, divided_amount, created_at, created_by, last_updated_at, last_updated_by`

// scanCommitment reads one commitment row in column order.
func scanCommitment(row pgx.Row) (models.Commitment, error) {
	var m models.Commitment
	err := row.Scan(
		&m.CommitmentID,
		&m.UserID,
		&m.Name,
		&m.CategoryID,
		&m.Flow,
		&m.Important,
		&m.LinkedCommitmentID,
		&m.LinkRole,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// scanTerm reads one term row in column order.
func scanTerm(row pgx.Row) (models.Term, error) {
	var m models.Term
	err := row.Scan(
		&m.TermID,
		&m.CommitmentID,
		&m.Version,
		&m.EffectiveFrom,
		&m.EffectiveUntil,
		&m.Frequency,
		&m.InstallmentsCount,
		&m.DueDay,
		&m.CurrencyCode,
		&m.OriginalAmount,
		&m.FxRate,
		&m.BaseAmount,
		&m.EstimationMode,
		&m.DividedAmount,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// insertTerm writes one term row inside the caller's transaction.
func insertTerm(ctx context.Context, tx pgx.Tx, modelTerm models.Term) error {
	query := `
        INSERT INTO commitment_terms (` + termColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
    `
	_, err := tx.Exec(ctx, query,
		modelTerm.TermID,
		modelTerm.CommitmentID,
		modelTerm.Version,
		modelTerm.EffectiveFrom,
		modelTerm.EffectiveUntil,
		modelTerm.Frequency,
		modelTerm.InstallmentsCount,
		modelTerm.DueDay,
		modelTerm.CurrencyCode,
		modelTerm.OriginalAmount,
		modelTerm.FxRate,
		modelTerm.BaseAmount,
		modelTerm.EstimationMode,
		modelTerm.DividedAmount,
		modelTerm.CreatedAt,
		modelTerm.CreatedBy,
		modelTerm.LastUpdatedAt,
		modelTerm.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert term", err)
	}
	return nil
}

// SaveCommitment inserts the commitment row and its version-1 term in one
// transaction. A commitment without a term is never observable.
func (r *PgxCommitmentRepository) SaveCommitment(ctx context.Context, commitment domain.Commitment, initialTerm domain.Term) error {
	modelCommitment := mapping.ToModelCommitment(commitment)
	modelTerm := mapping.ToModelTerm(initialTerm)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
        INSERT INTO commitments (` + commitmentColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
    `
	_, err = tx.Exec(ctx, query,
		modelCommitment.CommitmentID,
		modelCommitment.UserID,
		modelCommitment.Name,
		modelCommitment.CategoryID,
		modelCommitment.Flow,
		modelCommitment.Important,
		modelCommitment.LinkedCommitmentID,
		modelCommitment.LinkRole,
		modelCommitment.CreatedAt,
		modelCommitment.CreatedBy,
		modelCommitment.LastUpdatedAt,
		modelCommitment.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert commitment", err)
	}

	if err := insertTerm(ctx, tx, modelTerm); err != nil {
		return err
	}

	if err := bumpUserRevision(ctx, tx, commitment.UserID); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func (r *PgxCommitmentRepository) UpdateCommitment(ctx context.Context, commitment domain.Commitment) error {
	modelCommitment := mapping.ToModelCommitment(commitment)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	// Flow is fixed at creation and never updated here.
	query := `
        UPDATE commitments
        SET name = $1, category_id = $2, important = $3, linked_commitment_id = $4, link_role = $5, last_updated_at = $6, last_updated_by = $7
        WHERE commitment_id = $8 AND deleted_at IS NULL;
    `
	cmdTag, err := tx.Exec(ctx, query,
		modelCommitment.Name,
		modelCommitment.CategoryID,
		modelCommitment.Important,
		modelCommitment.LinkedCommitmentID,
		modelCommitment.LinkRole,
		modelCommitment.LastUpdatedAt,
		modelCommitment.LastUpdatedBy,
		modelCommitment.CommitmentID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update commitment", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("commitment not found or already deleted: %w", apperrors.ErrNotFound)
	}

	if err := bumpUserRevision(ctx, tx, commitment.UserID); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// SaveTermVersion closes the currently open term at closeUntil (when set) and
// inserts the new version, atomically.
func (r *PgxCommitmentRepository) SaveTermVersion(ctx context.Context, userID string, closeUntil *domain.Period, term domain.Term) error {
	modelTerm := mapping.ToModelTerm(term)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if closeUntil != nil {
		closeQuery := `
            UPDATE commitment_terms
            SET effective_until = $1, last_updated_at = $2, last_updated_by = $3
            WHERE commitment_id = $4 AND effective_until IS NULL;
        `
		_, err = tx.Exec(ctx, closeQuery,
			closeUntil.Time(),
			modelTerm.LastUpdatedAt,
			modelTerm.LastUpdatedBy,
			modelTerm.CommitmentID,
		)
		if err != nil {
			return apperrors.NewAppError(500, "failed to close open term", err)
		}
	}

	if err := insertTerm(ctx, tx, modelTerm); err != nil {
		return err
	}

	if err := bumpUserRevision(ctx, tx, userID); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func (r *PgxCommitmentRepository) MarkCommitmentDeleted(ctx context.Context, userID string, commitmentID string, deletedAt time.Time, deletedBy string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
        UPDATE commitments
        SET deleted_at = $1, last_updated_at = $1, last_updated_by = $2
        WHERE commitment_id = $3 AND user_id = $4 AND deleted_at IS NULL;
    `
	cmdTag, err := tx.Exec(ctx, query, deletedAt, deletedBy, commitmentID, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark commitment as deleted", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("commitment not found or already deleted: %w", apperrors.ErrNotFound)
	}

	if err := bumpUserRevision(ctx, tx, userID); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func (r *PgxCommitmentRepository) FindCommitmentByID(ctx context.Context, commitmentID string) (*domain.Commitment, error) {
	query := `
		SELECT ` + commitmentColumns + `
		FROM commitments
		WHERE commitment_id = $1 AND deleted_at IS NULL;
	`
	modelCommitment, err := scanCommitment(r.Pool.QueryRow(ctx, query, commitmentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find commitment by ID %s: %w", commitmentID, err)
	}

	terms, err := r.FindTermsByCommitment(ctx, commitmentID)
	if err != nil {
		return nil, err
	}

	domainCommitment := mapping.ToDomainCommitment(modelCommitment)
	domainCommitment.Terms = terms
	return &domainCommitment, nil
}

func (r *PgxCommitmentRepository) FindTermsByCommitment(ctx context.Context, commitmentID string) ([]domain.Term, error) {
	query := `
		SELECT ` + termColumns + `
		FROM commitment_terms
		WHERE commitment_id = $1
		ORDER BY version ASC;
	`
	rows, err := r.Pool.Query(ctx, query, commitmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query terms for commitment %s: %w", commitmentID, err)
	}
	defer rows.Close()

	modelTerms := []models.Term{}
	for rows.Next() {
		modelTerm, scanErr := scanTerm(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan term row: %w", scanErr)
		}
		modelTerms = append(modelTerms, modelTerm)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating term rows: %w", rows.Err())
	}

	return mapping.ToDomainTermSlice(modelTerms), nil
}

// findTermsByCommitmentIDs retrieves the terms of every listed commitment in
// one round trip, keyed by commitment ID.
func (r *PgxCommitmentRepository) findTermsByCommitmentIDs(ctx context.Context, commitmentIDs []string) (map[string][]domain.Term, error) {
	if len(commitmentIDs) == 0 {
		return map[string][]domain.Term{}, nil
	}

	query := `
		SELECT ` + termColumns + `
		FROM commitment_terms
		WHERE commitment_id = ANY($1)
		ORDER BY commitment_id, version;
	`
	rows, err := r.Pool.Query(ctx, query, commitmentIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query terms for commitment IDs", err)
	}
	defer rows.Close()

	termsMap := make(map[string][]domain.Term)
	for rows.Next() {
		modelTerm, scanErr := scanTerm(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan term row", scanErr)
		}
		termsMap[modelTerm.CommitmentID] = append(termsMap[modelTerm.CommitmentID], mapping.ToDomainTerm(modelTerm))
	}

	if rows.Err() != nil {
		return nil, apperrors.NewAppError(500, "error iterating term rows", rows.Err())
	}

	return termsMap, nil
}

// FindCommitmentsByUser pages through the user's commitments with a keyset
// cursor on (created_at, commitment_id). The returned token names the last
// item included; an empty token means the last page.
func (r *PgxCommitmentRepository) FindCommitmentsByUser(ctx context.Context, userID string, limit int, nextToken string) ([]domain.Commitment, string, error) {
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + commitmentColumns + `
		FROM commitments
	`
	filterClause := `WHERE user_id = $1 AND deleted_at IS NULL`
	// Ordering must be stable; commitment_id breaks created_at ties.
	orderByClause := `ORDER BY created_at DESC, commitment_id DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{userID}

	if nextToken != "" {
		fields, decodeErr := pagination.DecodeMultiFieldToken(nextToken)
		if decodeErr == nil && len(fields) != 2 {
			decodeErr = fmt.Errorf("expected 2 cursor fields, got %d", len(fields))
		}
		var lastCreatedAt time.Time
		if decodeErr == nil {
			lastCreatedAt, decodeErr = time.Parse(time.RFC3339Nano, fields[0])
		}
		if decodeErr != nil {
			return nil, "", apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}

		cursorClause := `AND (created_at, commitment_id) < ($2, $3)`
		args = append(args, lastCreatedAt, fields[1])

		query := baseQuery + " " + filterClause + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}

	if err != nil {
		return nil, "", apperrors.NewAppError(500, "failed to query commitments for user "+userID, err)
	}
	defer rows.Close()

	modelCommitments := make([]models.Commitment, 0, fetchLimit)
	for rows.Next() {
		modelCommitment, scanErr := scanCommitment(rows)
		if scanErr != nil {
			return nil, "", apperrors.NewAppError(500, "failed to scan commitment row", scanErr)
		}
		modelCommitments = append(modelCommitments, modelCommitment)
	}

	if err := rows.Err(); err != nil {
		return nil, "", apperrors.NewAppError(500, "error iterating commitment rows", err)
	}

	var newToken string
	results := modelCommitments
	if len(modelCommitments) > limit {
		last := modelCommitments[limit-1]
		newToken = pagination.EncodeMultiFieldToken(last.CreatedAt.Format(time.RFC3339Nano), last.CommitmentID)
		results = modelCommitments[:limit]
	}

	commitmentIDs := make([]string, len(results))
	for i, m := range results {
		commitmentIDs[i] = m.CommitmentID
	}
	termsMap, err := r.findTermsByCommitmentIDs(ctx, commitmentIDs)
	if err != nil {
		return nil, "", err
	}

	domainCommitments := make([]domain.Commitment, len(results))
	for i, m := range results {
		d := mapping.ToDomainCommitment(m)
		d.Terms = termsMap[m.CommitmentID]
		domainCommitments[i] = d
	}

	return domainCommitments, newToken, nil
}

func (r *PgxCommitmentRepository) FindAllCommitmentsByUser(ctx context.Context, userID string) ([]domain.Commitment, error) {
	query := `
		SELECT ` + commitmentColumns + `
		FROM commitments
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC, commitment_id DESC;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query commitments for user %s: %w", userID, err)
	}
	defer rows.Close()

	modelCommitments := []models.Commitment{}
	for rows.Next() {
		modelCommitment, scanErr := scanCommitment(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan commitment row: %w", scanErr)
		}
		modelCommitments = append(modelCommitments, modelCommitment)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating commitment rows: %w", rows.Err())
	}

	commitmentIDs := make([]string, len(modelCommitments))
	for i, m := range modelCommitments {
		commitmentIDs[i] = m.CommitmentID
	}
	termsMap, err := r.findTermsByCommitmentIDs(ctx, commitmentIDs)
	if err != nil {
		return nil, err
	}

	domainCommitments := make([]domain.Commitment, len(modelCommitments))
	for i, m := range modelCommitments {
		d := mapping.ToDomainCommitment(m)
		d.Terms = termsMap[m.CommitmentID]
		domainCommitments[i] = d
	}

	return domainCommitments, nil
}
