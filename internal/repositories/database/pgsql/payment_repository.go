package pgsql

import (
	"context"
	"errors"
	"fmt"

	"compromisos/internal/apperrors"
	"compromisos/internal/core/domain"
	portsrepo "compromisos/internal/core/ports/repositories"
	"compromisos/internal/models"
	"compromisos/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxPaymentRepository struct {
	BaseRepository
}

func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxPaymentRepository implements portsrepo.PaymentRepositoryFacade
var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

const paymentColumns = `payment_id, commitment_id, term_id, period_date, payment_date, currency_code, original_amount, fx_rate, base_amount, note, due_date_override, created_at, created_by, last_updated_at, last_updated_by`

// scanPayment reads one payment row in column order.
func scanPayment(row pgx.Row) (models.Payment, error) {
	var m models.Payment
	err := row.Scan(
		&m.PaymentID,
		&m.CommitmentID,
		&m.TermID,
		&m.PeriodDate,
		&m.PaymentDate,
		&m.CurrencyCode,
		&m.OriginalAmount,
		&m.FxRate,
		&m.BaseAmount,
		&m.Note,
		&m.DueDateOverride,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// UpsertPayment inserts the record or, when one already exists for the same
// commitment and period, replaces its mutable fields. The conflicting row
// keeps its payment_id, term_id and creation audit. Returns the stored row.
func (r *PgxPaymentRepository) UpsertPayment(ctx context.Context, userID string, payment domain.Payment) (*domain.Payment, error) {
	modelPayment := mapping.ToModelPayment(payment)

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	query := `
        INSERT INTO payments (` + paymentColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
        ON CONFLICT (commitment_id, period_date) DO UPDATE SET
            payment_date = EXCLUDED.payment_date,
            currency_code = EXCLUDED.currency_code,
            original_amount = EXCLUDED.original_amount,
            fx_rate = EXCLUDED.fx_rate,
            base_amount = EXCLUDED.base_amount,
            note = EXCLUDED.note,
            due_date_override = EXCLUDED.due_date_override,
            last_updated_at = EXCLUDED.last_updated_at,
            last_updated_by = EXCLUDED.last_updated_by
        RETURNING ` + paymentColumns + `;
    `
	stored, err := scanPayment(tx.QueryRow(ctx, query,
		modelPayment.PaymentID,
		modelPayment.CommitmentID,
		modelPayment.TermID,
		modelPayment.PeriodDate,
		modelPayment.PaymentDate,
		modelPayment.CurrencyCode,
		modelPayment.OriginalAmount,
		modelPayment.FxRate,
		modelPayment.BaseAmount,
		modelPayment.Note,
		modelPayment.DueDateOverride,
		modelPayment.CreatedAt,
		modelPayment.CreatedBy,
		modelPayment.LastUpdatedAt,
		modelPayment.LastUpdatedBy,
	))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to upsert payment", err)
	}

	if err := bumpUserRevision(ctx, tx, userID); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	domainPayment := mapping.ToDomainPayment(stored)
	return &domainPayment, nil
}

func (r *PgxPaymentRepository) DeletePayment(ctx context.Context, userID string, paymentID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `DELETE FROM payments WHERE payment_id = $1;`
	cmdTag, err := tx.Exec(ctx, query, paymentID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete payment", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("payment not found: %w", apperrors.ErrNotFound)
	}

	if err := bumpUserRevision(ctx, tx, userID); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE payment_id = $1;
	`
	modelPayment, err := scanPayment(r.Pool.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment by ID %s: %w", paymentID, err)
	}

	domainPayment := mapping.ToDomainPayment(modelPayment)
	return &domainPayment, nil
}

func (r *PgxPaymentRepository) FindPaymentsByCommitment(ctx context.Context, commitmentID string) ([]domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE commitment_id = $1
		ORDER BY period_date ASC;
	`
	rows, err := r.Pool.Query(ctx, query, commitmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments for commitment %s: %w", commitmentID, err)
	}
	defer rows.Close()

	modelPayments := []models.Payment{}
	for rows.Next() {
		modelPayment, scanErr := scanPayment(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", scanErr)
		}
		modelPayments = append(modelPayments, modelPayment)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating payment rows: %w", rows.Err())
	}

	return mapping.ToDomainPaymentSlice(modelPayments), nil
}

// FindPaymentsByUser joins through commitments so payments of soft-deleted
// commitments drop out with their parent.
func (r *PgxPaymentRepository) FindPaymentsByUser(ctx context.Context, userID string, from, to *domain.Period) ([]domain.Payment, error) {
	query := `
		SELECT p.payment_id, p.commitment_id, p.term_id, p.period_date, p.payment_date, p.currency_code, p.original_amount, p.fx_rate, p.base_amount, p.note, p.due_date_override, p.created_at, p.created_by, p.last_updated_at, p.last_updated_by
		FROM payments p
		JOIN commitments c ON c.commitment_id = p.commitment_id
		WHERE c.user_id = $1 AND c.deleted_at IS NULL
	`
	args := []interface{}{userID}
	if from != nil {
		args = append(args, from.Time())
		query += fmt.Sprintf(" AND p.period_date >= $%d", len(args))
	}
	if to != nil {
		args = append(args, to.Time())
		query += fmt.Sprintf(" AND p.period_date <= $%d", len(args))
	}
	query += " ORDER BY p.period_date ASC, p.commitment_id;"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments for user %s: %w", userID, err)
	}
	defer rows.Close()

	modelPayments := []models.Payment{}
	for rows.Next() {
		modelPayment, scanErr := scanPayment(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", scanErr)
		}
		modelPayments = append(modelPayments, modelPayment)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating payment rows: %w", rows.Err())
	}

	return mapping.ToDomainPaymentSlice(modelPayments), nil
}
