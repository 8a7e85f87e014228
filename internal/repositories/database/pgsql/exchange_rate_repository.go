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

type PgxExchangeRateRepository struct {
	BaseRepository
}

func newPgxExchangeRateRepository(pool *pgxpool.Pool) portsrepo.ExchangeRateRepositoryFacade {
	return &PgxExchangeRateRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxExchangeRateRepository implements portsrepo.ExchangeRateRepositoryFacade
var _ portsrepo.ExchangeRateRepositoryFacade = (*PgxExchangeRateRepository)(nil)

const exchangeRateColumns = `exchange_rate_id, currency_code, rate_to_base, date_of_rate, created_at, created_by, last_updated_at, last_updated_by`

// scanExchangeRate reads one rate row in column order.
func scanExchangeRate(row pgx.Row) (models.ExchangeRate, error) {
	var m models.ExchangeRate
	err := row.Scan(
		&m.ExchangeRateID,
		&m.CurrencyCode,
		&m.RateToBase,
		&m.DateOfRate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveExchangeRate keeps exactly one row per currency; a second save for the
// same code replaces the rate in place.
func (r *PgxExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	modelRate := mapping.ToModelExchangeRate(rate)
	query := `
        INSERT INTO exchange_rates (` + exchangeRateColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (currency_code) DO UPDATE SET
            rate_to_base = EXCLUDED.rate_to_base,
            date_of_rate = EXCLUDED.date_of_rate,
            last_updated_at = EXCLUDED.last_updated_at,
            last_updated_by = EXCLUDED.last_updated_by;
    `
	_, err := r.Pool.Exec(ctx, query,
		modelRate.ExchangeRateID,
		modelRate.CurrencyCode,
		modelRate.RateToBase,
		modelRate.DateOfRate,
		modelRate.CreatedAt,
		modelRate.CreatedBy,
		modelRate.LastUpdatedAt,
		modelRate.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save exchange rate for %s: %w", rate.CurrencyCode, err)
	}
	return nil
}

func (r *PgxExchangeRateRepository) FindRateByCurrency(ctx context.Context, currencyCode string) (*domain.ExchangeRate, error) {
	query := `
		SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE currency_code = $1;
	`
	modelRate, err := scanExchangeRate(r.Pool.QueryRow(ctx, query, currencyCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find exchange rate for %s: %w", currencyCode, err)
	}

	domainRate := mapping.ToDomainExchangeRate(modelRate)
	return &domainRate, nil
}

func (r *PgxExchangeRateRepository) ListRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	query := `
		SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		ORDER BY currency_code ASC;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchange rates: %w", err)
	}
	defer rows.Close()

	modelRates := []models.ExchangeRate{}
	for rows.Next() {
		modelRate, scanErr := scanExchangeRate(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan exchange rate row: %w", scanErr)
		}
		modelRates = append(modelRates, modelRate)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating exchange rate rows: %w", rows.Err())
	}

	return mapping.ToDomainExchangeRateSlice(modelRates), nil
}

func (r *PgxExchangeRateRepository) DeleteExchangeRate(ctx context.Context, currencyCode string) error {
	query := `DELETE FROM exchange_rates WHERE currency_code = $1;`
	cmdTag, err := r.Pool.Exec(ctx, query, currencyCode)
	if err != nil {
		return fmt.Errorf("failed to delete exchange rate for %s: %w", currencyCode, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("exchange rate not found: %w", apperrors.ErrNotFound)
	}
	return nil
}
