package repositories

import (
	"context"

	"compromisos/internal/core/domain"
)

// ExchangeRateReader defines read operations for exchange rate data
type ExchangeRateReader interface {
	// FindRateByCurrency retrieves the current rate for a currency.
	FindRateByCurrency(ctx context.Context, currencyCode string) (*domain.ExchangeRate, error)

	// ListRates retrieves the current rate of every known currency.
	ListRates(ctx context.Context) ([]domain.ExchangeRate, error)
}

// ExchangeRateWriter defines write operations for exchange rate data
type ExchangeRateWriter interface {
	// SaveExchangeRate persists a rate, replacing any existing row for the
	// same currency.
	SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error

	// DeleteExchangeRate removes the rate for a currency.
	DeleteExchangeRate(ctx context.Context, currencyCode string) error
}

// ExchangeRateRepositoryFacade combines all exchange rate-related repository interfaces
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}
