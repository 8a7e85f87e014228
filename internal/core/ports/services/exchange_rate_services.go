package services

import (
	"context"

	"compromisos/internal/core/domain"
	"compromisos/internal/core/projection"
	"compromisos/internal/dto"
)

// ExchangeRateReaderSvc defines read operations for exchange rates
type ExchangeRateReaderSvc interface {
	// GetRateByCurrency retrieves the current rate for a currency.
	GetRateByCurrency(ctx context.Context, currencyCode string) (*domain.ExchangeRate, error)

	// ListRates retrieves the current rate of every known currency.
	ListRates(ctx context.Context) ([]domain.ExchangeRate, error)

	// ConverterToBase builds a conversion function over the current rates.
	// The returned converter is a pure snapshot; rate changes after the call
	// do not affect it.
	ConverterToBase(ctx context.Context) (projection.Converter, error)
}

// ExchangeRateWriterSvc defines write operations for exchange rates
type ExchangeRateWriterSvc interface {
	// SaveRate creates or replaces the rate of a currency.
	SaveRate(ctx context.Context, req dto.SaveExchangeRateRequest, userID string) (*domain.ExchangeRate, error)

	// DeleteRate removes the rate of a currency.
	DeleteRate(ctx context.Context, currencyCode string, userID string) error
}

// ExchangeRateSvcFacade combines all exchange rate-related service interfaces
type ExchangeRateSvcFacade interface {
	ExchangeRateReaderSvc
	ExchangeRateWriterSvc
}
