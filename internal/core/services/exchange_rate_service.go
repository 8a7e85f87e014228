package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"compromisos/internal/apperrors"
	"compromisos/internal/core/domain"
	portsrepo "compromisos/internal/core/ports/repositories"
	portssvc "compromisos/internal/core/ports/services"
	"compromisos/internal/core/projection"
	"compromisos/internal/dto"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// exchangeRateService implements the ExchangeRateSvcFacade interface
type exchangeRateService struct {
	BaseService
	rateRepo     portsrepo.ExchangeRateRepositoryFacade
	baseCurrency string
}

// NewExchangeRateService creates a new exchange rate service. baseCurrency is
// the code every rate converts into; it always converts to itself at 1.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade, baseCurrency string) portssvc.ExchangeRateSvcFacade {
	return &exchangeRateService{rateRepo: rateRepo, baseCurrency: strings.ToUpper(baseCurrency)}
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

func (s *exchangeRateService) SaveRate(ctx context.Context, req dto.SaveExchangeRateRequest, userID string) (*domain.ExchangeRate, error) {
	code := strings.ToUpper(req.CurrencyCode)
	if code == s.baseCurrency {
		return nil, apperrors.NewValidationError("the base currency does not take a rate")
	}
	if !req.RateToBase.IsPositive() {
		return nil, apperrors.NewValidationError("rateToBase must be positive")
	}

	now := time.Now()
	rate := domain.ExchangeRate{
		ExchangeRateID: uuid.NewString(),
		CurrencyCode:   code,
		RateToBase:     req.RateToBase,
		DateOfRate:     req.DateOfRate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.rateRepo.SaveExchangeRate(ctx, rate); err != nil {
		s.LogError(ctx, err, "Failed to save exchange rate", slog.String("currency_code", code))
		return nil, fmt.Errorf("failed to save exchange rate: %w", err)
	}

	stored, err := s.rateRepo.FindRateByCurrency(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to reload saved exchange rate: %w", err)
	}
	return stored, nil
}

func (s *exchangeRateService) GetRateByCurrency(ctx context.Context, currencyCode string) (*domain.ExchangeRate, error) {
	return s.rateRepo.FindRateByCurrency(ctx, strings.ToUpper(currencyCode))
}

func (s *exchangeRateService) ListRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	return s.rateRepo.ListRates(ctx)
}

func (s *exchangeRateService) DeleteRate(ctx context.Context, currencyCode string, userID string) error {
	return s.rateRepo.DeleteExchangeRate(ctx, strings.ToUpper(currencyCode))
}

// ConverterToBase snapshots the current rates into a pure conversion
// function. The base currency converts to itself; any other currency without
// a stored rate yields an error from the converter, never a panic.
func (s *exchangeRateService) ConverterToBase(ctx context.Context) (projection.Converter, error) {
	rates, err := s.rateRepo.ListRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rates for converter: %w", err)
	}
	return NewRateConverter(s.baseCurrency, rates), nil
}

// NewRateConverter builds a projection.Converter over a fixed rate snapshot.
func NewRateConverter(baseCurrency string, rates []domain.ExchangeRate) projection.Converter {
	base := strings.ToUpper(baseCurrency)
	byCode := make(map[string]decimal.Decimal, len(rates))
	for _, r := range rates {
		byCode[strings.ToUpper(r.CurrencyCode)] = r.RateToBase
	}
	return func(amount decimal.Decimal, currencyCode string) (decimal.Decimal, error) {
		code := strings.ToUpper(currencyCode)
		if code == base {
			return amount, nil
		}
		rate, ok := byCode[code]
		if !ok {
			return decimal.Zero, fmt.Errorf("no exchange rate for currency %q: %w", currencyCode, apperrors.ErrNotFound)
		}
		return amount.Mul(rate), nil
	}
}
