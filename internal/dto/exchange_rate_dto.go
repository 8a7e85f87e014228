package dto

import (
	"time"

	"compromisos/internal/core/domain"

	"github.com/shopspring/decimal"
)

// SaveExchangeRateRequest defines the payload for creating or replacing the
// rate of a currency into the base currency.
type SaveExchangeRateRequest struct {
	CurrencyCode string          `json:"currencyCode" binding:"required,min=2,max=8,uppercase"`
	RateToBase   decimal.Decimal `json:"rateToBase" binding:"required"`
	DateOfRate   time.Time       `json:"dateOfRate" binding:"required"`
}

// ExchangeRateResponse defines the structure for API responses containing exchange rate details.
type ExchangeRateResponse struct {
	ExchangeRateID string          `json:"exchangeRateID"`
	CurrencyCode   string          `json:"currencyCode"`
	RateToBase     decimal.Decimal `json:"rateToBase"`
	DateOfRate     time.Time       `json:"dateOfRate"`
	LastUpdatedAt  time.Time       `json:"lastUpdatedAt"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to ExchangeRateResponse DTO
func ToExchangeRateResponse(rate *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		ExchangeRateID: rate.ExchangeRateID,
		CurrencyCode:   rate.CurrencyCode,
		RateToBase:     rate.RateToBase,
		DateOfRate:     rate.DateOfRate,
		LastUpdatedAt:  rate.LastUpdatedAt,
	}
}

// ToListExchangeRateResponse converts a slice of domain.ExchangeRate to DTOs
func ToListExchangeRateResponse(rates []domain.ExchangeRate) []ExchangeRateResponse {
	responses := make([]ExchangeRateResponse, len(rates))
	for i := range rates {
		responses[i] = ToExchangeRateResponse(&rates[i])
	}
	return responses
}
