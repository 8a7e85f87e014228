package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is the conversion rate from a currency into the application's
// base currency at a point in time. One currency keeps a single current row;
// updating a rate replaces it.
type ExchangeRate struct {
	ExchangeRateID string          `json:"exchangeRateID"` // Primary key (UUID)
	CurrencyCode   string          `json:"currencyCode"`   // e.g. "USD", "UF"
	RateToBase     decimal.Decimal `json:"rateToBase"`     // 1 unit of CurrencyCode in base currency
	DateOfRate     time.Time       `json:"dateOfRate"`
	AuditFields
}
