package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate stores the conversion rate from a currency into the base
// currency for a specific date.
type ExchangeRate struct {
	ExchangeRateID string          `db:"exchange_rate_id"`
	CurrencyCode   string          `db:"currency_code"`
	RateToBase     decimal.Decimal `db:"rate_to_base"`
	DateOfRate     time.Time       `db:"date_of_rate"`
	AuditFields
}
