package utils

import (
	"github.com/shopspring/decimal"
)

// DefaultAmountPrecision is the number of decimal places used for base-currency
// amounts in API responses.
const DefaultAmountPrecision = 2

// FormatAmount formats a base-currency amount with the default precision.
// Example: 9990.005 returns "9990.01".
func FormatAmount(amount decimal.Decimal) string {
	return amount.Round(DefaultAmountPrecision).String()
}

// FormatWithPrecision formats an amount with the given precision.
// Example: amount 12.3456 with precision 0 returns "12".
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.Round(int32(precision)).String()
}
