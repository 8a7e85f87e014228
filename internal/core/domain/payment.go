package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment records the settlement (or pending settlement) of one commitment
// period. TermID is the term that governed the period when the payment was
// recorded; it is written once and never re-derived, so historical payments
// keep pointing at the conditions they were made under.
type Payment struct {
	PaymentID       string          `json:"paymentID"`    // Primary key (UUID)
	CommitmentID    string          `json:"commitmentID"` // FK -> commitments
	TermID          string          `json:"termID"`       // FK -> terms, frozen at record time
	PeriodDate      Period          `json:"periodDate"`   // the period being settled
	PaymentDate     *time.Time      `json:"paymentDate,omitempty"` // nil = expected but unsettled
	CurrencyCode    string          `json:"currencyCode"`
	OriginalAmount  decimal.Decimal `json:"originalAmount"`
	FxRate          decimal.Decimal `json:"fxRate"`
	BaseAmount      decimal.Decimal `json:"baseAmount"`
	Note            string          `json:"note,omitempty"`
	DueDateOverride *time.Time      `json:"dueDateOverride,omitempty"`
	AuditFields
}

// IsSettled reports whether the payment actually happened.
func (p Payment) IsSettled() bool {
	return p.PaymentDate != nil
}
