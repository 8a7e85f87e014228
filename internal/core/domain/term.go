package domain

import (
	"github.com/shopspring/decimal"
)

// Frequency defines how often a commitment produces an occurrence.
type Frequency string

const (
	Once         Frequency = "ONCE"
	Monthly      Frequency = "MONTHLY"
	Bimonthly    Frequency = "BIMONTHLY"
	Quarterly    Frequency = "QUARTERLY"
	Semiannually Frequency = "SEMIANNUALLY"
	Annually     Frequency = "ANNUALLY"
)

// EstimationMode is the policy for computing an expected per-period amount.
type EstimationMode string

const (
	EstimationFixed   EstimationMode = "FIXED"   // the term's own amount
	EstimationAverage EstimationMode = "AVERAGE" // mean of the term's payment history
	EstimationLast    EstimationMode = "LAST"    // most recent payment's amount
)

// Term is a versioned set of conditions (amount, frequency, due day) valid
// over a range of periods. A commitment's history is its ordered terms;
// the open term (nil EffectiveUntil) is the current one.
type Term struct {
	TermID            string          `json:"termID"`       // Primary key (UUID)
	CommitmentID      string          `json:"commitmentID"` // FK -> commitments
	Version           int             `json:"version"`      // Monotonic per commitment
	EffectiveFrom     Period          `json:"effectiveFrom"`
	EffectiveUntil    *Period         `json:"effectiveUntil,omitempty"` // nil = open-ended
	Frequency         Frequency       `json:"frequency"`
	InstallmentsCount *int            `json:"installmentsCount,omitempty"`
	DueDay            *int            `json:"dueDay,omitempty"` // 1-31, nil = month end
	CurrencyCode      string          `json:"currencyCode"`
	OriginalAmount    decimal.Decimal `json:"originalAmount"`
	FxRate            decimal.Decimal `json:"fxRate"`     // rate to base at save time
	BaseAmount        decimal.Decimal `json:"baseAmount"` // OriginalAmount converted at save time
	EstimationMode    EstimationMode  `json:"estimationMode"`
	DividedAmount     bool            `json:"dividedAmount"` // amount is a per-installment share
	AuditFields
}

// IsOpen reports whether the term has no end period.
func (t Term) IsOpen() bool {
	return t.EffectiveUntil == nil
}

// Covers reports whether the term is in effect for the given period.
func (t Term) Covers(p Period) bool {
	if p.Before(t.EffectiveFrom) {
		return false
	}
	return t.EffectiveUntil == nil || !p.After(*t.EffectiveUntil)
}
