package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LifecycleState is a commitment's finite classification for a given as-of
// time. The values are wire-stable and used directly by dashboards.
type LifecycleState string

const (
	StateNoPayments LifecycleState = "no_payments" // no payment records exist anywhere
	StatePending    LifecycleState = "pending"     // expected, not yet due or not yet settled
	StateOverdue    LifecycleState = "overdue"     // unpaid and past the due date
	StateOK         LifecycleState = "ok"          // current occurrence settled
	StateCompleted  LifecycleState = "completed"   // finite run ended with everything paid
	StatePaused     LifecycleState = "paused"      // lineage ended without a finite run
	StateTerminated LifecycleState = "terminated"  // finite run ended with gaps
)

// IsUnpaid reports whether the state still expects money to move.
func (s LifecycleState) IsUnpaid() bool {
	return s == StatePending || s == StateOverdue || s == StateNoPayments
}

// WarningCode labels a data-quality problem surfaced during projection.
type WarningCode string

const (
	WarnNoTerms           WarningCode = "NO_TERMS"
	WarnOverlappingTerms  WarningCode = "OVERLAPPING_TERMS"
	WarnMultipleOpenTerms WarningCode = "MULTIPLE_OPEN_TERMS"
	WarnBadOnceTerm       WarningCode = "BAD_ONCE_TERM"
	WarnOrphanPayment     WarningCode = "ORPHAN_PAYMENT"
	WarnDuplicatePayment  WarningCode = "DUPLICATE_PAYMENT"
	WarnConversionFailed  WarningCode = "CONVERSION_FAILED"
	WarnStaleConversion   WarningCode = "STALE_CONVERSION"
)

// Warning reports malformed upstream data or a degraded computation. The
// projection never aborts on these; it classifies best-effort and lets the
// caller decide what to show.
type Warning struct {
	Code         WarningCode `json:"code"`
	CommitmentID string      `json:"commitmentID,omitempty"`
	Message      string      `json:"message"`
}

// PaymentStatus describes the payment situation of one commitment period.
type PaymentStatus struct {
	HasRecord   bool            `json:"hasRecord"`
	IsPaid      bool            `json:"isPaid"`
	Amount      decimal.Decimal `json:"amount"` // base amount, original as fallback; zero without a record
	PaymentDate *time.Time      `json:"paymentDate,omitempty"`
	PaidOnTime  bool            `json:"paidOnTime"` // true while unpaid
	DueDate     time.Time       `json:"dueDate"`    // resolved due date for the period
}

// CommitmentSummary is the derived, never-persisted projection of one
// commitment at an as-of time: its lifecycle state, the occurrence period
// that state refers to, and the resolved per-period amount in base currency.
type CommitmentSummary struct {
	CommitmentID     string          `json:"commitmentID"`
	Name             string          `json:"name"`
	CategoryID       string          `json:"categoryID"`
	Flow             FlowType        `json:"flow"`
	Important        bool            `json:"important"`
	State            LifecycleState  `json:"state"`
	Period           Period          `json:"period"` // occurrence the state refers to
	PerPeriodAmount  decimal.Decimal `json:"perPeriodAmount"`
	AmountUnreliable bool            `json:"amountUnreliable"` // conversion fell back
	DueDay           *int            `json:"dueDay,omitempty"`
	DueDate          *time.Time      `json:"dueDate,omitempty"`
	Payment          PaymentStatus   `json:"payment"`
	CreatedAt        time.Time       `json:"createdAt"`
	Warnings         []Warning       `json:"warnings,omitempty"`
}

// MonthTotals aggregates a month across commitments, in base currency. The
// JSON field names are the dashboard's bucket names and must not change.
type MonthTotals struct {
	Period    Period          `json:"period"`
	Committed decimal.Decimal `json:"comprometido"`
	Income    decimal.Decimal `json:"ingresos"`
	Paid      decimal.Decimal `json:"pagado"`
	Pending   decimal.Decimal `json:"pendiente"`
	Overdue   decimal.Decimal `json:"vencido"`
	Balance   decimal.Decimal `json:"balance"` // ingresos - comprometido
	Warnings  []Warning       `json:"warnings,omitempty"`
}
