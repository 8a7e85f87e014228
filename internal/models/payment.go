package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Payment represents a payment record for one commitment period. At most one
// row exists per (commitment_id, period_date) pair; the period is stored as a
// first-of-month date.
type Payment struct {
	PaymentID       string          `db:"payment_id"`
	CommitmentID    string          `db:"commitment_id"`
	TermID          string          `db:"term_id"`
	PeriodDate      time.Time       `db:"period_date"`
	PaymentDate     sql.NullTime    `db:"payment_date"`
	CurrencyCode    string          `db:"currency_code"`
	OriginalAmount  decimal.Decimal `db:"original_amount"`
	FxRate          decimal.Decimal `db:"fx_rate"`
	BaseAmount      decimal.Decimal `db:"base_amount"`
	Note            sql.NullString  `db:"note"`
	DueDateOverride sql.NullTime    `db:"due_date_override"`
	AuditFields
}
