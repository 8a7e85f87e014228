package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Term represents one version of a commitment's conditions. Effective periods
// are stored as first-of-month dates.
type Term struct {
	TermID            string          `db:"term_id"`
	CommitmentID      string          `db:"commitment_id"`
	Version           int             `db:"version"`
	EffectiveFrom     time.Time       `db:"effective_from"`
	EffectiveUntil    sql.NullTime    `db:"effective_until"`
	Frequency         string          `db:"frequency"`
	InstallmentsCount sql.NullInt32   `db:"installments_count"`
	DueDay            sql.NullInt32   `db:"due_day"`
	CurrencyCode      string          `db:"currency_code"`
	OriginalAmount    decimal.Decimal `db:"original_amount"`
	FxRate            decimal.Decimal `db:"fx_rate"`
	BaseAmount        decimal.Decimal `db:"base_amount"`
	EstimationMode    string          `db:"estimation_mode"`
	DividedAmount     bool            `db:"divided_amount"`
	AuditFields
}
