package dto

import (
	"time"

	"compromisos/internal/core/domain"
)

// SummariesResponse wraps the classified view of every commitment at a point
// in time, already sorted for display.
type SummariesResponse struct {
	AsOf      time.Time                  `json:"asOf"`
	Expenses  []domain.CommitmentSummary `json:"expenses"`
	Income    []domain.CommitmentSummary `json:"income"`
	Warnings  []domain.Warning           `json:"warnings,omitempty"`
	FromCache bool                       `json:"-"`
}

// MonthTotalsResponse wraps one month's aggregation. The bucket field names
// inside MonthTotals are wire-stable.
type MonthTotalsResponse struct {
	Totals domain.MonthTotals `json:"totals"`
}

// TotalsRangeParams defines query parameters for a month range.
type TotalsRangeParams struct {
	From string `form:"from" binding:"required,len=7"`
	To   string `form:"to" binding:"required,len=7"`
}

// TotalsRangeResponse wraps the per-month aggregation of a contiguous range.
type TotalsRangeResponse struct {
	From   domain.Period        `json:"from"`
	To     domain.Period        `json:"to"`
	Months []domain.MonthTotals `json:"months"`
}

// StateCountsResponse reports how many commitments are in each lifecycle
// state at the as-of time.
type StateCountsResponse struct {
	AsOf   time.Time                     `json:"asOf"`
	Counts map[domain.LifecycleState]int `json:"counts"`
}
