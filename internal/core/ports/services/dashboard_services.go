package services

import (
	"context"
	"time"

	"compromisos/internal/core/domain"
	"compromisos/internal/dto"
)

// DashboardSvcFacade computes the derived views: per-commitment summaries,
// month totals and state counts. Results are never persisted; they may be
// served from a revision-keyed cache.
type DashboardSvcFacade interface {
	// GetSummaries classifies every commitment of the user as of the given
	// time, sorted for display and split by flow.
	GetSummaries(ctx context.Context, userID string, asOf time.Time) (*dto.SummariesResponse, error)

	// GetMonthTotals aggregates one month across the user's commitments.
	GetMonthTotals(ctx context.Context, userID string, period domain.Period, asOf time.Time) (*domain.MonthTotals, error)

	// GetTotalsRange aggregates each month of [from, to].
	GetTotalsRange(ctx context.Context, userID string, from, to domain.Period, asOf time.Time) ([]domain.MonthTotals, error)

	// GetStateCounts returns how many commitments are in each lifecycle state.
	GetStateCounts(ctx context.Context, userID string, asOf time.Time) (map[domain.LifecycleState]int, error)
}
