package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"compromisos/internal/apperrors"
	"compromisos/internal/core/domain"
	portsrepo "compromisos/internal/core/ports/repositories"
	portssvc "compromisos/internal/core/ports/services"
	"compromisos/internal/core/projection"
	"compromisos/internal/dto"
)

// dashboardService implements the DashboardSvcFacade interface. Every view is
// computed from a fresh snapshot; the summaries view is additionally served
// from a cache keyed by the user's revision, so a hit can never return data
// older than the last mutation.
type dashboardService struct {
	BaseService
	commitmentRepo portsrepo.CommitmentReader
	paymentRepo    portsrepo.PaymentReader
	rateRepo       portsrepo.ExchangeRateReader
	revisionRepo   portsrepo.RevisionReader
	cache          portsrepo.DashboardCache
	baseCurrency   string
	collator       *collate.Collator
	cacheTTL       time.Duration
}

// NewDashboardService creates a new dashboard service. cache may be nil, in
// which case every request recomputes.
func NewDashboardService(
	commitmentRepo portsrepo.CommitmentReader,
	paymentRepo portsrepo.PaymentReader,
	rateRepo portsrepo.ExchangeRateReader,
	revisionRepo portsrepo.RevisionReader,
	cache portsrepo.DashboardCache,
	baseCurrency string,
	sortLocale string,
	cacheTTL time.Duration,
) portssvc.DashboardSvcFacade {
	return &dashboardService{
		commitmentRepo: commitmentRepo,
		paymentRepo:    paymentRepo,
		rateRepo:       rateRepo,
		revisionRepo:   revisionRepo,
		cache:          cache,
		baseCurrency:   strings.ToUpper(baseCurrency),
		collator:       collate.New(language.Make(sortLocale)),
		cacheTTL:       cacheTTL,
	}
}

var _ portssvc.DashboardSvcFacade = (*dashboardService)(nil)

// dashboardSnapshot is one consistent read of everything the projection
// needs for a user.
type dashboardSnapshot struct {
	commitments []domain.Commitment
	payments    []domain.Payment
	conv        projection.Converter
}

func (s *dashboardService) loadSnapshot(ctx context.Context, userID string, rates []domain.ExchangeRate) (*dashboardSnapshot, error) {
	commitments, err := s.commitmentRepo.FindAllCommitmentsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load commitments: %w", err)
	}
	payments, err := s.paymentRepo.FindPaymentsByUser(ctx, userID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}
	return &dashboardSnapshot{
		commitments: commitments,
		payments:    payments,
		conv:        NewRateConverter(s.baseCurrency, rates),
	}, nil
}

// summariesCacheKey embeds everything the summaries view depends on: the
// user's revision covers their own data, the rates fingerprint covers the
// shared rate table, and the day bucket covers due dates rolling over at
// midnight.
func summariesCacheKey(userID string, revision int64, rates []domain.ExchangeRate, asOf time.Time) string {
	var fingerprint int64
	for _, r := range rates {
		if u := r.LastUpdatedAt.Unix(); u > fingerprint {
			fingerprint = u
		}
	}
	return fmt.Sprintf("dashboard:summaries:%s:%d:%d:%s", userID, revision, fingerprint, asOf.UTC().Format("2006-01-02"))
}

func (s *dashboardService) GetSummaries(ctx context.Context, userID string, asOf time.Time) (*dto.SummariesResponse, error) {
	rates, err := s.rateRepo.ListRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load exchange rates: %w", err)
	}

	// Cache failures degrade to a recompute, never to an error response.
	var key string
	if s.cache != nil {
		revision, err := s.revisionRepo.GetRevision(ctx, userID)
		if err != nil {
			s.LogError(ctx, err, "Failed to read user revision, skipping cache")
		} else {
			key = summariesCacheKey(userID, revision, rates, asOf)
			payload, err := s.cache.Get(ctx, key)
			switch {
			case err == nil:
				var cached dto.SummariesResponse
				if uerr := json.Unmarshal(payload, &cached); uerr != nil {
					s.LogError(ctx, uerr, "Discarding undecodable dashboard cache entry")
				} else {
					cached.FromCache = true
					return &cached, nil
				}
			case !errors.Is(err, apperrors.ErrNotFound):
				s.LogError(ctx, err, "Dashboard cache read failed")
			}
		}
	}

	snapshot, err := s.loadSnapshot(ctx, userID, rates)
	if err != nil {
		return nil, err
	}

	summaries, err := projection.SummarizeAll(snapshot.commitments, snapshot.payments, asOf, snapshot.conv)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize commitments: %w", err)
	}
	projection.Sort(summaries, projection.RankOptions{Now: asOf, Collator: s.collator})
	expenses, income := projection.SplitByFlow(summaries)

	resp := &dto.SummariesResponse{
		AsOf:     asOf,
		Expenses: expenses,
		Income:   income,
		Warnings: collectWarnings(summaries),
	}

	if s.cache != nil && key != "" {
		if payload, err := json.Marshal(resp); err == nil {
			if err := s.cache.Set(ctx, key, payload, s.cacheTTL); err != nil {
				s.LogError(ctx, err, "Dashboard cache write failed")
			}
		}
	}
	return resp, nil
}

func (s *dashboardService) GetMonthTotals(ctx context.Context, userID string, period domain.Period, asOf time.Time) (*domain.MonthTotals, error) {
	rates, err := s.rateRepo.ListRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load exchange rates: %w", err)
	}
	snapshot, err := s.loadSnapshot(ctx, userID, rates)
	if err != nil {
		return nil, err
	}
	totals, err := projection.ComputeMonthTotals(snapshot.commitments, snapshot.payments, period, asOf, snapshot.conv)
	if err != nil {
		return nil, fmt.Errorf("failed to compute month totals: %w", err)
	}
	return &totals, nil
}

func (s *dashboardService) GetTotalsRange(ctx context.Context, userID string, from, to domain.Period, asOf time.Time) ([]domain.MonthTotals, error) {
	rates, err := s.rateRepo.ListRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load exchange rates: %w", err)
	}
	snapshot, err := s.loadSnapshot(ctx, userID, rates)
	if err != nil {
		return nil, err
	}
	months, err := projection.ComputeTotalsRange(snapshot.commitments, snapshot.payments, from, to, asOf, snapshot.conv)
	if err != nil {
		return nil, err
	}
	return months, nil
}

func (s *dashboardService) GetStateCounts(ctx context.Context, userID string, asOf time.Time) (map[domain.LifecycleState]int, error) {
	rates, err := s.rateRepo.ListRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load exchange rates: %w", err)
	}
	snapshot, err := s.loadSnapshot(ctx, userID, rates)
	if err != nil {
		return nil, err
	}
	summaries, err := projection.SummarizeAll(snapshot.commitments, snapshot.payments, asOf, snapshot.conv)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize commitments: %w", err)
	}
	return projection.CountByState(summaries), nil
}

// collectWarnings flattens per-commitment warnings for the response's top
// strip. Each warning already names its commitment.
func collectWarnings(summaries []domain.CommitmentSummary) []domain.Warning {
	var warnings []domain.Warning
	for _, summary := range summaries {
		warnings = append(warnings, summary.Warnings...)
	}
	return warnings
}
