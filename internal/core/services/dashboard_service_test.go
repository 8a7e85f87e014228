package services_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"compromisos/internal/apperrors"
	"compromisos/internal/core/domain"
	portssvc "compromisos/internal/core/ports/services"
	"compromisos/internal/core/services"
	"compromisos/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock RevisionRepository ---
type MockRevisionRepository struct {
	mock.Mock
}

func (m *MockRevisionRepository) GetRevision(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock DashboardCache ---
type MockDashboardCache struct {
	mock.Mock
}

func (m *MockDashboardCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockDashboardCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, payload, ttl)
	return args.Error(0)
}

// --- Test Suite ---
type DashboardServiceTestSuite struct {
	suite.Suite
	mockCommitmentRepo *MockCommitmentRepository
	mockPaymentRepo    *MockPaymentRepository
	mockRateRepo       *MockExchangeRateRepository
	mockRevisionRepo   *MockRevisionRepository
	mockCache          *MockDashboardCache
	service            portssvc.DashboardSvcFacade
	userID             string
	asOf               time.Time
}

func (suite *DashboardServiceTestSuite) SetupTest() {
	suite.mockCommitmentRepo = new(MockCommitmentRepository)
	suite.mockPaymentRepo = new(MockPaymentRepository)
	suite.mockRateRepo = new(MockExchangeRateRepository)
	suite.mockRevisionRepo = new(MockRevisionRepository)
	suite.mockCache = new(MockDashboardCache)
	suite.userID = uuid.NewString()
	suite.asOf = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	suite.service = services.NewDashboardService(
		suite.mockCommitmentRepo,
		suite.mockPaymentRepo,
		suite.mockRateRepo,
		suite.mockRevisionRepo,
		suite.mockCache,
		"CLP",
		"es",
		5*time.Minute,
	)
}

// fixtures returns one paid expense and one income with no payments, both in
// base currency, active since 2025-01.
func (suite *DashboardServiceTestSuite) fixtures() ([]domain.Commitment, []domain.Payment) {
	rentID := uuid.NewString()
	rentTermID := uuid.NewString()
	salaryID := uuid.NewString()
	paid := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)

	commitments := []domain.Commitment{
		{
			CommitmentID: rentID,
			UserID:       suite.userID,
			Name:         "Arriendo",
			Flow:         domain.Expense,
			Terms: []domain.Term{{
				TermID:         rentTermID,
				CommitmentID:   rentID,
				Version:        1,
				EffectiveFrom:  domain.NewPeriod(2025, time.January),
				Frequency:      domain.Monthly,
				DueDay:         intPtr(5),
				CurrencyCode:   "CLP",
				OriginalAmount: decimal.NewFromInt(450000),
				FxRate:         decimal.NewFromInt(1),
				BaseAmount:     decimal.NewFromInt(450000),
				EstimationMode: domain.EstimationFixed,
			}},
		},
		{
			CommitmentID: salaryID,
			UserID:       suite.userID,
			Name:         "Sueldo",
			Flow:         domain.Income,
			Terms: []domain.Term{{
				TermID:         uuid.NewString(),
				CommitmentID:   salaryID,
				Version:        1,
				EffectiveFrom:  domain.NewPeriod(2025, time.January),
				Frequency:      domain.Monthly,
				CurrencyCode:   "CLP",
				OriginalAmount: decimal.NewFromInt(1500000),
				FxRate:         decimal.NewFromInt(1),
				BaseAmount:     decimal.NewFromInt(1500000),
				EstimationMode: domain.EstimationFixed,
			}},
		},
	}
	payments := []domain.Payment{{
		PaymentID:      uuid.NewString(),
		CommitmentID:   rentID,
		TermID:         rentTermID,
		PeriodDate:     domain.NewPeriod(2025, time.March),
		PaymentDate:    &paid,
		CurrencyCode:   "CLP",
		OriginalAmount: decimal.NewFromInt(450000),
		FxRate:         decimal.NewFromInt(1),
		BaseAmount:     decimal.NewFromInt(450000),
	}}
	return commitments, payments
}

func (suite *DashboardServiceTestSuite) expectSnapshot(ctx context.Context, commitments []domain.Commitment, payments []domain.Payment) {
	suite.mockRateRepo.On("ListRates", ctx).Return([]domain.ExchangeRate{}, nil)
	suite.mockCommitmentRepo.On("FindAllCommitmentsByUser", ctx, suite.userID).Return(commitments, nil)
	suite.mockPaymentRepo.On("FindPaymentsByUser", ctx, suite.userID, (*domain.Period)(nil), (*domain.Period)(nil)).Return(payments, nil)
}

// --- Test Cases ---

func (suite *DashboardServiceTestSuite) TestGetSummaries_ComputesAndCaches() {
	ctx := context.Background()
	commitments, payments := suite.fixtures()
	suite.expectSnapshot(ctx, commitments, payments)
	suite.mockRevisionRepo.On("GetRevision", ctx, suite.userID).Return(int64(7), nil).Once()
	suite.mockCache.On("Get", ctx, mock.AnythingOfType("string")).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockCache.On("Set", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("[]uint8"), 5*time.Minute).Return(nil).Once()

	resp, err := suite.service.GetSummaries(ctx, suite.userID, suite.asOf)

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.False(resp.FromCache)
	suite.Require().Len(resp.Expenses, 1)
	suite.Require().Len(resp.Income, 1)
	suite.Equal("Arriendo", resp.Expenses[0].Name)
	suite.Equal(domain.StateOK, resp.Expenses[0].State)
	suite.Equal("Sueldo", resp.Income[0].Name)
	suite.Equal(domain.StateNoPayments, resp.Income[0].State)
	suite.mockCache.AssertExpectations(suite.T())
}

func (suite *DashboardServiceTestSuite) TestGetSummaries_CacheHit() {
	ctx := context.Background()
	cached := dto.SummariesResponse{
		AsOf:     suite.asOf,
		Expenses: []domain.CommitmentSummary{{CommitmentID: uuid.NewString(), Name: "Arriendo", State: domain.StateOK}},
	}
	payload, err := json.Marshal(cached)
	suite.Require().NoError(err)

	suite.mockRateRepo.On("ListRates", ctx).Return([]domain.ExchangeRate{}, nil).Once()
	suite.mockRevisionRepo.On("GetRevision", ctx, suite.userID).Return(int64(7), nil).Once()
	suite.mockCache.On("Get", ctx, mock.AnythingOfType("string")).Return(payload, nil).Once()

	resp, err := suite.service.GetSummaries(ctx, suite.userID, suite.asOf)

	suite.Require().NoError(err)
	suite.True(resp.FromCache)
	suite.Require().Len(resp.Expenses, 1)
	suite.Equal("Arriendo", resp.Expenses[0].Name)
	suite.mockCommitmentRepo.AssertNotCalled(suite.T(), "FindAllCommitmentsByUser")
	suite.mockCache.AssertNotCalled(suite.T(), "Set")
}

func (suite *DashboardServiceTestSuite) TestGetSummaries_RevisionChangesKey() {
	ctx := context.Background()
	commitments, payments := suite.fixtures()
	suite.expectSnapshot(ctx, commitments, payments)

	var keys []string
	suite.mockRevisionRepo.On("GetRevision", ctx, suite.userID).Return(int64(1), nil).Once()
	suite.mockRevisionRepo.On("GetRevision", ctx, suite.userID).Return(int64(2), nil).Once()
	suite.mockCache.On("Get", ctx, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { keys = append(keys, args.String(1)) }).
		Return(nil, apperrors.ErrNotFound).Twice()
	suite.mockCache.On("Set", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("[]uint8"), 5*time.Minute).Return(nil).Twice()

	_, err := suite.service.GetSummaries(ctx, suite.userID, suite.asOf)
	suite.Require().NoError(err)
	_, err = suite.service.GetSummaries(ctx, suite.userID, suite.asOf)
	suite.Require().NoError(err)

	suite.Require().Len(keys, 2)
	suite.NotEqual(keys[0], keys[1], "a bumped revision must produce a new cache key")
}

func (suite *DashboardServiceTestSuite) TestGetSummaries_CacheFailureDegrades() {
	ctx := context.Background()
	commitments, payments := suite.fixtures()
	suite.expectSnapshot(ctx, commitments, payments)
	suite.mockRevisionRepo.On("GetRevision", ctx, suite.userID).Return(int64(0), assert.AnError).Once()

	resp, err := suite.service.GetSummaries(ctx, suite.userID, suite.asOf)

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.Len(resp.Expenses, 1)
	suite.mockCache.AssertNotCalled(suite.T(), "Get")
}

func (suite *DashboardServiceTestSuite) TestGetMonthTotals_Success() {
	ctx := context.Background()
	commitments, payments := suite.fixtures()
	suite.expectSnapshot(ctx, commitments, payments)

	totals, err := suite.service.GetMonthTotals(ctx, suite.userID, domain.NewPeriod(2025, time.March), suite.asOf)

	suite.Require().NoError(err)
	suite.Require().NotNil(totals)
	suite.True(totals.Committed.Equal(decimal.NewFromInt(450000)), "comprometido: %s", totals.Committed)
	suite.True(totals.Income.Equal(decimal.NewFromInt(1500000)), "ingresos: %s", totals.Income)
	suite.True(totals.Paid.Equal(decimal.NewFromInt(450000)), "pagado: %s", totals.Paid)
	suite.True(totals.Pending.IsZero(), "pendiente: %s", totals.Pending)
	suite.True(totals.Overdue.IsZero(), "vencido: %s", totals.Overdue)
	suite.True(totals.Balance.Equal(decimal.NewFromInt(1050000)), "balance: %s", totals.Balance)
}

func (suite *DashboardServiceTestSuite) TestGetTotalsRange_Success() {
	ctx := context.Background()
	commitments, payments := suite.fixtures()
	suite.expectSnapshot(ctx, commitments, payments)

	months, err := suite.service.GetTotalsRange(ctx, suite.userID,
		domain.NewPeriod(2025, time.January), domain.NewPeriod(2025, time.March), suite.asOf)

	suite.Require().NoError(err)
	suite.Require().Len(months, 3)
	suite.True(months[0].Period.Equal(domain.NewPeriod(2025, time.January)))
	suite.True(months[2].Period.Equal(domain.NewPeriod(2025, time.March)))
	// January was never paid and its due date has passed.
	suite.True(months[0].Overdue.Equal(decimal.NewFromInt(450000)))
}

func (suite *DashboardServiceTestSuite) TestGetStateCounts_Success() {
	ctx := context.Background()
	commitments, payments := suite.fixtures()
	suite.expectSnapshot(ctx, commitments, payments)

	counts, err := suite.service.GetStateCounts(ctx, suite.userID, suite.asOf)

	suite.Require().NoError(err)
	suite.Equal(1, counts[domain.StateOK])
	suite.Equal(1, counts[domain.StateNoPayments])
}

func (suite *DashboardServiceTestSuite) TestGetSummaries_NilCacheSkipsRevision() {
	ctx := context.Background()
	commitments, payments := suite.fixtures()
	service := services.NewDashboardService(
		suite.mockCommitmentRepo,
		suite.mockPaymentRepo,
		suite.mockRateRepo,
		suite.mockRevisionRepo,
		nil,
		"CLP",
		"es",
		5*time.Minute,
	)
	suite.expectSnapshot(ctx, commitments, payments)

	resp, err := service.GetSummaries(ctx, suite.userID, suite.asOf)

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.mockRevisionRepo.AssertNotCalled(suite.T(), "GetRevision")
}

// --- Run Suite ---
func TestDashboardService(t *testing.T) {
	suite.Run(t, new(DashboardServiceTestSuite))
}
