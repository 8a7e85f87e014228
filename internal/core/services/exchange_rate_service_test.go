package services_test

import (
	"context"
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

// --- Mock ExchangeRateRepository ---
type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) FindRateByCurrency(ctx context.Context, currencyCode string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) ListRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockExchangeRateRepository) DeleteExchangeRate(ctx context.Context, currencyCode string) error {
	args := m.Called(ctx, currencyCode)
	return args.Error(0)
}

// --- Test Suite ---
type ExchangeRateServiceTestSuite struct {
	suite.Suite
	mockRateRepo *MockExchangeRateRepository
	service      portssvc.ExchangeRateSvcFacade
}

func (suite *ExchangeRateServiceTestSuite) SetupTest() {
	suite.mockRateRepo = new(MockExchangeRateRepository)
	suite.service = services.NewExchangeRateService(suite.mockRateRepo, "CLP")
}

// --- Test Cases ---

func (suite *ExchangeRateServiceTestSuite) TestSaveRate_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	req := dto.SaveExchangeRateRequest{
		CurrencyCode: "uf",
		RateToBase:   decimal.NewFromInt(38000),
		DateOfRate:   time.Now().Truncate(24 * time.Hour),
	}
	stored := &domain.ExchangeRate{
		ExchangeRateID: uuid.NewString(),
		CurrencyCode:   "UF",
		RateToBase:     req.RateToBase,
		DateOfRate:     req.DateOfRate,
	}

	suite.mockRateRepo.On("SaveExchangeRate", ctx, mock.MatchedBy(func(rate domain.ExchangeRate) bool {
		return rate.CurrencyCode == "UF" && rate.RateToBase.Equal(req.RateToBase) && rate.CreatedBy == userID
	})).Return(nil).Once()
	suite.mockRateRepo.On("FindRateByCurrency", ctx, "UF").Return(stored, nil).Once()

	rate, err := suite.service.SaveRate(ctx, req, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(rate)
	suite.Equal("UF", rate.CurrencyCode)
	suite.True(rate.RateToBase.Equal(req.RateToBase))
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestSaveRate_BaseCurrency() {
	ctx := context.Background()
	req := dto.SaveExchangeRateRequest{
		CurrencyCode: "CLP",
		RateToBase:   decimal.NewFromInt(1),
		DateOfRate:   time.Now(),
	}

	rate, err := suite.service.SaveRate(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(rate)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRateRepo.AssertNotCalled(suite.T(), "SaveExchangeRate")
}

func (suite *ExchangeRateServiceTestSuite) TestSaveRate_NonPositiveRate() {
	ctx := context.Background()
	req := dto.SaveExchangeRateRequest{
		CurrencyCode: "USD",
		RateToBase:   decimal.Zero,
		DateOfRate:   time.Now(),
	}

	rate, err := suite.service.SaveRate(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(rate)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "must be positive")
	suite.mockRateRepo.AssertNotCalled(suite.T(), "SaveExchangeRate")
}

func (suite *ExchangeRateServiceTestSuite) TestGetRateByCurrency_UppercasesCode() {
	ctx := context.Background()
	expected := &domain.ExchangeRate{CurrencyCode: "USD", RateToBase: decimal.NewFromInt(950)}

	suite.mockRateRepo.On("FindRateByCurrency", ctx, "USD").Return(expected, nil).Once()

	rate, err := suite.service.GetRateByCurrency(ctx, "usd")

	suite.Require().NoError(err)
	suite.Equal(expected, rate)
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestDeleteRate_Success() {
	ctx := context.Background()

	suite.mockRateRepo.On("DeleteExchangeRate", ctx, "USD").Return(nil).Once()

	err := suite.service.DeleteRate(ctx, "usd", uuid.NewString())

	suite.Require().NoError(err)
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestConverterToBase_Snapshot() {
	ctx := context.Background()
	rates := []domain.ExchangeRate{
		{CurrencyCode: "UF", RateToBase: decimal.NewFromInt(38000)},
		{CurrencyCode: "USD", RateToBase: decimal.NewFromInt(950)},
	}

	suite.mockRateRepo.On("ListRates", ctx).Return(rates, nil).Once()

	conv, err := suite.service.ConverterToBase(ctx)
	suite.Require().NoError(err)

	// Base currency converts identically.
	got, err := conv(decimal.NewFromInt(12345), "CLP")
	suite.Require().NoError(err)
	suite.True(got.Equal(decimal.NewFromInt(12345)))

	// Known currencies multiply by their stored rate.
	got, err = conv(decimal.NewFromInt(2), "UF")
	suite.Require().NoError(err)
	suite.True(got.Equal(decimal.NewFromInt(76000)))

	// The converter never goes back to the repository.
	suite.mockRateRepo.AssertNumberOfCalls(suite.T(), "ListRates", 1)
}

func (suite *ExchangeRateServiceTestSuite) TestConverterToBase_UnknownCurrency() {
	ctx := context.Background()

	suite.mockRateRepo.On("ListRates", ctx).Return([]domain.ExchangeRate{}, nil).Once()

	conv, err := suite.service.ConverterToBase(ctx)
	suite.Require().NoError(err)

	_, err = conv(decimal.NewFromInt(100), "EUR")
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Contains(err.Error(), "EUR")
}

func TestNewExchangeRateService(t *testing.T) {
	mockRateRepo := new(MockExchangeRateRepository)

	service := services.NewExchangeRateService(mockRateRepo, "CLP")

	assert.NotNil(t, service)
	var _ portssvc.ExchangeRateSvcFacade = service
}

// --- Run Suite ---
func TestExchangeRateService(t *testing.T) {
	suite.Run(t, new(ExchangeRateServiceTestSuite))
}
