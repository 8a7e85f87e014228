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
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock CommitmentRepository ---
type MockCommitmentRepository struct {
	mock.Mock
}

func (m *MockCommitmentRepository) FindCommitmentByID(ctx context.Context, commitmentID string) (*domain.Commitment, error) {
	args := m.Called(ctx, commitmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Commitment), args.Error(1)
}

func (m *MockCommitmentRepository) FindCommitmentsByUser(ctx context.Context, userID string, limit int, nextToken string) ([]domain.Commitment, string, error) {
	args := m.Called(ctx, userID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]domain.Commitment), args.String(1), args.Error(2)
}

func (m *MockCommitmentRepository) FindAllCommitmentsByUser(ctx context.Context, userID string) ([]domain.Commitment, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Commitment), args.Error(1)
}

func (m *MockCommitmentRepository) FindTermsByCommitment(ctx context.Context, commitmentID string) ([]domain.Term, error) {
	args := m.Called(ctx, commitmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Term), args.Error(1)
}

func (m *MockCommitmentRepository) SaveCommitment(ctx context.Context, commitment domain.Commitment, initialTerm domain.Term) error {
	args := m.Called(ctx, commitment, initialTerm)
	return args.Error(0)
}

func (m *MockCommitmentRepository) UpdateCommitment(ctx context.Context, commitment domain.Commitment) error {
	args := m.Called(ctx, commitment)
	return args.Error(0)
}

func (m *MockCommitmentRepository) SaveTermVersion(ctx context.Context, userID string, closeUntil *domain.Period, term domain.Term) error {
	args := m.Called(ctx, userID, closeUntil, term)
	return args.Error(0)
}

func (m *MockCommitmentRepository) MarkCommitmentDeleted(ctx context.Context, userID string, commitmentID string, deletedAt time.Time, deletedBy string) error {
	args := m.Called(ctx, userID, commitmentID, deletedAt, deletedBy)
	return args.Error(0)
}

// --- Mock PaymentRepository ---
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindPaymentsByCommitment(ctx context.Context, commitmentID string) ([]domain.Payment, error) {
	args := m.Called(ctx, commitmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindPaymentsByUser(ctx context.Context, userID string, from, to *domain.Period) ([]domain.Payment, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) UpsertPayment(ctx context.Context, userID string, payment domain.Payment) (*domain.Payment, error) {
	args := m.Called(ctx, userID, payment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) DeletePayment(ctx context.Context, userID string, paymentID string) error {
	args := m.Called(ctx, userID, paymentID)
	return args.Error(0)
}

// --- Test Suite ---
type CommitmentServiceTestSuite struct {
	suite.Suite
	mockCommitmentRepo *MockCommitmentRepository
	mockPaymentRepo    *MockPaymentRepository
	mockCategoryRepo   *MockCategoryRepository
	mockRateRepo       *MockExchangeRateRepository
	service            portssvc.CommitmentSvcFacade
	userID             string
}

func (suite *CommitmentServiceTestSuite) SetupTest() {
	suite.mockCommitmentRepo = new(MockCommitmentRepository)
	suite.mockPaymentRepo = new(MockPaymentRepository)
	suite.mockCategoryRepo = new(MockCategoryRepository)
	suite.mockRateRepo = new(MockExchangeRateRepository)
	suite.userID = uuid.NewString()
	suite.service = services.NewCommitmentService(
		suite.mockCommitmentRepo,
		suite.mockPaymentRepo,
		suite.mockCategoryRepo,
		suite.mockRateRepo,
		"CLP",
	)
}

func (suite *CommitmentServiceTestSuite) termRequest() dto.TermRequest {
	return dto.TermRequest{
		EffectiveFrom: "2025-01",
		Frequency:     "MONTHLY",
		DueDay:        intPtr(5),
		CurrencyCode:  "CLP",
		Amount:        decimal.NewFromInt(450000),
	}
}

// existingCommitment builds a stored commitment with one open monthly term
// starting 2025-01, owned by the suite's user.
func (suite *CommitmentServiceTestSuite) existingCommitment() *domain.Commitment {
	commitmentID := uuid.NewString()
	return &domain.Commitment{
		CommitmentID: commitmentID,
		UserID:       suite.userID,
		Name:         "Arriendo",
		Flow:         domain.Expense,
		Terms: []domain.Term{{
			TermID:         uuid.NewString(),
			CommitmentID:   commitmentID,
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
	}
}

func intPtr(i int) *int { return &i }

// --- Test Cases ---

func (suite *CommitmentServiceTestSuite) TestCreateCommitment_Success() {
	ctx := context.Background()
	req := dto.CreateCommitmentRequest{
		Name: "Arriendo",
		Flow: "EXPENSE",
		Term: suite.termRequest(),
	}

	suite.mockCommitmentRepo.On("SaveCommitment", ctx,
		mock.AnythingOfType("domain.Commitment"), mock.AnythingOfType("domain.Term")).Return(nil).Once()

	commitment, err := suite.service.CreateCommitment(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(commitment)
	suite.NotEmpty(commitment.CommitmentID)
	suite.Equal(suite.userID, commitment.UserID)
	suite.Require().Len(commitment.Terms, 1)

	term := commitment.Terms[0]
	suite.Equal(1, term.Version)
	suite.Equal(commitment.CommitmentID, term.CommitmentID)
	suite.True(term.IsOpen())
	suite.Equal(domain.EstimationFixed, term.EstimationMode, "estimation mode defaults to FIXED")
	suite.True(term.FxRate.Equal(decimal.NewFromInt(1)), "base currency saves with rate 1")
	suite.True(term.BaseAmount.Equal(req.Term.Amount))
	suite.mockCommitmentRepo.AssertExpectations(suite.T())
}

func (suite *CommitmentServiceTestSuite) TestCreateCommitment_ForeignCurrency() {
	ctx := context.Background()
	req := dto.CreateCommitmentRequest{Name: "Seguro UF", Flow: "EXPENSE", Term: suite.termRequest()}
	req.Term.CurrencyCode = "UF"
	req.Term.Amount = decimal.NewFromInt(2)

	suite.mockRateRepo.On("FindRateByCurrency", ctx, "UF").
		Return(&domain.ExchangeRate{CurrencyCode: "UF", RateToBase: decimal.NewFromInt(38000)}, nil).Once()
	suite.mockCommitmentRepo.On("SaveCommitment", ctx,
		mock.AnythingOfType("domain.Commitment"), mock.AnythingOfType("domain.Term")).Return(nil).Once()

	commitment, err := suite.service.CreateCommitment(ctx, suite.userID, req)

	suite.Require().NoError(err)
	term := commitment.Terms[0]
	suite.True(term.FxRate.Equal(decimal.NewFromInt(38000)))
	suite.True(term.BaseAmount.Equal(decimal.NewFromInt(76000)), "base amount captured at save time")
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func (suite *CommitmentServiceTestSuite) TestCreateCommitment_MissingRate() {
	ctx := context.Background()
	req := dto.CreateCommitmentRequest{Name: "Suscripción", Flow: "EXPENSE", Term: suite.termRequest()}
	req.Term.CurrencyCode = "USD"

	suite.mockRateRepo.On("FindRateByCurrency", ctx, "USD").Return(nil, apperrors.ErrNotFound).Once()

	commitment, err := suite.service.CreateCommitment(ctx, suite.userID, req)

	suite.Require().Error(err)
	suite.Nil(commitment)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "USD")
	suite.mockCommitmentRepo.AssertNotCalled(suite.T(), "SaveCommitment")
}

func (suite *CommitmentServiceTestSuite) TestCreateCommitment_CategoryNotOwned() {
	ctx := context.Background()
	categoryID := uuid.NewString()
	req := dto.CreateCommitmentRequest{
		Name:       "Luz",
		CategoryID: categoryID,
		Flow:       "EXPENSE",
		Term:       suite.termRequest(),
	}

	suite.mockCategoryRepo.On("FindCategoryByID", ctx, categoryID).
		Return(&domain.Category{CategoryID: categoryID, UserID: uuid.NewString()}, nil).Once()

	commitment, err := suite.service.CreateCommitment(ctx, suite.userID, req)

	suite.Require().Error(err)
	suite.Nil(commitment)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockCommitmentRepo.AssertNotCalled(suite.T(), "SaveCommitment")
}

func (suite *CommitmentServiceTestSuite) TestCreateCommitment_CategoryKindMismatch() {
	ctx := context.Background()
	categoryID := uuid.NewString()
	req := dto.CreateCommitmentRequest{
		Name:       "Sueldo",
		CategoryID: categoryID,
		Flow:       "INCOME",
		Term:       suite.termRequest(),
	}

	suite.mockCategoryRepo.On("FindCategoryByID", ctx, categoryID).
		Return(&domain.Category{CategoryID: categoryID, UserID: suite.userID, Kind: domain.Expense}, nil).Once()

	commitment, err := suite.service.CreateCommitment(ctx, suite.userID, req)

	suite.Require().Error(err)
	suite.Nil(commitment)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "kind")
	suite.mockCommitmentRepo.AssertNotCalled(suite.T(), "SaveCommitment")
}

func (suite *CommitmentServiceTestSuite) TestCreateCommitment_OnceWithInstallments() {
	ctx := context.Background()
	req := dto.CreateCommitmentRequest{Name: "Pago único", Flow: "EXPENSE", Term: suite.termRequest()}
	req.Term.Frequency = "ONCE"
	req.Term.InstallmentsCount = intPtr(3)

	commitment, err := suite.service.CreateCommitment(ctx, suite.userID, req)

	suite.Require().Error(err)
	suite.Nil(commitment)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockCommitmentRepo.AssertNotCalled(suite.T(), "SaveCommitment")
}

func (suite *CommitmentServiceTestSuite) TestListCommitments_DefaultsLimit() {
	ctx := context.Background()

	suite.mockCommitmentRepo.On("FindCommitmentsByUser", ctx, suite.userID, 20, "").
		Return([]domain.Commitment{}, "", nil).Once()

	_, token, err := suite.service.ListCommitments(ctx, suite.userID, 0, "")

	suite.Require().NoError(err)
	suite.Empty(token)
	suite.mockCommitmentRepo.AssertExpectations(suite.T())
}

func (suite *CommitmentServiceTestSuite) TestUpdateCommitment_SelfLink() {
	ctx := context.Background()
	existing := suite.existingCommitment()
	selfID := existing.CommitmentID

	suite.mockCommitmentRepo.On("FindCommitmentByID", ctx, selfID).Return(existing, nil).Once()

	updated, err := suite.service.UpdateCommitment(ctx, suite.userID, selfID, dto.UpdateCommitmentRequest{
		LinkedCommitmentID: &selfID,
	})

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockCommitmentRepo.AssertNotCalled(suite.T(), "UpdateCommitment")
}

func (suite *CommitmentServiceTestSuite) TestChangeTerms_ClosesOpenTerm() {
	ctx := context.Background()
	existing := suite.existingCommitment()
	commitmentID := existing.CommitmentID
	req := dto.ChangeTermsRequest{TermRequest: suite.termRequest()}
	req.EffectiveFrom = "2025-06"
	req.Amount = decimal.NewFromInt(480000)

	wantClose := domain.NewPeriod(2025, time.May)

	suite.mockCommitmentRepo.On("FindCommitmentByID", ctx, commitmentID).Return(existing, nil).Twice()
	suite.mockCommitmentRepo.On("SaveTermVersion", ctx, suite.userID,
		mock.MatchedBy(func(closeUntil *domain.Period) bool {
			return closeUntil != nil && closeUntil.Equal(wantClose)
		}),
		mock.MatchedBy(func(term domain.Term) bool {
			return term.Version == 2 && term.EffectiveFrom.Equal(domain.NewPeriod(2025, time.June)) && term.IsOpen()
		})).Return(nil).Once()

	commitment, err := suite.service.ChangeTerms(ctx, suite.userID, commitmentID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(commitment)
	suite.mockCommitmentRepo.AssertExpectations(suite.T())
}

func (suite *CommitmentServiceTestSuite) TestChangeTerms_NotAfterCurrentStart() {
	ctx := context.Background()
	existing := suite.existingCommitment()
	req := dto.ChangeTermsRequest{TermRequest: suite.termRequest()}
	req.EffectiveFrom = "2025-01" // same month the current term starts

	suite.mockCommitmentRepo.On("FindCommitmentByID", ctx, existing.CommitmentID).Return(existing, nil).Once()

	commitment, err := suite.service.ChangeTerms(ctx, suite.userID, existing.CommitmentID, req)

	suite.Require().Error(err)
	suite.Nil(commitment)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockCommitmentRepo.AssertNotCalled(suite.T(), "SaveTermVersion")
}

func (suite *CommitmentServiceTestSuite) TestChangeTerms_AfterClosedHistory() {
	ctx := context.Background()
	existing := suite.existingCommitment()
	until := domain.NewPeriod(2025, time.June)
	existing.Terms[0].EffectiveUntil = &until
	req := dto.ChangeTermsRequest{TermRequest: suite.termRequest()}
	req.EffectiveFrom = "2025-09"

	suite.mockCommitmentRepo.On("FindCommitmentByID", ctx, existing.CommitmentID).Return(existing, nil).Twice()
	suite.mockCommitmentRepo.On("SaveTermVersion", ctx, suite.userID,
		(*domain.Period)(nil), mock.AnythingOfType("domain.Term")).Return(nil).Once()

	commitment, err := suite.service.ChangeTerms(ctx, suite.userID, existing.CommitmentID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(commitment)
	suite.mockCommitmentRepo.AssertExpectations(suite.T())
}

func (suite *CommitmentServiceTestSuite) TestUpsertPayment_Success() {
	ctx := context.Background()
	existing := suite.existingCommitment()
	termID := existing.Terms[0].TermID
	paid := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	req := dto.UpsertPaymentRequest{
		PeriodDate:  "2025-03",
		PaymentDate: &paid,
		Amount:      decimal.NewFromInt(450000),
	}

	suite.mockCommitmentRepo.On("FindCommitmentByID", ctx, existing.CommitmentID).Return(existing, nil).Once()
	suite.mockPaymentRepo.On("UpsertPayment", ctx, suite.userID,
		mock.MatchedBy(func(p domain.Payment) bool {
			return p.TermID == termID &&
				p.PeriodDate.Equal(domain.NewPeriod(2025, time.March)) &&
				p.CurrencyCode == "CLP" &&
				p.FxRate.Equal(decimal.NewFromInt(1))
		})).
		Return(&domain.Payment{PaymentID: uuid.NewString(), CommitmentID: existing.CommitmentID, TermID: termID}, nil).Once()

	payment, err := suite.service.UpsertPayment(ctx, suite.userID, existing.CommitmentID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(payment)
	suite.Equal(termID, payment.TermID, "the governing term is frozen on the record")
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

func (suite *CommitmentServiceTestSuite) TestUpsertPayment_NoTermCoversPeriod() {
	ctx := context.Background()
	existing := suite.existingCommitment()
	req := dto.UpsertPaymentRequest{
		PeriodDate: "2024-06", // before the first term starts
		Amount:     decimal.NewFromInt(450000),
	}

	suite.mockCommitmentRepo.On("FindCommitmentByID", ctx, existing.CommitmentID).Return(existing, nil).Once()

	payment, err := suite.service.UpsertPayment(ctx, suite.userID, existing.CommitmentID, req)

	suite.Require().Error(err)
	suite.Nil(payment)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "2024-06")
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "UpsertPayment")
}

func (suite *CommitmentServiceTestSuite) TestUpsertPayment_Forbidden() {
	ctx := context.Background()
	existing := suite.existingCommitment()
	existing.UserID = uuid.NewString() // someone else's commitment

	suite.mockCommitmentRepo.On("FindCommitmentByID", ctx, existing.CommitmentID).Return(existing, nil).Once()

	payment, err := suite.service.UpsertPayment(ctx, suite.userID, existing.CommitmentID, dto.UpsertPaymentRequest{
		PeriodDate: "2025-03",
		Amount:     decimal.NewFromInt(1000),
	})

	suite.Require().Error(err)
	suite.Nil(payment)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "UpsertPayment")
}

func (suite *CommitmentServiceTestSuite) TestListPaymentsInRange_Success() {
	ctx := context.Background()
	from := domain.NewPeriod(2025, time.January)
	to := domain.NewPeriod(2025, time.March)
	stored := []domain.Payment{
		{PaymentID: uuid.NewString(), CommitmentID: uuid.NewString(), PeriodDate: domain.NewPeriod(2025, time.February)},
	}

	suite.mockPaymentRepo.On("FindPaymentsByUser", ctx, suite.userID, &from, &to).Return(stored, nil).Once()

	payments, err := suite.service.ListPaymentsInRange(ctx, suite.userID, from, to)

	suite.Require().NoError(err)
	suite.Len(payments, 1)
	suite.Equal(stored[0].PaymentID, payments[0].PaymentID)
}

func (suite *CommitmentServiceTestSuite) TestListPaymentsInRange_Reversed() {
	ctx := context.Background()

	payments, err := suite.service.ListPaymentsInRange(ctx, suite.userID,
		domain.NewPeriod(2025, time.March), domain.NewPeriod(2025, time.January))

	suite.Require().Error(err)
	suite.Nil(payments)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "FindPaymentsByUser")
}

func (suite *CommitmentServiceTestSuite) TestDeletePayment_WrongCommitment() {
	ctx := context.Background()
	existing := suite.existingCommitment()
	paymentID := uuid.NewString()

	suite.mockCommitmentRepo.On("FindCommitmentByID", ctx, existing.CommitmentID).Return(existing, nil).Once()
	suite.mockPaymentRepo.On("FindPaymentByID", ctx, paymentID).
		Return(&domain.Payment{PaymentID: paymentID, CommitmentID: uuid.NewString()}, nil).Once()

	err := suite.service.DeletePayment(ctx, suite.userID, existing.CommitmentID, paymentID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "DeletePayment")
}

func (suite *CommitmentServiceTestSuite) TestDeleteCommitment_Success() {
	ctx := context.Background()
	existing := suite.existingCommitment()

	suite.mockCommitmentRepo.On("FindCommitmentByID", ctx, existing.CommitmentID).Return(existing, nil).Once()
	suite.mockCommitmentRepo.On("MarkCommitmentDeleted", ctx, suite.userID, existing.CommitmentID,
		mock.AnythingOfType("time.Time"), suite.userID).Return(nil).Once()

	err := suite.service.DeleteCommitment(ctx, suite.userID, existing.CommitmentID)

	suite.Require().NoError(err)
	suite.mockCommitmentRepo.AssertExpectations(suite.T())
}

// --- Run Suite ---
func TestCommitmentService(t *testing.T) {
	suite.Run(t, new(CommitmentServiceTestSuite))
}
