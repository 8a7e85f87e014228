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
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock CategoryRepository ---
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindCategoriesByUser(ctx context.Context, userID string) ([]domain.Category, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) IsCategoryInUse(ctx context.Context, categoryID string) (bool, error) {
	args := m.Called(ctx, categoryID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) MarkCategoryDeleted(ctx context.Context, categoryID string, deletedAt time.Time, deletedBy string) error {
	args := m.Called(ctx, categoryID, deletedAt, deletedBy)
	return args.Error(0)
}

// --- Test Suite ---
type CategoryServiceTestSuite struct {
	suite.Suite
	mockCategoryRepo *MockCategoryRepository
	service          portssvc.CategorySvcFacade
}

func (suite *CategoryServiceTestSuite) SetupTest() {
	suite.mockCategoryRepo = new(MockCategoryRepository)
	suite.service = services.NewCategoryService(suite.mockCategoryRepo)
}

// --- Test Cases ---

func (suite *CategoryServiceTestSuite) TestCreateCategory_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	req := dto.CreateCategoryRequest{Name: "Vivienda", Kind: "EXPENSE", Icon: "home"}

	suite.mockCategoryRepo.On("SaveCategory", ctx, mock.AnythingOfType("domain.Category")).Return(nil).Once()

	category, err := suite.service.CreateCategory(ctx, userID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(category)
	suite.NotEmpty(category.CategoryID)
	suite.Equal(userID, category.UserID)
	suite.Equal("Vivienda", category.Name)
	suite.Equal(domain.Expense, category.Kind)
	suite.Equal(userID, category.CreatedBy)
	suite.mockCategoryRepo.AssertExpectations(suite.T())
}

func (suite *CategoryServiceTestSuite) TestGetCategoryByID_Forbidden() {
	ctx := context.Background()
	categoryID := uuid.NewString()
	other := &domain.Category{CategoryID: categoryID, UserID: uuid.NewString()}

	suite.mockCategoryRepo.On("FindCategoryByID", ctx, categoryID).Return(other, nil).Once()

	category, err := suite.service.GetCategoryByID(ctx, uuid.NewString(), categoryID)

	suite.Require().Error(err)
	suite.Nil(category)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockCategoryRepo.AssertExpectations(suite.T())
}

func (suite *CategoryServiceTestSuite) TestUpdateCategory_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	categoryID := uuid.NewString()
	existing := &domain.Category{CategoryID: categoryID, UserID: userID, Name: "Old", Kind: domain.Expense}
	newName := "Servicios"

	suite.mockCategoryRepo.On("FindCategoryByID", ctx, categoryID).Return(existing, nil).Once()
	suite.mockCategoryRepo.On("UpdateCategory", ctx, mock.MatchedBy(func(c domain.Category) bool {
		return c.CategoryID == categoryID && c.Name == newName && c.LastUpdatedBy == userID
	})).Return(nil).Once()

	category, err := suite.service.UpdateCategory(ctx, userID, categoryID, dto.UpdateCategoryRequest{Name: &newName})

	suite.Require().NoError(err)
	suite.Equal(newName, category.Name)
	suite.mockCategoryRepo.AssertExpectations(suite.T())
}

func (suite *CategoryServiceTestSuite) TestDeleteCategory_InUse() {
	ctx := context.Background()
	userID := uuid.NewString()
	categoryID := uuid.NewString()
	existing := &domain.Category{CategoryID: categoryID, UserID: userID, Name: "Vivienda"}

	suite.mockCategoryRepo.On("FindCategoryByID", ctx, categoryID).Return(existing, nil).Once()
	suite.mockCategoryRepo.On("IsCategoryInUse", ctx, categoryID).Return(true, nil).Once()

	err := suite.service.DeleteCategory(ctx, userID, categoryID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockCategoryRepo.AssertNotCalled(suite.T(), "MarkCategoryDeleted")
}

func (suite *CategoryServiceTestSuite) TestDeleteCategory_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	categoryID := uuid.NewString()
	existing := &domain.Category{CategoryID: categoryID, UserID: userID, Name: "Vivienda"}

	suite.mockCategoryRepo.On("FindCategoryByID", ctx, categoryID).Return(existing, nil).Once()
	suite.mockCategoryRepo.On("IsCategoryInUse", ctx, categoryID).Return(false, nil).Once()
	suite.mockCategoryRepo.On("MarkCategoryDeleted", ctx, categoryID, mock.AnythingOfType("time.Time"), userID).Return(nil).Once()

	err := suite.service.DeleteCategory(ctx, userID, categoryID)

	suite.Require().NoError(err)
	suite.mockCategoryRepo.AssertExpectations(suite.T())
}

func (suite *CategoryServiceTestSuite) TestDeleteCategory_NotFound() {
	ctx := context.Background()
	categoryID := uuid.NewString()

	suite.mockCategoryRepo.On("FindCategoryByID", ctx, categoryID).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.DeleteCategory(ctx, uuid.NewString(), categoryID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockCategoryRepo.AssertNotCalled(suite.T(), "MarkCategoryDeleted")
}

// --- Run Suite ---
func TestCategoryService(t *testing.T) {
	suite.Run(t, new(CategoryServiceTestSuite))
}
