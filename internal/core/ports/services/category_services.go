package services

import (
	"context"

	"compromisos/internal/core/domain"
	"compromisos/internal/dto"
)

// CategoryReaderSvc defines read operations for categories
type CategoryReaderSvc interface {
	// GetCategoryByID retrieves a category, enforcing ownership.
	GetCategoryByID(ctx context.Context, userID, categoryID string) (*domain.Category, error)

	// ListCategories retrieves every category owned by the user.
	ListCategories(ctx context.Context, userID string) ([]domain.Category, error)
}

// CategoryWriterSvc defines write operations for categories
type CategoryWriterSvc interface {
	// CreateCategory creates a new category for the user.
	CreateCategory(ctx context.Context, userID string, req dto.CreateCategoryRequest) (*domain.Category, error)

	// UpdateCategory updates an existing category, enforcing ownership.
	UpdateCategory(ctx context.Context, userID, categoryID string, req dto.UpdateCategoryRequest) (*domain.Category, error)

	// DeleteCategory marks a category as deleted, enforcing ownership.
	DeleteCategory(ctx context.Context, userID, categoryID string) error
}

// CategorySvcFacade combines all category-related service interfaces
type CategorySvcFacade interface {
	CategoryReaderSvc
	CategoryWriterSvc
}
