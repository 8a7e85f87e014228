package repositories

import (
	"context"
	"time"

	"compromisos/internal/core/domain"
)

// CategoryReader defines read operations for category data
type CategoryReader interface {
	// FindCategoryByID retrieves a category by its ID.
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)

	// FindCategoriesByUser retrieves all categories owned by a user.
	FindCategoriesByUser(ctx context.Context, userID string) ([]domain.Category, error)

	// IsCategoryInUse reports whether any live commitment references the
	// category.
	IsCategoryInUse(ctx context.Context, categoryID string) (bool, error)
}

// CategoryWriter defines write operations for category data
type CategoryWriter interface {
	// SaveCategory persists a new category.
	SaveCategory(ctx context.Context, category domain.Category) error

	// UpdateCategory updates an existing category.
	UpdateCategory(ctx context.Context, category domain.Category) error

	// MarkCategoryDeleted marks a category as deleted (soft delete).
	MarkCategoryDeleted(ctx context.Context, categoryID string, deletedAt time.Time, deletedBy string) error
}

// CategoryRepositoryFacade combines all category-related repository interfaces
type CategoryRepositoryFacade interface {
	CategoryReader
	CategoryWriter
}
