package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"compromisos/internal/apperrors"
	"compromisos/internal/core/domain"
	portsrepo "compromisos/internal/core/ports/repositories"
	"compromisos/internal/models"
	"compromisos/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCategoryRepository struct {
	BaseRepository
}

func newPgxCategoryRepository(pool *pgxpool.Pool) portsrepo.CategoryRepositoryFacade {
	return &PgxCategoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxCategoryRepository implements portsrepo.CategoryRepositoryFacade
var _ portsrepo.CategoryRepositoryFacade = (*PgxCategoryRepository)(nil)

func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	modelCategory := mapping.ToModelCategory(category)
	query := `
        INSERT INTO categories (category_id, user_id, name, kind, icon, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
    `
	_, err := r.Pool.Exec(ctx, query,
		modelCategory.CategoryID,
		modelCategory.UserID,
		modelCategory.Name,
		modelCategory.Kind,
		modelCategory.Icon,
		modelCategory.CreatedAt,
		modelCategory.CreatedBy,
		modelCategory.LastUpdatedAt,
		modelCategory.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save category: %w", err)
	}
	return nil
}

func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	query := `
		SELECT category_id, user_id, name, kind, icon, created_at, created_by, last_updated_at, last_updated_by
		FROM categories
		WHERE category_id = $1 AND deleted_at IS NULL;
	`
	var modelCategory models.Category
	err := r.Pool.QueryRow(ctx, query, categoryID).Scan(
		&modelCategory.CategoryID,
		&modelCategory.UserID,
		&modelCategory.Name,
		&modelCategory.Kind,
		&modelCategory.Icon,
		&modelCategory.CreatedAt,
		&modelCategory.CreatedBy,
		&modelCategory.LastUpdatedAt,
		&modelCategory.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category by ID %s: %w", categoryID, err)
	}

	domainCategory := mapping.ToDomainCategory(modelCategory)
	return &domainCategory, nil
}

func (r *PgxCategoryRepository) FindCategoriesByUser(ctx context.Context, userID string) ([]domain.Category, error) {
	query := `
		SELECT category_id, user_id, name, kind, icon, created_at, created_by, last_updated_at, last_updated_by
		FROM categories
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY name ASC;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories for user %s: %w", userID, err)
	}
	defer rows.Close()

	modelCategories := []models.Category{}
	for rows.Next() {
		var modelCategory models.Category
		err := rows.Scan(
			&modelCategory.CategoryID,
			&modelCategory.UserID,
			&modelCategory.Name,
			&modelCategory.Kind,
			&modelCategory.Icon,
			&modelCategory.CreatedAt,
			&modelCategory.CreatedBy,
			&modelCategory.LastUpdatedAt,
			&modelCategory.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		modelCategories = append(modelCategories, modelCategory)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", rows.Err())
	}

	return mapping.ToDomainCategorySlice(modelCategories), nil
}

func (r *PgxCategoryRepository) IsCategoryInUse(ctx context.Context, categoryID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM commitments
			WHERE category_id = $1 AND deleted_at IS NULL
		);
	`
	var inUse bool
	if err := r.Pool.QueryRow(ctx, query, categoryID).Scan(&inUse); err != nil {
		return false, fmt.Errorf("failed to check category usage for %s: %w", categoryID, err)
	}
	return inUse, nil
}

func (r *PgxCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	modelCategory := mapping.ToModelCategory(category)
	query := `
        UPDATE categories
        SET name = $1, kind = $2, icon = $3, last_updated_at = $4, last_updated_by = $5
        WHERE category_id = $6 AND deleted_at IS NULL;
    `
	cmdTag, err := r.Pool.Exec(ctx, query,
		modelCategory.Name,
		modelCategory.Kind,
		modelCategory.Icon,
		modelCategory.LastUpdatedAt,
		modelCategory.LastUpdatedBy,
		modelCategory.CategoryID,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update category query: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("category not found or already deleted: %w", apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxCategoryRepository) MarkCategoryDeleted(ctx context.Context, categoryID string, deletedAt time.Time, deletedBy string) error {
	query := `
        UPDATE categories
        SET deleted_at = $1, last_updated_at = $1, last_updated_by = $2
        WHERE category_id = $3 AND deleted_at IS NULL;
    `
	cmdTag, err := r.Pool.Exec(ctx, query, deletedAt, deletedBy, categoryID)
	if err != nil {
		return fmt.Errorf("failed to mark category as deleted: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("category not found or already deleted: %w", apperrors.ErrNotFound)
	}
	return nil
}
