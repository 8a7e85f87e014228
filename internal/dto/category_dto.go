package dto

import (
	"compromisos/internal/core/domain"
)

// CreateCategoryRequest defines the payload for creating a category.
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
	Kind string `json:"kind" binding:"required,oneof=EXPENSE INCOME"`
	Icon string `json:"icon" binding:"omitempty,max=50"`
}

// UpdateCategoryRequest defines the data allowed for updating a category.
type UpdateCategoryRequest struct {
	Name *string `json:"name" binding:"omitempty,min=1,max=100"`
	Icon *string `json:"icon" binding:"omitempty,max=50"`
}

// CategoryResponse defines the category representation returned by the API.
type CategoryResponse struct {
	CategoryID string `json:"categoryID"`
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Icon       string `json:"icon,omitempty"`
}

// ToCategoryResponse converts a domain.Category to CategoryResponse DTO
func ToCategoryResponse(category *domain.Category) CategoryResponse {
	return CategoryResponse{
		CategoryID: category.CategoryID,
		Name:       category.Name,
		Kind:       string(category.Kind),
		Icon:       category.Icon,
	}
}

// ToListCategoryResponse converts a slice of domain.Category to DTOs
func ToListCategoryResponse(categories []domain.Category) []CategoryResponse {
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses
}
