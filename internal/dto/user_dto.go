package dto

import (
	"time"

	"compromisos/internal/core/domain"
)

// RegisterUserRequest defines the payload for local account registration.
type RegisterUserRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// UpdateUserRequest defines the data allowed for updating a user.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateUserRequest struct {
	Name *string `json:"name" binding:"omitempty,min=1,max=100"`
}

// UserResponse defines the user representation returned by the API.
type UserResponse struct {
	UserID          string    `json:"userID"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	AuthProvider    string    `json:"authProvider"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	CreatedAt       time.Time `json:"createdAt"`
	LastUpdatedAt   time.Time `json:"lastUpdatedAt"`
}

// ToUserResponse converts a domain.User to UserResponse DTO
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:          user.UserID,
		Name:            user.Name,
		Email:           user.Email,
		AuthProvider:    string(user.AuthProvider),
		IsEmailVerified: user.IsEmailVerified,
		CreatedAt:       user.CreatedAt,
		LastUpdatedAt:   user.LastUpdatedAt,
	}
}
