package dto

import "github.com/wrd-mh/pah-award-api/internal/models"

// CreateUserRequest registers a new principal. The role is fixed at
// creation and cannot be changed afterwards.
type CreateUserRequest struct {
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=6"`
	FullName string          `json:"full_name" validate:"required"`
	Role     models.UserRole `json:"role" validate:"required,oneof=NOMINEE CIRCLE_COMMITTEE CORPORATION_COMMITTEE STATE_COMMITTEE ADMIN"`
	WUAID    *string         `json:"wua_id,omitempty"`
}

// UpdateUserRequest modifies mutable profile fields; the role is immutable.
type UpdateUserRequest struct {
	FullName *string `json:"full_name,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}
