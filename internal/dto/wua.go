package dto

import "github.com/wrd-mh/pah-award-api/internal/models"

// CreateWUARequest registers a Water User Association.
type CreateWUARequest struct {
	RegistrationNumber string             `json:"registration_number" validate:"required"`
	Name               string             `json:"name" validate:"required"`
	District           string             `json:"district" validate:"required"`
	Circle             string             `json:"circle" validate:"required"`
	Corporation        string             `json:"corporation" validate:"required"`
	Category           models.WUACategory `json:"category" validate:"required,oneof=MAJOR MINOR"`
	ContactEmail       string             `json:"contact_email" validate:"omitempty,email"`
	ContactPhone       string             `json:"contact_phone"`
}

// UpdateWUARequest modifies mutable association fields.
type UpdateWUARequest struct {
	Name         *string `json:"name,omitempty"`
	District     *string `json:"district,omitempty"`
	Circle       *string `json:"circle,omitempty"`
	Corporation  *string `json:"corporation,omitempty"`
	ContactEmail *string `json:"contact_email,omitempty" validate:"omitempty,email"`
	ContactPhone *string `json:"contact_phone,omitempty"`
	Active       *bool   `json:"active,omitempty"`
}
