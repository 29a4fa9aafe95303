package dto

import "github.com/emre/solidarity/internal/app/models"

// CreateAssociationRequest is the payload for registering a new association.
// The calling user becomes the first admin and switches to the association role.
type CreateAssociationRequest struct {
	Name               string            `json:"name" binding:"required" example:"Les Restos du Coeur"`
	Description        string            `json:"description" binding:"required"`
	Email              string            `json:"email" binding:"required,email" example:"contact@restos.org"`
	Phone              string            `json:"phone" binding:"required"`
	Street             *string           `json:"street,omitempty"`
	City               *string           `json:"city,omitempty"`
	PostalCode         *string           `json:"postalCode,omitempty"`
	Country            *string           `json:"country,omitempty"`
	Website            *string           `json:"website,omitempty"`
	RegistrationNumber string            `json:"registrationNumber" binding:"required"`
	Categories         []models.Category `json:"categories" binding:"omitempty,dive,oneof=education health poverty environment children elderly animals other"`
}

// UpdateAssociationRequest carries the mutable association profile fields
type UpdateAssociationRequest struct {
	Name        *string           `json:"name,omitempty" binding:"omitempty,min=1"`
	Description *string           `json:"description,omitempty"`
	Phone       *string           `json:"phone,omitempty"`
	Street      *string           `json:"street,omitempty"`
	City        *string           `json:"city,omitempty"`
	PostalCode  *string           `json:"postalCode,omitempty"`
	Country     *string           `json:"country,omitempty"`
	Website     *string           `json:"website,omitempty"`
	Categories  []models.Category `json:"categories,omitempty" binding:"omitempty,dive,oneof=education health poverty environment children elderly animals other"`
	IsActive    *bool             `json:"isActive,omitempty"`
}

// AssociationFilter narrows the public association listing
type AssociationFilter struct {
	Category   *models.Category `form:"category"`
	IsVerified *bool            `form:"isVerified"`
	IsActive   *bool            `form:"isActive"`
	Search     *string          `form:"search"`
}

// LogoUploadResponse reports where an uploaded logo landed
type LogoUploadResponse struct {
	LogoURL string `json:"logoUrl" example:"uploads/logos/logo-1716123456789-283471.png"`
}
