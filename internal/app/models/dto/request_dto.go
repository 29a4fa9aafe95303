package dto

import "github.com/emre/solidarity/internal/app/models"

// CreateRequestRequest is the payload for submitting an aid request
type CreateRequestRequest struct {
	Title           string              `json:"title" binding:"required" example:"School supplies for three children"`
	Description     string              `json:"description" binding:"required"`
	Category        models.Category     `json:"category" binding:"required,oneof=education health poverty environment children elderly animals other"`
	UrgencyLevel    models.UrgencyLevel `json:"urgencyLevel" binding:"omitempty,oneof=low medium high critical"`
	RequestType     models.RequestType  `json:"requestType" binding:"required,oneof=financial material volunteer other"`
	EstimatedAmount *float64            `json:"estimatedAmount,omitempty" binding:"omitempty,gte=0"`
	City            *string             `json:"city,omitempty"`
	Country         *string             `json:"country,omitempty"`
}

// UpdateRequestRequest carries the fields a requester may change while
// the request is still pending
type UpdateRequestRequest struct {
	Title           *string              `json:"title,omitempty" binding:"omitempty,min=1"`
	Description     *string              `json:"description,omitempty"`
	Category        *models.Category     `json:"category,omitempty" binding:"omitempty,oneof=education health poverty environment children elderly animals other"`
	UrgencyLevel    *models.UrgencyLevel `json:"urgencyLevel,omitempty" binding:"omitempty,oneof=low medium high critical"`
	RequestType     *models.RequestType  `json:"requestType,omitempty" binding:"omitempty,oneof=financial material volunteer other"`
	EstimatedAmount *float64             `json:"estimatedAmount,omitempty" binding:"omitempty,gte=0"`
	City            *string              `json:"city,omitempty"`
	Country         *string              `json:"country,omitempty"`
}

// AssignRequestRequest assigns a request to an association; an admin may
// name any association, an association caller always gets its own
type AssignRequestRequest struct {
	AssociationID *int64 `json:"associationId,omitempty"`
}

// UpdateRequestStatusRequest advances a request along its lifecycle
type UpdateRequestStatusRequest struct {
	Status      models.RequestStatus `json:"status" binding:"required,oneof=pending reviewing approved rejected in_progress completed"`
	ReviewNotes *string              `json:"reviewNotes,omitempty"`
}

// RequestFilter narrows the aid request listing
type RequestFilter struct {
	Status       *models.RequestStatus `form:"status"`
	Category     *models.Category      `form:"category"`
	UrgencyLevel *models.UrgencyLevel  `form:"urgencyLevel"`

	// Scope fields are set by the service from the caller's role,
	// never bound from the query string.
	RequesterID       *int64 `form:"-"`
	AssociationID     *int64 `form:"-"`
	IncludeUnassigned bool   `form:"-"`
}
