package dto

import (
	"time"

	"github.com/emre/solidarity/internal/app/models"
)

// CreateCampaignRequest is the payload for launching a new campaign.
// Association is resolved from the caller unless an admin supplies one.
type CreateCampaignRequest struct {
	Title         string          `json:"title" binding:"required" example:"Winter shelter 2026"`
	Description   string          `json:"description" binding:"required"`
	Category      models.Category `json:"category" binding:"required,oneof=education health poverty environment children elderly animals other"`
	GoalAmount    float64         `json:"goalAmount" binding:"required,gt=0" example:"10000"`
	StartDate     time.Time       `json:"startDate" binding:"required"`
	EndDate       time.Time       `json:"endDate" binding:"required"`
	IsUrgent      bool            `json:"isUrgent"`
	City          *string         `json:"city,omitempty"`
	Country       *string         `json:"country,omitempty"`
	AssociationID *int64          `json:"association,omitempty"` // Admin only
}

// UpdateCampaignRequest carries the mutable campaign fields.
// The owning association and the denormalized counters cannot be set here.
type UpdateCampaignRequest struct {
	Title              *string                `json:"title,omitempty" binding:"omitempty,min=1"`
	Description        *string                `json:"description,omitempty"`
	Category           *models.Category       `json:"category,omitempty" binding:"omitempty,oneof=education health poverty environment children elderly animals other"`
	GoalAmount         *float64               `json:"goalAmount,omitempty" binding:"omitempty,gt=0"`
	StartDate          *time.Time             `json:"startDate,omitempty"`
	EndDate            *time.Time             `json:"endDate,omitempty"`
	Status             *models.CampaignStatus `json:"status,omitempty" binding:"omitempty,oneof=draft active completed cancelled"`
	IsUrgent           *bool                  `json:"isUrgent,omitempty"`
	City               *string                `json:"city,omitempty"`
	Country            *string                `json:"country,omitempty"`
	BeneficiariesCount *int                   `json:"beneficiariesCount,omitempty" binding:"omitempty,gte=0"`
}

// CampaignFilter narrows the public campaign listing
type CampaignFilter struct {
	Category      *models.Category       `form:"category"`
	Status        *models.CampaignStatus `form:"status"`
	IsUrgent      *bool                  `form:"isUrgent"`
	AssociationID *int64                 `form:"association"`
	Search        *string                `form:"search"`
}

// AddCampaignUpdateRequest appends an entry to the campaign update log
type AddCampaignUpdateRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// CampaignResponse decorates a campaign with its derived progress figures
type CampaignResponse struct {
	*models.Campaign
	ProgressPercentage int  `json:"progressPercentage" example:"25"`
	IsRunning          bool `json:"isActive"`
}

// NewCampaignResponse builds the decorated campaign payload
func NewCampaignResponse(c *models.Campaign) *CampaignResponse {
	return &CampaignResponse{
		Campaign:           c,
		ProgressPercentage: c.ProgressPercentage(),
		IsRunning:          c.IsRunning(time.Now()),
	}
}

// ImageUploadResponse reports where uploaded campaign images landed
type ImageUploadResponse struct {
	ImageURLs []string `json:"imageUrls"`
}
