package models

import (
	"math"
	"time"
)

// CampaignStatus defines the campaign lifecycle state
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignActive    CampaignStatus = "active"
	CampaignCompleted CampaignStatus = "completed"
	CampaignCancelled CampaignStatus = "cancelled"
)

// ValidCampaignStatus reports whether s is a known campaign status
func ValidCampaignStatus(s CampaignStatus) bool {
	switch s {
	case CampaignDraft, CampaignActive, CampaignCompleted, CampaignCancelled:
		return true
	}
	return false
}

// Campaign defines the fundraising campaign model based on the 'campaigns' table
type Campaign struct {
	ID                 int64          `json:"id" db:"id" example:"7"`
	Title              string         `json:"title" db:"title" example:"Winter shelter 2026"`
	Description        string         `json:"description" db:"description"`
	AssociationID      int64          `json:"associationId" db:"association_id" example:"3"` // Owning association, set at creation and never reassigned
	Category           Category       `json:"category" db:"category" example:"poverty"`
	GoalAmount         float64        `json:"goalAmount" db:"goal_amount" example:"10000"`
	CurrentAmount      float64        `json:"currentAmount" db:"current_amount" example:"2500"` // Denormalized running sum of completed donations
	Currency           string         `json:"currency" db:"currency" example:"EUR"`
	Images             []string       `json:"images" db:"images"`
	StartDate          time.Time      `json:"startDate" db:"start_date"`
	EndDate            time.Time      `json:"endDate" db:"end_date"`
	Status             CampaignStatus `json:"status" db:"status" example:"active"`
	IsUrgent           bool           `json:"isUrgent" db:"is_urgent"`
	Location           Location       `json:"location"`
	BeneficiariesCount int            `json:"beneficiariesCount" db:"beneficiaries_count"`
	DonationsCount     int            `json:"donationsCount" db:"donations_count"` // Denormalized count of recorded donations
	CreatedAt          time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time      `json:"updatedAt" db:"updated_at"`

	Association *Association     `json:"association,omitempty"` // Relation, no db tag
	Updates     []CampaignUpdate `json:"updates,omitempty"`     // Relation, no db tag
}

// CampaignUpdate is a progress note published by the association on a campaign
type CampaignUpdate struct {
	ID         int64     `json:"id" db:"id"`
	CampaignID int64     `json:"campaignId" db:"campaign_id"`
	Title      string    `json:"title" db:"title"`
	Content    string    `json:"content" db:"content"`
	CreatedAt  time.Time `json:"date" db:"created_at"`
}

// ProgressPercentage returns the rounded percentage of the goal reached.
// A zero goal yields 0 rather than dividing by zero.
func (c *Campaign) ProgressPercentage() int {
	if c.GoalAmount <= 0 {
		return 0
	}
	return int(math.Round(c.CurrentAmount / c.GoalAmount * 100))
}

// IsRunning reports whether the campaign is active and inside its date range
func (c *Campaign) IsRunning(now time.Time) bool {
	return c.Status == CampaignActive &&
		!now.Before(c.StartDate) &&
		!now.After(c.EndDate)
}
