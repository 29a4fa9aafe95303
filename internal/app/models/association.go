package models

import (
	"time"
)

// Association defines the charitable organization model based on the 'associations' table
type Association struct {
	ID                 int64      `json:"id" db:"id" example:"3"`
	Name               string     `json:"name" db:"name" example:"Les Restos du Coeur"` // Unique organization name
	Description        string     `json:"description" db:"description"`
	Logo               *string    `json:"logo,omitempty" db:"logo" example:"uploads/logos/logo-3.png"`
	Email              string     `json:"email" db:"email" example:"contact@restos.org"` // Unique contact email
	Phone              string     `json:"phone" db:"phone"`
	Address            Address    `json:"address"`
	Website            *string    `json:"website,omitempty" db:"website"`
	RegistrationNumber string     `json:"registrationNumber" db:"registration_number"` // Official registry id, unique
	Categories         []Category `json:"categories" db:"categories"`
	AdminUserIDs       []int64    `json:"adminUsers" db:"-"` // Users allowed to manage this association
	IsVerified         bool       `json:"isVerified" db:"is_verified"`
	IsActive           bool       `json:"isActive" db:"is_active"`
	TotalDonations     float64    `json:"totalDonations" db:"total_donations"` // Denormalized sum of completed donation amounts
	TotalCampaigns     int        `json:"totalCampaigns" db:"total_campaigns"` // Denormalized count of campaigns
	CreatedAt          time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time  `json:"updatedAt" db:"updated_at"`

	AdminUsers []*User `json:"adminUserDetails,omitempty"` // Relation, no db tag
}

// IsAdminUser reports whether the given user id can manage this association
func (a *Association) IsAdminUser(userID int64) bool {
	for _, id := range a.AdminUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}
