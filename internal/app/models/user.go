package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID            int64     `json:"id" db:"id" example:"1"`                                   // Unique identifier for the user
	Email         string    `json:"email" db:"email" example:"donor@example.com"`             // User's email address
	Password      string    `json:"-" db:"password"`                                          // User's hashed password (excluded from JSON)
	FirstName     string    `json:"firstName" db:"first_name" example:"Leila"`                // User's first name
	LastName      string    `json:"lastName" db:"last_name" example:"Benali"`                 // User's last name
	Phone         *string   `json:"phone,omitempty" db:"phone" example:"+33612345678"`        // Contact phone (nullable)
	Address       Address   `json:"address"`                                                  // Postal address
	Avatar        *string   `json:"avatar,omitempty" db:"avatar" example:"uploads/avatars/avatar-1.jpg"` // Avatar URL (nullable)
	Role          Role      `json:"role" db:"role" example:"user"`                            // user, association or admin
	AssociationID *int64    `json:"associationId,omitempty" db:"association_id" example:"3"`  // Owning association for association-role accounts
	IsActive      bool      `json:"isActive" db:"is_active" example:"true"`                   // Whether the account is active
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`

	Association *Association `json:"association,omitempty"` // Relation, no db tag
}

// FullName returns the display name used in donor listings
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
