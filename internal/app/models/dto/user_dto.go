package dto

// UpdateUserRequest carries the profile fields a user may change.
// Role and association link are never settable through this payload.
type UpdateUserRequest struct {
	FirstName  *string `json:"firstName,omitempty" binding:"omitempty,min=1"`
	LastName   *string `json:"lastName,omitempty" binding:"omitempty,min=1"`
	Phone      *string `json:"phone,omitempty"`
	Street     *string `json:"street,omitempty"`
	City       *string `json:"city,omitempty"`
	PostalCode *string `json:"postalCode,omitempty"`
	Country    *string `json:"country,omitempty"`
}

// AvatarUploadResponse reports where an uploaded avatar landed
type AvatarUploadResponse struct {
	AvatarURL string `json:"avatarUrl" example:"uploads/avatars/avatar-1716123456789-283471.jpg"`
}
