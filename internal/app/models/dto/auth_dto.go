package dto

import (
	"github.com/emre/solidarity/internal/app/models"
)

// RegisterRequest is the payload for creating a new account
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email" example:"donor@example.com"`
	Password  string `json:"password" binding:"required,min=8" example:"s3cretpass"`
	FirstName string `json:"firstName" binding:"required" example:"Leila"`
	LastName  string `json:"lastName" binding:"required" example:"Benali"`
	Phone     string `json:"phone" binding:"omitempty" example:"+33612345678"`
}

// LoginRequest is the payload for password authentication
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"donor@example.com"`
	Password string `json:"password" binding:"required" example:"s3cretpass"`
}

// RefreshTokenRequest exchanges a refresh token for a new token pair
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse carries a freshly issued token pair
type TokenResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresIn    int          `json:"expiresIn" example:"3600"`
	TokenType    string       `json:"tokenType" example:"Bearer"`
	User         *models.User `json:"user,omitempty"`
}
