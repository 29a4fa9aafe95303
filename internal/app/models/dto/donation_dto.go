package dto

import (
	"time"

	"github.com/emre/solidarity/internal/app/models"
)

// CreateDonationRequest is the payload for recording a donation.
// The donor is taken from the authenticated caller, never from the body.
type CreateDonationRequest struct {
	CampaignID    int64                `json:"campaign" binding:"required" example:"7"`
	Amount        float64              `json:"amount" binding:"required,gte=1" example:"250"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod" binding:"required,oneof=credit_card paypal bank_transfer cash"`
	Message       *string              `json:"message,omitempty"`
	IsAnonymous   bool                 `json:"isAnonymous"`
}

// UpdateDonationStatusRequest changes the payment status of a donation
type UpdateDonationStatusRequest struct {
	PaymentStatus models.PaymentStatus `json:"paymentStatus" binding:"required,oneof=pending completed failed refunded"`
}

// DonorSummary is the donor view embedded in public donation listings.
// For anonymous donations the fixed anonymous label is substituted.
type DonorSummary struct {
	FirstName string `json:"firstName" example:"Leila"`
	LastName  string `json:"lastName" example:"Benali"`
}

// PublicDonation is the redacted donation shape served on the public
// campaign-donations endpoint
type PublicDonation struct {
	ID           int64        `json:"id"`
	Amount       float64      `json:"amount"`
	Currency     string       `json:"currency"`
	Message      *string      `json:"message,omitempty"`
	IsAnonymous  bool         `json:"isAnonymous"`
	DonationDate time.Time    `json:"donationDate"`
	Donor        DonorSummary `json:"donor"`
}

// NewPublicDonation redacts the donor identity at read time when the
// donation is anonymous; the stored row is never altered.
func NewPublicDonation(d *models.Donation) PublicDonation {
	p := PublicDonation{
		ID:           d.ID,
		Amount:       d.Amount,
		Currency:     d.Currency,
		Message:      d.Message,
		IsAnonymous:  d.IsAnonymous,
		DonationDate: d.DonationDate,
	}
	if d.IsAnonymous || d.Donor == nil {
		p.Donor = DonorSummary{FirstName: models.AnonymousFirstName, LastName: models.AnonymousLastName}
	} else {
		p.Donor = DonorSummary{FirstName: d.Donor.FirstName, LastName: d.Donor.LastName}
	}
	return p
}
