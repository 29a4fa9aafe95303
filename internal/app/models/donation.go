package models

import (
	"time"
)

// PaymentMethod defines how a donation was paid
type PaymentMethod string

const (
	PaymentCreditCard   PaymentMethod = "credit_card"
	PaymentPaypal       PaymentMethod = "paypal"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCash         PaymentMethod = "cash"
)

// ValidPaymentMethod reports whether m is a known payment method
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentCreditCard, PaymentPaypal, PaymentBankTransfer, PaymentCash:
		return true
	}
	return false
}

// PaymentStatus defines the payment lifecycle state of a donation
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// ValidPaymentStatus reports whether s is a known payment status
func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// Anonymous donor display name substituted at read time on public listings.
// The true donor id stays on the row and remains queryable by staff.
const (
	AnonymousFirstName = "Anonymous"
	AnonymousLastName  = "Donor"
)

// Donation defines the donation model based on the 'donations' table.
// Amount is immutable after creation; only PaymentStatus may change.
type Donation struct {
	ID            int64         `json:"id" db:"id" example:"42"`
	DonorID       int64         `json:"donor" db:"donor_id" example:"1"`
	CampaignID    int64         `json:"campaign" db:"campaign_id" example:"7"`
	AssociationID int64         `json:"association" db:"association_id" example:"3"` // Campaign's owner, denormalized for query convenience
	Amount        float64       `json:"amount" db:"amount" example:"250"`
	Currency      string        `json:"currency" db:"currency" example:"EUR"`
	PaymentMethod PaymentMethod `json:"paymentMethod" db:"payment_method" example:"credit_card"`
	PaymentStatus PaymentStatus `json:"paymentStatus" db:"payment_status" example:"completed"`
	TransactionID string        `json:"transactionId" db:"transaction_id" example:"TXN01J0A2B3C4D5E6F7G8H9J0K1M2"` // Unique across all donations
	Message       *string       `json:"message,omitempty" db:"message"`
	IsAnonymous   bool          `json:"isAnonymous" db:"is_anonymous"`
	DonationDate  time.Time     `json:"donationDate" db:"donation_date"`
	CreatedAt     time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time     `json:"updatedAt" db:"updated_at"`

	Donor       *User        `json:"donorDetails,omitempty"`       // Relation, no db tag
	Campaign    *Campaign    `json:"campaignDetails,omitempty"`    // Relation, no db tag
	Association *Association `json:"associationDetails,omitempty"` // Relation, no db tag
}
