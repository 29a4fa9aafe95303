package models

import (
	"time"
)

// UrgencyLevel defines how pressing an aid request is
type UrgencyLevel string

const (
	UrgencyLow      UrgencyLevel = "low"
	UrgencyMedium   UrgencyLevel = "medium"
	UrgencyHigh     UrgencyLevel = "high"
	UrgencyCritical UrgencyLevel = "critical"
)

// ValidUrgencyLevel reports whether l is a known urgency level
func ValidUrgencyLevel(l UrgencyLevel) bool {
	switch l {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return true
	}
	return false
}

// RequestType defines the kind of help asked for
type RequestType string

const (
	RequestFinancial RequestType = "financial"
	RequestMaterial  RequestType = "material"
	RequestVolunteer RequestType = "volunteer"
	RequestOther     RequestType = "other"
)

// ValidRequestType reports whether t is a known request type
func ValidRequestType(t RequestType) bool {
	switch t {
	case RequestFinancial, RequestMaterial, RequestVolunteer, RequestOther:
		return true
	}
	return false
}

// RequestStatus defines the aid request lifecycle state
type RequestStatus string

const (
	RequestPending    RequestStatus = "pending"
	RequestReviewing  RequestStatus = "reviewing"
	RequestApproved   RequestStatus = "approved"
	RequestRejected   RequestStatus = "rejected"
	RequestInProgress RequestStatus = "in_progress"
	RequestCompleted  RequestStatus = "completed"
)

// requestStatusRank orders statuses along the forward-only lifecycle.
// approved and rejected share a rank since they are alternative outcomes
// of review; rejected is terminal.
var requestStatusRank = map[RequestStatus]int{
	RequestPending:    0,
	RequestReviewing:  1,
	RequestApproved:   2,
	RequestRejected:   2,
	RequestInProgress: 3,
	RequestCompleted:  4,
}

// ValidRequestStatus reports whether s is a known request status
func ValidRequestStatus(s RequestStatus) bool {
	_, ok := requestStatusRank[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next respects the
// forward-only lifecycle. Rejected requests cannot move on.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	from, ok := requestStatusRank[s]
	if !ok {
		return false
	}
	to, ok := requestStatusRank[next]
	if !ok {
		return false
	}
	if s == RequestRejected {
		return false
	}
	return to > from
}

// AidRequest defines the beneficiary aid request model based on the 'aid_requests' table
type AidRequest struct {
	ID                    int64         `json:"id" db:"id" example:"11"`
	RequesterID           int64         `json:"requester" db:"requester_id" example:"5"`
	Title                 string        `json:"title" db:"title" example:"School supplies for three children"`
	Description           string        `json:"description" db:"description"`
	Category              Category      `json:"category" db:"category" example:"education"`
	UrgencyLevel          UrgencyLevel  `json:"urgencyLevel" db:"urgency_level" example:"medium"`
	Status                RequestStatus `json:"status" db:"status" example:"pending"`
	RequestType           RequestType   `json:"requestType" db:"request_type" example:"material"`
	EstimatedAmount       *float64      `json:"estimatedAmount,omitempty" db:"estimated_amount"`
	Location              Location      `json:"location"`
	AssignedAssociationID *int64        `json:"assignedAssociation,omitempty" db:"assigned_association_id"`
	ReviewNotes           *string       `json:"reviewNotes,omitempty" db:"review_notes"`
	ReviewDate            *time.Time    `json:"reviewDate,omitempty" db:"review_date"`
	CompletionDate        *time.Time    `json:"completionDate,omitempty" db:"completion_date"`
	CreatedAt             time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt             time.Time     `json:"updatedAt" db:"updated_at"`

	Requester           *User              `json:"requesterDetails,omitempty"`   // Relation, no db tag
	AssignedAssociation *Association       `json:"associationDetails,omitempty"` // Relation, no db tag
	Documents           []*RequestDocument `json:"documents,omitempty"`          // Relation, no db tag
}

// RequestDocument is a supporting document attached to an aid request
type RequestDocument struct {
	ID         int64     `json:"id" db:"id"`
	RequestID  int64     `json:"requestId" db:"request_id"`
	Name       string    `json:"name" db:"name"`
	URL        string    `json:"url" db:"url"`
	UploadedAt time.Time `json:"uploadDate" db:"uploaded_at"`
}
