// Package policy centralizes who may do what. Every rule takes the acting
// user and the resource and returns a plain verdict, so handlers and
// services never re-derive role logic inline.
package policy

import (
	"github.com/emre/solidarity/internal/app/models"
)

// Actor is the authenticated caller as carried by the request context
type Actor struct {
	UserID        int64
	Role          models.Role
	AssociationID *int64
}

// IsAdmin reports whether the actor holds the platform admin role
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// ManagesAssociation reports whether the actor runs the given association
func (a Actor) ManagesAssociation(associationID int64) bool {
	if a.IsAdmin() {
		return true
	}
	return a.Role == models.RoleAssociation &&
		a.AssociationID != nil && *a.AssociationID == associationID
}

// CanViewUser allows a user to read their own profile; admins read any
func CanViewUser(actor Actor, userID int64) bool {
	return actor.IsAdmin() || actor.UserID == userID
}

// CanEditUser mirrors CanViewUser for profile updates
func CanEditUser(actor Actor, userID int64) bool {
	return CanViewUser(actor, userID)
}

// CanManageAssociation allows association admins and platform admins to
// edit an association's profile
func CanManageAssociation(actor Actor, association *models.Association) bool {
	if actor.IsAdmin() {
		return true
	}
	return association.IsAdminUser(actor.UserID)
}

// CanCreateCampaign restricts campaign creation to association accounts
// and admins
func CanCreateCampaign(actor Actor) bool {
	return actor.Role == models.RoleAssociation || actor.IsAdmin()
}

// CanManageCampaign allows the owning association and platform admins to
// edit a campaign
func CanManageCampaign(actor Actor, campaign *models.Campaign) bool {
	return actor.ManagesAssociation(campaign.AssociationID)
}

// CanUpdateDonationStatus allows the receiving association and admins to
// move a donation between payment states
func CanUpdateDonationStatus(actor Actor, donation *models.Donation) bool {
	return actor.ManagesAssociation(donation.AssociationID)
}

// CanViewDonation allows the donor, the receiving association and admins
// to read a donation
func CanViewDonation(actor Actor, donation *models.Donation) bool {
	if actor.IsAdmin() || actor.UserID == donation.DonorID {
		return true
	}
	return actor.ManagesAssociation(donation.AssociationID)
}

// CanViewRequest allows the requester, the assigned association and admins
// to read an aid request. Unassigned open requests are visible to any
// association so they can pick them up.
func CanViewRequest(actor Actor, request *models.AidRequest) bool {
	if actor.IsAdmin() || actor.UserID == request.RequesterID {
		return true
	}
	if actor.Role != models.RoleAssociation {
		return false
	}
	if request.AssignedAssociationID == nil {
		return request.Status == models.RequestPending || request.Status == models.RequestReviewing
	}
	return actor.ManagesAssociation(*request.AssignedAssociationID)
}

// CanEditRequest allows the requester to edit their own request while it
// is still pending; admins may edit at any stage
func CanEditRequest(actor Actor, request *models.AidRequest) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.UserID == request.RequesterID && request.Status == models.RequestPending
}

// CanDeleteRequest mirrors CanEditRequest
func CanDeleteRequest(actor Actor, request *models.AidRequest) bool {
	return CanEditRequest(actor, request)
}

// CanAssignRequest allows associations to claim unassigned requests and
// admins to assign anything
func CanAssignRequest(actor Actor, request *models.AidRequest) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.Role == models.RoleAssociation && request.AssignedAssociationID == nil
}

// CanUpdateRequestStatus allows the assigned association and admins to
// move a request through its lifecycle
func CanUpdateRequestStatus(actor Actor, request *models.AidRequest) bool {
	if actor.IsAdmin() {
		return true
	}
	if request.AssignedAssociationID == nil {
		return false
	}
	return actor.ManagesAssociation(*request.AssignedAssociationID)
}
