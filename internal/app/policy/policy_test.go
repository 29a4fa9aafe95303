package policy

import (
	"testing"

	"github.com/emre/solidarity/internal/app/models"
)

func ptr(v int64) *int64 { return &v }

var (
	admin       = Actor{UserID: 1, Role: models.RoleAdmin}
	donor       = Actor{UserID: 5, Role: models.RoleUser}
	association = Actor{UserID: 8, Role: models.RoleAssociation, AssociationID: ptr(3)}
)

func TestManagesAssociation(t *testing.T) {
	if !admin.ManagesAssociation(3) {
		t.Error("admin should manage any association")
	}
	if !association.ManagesAssociation(3) {
		t.Error("association account should manage its own association")
	}
	if association.ManagesAssociation(4) {
		t.Error("association account must not manage another association")
	}
	if donor.ManagesAssociation(3) {
		t.Error("plain user must not manage an association")
	}

	orphan := Actor{UserID: 9, Role: models.RoleAssociation}
	if orphan.ManagesAssociation(3) {
		t.Error("association account without an association id manages nothing")
	}
}

func TestCanViewUser(t *testing.T) {
	if !CanViewUser(donor, donor.UserID) {
		t.Error("user should view their own profile")
	}
	if CanViewUser(donor, 99) {
		t.Error("user must not view another profile")
	}
	if !CanViewUser(admin, 99) {
		t.Error("admin should view any profile")
	}
}

func TestCanManageAssociation(t *testing.T) {
	assoc := &models.Association{ID: 3, AdminUserIDs: []int64{8}}

	if !CanManageAssociation(association, assoc) {
		t.Error("listed admin user should manage the association")
	}
	if CanManageAssociation(donor, assoc) {
		t.Error("outsider must not manage the association")
	}
	if !CanManageAssociation(admin, assoc) {
		t.Error("platform admin should manage any association")
	}
}

func TestCanManageCampaign(t *testing.T) {
	campaign := &models.Campaign{ID: 7, AssociationID: 3}

	if !CanManageCampaign(association, campaign) {
		t.Error("owning association should manage its campaign")
	}
	other := Actor{UserID: 2, Role: models.RoleAssociation, AssociationID: ptr(4)}
	if CanManageCampaign(other, campaign) {
		t.Error("another association must not manage the campaign")
	}
	if CanManageCampaign(donor, campaign) {
		t.Error("plain user must not manage a campaign")
	}
	if !CanManageCampaign(admin, campaign) {
		t.Error("admin should manage any campaign")
	}
}

func TestCanViewDonation(t *testing.T) {
	donation := &models.Donation{ID: 42, DonorID: 5, AssociationID: 3}

	if !CanViewDonation(donor, donation) {
		t.Error("donor should view their own donation")
	}
	if !CanViewDonation(association, donation) {
		t.Error("receiving association should view the donation")
	}
	if !CanViewDonation(admin, donation) {
		t.Error("admin should view any donation")
	}
	stranger := Actor{UserID: 77, Role: models.RoleUser}
	if CanViewDonation(stranger, donation) {
		t.Error("unrelated user must not view the donation")
	}
}

func TestCanUpdateDonationStatus(t *testing.T) {
	donation := &models.Donation{ID: 42, DonorID: 5, AssociationID: 3}

	if !CanUpdateDonationStatus(association, donation) {
		t.Error("receiving association should update the payment status")
	}
	if !CanUpdateDonationStatus(admin, donation) {
		t.Error("admin should update any payment status")
	}
	if CanUpdateDonationStatus(donor, donation) {
		t.Error("the donor must not change their donation's payment status")
	}
	other := Actor{UserID: 88, Role: models.RoleAssociation, AssociationID: ptr(99)}
	if CanUpdateDonationStatus(other, donation) {
		t.Error("an unrelated association must not change the payment status")
	}
}

func TestCanViewRequest(t *testing.T) {
	unassigned := &models.AidRequest{ID: 11, RequesterID: 5, Status: models.RequestPending}

	if !CanViewRequest(donor, unassigned) {
		t.Error("requester should view their own request")
	}
	if !CanViewRequest(association, unassigned) {
		t.Error("associations should see unassigned pending requests")
	}
	stranger := Actor{UserID: 77, Role: models.RoleUser}
	if CanViewRequest(stranger, unassigned) {
		t.Error("unrelated user must not view the request")
	}

	assigned := &models.AidRequest{ID: 12, RequesterID: 5, Status: models.RequestApproved, AssignedAssociationID: ptr(3)}
	if !CanViewRequest(association, assigned) {
		t.Error("assigned association should view the request")
	}
	other := Actor{UserID: 2, Role: models.RoleAssociation, AssociationID: ptr(4)}
	if CanViewRequest(other, assigned) {
		t.Error("another association must not view an assigned request")
	}

	closedUnassigned := &models.AidRequest{ID: 13, RequesterID: 5, Status: models.RequestRejected}
	if CanViewRequest(association, closedUnassigned) {
		t.Error("associations should not browse closed unassigned requests")
	}
}

func TestCanEditRequest(t *testing.T) {
	pending := &models.AidRequest{ID: 11, RequesterID: 5, Status: models.RequestPending}
	if !CanEditRequest(donor, pending) {
		t.Error("requester should edit their pending request")
	}

	reviewing := &models.AidRequest{ID: 11, RequesterID: 5, Status: models.RequestReviewing}
	if CanEditRequest(donor, reviewing) {
		t.Error("requester must not edit a request under review")
	}
	if !CanEditRequest(admin, reviewing) {
		t.Error("admin should edit at any stage")
	}
	if CanEditRequest(association, pending) {
		t.Error("association must not edit someone else's request")
	}
}

func TestCanAssignRequest(t *testing.T) {
	unassigned := &models.AidRequest{ID: 11, RequesterID: 5, Status: models.RequestPending}
	if !CanAssignRequest(association, unassigned) {
		t.Error("association should claim an unassigned request")
	}

	assigned := &models.AidRequest{ID: 12, RequesterID: 5, AssignedAssociationID: ptr(4)}
	if CanAssignRequest(association, assigned) {
		t.Error("association must not reassign a claimed request")
	}
	if !CanAssignRequest(admin, assigned) {
		t.Error("admin should reassign any request")
	}
	if CanAssignRequest(donor, unassigned) {
		t.Error("plain user must not assign requests")
	}
}

func TestCanUpdateRequestStatus(t *testing.T) {
	assigned := &models.AidRequest{ID: 12, RequesterID: 5, AssignedAssociationID: ptr(3)}
	if !CanUpdateRequestStatus(association, assigned) {
		t.Error("assigned association should update the status")
	}

	other := Actor{UserID: 2, Role: models.RoleAssociation, AssociationID: ptr(4)}
	if CanUpdateRequestStatus(other, assigned) {
		t.Error("another association must not update the status")
	}

	unassigned := &models.AidRequest{ID: 11, RequesterID: 5}
	if CanUpdateRequestStatus(association, unassigned) {
		t.Error("unassigned requests have no status owner besides admins")
	}
	if !CanUpdateRequestStatus(admin, unassigned) {
		t.Error("admin should update any request status")
	}
}
