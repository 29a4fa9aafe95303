package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/emre/solidarity/internal/app/models"
	"github.com/emre/solidarity/internal/app/models/dto"
	"github.com/emre/solidarity/internal/app/policy"
	"github.com/emre/solidarity/internal/pkg/apperrors"
)

func ptr(v int64) *int64 { return &v }

// fakeDonationStore keeps donations in memory and records which lookup
// path the service chose.
type fakeDonationStore struct {
	donations map[int64]*models.Donation
	nextID    int64

	recorded   []*models.Donation
	listedBy   string
	reconciled bool
	statusSet  models.PaymentStatus
}

func newFakeDonationStore() *fakeDonationStore {
	return &fakeDonationStore{donations: map[int64]*models.Donation{}, nextID: 1}
}

func (f *fakeDonationStore) Record(_ context.Context, d *models.Donation) (int64, error) {
	id := f.nextID
	f.nextID++
	stored := *d
	stored.ID = id
	f.donations[id] = &stored
	f.recorded = append(f.recorded, &stored)
	return id, nil
}

func (f *fakeDonationStore) GetByID(_ context.Context, id int64) (*models.Donation, error) {
	d, ok := f.donations[id]
	if !ok {
		return nil, apperrors.ErrDonationNotFound
	}
	return d, nil
}

func (f *fakeDonationStore) GetByDonor(_ context.Context, donorID int64, _ uint64, _ int) ([]*models.Donation, int64, error) {
	f.listedBy = "donor"
	var out []*models.Donation
	for _, d := range f.donations {
		if d.DonorID == donorID {
			out = append(out, d)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeDonationStore) GetByAssociation(_ context.Context, associationID int64, _ uint64, _ int) ([]*models.Donation, int64, error) {
	f.listedBy = "association"
	var out []*models.Donation
	for _, d := range f.donations {
		if d.AssociationID == associationID {
			out = append(out, d)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeDonationStore) GetAll(_ context.Context, _ uint64, _ int) ([]*models.Donation, int64, error) {
	f.listedBy = "all"
	var out []*models.Donation
	for _, d := range f.donations {
		out = append(out, d)
	}
	return out, int64(len(out)), nil
}

func (f *fakeDonationStore) GetCompletedByCampaign(_ context.Context, campaignID int64, limit int) ([]*models.Donation, error) {
	var out []*models.Donation
	for _, d := range f.donations {
		if d.CampaignID == campaignID && d.PaymentStatus == models.PaymentCompleted && len(out) < limit {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDonationStore) UpdateStatus(_ context.Context, id int64, status models.PaymentStatus) error {
	d, ok := f.donations[id]
	if !ok {
		return apperrors.ErrDonationNotFound
	}
	d.PaymentStatus = status
	f.statusSet = status
	return nil
}

func (f *fakeDonationStore) Reconcile(context.Context) error {
	f.reconciled = true
	return nil
}

// fakeCampaignStore serves a fixed set of campaigns.
type fakeCampaignStore struct {
	campaigns map[int64]*models.Campaign
}

func (f *fakeCampaignStore) GetAll(context.Context, dto.CampaignFilter) ([]*models.Campaign, error) {
	return nil, nil
}

func (f *fakeCampaignStore) GetByID(_ context.Context, id int64) (*models.Campaign, error) {
	c, ok := f.campaigns[id]
	if !ok {
		return nil, apperrors.ErrCampaignNotFound
	}
	return c, nil
}

func (f *fakeCampaignStore) Create(_ context.Context, c *models.Campaign) (int64, error) {
	return c.ID, nil
}

func (f *fakeCampaignStore) Update(context.Context, *models.Campaign) error       { return nil }
func (f *fakeCampaignStore) AppendImages(context.Context, int64, []string) error  { return nil }
func (f *fakeCampaignStore) Delete(context.Context, int64) error                  { return nil }
func (f *fakeCampaignStore) AddUpdate(context.Context, *models.CampaignUpdate) (int64, error) {
	return 0, nil
}

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func runningCampaign() *models.Campaign {
	return &models.Campaign{
		ID:            7,
		AssociationID: 3,
		Title:         "Winter shelter",
		Currency:      "EUR",
		GoalAmount:    10000,
		Status:        models.CampaignActive,
		StartDate:     testNow.AddDate(0, -1, 0),
		EndDate:       testNow.AddDate(0, 1, 0),
	}
}

func newTestDonationService(ds *fakeDonationStore, cs *fakeCampaignStore) *DonationService {
	svc := NewDonationService(ds, cs, zerolog.Nop())
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestRecordDonation(t *testing.T) {
	ds := newFakeDonationStore()
	cs := &fakeCampaignStore{campaigns: map[int64]*models.Campaign{7: runningCampaign()}}
	svc := newTestDonationService(ds, cs)

	actor := policy.Actor{UserID: 5, Role: models.RoleUser}
	donation, err := svc.Record(context.Background(), actor, &dto.CreateDonationRequest{
		CampaignID:    7,
		Amount:        250,
		PaymentMethod: models.PaymentCreditCard,
	})
	if err != nil {
		t.Fatalf("Record() error: %v", err)
	}

	if donation.DonorID != 5 {
		t.Errorf("donor id = %d, want 5", donation.DonorID)
	}
	if donation.AssociationID != 3 {
		t.Errorf("association id = %d, want the campaign's association 3", donation.AssociationID)
	}
	if donation.Currency != "EUR" {
		t.Errorf("currency = %q, want the campaign currency", donation.Currency)
	}
	if donation.PaymentStatus != models.PaymentCompleted {
		t.Errorf("payment status = %q, want completed", donation.PaymentStatus)
	}
	if !strings.HasPrefix(donation.TransactionID, "TXN") {
		t.Errorf("transaction id %q should carry the TXN prefix", donation.TransactionID)
	}
	if len(donation.TransactionID) != 3+26 {
		t.Errorf("transaction id %q should be TXN plus a 26-char ULID", donation.TransactionID)
	}
}

func TestRecordDonationTransactionIDsUnique(t *testing.T) {
	ds := newFakeDonationStore()
	cs := &fakeCampaignStore{campaigns: map[int64]*models.Campaign{7: runningCampaign()}}
	svc := newTestDonationService(ds, cs)

	actor := policy.Actor{UserID: 5, Role: models.RoleUser}
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		d, err := svc.Record(context.Background(), actor, &dto.CreateDonationRequest{
			CampaignID: 7, Amount: 10, PaymentMethod: models.PaymentPaypal,
		})
		if err != nil {
			t.Fatalf("Record() error: %v", err)
		}
		if seen[d.TransactionID] {
			t.Fatalf("duplicate transaction id %q", d.TransactionID)
		}
		seen[d.TransactionID] = true
	}
}

func TestRecordDonationValidation(t *testing.T) {
	ds := newFakeDonationStore()
	cs := &fakeCampaignStore{campaigns: map[int64]*models.Campaign{7: runningCampaign()}}
	svc := newTestDonationService(ds, cs)
	actor := policy.Actor{UserID: 5, Role: models.RoleUser}

	_, err := svc.Record(context.Background(), actor, &dto.CreateDonationRequest{
		CampaignID: 7, Amount: 0.5, PaymentMethod: models.PaymentCreditCard,
	})
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("amount below 1: got %v, want validation failure", err)
	}

	_, err = svc.Record(context.Background(), actor, &dto.CreateDonationRequest{
		CampaignID: 7, Amount: 10, PaymentMethod: "bitcoin",
	})
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("unknown payment method: got %v, want validation failure", err)
	}

	_, err = svc.Record(context.Background(), actor, &dto.CreateDonationRequest{
		CampaignID: 99, Amount: 10, PaymentMethod: models.PaymentCreditCard,
	})
	if !errors.Is(err, apperrors.ErrCampaignNotFound) {
		t.Errorf("unknown campaign: got %v, want not found", err)
	}

	if len(ds.recorded) != 0 {
		t.Errorf("no donation should have been stored, got %d", len(ds.recorded))
	}
}

func TestRecordDonationCampaignNotRunning(t *testing.T) {
	draft := runningCampaign()
	draft.Status = models.CampaignDraft

	ended := runningCampaign()
	ended.ID = 8
	ended.EndDate = testNow.Add(-time.Hour)

	cs := &fakeCampaignStore{campaigns: map[int64]*models.Campaign{7: draft, 8: ended}}
	svc := newTestDonationService(newFakeDonationStore(), cs)
	actor := policy.Actor{UserID: 5, Role: models.RoleUser}

	for _, id := range []int64{7, 8} {
		_, err := svc.Record(context.Background(), actor, &dto.CreateDonationRequest{
			CampaignID: id, Amount: 10, PaymentMethod: models.PaymentCreditCard,
		})
		if !errors.Is(err, apperrors.ErrBadRequest) {
			t.Errorf("campaign %d: got %v, want bad request for a campaign outside its window", id, err)
		}
	}
}

func TestListDonationsScopedByRole(t *testing.T) {
	ds := newFakeDonationStore()
	ds.donations[1] = &models.Donation{ID: 1, DonorID: 5, AssociationID: 3}
	ds.donations[2] = &models.Donation{ID: 2, DonorID: 6, AssociationID: 4}
	svc := newTestDonationService(ds, &fakeCampaignStore{})

	cases := []struct {
		name     string
		actor    policy.Actor
		wantPath string
		wantLen  int
	}{
		{"admin sees all", policy.Actor{UserID: 1, Role: models.RoleAdmin}, "all", 2},
		{"association sees received", policy.Actor{UserID: 8, Role: models.RoleAssociation, AssociationID: ptr(3)}, "association", 1},
		{"donor sees own", policy.Actor{UserID: 5, Role: models.RoleUser}, "donor", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			donations, pagination, err := svc.List(context.Background(), tc.actor, 1, 10)
			if err != nil {
				t.Fatalf("List() error: %v", err)
			}
			if ds.listedBy != tc.wantPath {
				t.Errorf("list path = %q, want %q", ds.listedBy, tc.wantPath)
			}
			if len(donations) != tc.wantLen {
				t.Errorf("got %d donations, want %d", len(donations), tc.wantLen)
			}
			if pagination.TotalItems != int64(tc.wantLen) {
				t.Errorf("pagination total = %d, want %d", pagination.TotalItems, tc.wantLen)
			}
		})
	}
}

func TestGetDonationPermission(t *testing.T) {
	ds := newFakeDonationStore()
	ds.donations[1] = &models.Donation{ID: 1, DonorID: 5, AssociationID: 3}
	svc := newTestDonationService(ds, &fakeCampaignStore{})

	if _, err := svc.GetByID(context.Background(), policy.Actor{UserID: 5, Role: models.RoleUser}, 1); err != nil {
		t.Errorf("donor should read their donation: %v", err)
	}

	_, err := svc.GetByID(context.Background(), policy.Actor{UserID: 77, Role: models.RoleUser}, 1)
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("stranger: got %v, want permission denied", err)
	}
}

func TestListByCampaignRedactsAnonymousDonors(t *testing.T) {
	ds := newFakeDonationStore()
	ds.donations[1] = &models.Donation{
		ID: 1, DonorID: 5, CampaignID: 7, PaymentStatus: models.PaymentCompleted,
		Amount: 100, IsAnonymous: true,
		Donor: &models.User{ID: 5, FirstName: "Leila", LastName: "Benali"},
	}
	ds.donations[2] = &models.Donation{
		ID: 2, DonorID: 6, CampaignID: 7, PaymentStatus: models.PaymentCompleted,
		Amount: 50,
		Donor:  &models.User{ID: 6, FirstName: "Marc", LastName: "Dupont"},
	}
	// Pending donations stay off the public ticker
	ds.donations[3] = &models.Donation{ID: 3, DonorID: 6, CampaignID: 7, PaymentStatus: models.PaymentPending}

	cs := &fakeCampaignStore{campaigns: map[int64]*models.Campaign{7: runningCampaign()}}
	svc := newTestDonationService(ds, cs)

	public, err := svc.ListByCampaign(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListByCampaign() error: %v", err)
	}
	if len(public) != 2 {
		t.Fatalf("got %d public donations, want 2", len(public))
	}

	for _, p := range public {
		if p.IsAnonymous {
			if p.Donor.FirstName != models.AnonymousFirstName || p.Donor.LastName != models.AnonymousLastName {
				t.Errorf("anonymous donation leaked donor %q %q", p.Donor.FirstName, p.Donor.LastName)
			}
		} else if p.Donor.FirstName != "Marc" {
			t.Errorf("named donation lost its donor, got %q", p.Donor.FirstName)
		}
	}
}

func TestUpdateDonationStatusPermissions(t *testing.T) {
	ds := newFakeDonationStore()
	ds.donations[1] = &models.Donation{ID: 1, DonorID: 5, AssociationID: 3, PaymentStatus: models.PaymentCompleted}
	svc := newTestDonationService(ds, &fakeCampaignStore{})

	// The donor cannot move their own donation's payment state
	_, err := svc.UpdateStatus(context.Background(), policy.Actor{UserID: 5, Role: models.RoleUser}, 1, models.PaymentRefunded)
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("donor: got %v, want permission denied", err)
	}

	// Only the association the donation went to may touch it
	other := policy.Actor{UserID: 7, Role: models.RoleAssociation, AssociationID: ptr(99)}
	if _, err := svc.UpdateStatus(context.Background(), other, 1, models.PaymentRefunded); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("other association: got %v, want permission denied", err)
	}

	receiving := policy.Actor{UserID: 8, Role: models.RoleAssociation, AssociationID: ptr(3)}
	if d, err := svc.UpdateStatus(context.Background(), receiving, 1, models.PaymentFailed); err != nil {
		t.Fatalf("receiving association UpdateStatus() error: %v", err)
	} else if d.PaymentStatus != models.PaymentFailed {
		t.Errorf("status = %q, want failed", d.PaymentStatus)
	}

	admin := policy.Actor{UserID: 1, Role: models.RoleAdmin}
	if _, err := svc.UpdateStatus(context.Background(), admin, 1, "chargeback"); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("unknown status: got %v, want validation failure", err)
	}

	d, err := svc.UpdateStatus(context.Background(), admin, 1, models.PaymentRefunded)
	if err != nil {
		t.Fatalf("UpdateStatus() error: %v", err)
	}
	if d.PaymentStatus != models.PaymentRefunded {
		t.Errorf("status = %q, want refunded", d.PaymentStatus)
	}
}

func TestReconcileAdminOnly(t *testing.T) {
	ds := newFakeDonationStore()
	svc := newTestDonationService(ds, &fakeCampaignStore{})

	err := svc.Reconcile(context.Background(), policy.Actor{UserID: 5, Role: models.RoleUser})
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("non-admin: got %v, want permission denied", err)
	}
	if ds.reconciled {
		t.Error("reconcile must not run for non-admins")
	}

	if err := svc.Reconcile(context.Background(), policy.Actor{UserID: 1, Role: models.RoleAdmin}); err != nil {
		t.Fatalf("Reconcile() error: %v", err)
	}
	if !ds.reconciled {
		t.Error("reconcile should have run")
	}
}

func TestListByDonorPermission(t *testing.T) {
	ds := newFakeDonationStore()
	ds.donations[1] = &models.Donation{ID: 1, DonorID: 9, CampaignID: 7, AssociationID: 3, Amount: 50}
	svc := newTestDonationService(ds, &fakeCampaignStore{})

	stranger := policy.Actor{UserID: 8, Role: models.RoleUser}
	if _, _, err := svc.ListByDonor(context.Background(), stranger, 9, 1, 10); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("stranger: got %v, want permission denied", err)
	}

	self := policy.Actor{UserID: 9, Role: models.RoleUser}
	donations, pagination, err := svc.ListByDonor(context.Background(), self, 9, 1, 10)
	if err != nil {
		t.Fatalf("ListByDonor() error: %v", err)
	}
	if len(donations) != 1 || pagination.TotalItems != 1 {
		t.Errorf("got %d donations (total %d), want 1", len(donations), pagination.TotalItems)
	}

	admin := policy.Actor{UserID: 1, Role: models.RoleAdmin}
	if _, _, err := svc.ListByDonor(context.Background(), admin, 9, 1, 10); err != nil {
		t.Fatalf("admin ListByDonor() error: %v", err)
	}
}
