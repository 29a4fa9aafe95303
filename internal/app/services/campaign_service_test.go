package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/emre/solidarity/internal/app/models"
	"github.com/emre/solidarity/internal/app/models/dto"
	"github.com/emre/solidarity/internal/app/policy"
	"github.com/emre/solidarity/internal/pkg/apperrors"
)

// memCampaignStore keeps campaigns in memory and records mutations, unlike
// the read-only fakeCampaignStore the donation tests use.
type memCampaignStore struct {
	campaigns map[int64]*models.Campaign
	nextID    int64

	updated        *models.Campaign
	appendedImages []string
	deletedID      int64
	addedUpdate    *models.CampaignUpdate
}

func newMemCampaignStore() *memCampaignStore {
	return &memCampaignStore{campaigns: make(map[int64]*models.Campaign), nextID: 100}
}

func (m *memCampaignStore) GetAll(context.Context, dto.CampaignFilter) ([]*models.Campaign, error) {
	out := make([]*models.Campaign, 0, len(m.campaigns))
	for _, c := range m.campaigns {
		out = append(out, c)
	}
	return out, nil
}

func (m *memCampaignStore) GetByID(_ context.Context, id int64) (*models.Campaign, error) {
	c, ok := m.campaigns[id]
	if !ok {
		return nil, apperrors.ErrCampaignNotFound
	}
	return c, nil
}

func (m *memCampaignStore) Create(_ context.Context, c *models.Campaign) (int64, error) {
	m.nextID++
	c.ID = m.nextID
	m.campaigns[c.ID] = c
	return c.ID, nil
}

func (m *memCampaignStore) Update(_ context.Context, c *models.Campaign) error {
	m.updated = c
	m.campaigns[c.ID] = c
	return nil
}

func (m *memCampaignStore) AppendImages(_ context.Context, id int64, urls []string) error {
	m.appendedImages = append(m.appendedImages, urls...)
	return nil
}

func (m *memCampaignStore) AddUpdate(_ context.Context, u *models.CampaignUpdate) (int64, error) {
	m.nextID++
	m.addedUpdate = u
	return m.nextID, nil
}

func (m *memCampaignStore) Delete(_ context.Context, id int64) error {
	m.deletedID = id
	delete(m.campaigns, id)
	return nil
}

func newTestCampaignService(store *memCampaignStore) *CampaignService {
	return NewCampaignService(store, nil, zerolog.Nop())
}

func TestCreateCampaign(t *testing.T) {
	store := newMemCampaignStore()
	svc := newTestCampaignService(store)
	actor := policy.Actor{UserID: 5, Role: models.RoleAssociation, AssociationID: ptr(3)}

	req := &dto.CreateCampaignRequest{
		Title:       "  Winter shelter  ",
		Description: "Emergency housing for the cold season",
		Category:    models.CategoryPoverty,
		GoalAmount:  10000,
		StartDate:   testNow,
		EndDate:     testNow.AddDate(0, 2, 0),
	}

	campaign, err := svc.Create(context.Background(), actor, req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if campaign.Title != "Winter shelter" {
		t.Errorf("Title = %q, expected trimmed", campaign.Title)
	}
	if campaign.AssociationID != 3 {
		t.Errorf("AssociationID = %d, want actor's association 3", campaign.AssociationID)
	}
	if campaign.Status != models.CampaignDraft {
		t.Errorf("Status = %q, new campaigns start as draft", campaign.Status)
	}
	if campaign.Currency != "EUR" {
		t.Errorf("Currency = %q, want EUR", campaign.Currency)
	}
}

func TestCreateCampaignPermissions(t *testing.T) {
	store := newMemCampaignStore()
	svc := newTestCampaignService(store)

	req := &dto.CreateCampaignRequest{
		Title:      "Test",
		Category:   models.CategoryHealth,
		GoalAmount: 500,
		StartDate:  testNow,
		EndDate:    testNow.AddDate(0, 1, 0),
	}

	donor := policy.Actor{UserID: 9, Role: models.RoleUser}
	if _, err := svc.Create(context.Background(), donor, req); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("donor create: err = %v, want ErrPermissionDenied", err)
	}

	// Admins must name the association they create for
	admin := policy.Actor{UserID: 1, Role: models.RoleAdmin}
	if _, err := svc.Create(context.Background(), admin, req); !errors.Is(err, apperrors.ErrBadRequest) {
		t.Errorf("admin without association: err = %v, want ErrBadRequest", err)
	}

	req.AssociationID = ptr(12)
	campaign, err := svc.Create(context.Background(), admin, req)
	if err != nil {
		t.Fatalf("admin create: %v", err)
	}
	if campaign.AssociationID != 12 {
		t.Errorf("AssociationID = %d, want 12", campaign.AssociationID)
	}
}

func TestCreateCampaignRejectsInvertedDates(t *testing.T) {
	svc := newTestCampaignService(newMemCampaignStore())
	actor := policy.Actor{UserID: 5, Role: models.RoleAssociation, AssociationID: ptr(3)}

	req := &dto.CreateCampaignRequest{
		Title:      "Backwards",
		Category:   models.CategoryOther,
		GoalAmount: 100,
		StartDate:  testNow,
		EndDate:    testNow.AddDate(0, 0, -1),
	}
	if _, err := svc.Create(context.Background(), actor, req); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("err = %v, want ErrValidationFailed", err)
	}
}

func TestUpdateCampaignOwnership(t *testing.T) {
	store := newMemCampaignStore()
	store.campaigns[7] = runningCampaign()
	svc := newTestCampaignService(store)

	title := "Renamed shelter"
	req := &dto.UpdateCampaignRequest{Title: &title}

	stranger := policy.Actor{UserID: 50, Role: models.RoleAssociation, AssociationID: ptr(99)}
	if _, err := svc.Update(context.Background(), stranger, 7, req); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("stranger update: err = %v, want ErrPermissionDenied", err)
	}

	owner := policy.Actor{UserID: 5, Role: models.RoleAssociation, AssociationID: ptr(3)}
	campaign, err := svc.Update(context.Background(), owner, 7, req)
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if campaign.Title != "Renamed shelter" {
		t.Errorf("Title = %q", campaign.Title)
	}
	if store.updated == nil {
		t.Error("expected store.Update to run")
	}
}

func TestUpdateCampaignKeepsDatesConsistent(t *testing.T) {
	store := newMemCampaignStore()
	store.campaigns[7] = runningCampaign()
	svc := newTestCampaignService(store)
	owner := policy.Actor{UserID: 5, Role: models.RoleAssociation, AssociationID: ptr(3)}

	// Moving the end date before the existing start date must fail
	badEnd := testNow.AddDate(0, -2, 0)
	req := &dto.UpdateCampaignRequest{EndDate: &badEnd}
	if _, err := svc.Update(context.Background(), owner, 7, req); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("err = %v, want ErrValidationFailed", err)
	}
	if store.updated != nil {
		t.Error("invalid update must not reach the store")
	}
}

func TestAddCampaignUpdate(t *testing.T) {
	store := newMemCampaignStore()
	store.campaigns[7] = runningCampaign()
	svc := newTestCampaignService(store)
	owner := policy.Actor{UserID: 5, Role: models.RoleAssociation, AssociationID: ptr(3)}

	update, err := svc.AddUpdate(context.Background(), owner, 7, &dto.AddCampaignUpdateRequest{
		Title:   " First beds installed ",
		Content: "20 beds are now ready.",
	})
	if err != nil {
		t.Fatalf("AddUpdate: %v", err)
	}
	if update.Title != "First beds installed" {
		t.Errorf("Title = %q, expected trimmed", update.Title)
	}
	if update.CampaignID != 7 {
		t.Errorf("CampaignID = %d, want 7", update.CampaignID)
	}
	if update.ID == 0 {
		t.Error("expected assigned update ID")
	}
}

func TestDeleteCampaign(t *testing.T) {
	store := newMemCampaignStore()
	store.campaigns[7] = runningCampaign()
	svc := newTestCampaignService(store)

	donor := policy.Actor{UserID: 9, Role: models.RoleUser}
	if err := svc.Delete(context.Background(), donor, 7); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("donor delete: err = %v, want ErrPermissionDenied", err)
	}

	admin := policy.Actor{UserID: 1, Role: models.RoleAdmin}
	if err := svc.Delete(context.Background(), admin, 7); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if store.deletedID != 7 {
		t.Errorf("deletedID = %d, want 7", store.deletedID)
	}

	if err := svc.Delete(context.Background(), admin, 7); !errors.Is(err, apperrors.ErrCampaignNotFound) {
		t.Errorf("second delete: err = %v, want ErrCampaignNotFound", err)
	}
}
