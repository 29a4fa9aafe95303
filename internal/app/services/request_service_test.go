package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/emre/solidarity/internal/app/models"
	"github.com/emre/solidarity/internal/app/models/dto"
	"github.com/emre/solidarity/internal/app/policy"
	"github.com/emre/solidarity/internal/pkg/apperrors"
)

// fakeRequestStore keeps aid requests in memory.
type fakeRequestStore struct {
	requests   map[int64]*models.AidRequest
	nextID     int64
	lastFilter dto.RequestFilter
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{requests: map[int64]*models.AidRequest{}, nextID: 1}
}

func (f *fakeRequestStore) Create(_ context.Context, r *models.AidRequest) (int64, error) {
	id := f.nextID
	f.nextID++
	stored := *r
	stored.ID = id
	f.requests[id] = &stored
	return id, nil
}

func (f *fakeRequestStore) GetByID(_ context.Context, id int64) (*models.AidRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, apperrors.ErrRequestNotFound
	}
	return r, nil
}

func (f *fakeRequestStore) GetAll(_ context.Context, filter dto.RequestFilter) ([]*models.AidRequest, error) {
	f.lastFilter = filter
	var out []*models.AidRequest
	for _, r := range f.requests {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRequestStore) Update(_ context.Context, r *models.AidRequest) error {
	if _, ok := f.requests[r.ID]; !ok {
		return apperrors.ErrRequestNotFound
	}
	f.requests[r.ID] = r
	return nil
}

func (f *fakeRequestStore) Assign(_ context.Context, id, associationID int64) error {
	r, ok := f.requests[id]
	if !ok {
		return apperrors.ErrRequestNotFound
	}
	now := time.Now()
	r.AssignedAssociationID = &associationID
	r.Status = models.RequestReviewing
	r.ReviewDate = &now
	return nil
}

func (f *fakeRequestStore) UpdateStatus(_ context.Context, id int64, status models.RequestStatus, reviewNotes *string) error {
	r, ok := f.requests[id]
	if !ok {
		return apperrors.ErrRequestNotFound
	}
	r.Status = status
	if reviewNotes != nil {
		r.ReviewNotes = reviewNotes
	}
	return nil
}

func (f *fakeRequestStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.requests[id]; !ok {
		return apperrors.ErrRequestNotFound
	}
	delete(f.requests, id)
	return nil
}

func (f *fakeRequestStore) AddDocuments(_ context.Context, requestID int64, documents []*models.RequestDocument) error {
	r, ok := f.requests[requestID]
	if !ok {
		return apperrors.ErrRequestNotFound
	}
	r.Documents = append(r.Documents, documents...)
	return nil
}

func newTestRequestService(rs *fakeRequestStore) *RequestService {
	return NewRequestService(rs, nil, zerolog.Nop())
}

func TestCreateRequestDefaultsUrgency(t *testing.T) {
	rs := newFakeRequestStore()
	svc := newTestRequestService(rs)
	actor := policy.Actor{UserID: 5, Role: models.RoleUser}

	request, err := svc.Create(context.Background(), actor, &dto.CreateRequestRequest{
		Title:       "  School supplies  ",
		Description: "Supplies for three children",
		Category:    models.CategoryEducation,
		RequestType: models.RequestMaterial,
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if request.UrgencyLevel != models.UrgencyMedium {
		t.Errorf("urgency = %q, want the medium default", request.UrgencyLevel)
	}
	if request.Status != models.RequestPending {
		t.Errorf("status = %q, want pending", request.Status)
	}
	if request.Title != "School supplies" {
		t.Errorf("title = %q, want it trimmed", request.Title)
	}
	if request.RequesterID != 5 {
		t.Errorf("requester = %d, want the acting user", request.RequesterID)
	}
}

func TestListRequestsScopedByRole(t *testing.T) {
	rs := newFakeRequestStore()
	svc := newTestRequestService(rs)

	svc.List(context.Background(), policy.Actor{UserID: 1, Role: models.RoleAdmin}, dto.RequestFilter{})
	if rs.lastFilter.RequesterID != nil || rs.lastFilter.AssociationID != nil {
		t.Error("admin listing should not be scoped")
	}

	assoc := policy.Actor{UserID: 8, Role: models.RoleAssociation, AssociationID: ptr(3)}
	svc.List(context.Background(), assoc, dto.RequestFilter{})
	if rs.lastFilter.AssociationID == nil || *rs.lastFilter.AssociationID != 3 {
		t.Error("association listing should be scoped to its own association")
	}
	if !rs.lastFilter.IncludeUnassigned {
		t.Error("association listing should include the unassigned queue")
	}

	svc.List(context.Background(), policy.Actor{UserID: 5, Role: models.RoleUser}, dto.RequestFilter{})
	if rs.lastFilter.RequesterID == nil || *rs.lastFilter.RequesterID != 5 {
		t.Error("user listing should be scoped to their own requests")
	}
}

func TestUpdateRequestOnlyWhilePending(t *testing.T) {
	rs := newFakeRequestStore()
	rs.requests[1] = &models.AidRequest{ID: 1, RequesterID: 5, Status: models.RequestReviewing, Title: "Old"}
	svc := newTestRequestService(rs)

	newTitle := "New"
	_, err := svc.Update(context.Background(), policy.Actor{UserID: 5, Role: models.RoleUser}, 1, &dto.UpdateRequestRequest{Title: &newTitle})
	if !errors.Is(err, apperrors.ErrRequestAlreadyProcessing) {
		t.Errorf("requester editing a processing request: got %v, want already-processing conflict", err)
	}

	_, err = svc.Update(context.Background(), policy.Actor{UserID: 77, Role: models.RoleUser}, 1, &dto.UpdateRequestRequest{Title: &newTitle})
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("stranger: got %v, want permission denied", err)
	}

	updated, err := svc.Update(context.Background(), policy.Actor{UserID: 1, Role: models.RoleAdmin}, 1, &dto.UpdateRequestRequest{Title: &newTitle})
	if err != nil {
		t.Fatalf("admin Update() error: %v", err)
	}
	if updated.Title != "New" {
		t.Errorf("title = %q, want %q", updated.Title, "New")
	}
}

func TestAssignRequest(t *testing.T) {
	rs := newFakeRequestStore()
	rs.requests[1] = &models.AidRequest{ID: 1, RequesterID: 5, Status: models.RequestPending}
	svc := newTestRequestService(rs)

	assoc := policy.Actor{UserID: 8, Role: models.RoleAssociation, AssociationID: ptr(3)}
	request, err := svc.Assign(context.Background(), assoc, 1, &dto.AssignRequestRequest{})
	if err != nil {
		t.Fatalf("Assign() error: %v", err)
	}
	if request.AssignedAssociationID == nil || *request.AssignedAssociationID != 3 {
		t.Error("request should be assigned to the caller's association")
	}
	if request.Status != models.RequestReviewing {
		t.Errorf("status = %q, want reviewing after assignment", request.Status)
	}

	// Claimed requests cannot be taken by another association
	other := policy.Actor{UserID: 9, Role: models.RoleAssociation, AssociationID: ptr(4)}
	if _, err := svc.Assign(context.Background(), other, 1, &dto.AssignRequestRequest{}); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("second claim: got %v, want permission denied", err)
	}

	// An admin must name the association explicitly
	admin := policy.Actor{UserID: 1, Role: models.RoleAdmin}
	rs.requests[2] = &models.AidRequest{ID: 2, RequesterID: 5, Status: models.RequestPending}
	if _, err := svc.Assign(context.Background(), admin, 2, &dto.AssignRequestRequest{}); !errors.Is(err, apperrors.ErrBadRequest) {
		t.Errorf("admin without association id: got %v, want bad request", err)
	}
	if _, err := svc.Assign(context.Background(), admin, 2, &dto.AssignRequestRequest{AssociationID: ptr(4)}); err != nil {
		t.Errorf("admin Assign() error: %v", err)
	}
}

func TestUpdateRequestStatusTransitions(t *testing.T) {
	rs := newFakeRequestStore()
	rs.requests[1] = &models.AidRequest{ID: 1, RequesterID: 5, Status: models.RequestReviewing, AssignedAssociationID: ptr(3)}
	svc := newTestRequestService(rs)
	assoc := policy.Actor{UserID: 8, Role: models.RoleAssociation, AssociationID: ptr(3)}

	notes := "missing documents"
	_, err := svc.UpdateStatus(context.Background(), assoc, 1, &dto.UpdateRequestStatusRequest{Status: models.RequestPending})
	if !errors.Is(err, apperrors.ErrInvalidStatusTransition) {
		t.Errorf("backwards move: got %v, want invalid transition", err)
	}

	request, err := svc.UpdateStatus(context.Background(), assoc, 1, &dto.UpdateRequestStatusRequest{Status: models.RequestRejected, ReviewNotes: &notes})
	if err != nil {
		t.Fatalf("UpdateStatus() error: %v", err)
	}
	if request.Status != models.RequestRejected {
		t.Errorf("status = %q, want rejected", request.Status)
	}
	if request.ReviewNotes == nil || *request.ReviewNotes != notes {
		t.Error("review notes should be stored with the decision")
	}

	// Rejected is terminal, even for admins the transition rule holds
	admin := policy.Actor{UserID: 1, Role: models.RoleAdmin}
	if _, err := svc.UpdateStatus(context.Background(), admin, 1, &dto.UpdateRequestStatusRequest{Status: models.RequestApproved}); !errors.Is(err, apperrors.ErrInvalidStatusTransition) {
		t.Errorf("reviving a rejected request: got %v, want invalid transition", err)
	}
}

func TestDeleteRequestPermission(t *testing.T) {
	rs := newFakeRequestStore()
	rs.requests[1] = &models.AidRequest{ID: 1, RequesterID: 5, Status: models.RequestApproved}
	svc := newTestRequestService(rs)

	err := svc.Delete(context.Background(), policy.Actor{UserID: 5, Role: models.RoleUser}, 1)
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("requester deleting a processed request: got %v, want permission denied", err)
	}

	if err := svc.Delete(context.Background(), policy.Actor{UserID: 1, Role: models.RoleAdmin}, 1); err != nil {
		t.Fatalf("admin Delete() error: %v", err)
	}
	if len(rs.requests) != 0 {
		t.Error("request should be gone")
	}
}
