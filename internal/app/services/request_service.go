package services

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"

	"github.com/emre/solidarity/internal/app/models"
	"github.com/emre/solidarity/internal/app/models/dto"
	"github.com/emre/solidarity/internal/app/policy"
	"github.com/emre/solidarity/internal/pkg/apperrors"
	"github.com/emre/solidarity/internal/pkg/filestorage"
)

// RequestService handles the aid request lifecycle
type RequestService struct {
	requestStore RequestStore
	storage      filestorage.FileStorage
	logger       zerolog.Logger
}

// NewRequestService creates a new RequestService
func NewRequestService(requestStore RequestStore, storage filestorage.FileStorage, logger zerolog.Logger) *RequestService {
	return &RequestService{
		requestStore: requestStore,
		storage:      storage,
		logger:       logger,
	}
}

// Create files a new aid request for the acting user
func (s *RequestService) Create(ctx context.Context, actor policy.Actor, req *dto.CreateRequestRequest) (*models.AidRequest, error) {
	urgency := req.UrgencyLevel
	if urgency == "" {
		urgency = models.UrgencyMedium
	}

	request := &models.AidRequest{
		RequesterID:     actor.UserID,
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		Category:        req.Category,
		UrgencyLevel:    urgency,
		RequestType:     req.RequestType,
		Status:          models.RequestPending,
		EstimatedAmount: req.EstimatedAmount,
		Location: models.Location{
			City:    req.City,
			Country: req.Country,
		},
	}

	id, err := s.requestStore.Create(ctx, request)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("requestID", id).Int64("requesterID", actor.UserID).Msg("Aid request filed")
	return s.requestStore.GetByID(ctx, id)
}

// GetByID fetches an aid request the actor is allowed to see
func (s *RequestService) GetByID(ctx context.Context, actor policy.Actor, id int64) (*models.AidRequest, error) {
	request, err := s.requestStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanViewRequest(actor, request) {
		return nil, apperrors.ErrPermissionDenied
	}
	return request, nil
}

// List returns the aid requests visible to the actor: admins see all,
// associations see their assignments plus the unassigned queue, users see
// their own.
func (s *RequestService) List(ctx context.Context, actor policy.Actor, filter dto.RequestFilter) ([]*models.AidRequest, error) {
	switch {
	case actor.IsAdmin():
		// No extra scoping
	case actor.Role == models.RoleAssociation && actor.AssociationID != nil:
		filter.AssociationID = actor.AssociationID
		filter.IncludeUnassigned = true
	default:
		filter.RequesterID = &actor.UserID
	}
	return s.requestStore.GetAll(ctx, filter)
}

// Update edits a request. The requester may edit while it is still
// pending; admins may edit at any stage.
func (s *RequestService) Update(ctx context.Context, actor policy.Actor, id int64, req *dto.UpdateRequestRequest) (*models.AidRequest, error) {
	request, err := s.requestStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanEditRequest(actor, request) {
		if actor.UserID == request.RequesterID {
			return nil, apperrors.ErrRequestAlreadyProcessing
		}
		return nil, apperrors.ErrPermissionDenied
	}

	if req.Title != nil {
		request.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		request.Description = *req.Description
	}
	if req.Category != nil {
		request.Category = *req.Category
	}
	if req.UrgencyLevel != nil {
		request.UrgencyLevel = *req.UrgencyLevel
	}
	if req.RequestType != nil {
		request.RequestType = *req.RequestType
	}
	if req.City != nil {
		request.Location.City = req.City
	}
	if req.Country != nil {
		request.Location.Country = req.Country
	}
	if req.EstimatedAmount != nil {
		request.EstimatedAmount = req.EstimatedAmount
	}

	if err := s.requestStore.Update(ctx, request); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("requestID", id).Msg("Aid request updated")
	return request, nil
}

// Assign lets an association claim an unassigned request, or an admin
// assign it to any association. The request moves to reviewing.
func (s *RequestService) Assign(ctx context.Context, actor policy.Actor, id int64, req *dto.AssignRequestRequest) (*models.AidRequest, error) {
	request, err := s.requestStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanAssignRequest(actor, request) {
		return nil, apperrors.ErrPermissionDenied
	}

	associationID, err := resolveAssociationID(actor, req.AssociationID)
	if err != nil {
		return nil, err
	}

	if !request.Status.CanTransitionTo(models.RequestReviewing) && request.Status != models.RequestPending {
		return nil, apperrors.ErrInvalidStatusTransition
	}

	if err := s.requestStore.Assign(ctx, id, associationID); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("requestID", id).
		Int64("associationID", associationID).
		Msg("Aid request assigned")

	return s.requestStore.GetByID(ctx, id)
}

// UpdateStatus moves a request through its lifecycle. Transitions only go
// forward; rejected is terminal.
func (s *RequestService) UpdateStatus(ctx context.Context, actor policy.Actor, id int64, req *dto.UpdateRequestStatusRequest) (*models.AidRequest, error) {
	request, err := s.requestStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanUpdateRequestStatus(actor, request) {
		return nil, apperrors.ErrPermissionDenied
	}

	if !models.ValidRequestStatus(req.Status) {
		return nil, apperrors.NewValidationError("unknown request status")
	}
	if !request.Status.CanTransitionTo(req.Status) {
		return nil, apperrors.ErrInvalidStatusTransition
	}

	if err := s.requestStore.UpdateStatus(ctx, id, req.Status, req.ReviewNotes); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("requestID", id).
		Str("from", string(request.Status)).
		Str("to", string(req.Status)).
		Msg("Aid request status updated")

	return s.requestStore.GetByID(ctx, id)
}

// UploadDocuments attaches supporting documents to a request
func (s *RequestService) UploadDocuments(ctx context.Context, actor policy.Actor, id int64, fileHeaders []*multipart.FileHeader) (*models.AidRequest, error) {
	request, err := s.requestStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanEditRequest(actor, request) {
		return nil, apperrors.ErrPermissionDenied
	}

	if len(fileHeaders) == 0 {
		return nil, apperrors.NewBadRequestError("no files uploaded")
	}
	if len(fileHeaders) > filestorage.MaxFilesPerUpload {
		return nil, apperrors.NewBadRequestError("too many files in one upload")
	}
	for _, fh := range fileHeaders {
		if err := filestorage.ValidateDocument(fh); err != nil {
			return nil, err
		}
	}

	documents := make([]*models.RequestDocument, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		url, err := s.storage.SaveFile(fh, filestorage.CategoryDocuments)
		if err != nil {
			return nil, err
		}
		documents = append(documents, &models.RequestDocument{
			RequestID: id,
			Name:      fh.Filename,
			URL:       url,
		})
	}

	if err := s.requestStore.AddDocuments(ctx, id, documents); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("requestID", id).Int("count", len(documents)).Msg("Request documents uploaded")
	return s.requestStore.GetByID(ctx, id)
}

// Delete removes a request. The requester may delete while pending;
// admins always.
func (s *RequestService) Delete(ctx context.Context, actor policy.Actor, id int64) error {
	request, err := s.requestStore.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanDeleteRequest(actor, request) {
		return apperrors.ErrPermissionDenied
	}

	if err := s.requestStore.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("requestID", id).Msg("Aid request deleted")
	return nil
}
