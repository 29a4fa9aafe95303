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

// AssociationService handles association lifecycle operations
type AssociationService struct {
	associationStore AssociationStore
	storage          filestorage.FileStorage
	logger           zerolog.Logger
}

// NewAssociationService creates a new AssociationService
func NewAssociationService(associationStore AssociationStore, storage filestorage.FileStorage, logger zerolog.Logger) *AssociationService {
	return &AssociationService{
		associationStore: associationStore,
		storage:          storage,
		logger:           logger,
	}
}

// GetAll lists associations matching the filter. Public.
func (s *AssociationService) GetAll(ctx context.Context, filter dto.AssociationFilter) ([]*models.Association, error) {
	return s.associationStore.GetAll(ctx, filter)
}

// GetByID fetches one association. Public.
func (s *AssociationService) GetByID(ctx context.Context, id int64) (*models.Association, error) {
	return s.associationStore.GetByID(ctx, id)
}

// Create registers a new association founded by the acting user. The
// founder becomes its first admin and is promoted to the association role.
func (s *AssociationService) Create(ctx context.Context, actor policy.Actor, req *dto.CreateAssociationRequest) (*models.Association, error) {
	if actor.Role == models.RoleAssociation {
		return nil, apperrors.NewConflictError("user already manages an association")
	}

	for _, c := range req.Categories {
		if !models.ValidCategory(c) {
			return nil, apperrors.NewValidationError("unknown category: " + string(c))
		}
	}

	exists, err := s.associationStore.ExistsByEmailOrRegistration(ctx, strings.ToLower(req.Email), req.RegistrationNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrAssociationAlreadyExists
	}

	association := &models.Association{
		Name:               strings.TrimSpace(req.Name),
		Description:        req.Description,
		Email:              strings.ToLower(req.Email),
		Phone:              req.Phone,
		Website:            req.Website,
		RegistrationNumber: req.RegistrationNumber,
		Categories:         req.Categories,
		Address: models.Address{
			Street:     req.Street,
			City:       req.City,
			PostalCode: req.PostalCode,
			Country:    req.Country,
		},
	}

	id, err := s.associationStore.Create(ctx, association, actor.UserID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("associationID", id).
		Int64("founderID", actor.UserID).
		Msg("Association created")

	return s.associationStore.GetByID(ctx, id)
}

// Update edits an association's profile. Association admins and platform
// admins only.
func (s *AssociationService) Update(ctx context.Context, actor policy.Actor, id int64, req *dto.UpdateAssociationRequest) (*models.Association, error) {
	association, err := s.associationStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanManageAssociation(actor, association) {
		return nil, apperrors.ErrPermissionDenied
	}

	if req.Name != nil {
		association.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		association.Description = *req.Description
	}
	if req.Phone != nil {
		association.Phone = *req.Phone
	}
	if req.Website != nil {
		association.Website = req.Website
	}
	if req.Categories != nil {
		for _, c := range req.Categories {
			if !models.ValidCategory(c) {
				return nil, apperrors.NewValidationError("unknown category: " + string(c))
			}
		}
		association.Categories = req.Categories
	}
	if req.Street != nil {
		association.Address.Street = req.Street
	}
	if req.City != nil {
		association.Address.City = req.City
	}
	if req.PostalCode != nil {
		association.Address.PostalCode = req.PostalCode
	}
	if req.Country != nil {
		association.Address.Country = req.Country
	}
	if req.IsActive != nil {
		// Only platform admins can disable an association
		if !actor.IsAdmin() {
			return nil, apperrors.ErrPermissionDenied
		}
		association.IsActive = *req.IsActive
	}

	if err := s.associationStore.Update(ctx, association); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("associationID", id).Msg("Association updated")
	return association, nil
}

// UploadLogo validates and stores the association logo
func (s *AssociationService) UploadLogo(ctx context.Context, actor policy.Actor, id int64, fileHeader *multipart.FileHeader) (string, error) {
	association, err := s.associationStore.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if !policy.CanManageAssociation(actor, association) {
		return "", apperrors.ErrPermissionDenied
	}

	if err := filestorage.ValidateImage(fileHeader); err != nil {
		return "", err
	}

	logoURL, err := s.storage.SaveFile(fileHeader, filestorage.CategoryLogos)
	if err != nil {
		return "", err
	}

	if err := s.associationStore.UpdateLogo(ctx, id, logoURL); err != nil {
		return "", err
	}

	if association.Logo != nil {
		if err := s.storage.DeleteFile(*association.Logo); err != nil {
			s.logger.Warn().Err(err).Str("logo", *association.Logo).Msg("Failed to delete old logo")
		}
	}

	s.logger.Info().Int64("associationID", id).Str("logo", logoURL).Msg("Logo uploaded")
	return logoURL, nil
}

// Verify marks an association as verified. Admin only.
func (s *AssociationService) Verify(ctx context.Context, actor policy.Actor, id int64) error {
	if !actor.IsAdmin() {
		return apperrors.ErrPermissionDenied
	}
	if err := s.associationStore.SetVerified(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("associationID", id).Msg("Association verified")
	return nil
}

// Delete removes an association. Admin only.
func (s *AssociationService) Delete(ctx context.Context, actor policy.Actor, id int64) error {
	if !actor.IsAdmin() {
		return apperrors.ErrPermissionDenied
	}
	if err := s.associationStore.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("associationID", id).Msg("Association deleted")
	return nil
}
