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

// CampaignService handles campaign lifecycle operations
type CampaignService struct {
	campaignStore CampaignStore
	storage       filestorage.FileStorage
	logger        zerolog.Logger
}

// NewCampaignService creates a new CampaignService
func NewCampaignService(campaignStore CampaignStore, storage filestorage.FileStorage, logger zerolog.Logger) *CampaignService {
	return &CampaignService{
		campaignStore: campaignStore,
		storage:       storage,
		logger:        logger,
	}
}

// GetAll lists campaigns matching the filter. Public.
func (s *CampaignService) GetAll(ctx context.Context, filter dto.CampaignFilter) ([]*models.Campaign, error) {
	return s.campaignStore.GetAll(ctx, filter)
}

// GetByID fetches one campaign with its update log. Public.
func (s *CampaignService) GetByID(ctx context.Context, id int64) (*models.Campaign, error) {
	return s.campaignStore.GetByID(ctx, id)
}

// Create launches a new campaign for the caller's association. Admins may
// create on behalf of any association by supplying one.
func (s *CampaignService) Create(ctx context.Context, actor policy.Actor, req *dto.CreateCampaignRequest) (*models.Campaign, error) {
	if !policy.CanCreateCampaign(actor) {
		return nil, apperrors.ErrPermissionDenied
	}

	associationID, err := resolveAssociationID(actor, req.AssociationID)
	if err != nil {
		return nil, err
	}

	if !req.EndDate.After(req.StartDate) {
		return nil, apperrors.NewValidationError("endDate must be after startDate")
	}

	campaign := &models.Campaign{
		AssociationID: associationID,
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		Category:      req.Category,
		GoalAmount:    req.GoalAmount,
		Currency:      "EUR",
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Status:        models.CampaignDraft,
		IsUrgent:      req.IsUrgent,
		Location: models.Location{
			City:    req.City,
			Country: req.Country,
		},
	}

	id, err := s.campaignStore.Create(ctx, campaign)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("campaignID", id).
		Int64("associationID", associationID).
		Msg("Campaign created")

	return s.campaignStore.GetByID(ctx, id)
}

// Update edits a campaign. Owning association and admins only.
func (s *CampaignService) Update(ctx context.Context, actor policy.Actor, id int64, req *dto.UpdateCampaignRequest) (*models.Campaign, error) {
	campaign, err := s.campaignStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanManageCampaign(actor, campaign) {
		return nil, apperrors.ErrPermissionDenied
	}

	if req.Title != nil {
		campaign.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		campaign.Description = *req.Description
	}
	if req.Category != nil {
		campaign.Category = *req.Category
	}
	if req.GoalAmount != nil {
		campaign.GoalAmount = *req.GoalAmount
	}
	if req.StartDate != nil {
		campaign.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		campaign.EndDate = *req.EndDate
	}
	if req.Status != nil {
		campaign.Status = *req.Status
	}
	if req.IsUrgent != nil {
		campaign.IsUrgent = *req.IsUrgent
	}
	if req.City != nil {
		campaign.Location.City = req.City
	}
	if req.Country != nil {
		campaign.Location.Country = req.Country
	}
	if req.BeneficiariesCount != nil {
		campaign.BeneficiariesCount = *req.BeneficiariesCount
	}

	if !campaign.EndDate.After(campaign.StartDate) {
		return nil, apperrors.NewValidationError("endDate must be after startDate")
	}

	if err := s.campaignStore.Update(ctx, campaign); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("campaignID", id).Msg("Campaign updated")
	return campaign, nil
}

// UploadImages validates and stores up to five campaign images
func (s *CampaignService) UploadImages(ctx context.Context, actor policy.Actor, id int64, fileHeaders []*multipart.FileHeader) ([]string, error) {
	campaign, err := s.campaignStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanManageCampaign(actor, campaign) {
		return nil, apperrors.ErrPermissionDenied
	}

	if len(fileHeaders) == 0 {
		return nil, apperrors.NewBadRequestError("no files uploaded")
	}
	if len(fileHeaders) > filestorage.MaxFilesPerUpload {
		return nil, apperrors.NewBadRequestError("too many files in one upload")
	}
	for _, fh := range fileHeaders {
		if err := filestorage.ValidateImage(fh); err != nil {
			return nil, err
		}
	}

	urls := make([]string, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		url, err := s.storage.SaveFile(fh, filestorage.CategoryCampaigns)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}

	if err := s.campaignStore.AppendImages(ctx, id, urls); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("campaignID", id).Int("count", len(urls)).Msg("Campaign images uploaded")
	return urls, nil
}

// AddUpdate appends a progress entry to the campaign update log
func (s *CampaignService) AddUpdate(ctx context.Context, actor policy.Actor, id int64, req *dto.AddCampaignUpdateRequest) (*models.CampaignUpdate, error) {
	campaign, err := s.campaignStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanManageCampaign(actor, campaign) {
		return nil, apperrors.ErrPermissionDenied
	}

	update := &models.CampaignUpdate{
		CampaignID: id,
		Title:      strings.TrimSpace(req.Title),
		Content:    req.Content,
	}

	updateID, err := s.campaignStore.AddUpdate(ctx, update)
	if err != nil {
		return nil, err
	}
	update.ID = updateID

	s.logger.Info().Int64("campaignID", id).Int64("updateID", updateID).Msg("Campaign update added")
	return update, nil
}

// Delete removes a campaign. Owning association and admins only.
func (s *CampaignService) Delete(ctx context.Context, actor policy.Actor, id int64) error {
	campaign, err := s.campaignStore.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanManageCampaign(actor, campaign) {
		return apperrors.ErrPermissionDenied
	}

	if err := s.campaignStore.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("campaignID", id).Msg("Campaign deleted")
	return nil
}

// resolveAssociationID picks the association a write applies to: admins
// must name one, association users always act on their own.
func resolveAssociationID(actor policy.Actor, requested *int64) (int64, error) {
	if actor.IsAdmin() {
		if requested == nil {
			return 0, apperrors.NewBadRequestError("association is required for admin writes")
		}
		return *requested, nil
	}
	if actor.AssociationID == nil {
		return 0, apperrors.ErrNoAssociationForUser
	}
	return *actor.AssociationID, nil
}
