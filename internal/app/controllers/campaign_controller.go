package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/emre/solidarity/internal/app/models/dto"
	"github.com/emre/solidarity/internal/app/services"
	"github.com/emre/solidarity/internal/middleware"
	"github.com/emre/solidarity/internal/pkg/apperrors"
)

// CampaignController handles campaign operations
type CampaignController struct {
	campaignService *services.CampaignService
	donationService *services.DonationService
	logger          zerolog.Logger
}

// NewCampaignController creates a new CampaignController
func NewCampaignController(campaignService *services.CampaignService, donationService *services.DonationService, logger zerolog.Logger) *CampaignController {
	return &CampaignController{
		campaignService: campaignService,
		donationService: donationService,
		logger:          logger,
	}
}

// GetAll lists campaigns
// @Summary List campaigns
// @Tags campaigns
// @Produce json
// @Param category query string false "Filter by category"
// @Param status query string false "Filter by status"
// @Param isUrgent query bool false "Only urgent campaigns"
// @Param association query int false "Filter by association"
// @Param search query string false "Search title and description"
// @Success 200 {object} dto.APIResponse{data=dto.ListResponse}
// @Router /campaigns [get]
func (c *CampaignController) GetAll(ctx *gin.Context) {
	var filter dto.CampaignFilter
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	campaigns, err := c.campaignService.GetAll(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	items := make([]*dto.CampaignResponse, 0, len(campaigns))
	for _, campaign := range campaigns {
		items = append(items, dto.NewCampaignResponse(campaign))
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ListResponse{Count: len(items), Items: items}, ""))
}

// GetByID returns one campaign with its update log
// @Summary Get a campaign
// @Tags campaigns
// @Produce json
// @Param id path int true "Campaign ID"
// @Success 200 {object} dto.APIResponse{data=dto.CampaignResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /campaigns/{id} [get]
func (c *CampaignController) GetByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	campaign, err := c.campaignService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewCampaignResponse(campaign), ""))
}

// GetDonations returns the public donation ticker for a campaign
// @Summary List a campaign's recent donations
// @Description Completed donations only; anonymous donors are redacted
// @Tags campaigns
// @Produce json
// @Param id path int true "Campaign ID"
// @Success 200 {object} dto.APIResponse{data=dto.ListResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /campaigns/{id}/donations [get]
func (c *CampaignController) GetDonations(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	donations, err := c.donationService.ListByCampaign(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ListResponse{Count: len(donations), Items: donations}, ""))
}

// Create launches a campaign
// @Summary Create a campaign
// @Description Association accounts create for their own association; admins name one
// @Tags campaigns
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateCampaignRequest true "Campaign payload"
// @Success 201 {object} dto.APIResponse{data=dto.CampaignResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Router /campaigns [post]
func (c *CampaignController) Create(ctx *gin.Context) {
	actor := middleware.ActorFromContext(ctx)

	var req dto.CreateCampaignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	campaign, err := c.campaignService.Create(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewCampaignResponse(campaign), "Campaign created"))
}

// Update edits a campaign
// @Summary Update a campaign
// @Tags campaigns
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Campaign ID"
// @Param request body dto.UpdateCampaignRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.CampaignResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Router /campaigns/{id} [put]
func (c *CampaignController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	actor := middleware.ActorFromContext(ctx)

	var req dto.UpdateCampaignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	campaign, err := c.campaignService.Update(ctx.Request.Context(), actor, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewCampaignResponse(campaign), "Campaign updated"))
}

// UploadImages stores campaign gallery images
// @Summary Upload campaign images
// @Tags campaigns
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Campaign ID"
// @Param images formData file true "Up to five image files"
// @Success 200 {object} dto.APIResponse{data=dto.ImageUploadResponse}
// @Failure 413 {object} dto.ErrorResponse "File too large"
// @Router /campaigns/{id}/images [post]
func (c *CampaignController) UploadImages(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	actor := middleware.ActorFromContext(ctx)

	form, err := ctx.MultipartForm()
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("multipart form is required"))
		return
	}

	urls, err := c.campaignService.UploadImages(ctx.Request.Context(), actor, id, form.File["images"])
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ImageUploadResponse{ImageURLs: urls}, "Images uploaded"))
}

// AddUpdate appends a progress entry to the campaign update log
// @Summary Add a campaign update
// @Tags campaigns
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Campaign ID"
// @Param request body dto.AddCampaignUpdateRequest true "Update entry"
// @Success 201 {object} dto.APIResponse{data=models.CampaignUpdate}
// @Failure 403 {object} dto.ErrorResponse
// @Router /campaigns/{id}/updates [post]
func (c *CampaignController) AddUpdate(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	actor := middleware.ActorFromContext(ctx)

	var req dto.AddCampaignUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	update, err := c.campaignService.AddUpdate(ctx.Request.Context(), actor, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(update, "Update added"))
}

// Delete removes a campaign
// @Summary Delete a campaign
// @Tags campaigns
// @Security BearerAuth
// @Produce json
// @Param id path int true "Campaign ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /campaigns/{id} [delete]
func (c *CampaignController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	actor := middleware.ActorFromContext(ctx)

	if err := c.campaignService.Delete(ctx.Request.Context(), actor, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Campaign deleted"))
}
