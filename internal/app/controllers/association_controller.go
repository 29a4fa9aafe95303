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

// AssociationController handles association operations
type AssociationController struct {
	associationService *services.AssociationService
	logger             zerolog.Logger
}

// NewAssociationController creates a new AssociationController
func NewAssociationController(associationService *services.AssociationService, logger zerolog.Logger) *AssociationController {
	return &AssociationController{
		associationService: associationService,
		logger:             logger,
	}
}

// GetAll lists associations
// @Summary List associations
// @Tags associations
// @Produce json
// @Param category query string false "Filter by category"
// @Param isVerified query bool false "Filter by verification"
// @Param search query string false "Search name and description"
// @Success 200 {object} dto.APIResponse{data=dto.ListResponse}
// @Router /associations [get]
func (c *AssociationController) GetAll(ctx *gin.Context) {
	var filter dto.AssociationFilter
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	associations, err := c.associationService.GetAll(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ListResponse{Count: len(associations), Items: associations}, ""))
}

// GetByID returns one association
// @Summary Get an association
// @Tags associations
// @Produce json
// @Param id path int true "Association ID"
// @Success 200 {object} dto.APIResponse{data=models.Association}
// @Failure 404 {object} dto.ErrorResponse
// @Router /associations/{id} [get]
func (c *AssociationController) GetByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	association, err := c.associationService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(association, ""))
}

// Create registers an association
// @Summary Create an association
// @Description The caller becomes the association's first admin
// @Tags associations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateAssociationRequest true "Association payload"
// @Success 201 {object} dto.APIResponse{data=models.Association}
// @Failure 409 {object} dto.ErrorResponse "Email or registration number taken"
// @Router /associations [post]
func (c *AssociationController) Create(ctx *gin.Context) {
	actor := middleware.ActorFromContext(ctx)

	var req dto.CreateAssociationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	association, err := c.associationService.Create(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(association, "Association created"))
}

// Update edits an association profile
// @Summary Update an association
// @Tags associations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Association ID"
// @Param request body dto.UpdateAssociationRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Association}
// @Failure 403 {object} dto.ErrorResponse
// @Router /associations/{id} [put]
func (c *AssociationController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	actor := middleware.ActorFromContext(ctx)

	var req dto.UpdateAssociationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	association, err := c.associationService.Update(ctx.Request.Context(), actor, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(association, "Association updated"))
}

// UploadLogo stores the association logo
// @Summary Upload a logo
// @Tags associations
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Association ID"
// @Param logo formData file true "Image file"
// @Success 200 {object} dto.APIResponse{data=dto.LogoUploadResponse}
// @Failure 413 {object} dto.ErrorResponse "File too large"
// @Router /associations/{id}/logo [post]
func (c *AssociationController) UploadLogo(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	actor := middleware.ActorFromContext(ctx)

	fileHeader, err := ctx.FormFile("logo")
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("logo file is required"))
		return
	}

	logoURL, err := c.associationService.UploadLogo(ctx.Request.Context(), actor, id, fileHeader)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.LogoUploadResponse{LogoURL: logoURL}, "Logo uploaded"))
}

// Verify marks an association as verified
// @Summary Verify an association
// @Description Admin only
// @Tags associations
// @Security BearerAuth
// @Produce json
// @Param id path int true "Association ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /associations/{id}/verify [patch]
func (c *AssociationController) Verify(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	actor := middleware.ActorFromContext(ctx)

	if err := c.associationService.Verify(ctx.Request.Context(), actor, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Association verified"))
}

// Delete removes an association
// @Summary Delete an association
// @Description Admin only
// @Tags associations
// @Security BearerAuth
// @Produce json
// @Param id path int true "Association ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /associations/{id} [delete]
func (c *AssociationController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	actor := middleware.ActorFromContext(ctx)

	if err := c.associationService.Delete(ctx.Request.Context(), actor, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Association deleted"))
}
