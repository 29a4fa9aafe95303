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

// RequestController handles aid request operations
type RequestController struct {
	requestService *services.RequestService
	logger         zerolog.Logger
}

// NewRequestController creates a new RequestController
func NewRequestController(requestService *services.RequestService, logger zerolog.Logger) *RequestController {
	return &RequestController{
		requestService: requestService,
		logger:         logger,
	}
}

// Create files an aid request
// @Summary Submit an aid request
// @Tags requests
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateRequestRequest true "Aid request payload"
// @Success 201 {object} dto.APIResponse{data=models.AidRequest}
// @Router /requests [post]
func (c *RequestController) Create(ctx *gin.Context) {
	actor := middleware.ActorFromContext(ctx)

	var req dto.CreateRequestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	request, err := c.requestService.Create(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(request, "Aid request filed"))
}

// GetAll lists the aid requests visible to the caller
// @Summary List aid requests
// @Description Admins see all, associations their assignments plus the unassigned queue, users their own
// @Tags requests
// @Security BearerAuth
// @Produce json
// @Param status query string false "Filter by status"
// @Param category query string false "Filter by category"
// @Param urgencyLevel query string false "Filter by urgency"
// @Success 200 {object} dto.APIResponse{data=dto.ListResponse}
// @Router /requests [get]
func (c *RequestController) GetAll(ctx *gin.Context) {
	actor := middleware.ActorFromContext(ctx)

	var filter dto.RequestFilter
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	requests, err := c.requestService.List(ctx.Request.Context(), actor, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ListResponse{Count: len(requests), Items: requests}, ""))
}

// GetByID returns one aid request
// @Summary Get an aid request
// @Tags requests
// @Security BearerAuth
// @Produce json
// @Param id path int true "Request ID"
// @Success 200 {object} dto.APIResponse{data=models.AidRequest}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /requests/{id} [get]
func (c *RequestController) GetByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	actor := middleware.ActorFromContext(ctx)

	request, err := c.requestService.GetByID(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(request, ""))
}

// Update edits an aid request
// @Summary Update an aid request
// @Description The requester may edit while the request is still pending
// @Tags requests
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Request ID"
// @Param request body dto.UpdateRequestRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.AidRequest}
// @Failure 409 {object} dto.ErrorResponse "Request already being processed"
// @Router /requests/{id} [put]
func (c *RequestController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	actor := middleware.ActorFromContext(ctx)

	var req dto.UpdateRequestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	request, err := c.requestService.Update(ctx.Request.Context(), actor, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(request, "Aid request updated"))
}

// Assign attaches a request to an association
// @Summary Assign an aid request
// @Description Associations claim unassigned requests; admins assign to any association
// @Tags requests
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Request ID"
// @Param request body dto.AssignRequestRequest false "Association to assign (admins)"
// @Success 200 {object} dto.APIResponse{data=models.AidRequest}
// @Failure 403 {object} dto.ErrorResponse
// @Router /requests/{id}/assign [patch]
func (c *RequestController) Assign(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	actor := middleware.ActorFromContext(ctx)

	var req dto.AssignRequestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && ctx.Request.ContentLength > 0 {
		middleware.HandleValidationError(ctx, err)
		return
	}

	request, err := c.requestService.Assign(ctx.Request.Context(), actor, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(request, "Aid request assigned"))
}

// UpdateStatus advances a request along its lifecycle
// @Summary Update an aid request's status
// @Description Transitions only move forward; rejected is terminal
// @Tags requests
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Request ID"
// @Param request body dto.UpdateRequestStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=models.AidRequest}
// @Failure 409 {object} dto.ErrorResponse "Invalid status transition"
// @Router /requests/{id}/status [patch]
func (c *RequestController) UpdateStatus(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	actor := middleware.ActorFromContext(ctx)

	var req dto.UpdateRequestStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	request, err := c.requestService.UpdateStatus(ctx.Request.Context(), actor, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(request, "Status updated"))
}

// UploadDocuments attaches supporting documents
// @Summary Upload supporting documents
// @Tags requests
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Request ID"
// @Param documents formData file true "Up to five files (images, pdf, word)"
// @Success 200 {object} dto.APIResponse{data=models.AidRequest}
// @Failure 413 {object} dto.ErrorResponse "File too large"
// @Router /requests/{id}/documents [post]
func (c *RequestController) UploadDocuments(ctx *gin.Context) {
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

	request, err := c.requestService.UploadDocuments(ctx.Request.Context(), actor, id, form.File["documents"])
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(request, "Documents uploaded"))
}

// Delete removes an aid request
// @Summary Delete an aid request
// @Tags requests
// @Security BearerAuth
// @Produce json
// @Param id path int true "Request ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /requests/{id} [delete]
func (c *RequestController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	actor := middleware.ActorFromContext(ctx)

	if err := c.requestService.Delete(ctx.Request.Context(), actor, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Aid request deleted"))
}
