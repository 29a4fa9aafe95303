package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/emre/solidarity/internal/app/models/dto"
	"github.com/emre/solidarity/internal/app/services"
	"github.com/emre/solidarity/internal/middleware"
	"github.com/emre/solidarity/internal/pkg/helpers"
)

// DonationController handles donation operations
type DonationController struct {
	donationService *services.DonationService
	logger          zerolog.Logger
}

// NewDonationController creates a new DonationController
func NewDonationController(donationService *services.DonationService, logger zerolog.Logger) *DonationController {
	return &DonationController{
		donationService: donationService,
		logger:          logger,
	}
}

// Create records a donation
// @Summary Make a donation
// @Description Records a donation against a running campaign. The payment
// settles immediately and the campaign totals move with it.
// @Tags donations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateDonationRequest true "Donation payload"
// @Success 201 {object} dto.APIResponse{data=models.Donation}
// @Failure 400 {object} dto.ErrorResponse "Campaign not accepting donations"
// @Router /donations [post]
func (c *DonationController) Create(ctx *gin.Context) {
	actor := middleware.ActorFromContext(ctx)

	var req dto.CreateDonationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	donation, err := c.donationService.Record(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(donation, "Donation recorded"))
}

// GetAll lists the donations visible to the caller
// @Summary List donations
// @Description Admins see all donations, associations what they received, donors what they gave
// @Tags donations
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /donations [get]
func (c *DonationController) GetAll(ctx *gin.Context) {
	actor := middleware.ActorFromContext(ctx)
	page, size := helpers.ParsePaginationParams(ctx)

	donations, pagination, err := c.donationService.List(ctx.Request.Context(), actor, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PaginatedResponse{Items: donations, Pagination: pagination}, ""))
}

// GetByUser lists one user's donation history
// @Summary List a user's donations
// @Description Users may read their own history; admins may read anyone's
// @Tags donations
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Router /users/{id}/donations [get]
func (c *DonationController) GetByUser(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	actor := middleware.ActorFromContext(ctx)
	page, size := helpers.ParsePaginationParams(ctx)

	donations, pagination, err := c.donationService.ListByDonor(ctx.Request.Context(), actor, id, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PaginatedResponse{Items: donations, Pagination: pagination}, ""))
}

// GetByID returns one donation
// @Summary Get a donation
// @Tags donations
// @Security BearerAuth
// @Produce json
// @Param id path int true "Donation ID"
// @Success 200 {object} dto.APIResponse{data=models.Donation}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /donations/{id} [get]
func (c *DonationController) GetByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	actor := middleware.ActorFromContext(ctx)

	donation, err := c.donationService.GetByID(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(donation, ""))
}

// UpdateStatus changes a donation's payment status
// @Summary Update a donation's payment status
// @Description Receiving association and admins; refunds shift the campaign totals back
// @Tags donations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Donation ID"
// @Param request body dto.UpdateDonationStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=models.Donation}
// @Failure 403 {object} dto.ErrorResponse
// @Router /donations/{id}/status [patch]
func (c *DonationController) UpdateStatus(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	actor := middleware.ActorFromContext(ctx)

	var req dto.UpdateDonationStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	donation, err := c.donationService.UpdateStatus(ctx.Request.Context(), actor, id, req.PaymentStatus)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(donation, "Donation status updated"))
}

// Reconcile recomputes the denormalized donation counters
// @Summary Reconcile donation counters
// @Description Admin only; recomputes campaign and association totals from the donation rows
// @Tags donations
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /donations/reconcile [post]
func (c *DonationController) Reconcile(ctx *gin.Context) {
	actor := middleware.ActorFromContext(ctx)

	if err := c.donationService.Reconcile(ctx.Request.Context(), actor); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Counters reconciled"))
}
