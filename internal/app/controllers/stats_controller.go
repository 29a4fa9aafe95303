package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/emre/solidarity/internal/app/models/dto"
	"github.com/emre/solidarity/internal/app/services"
	"github.com/emre/solidarity/internal/middleware"
)

// StatsController serves role-scoped aggregate statistics
type StatsController struct {
	statsService *services.StatsService
	logger       zerolog.Logger
}

// NewStatsController creates a new StatsController
func NewStatsController(statsService *services.StatsService, logger zerolog.Logger) *StatsController {
	return &StatsController{
		statsService: statsService,
		logger:       logger,
	}
}

// Dashboard returns the dashboard shaped for the caller's role
// @Summary Get the dashboard
// @Description Admins get platform counters, associations their own, donors their giving history
// @Tags stats
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.APIResponse
// @Router /stats/dashboard [get]
func (c *StatsController) Dashboard(ctx *gin.Context) {
	actor := middleware.ActorFromContext(ctx)

	dashboard, err := c.statsService.Dashboard(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dashboard, ""))
}

// MonthlyDonations returns the monthly donation series for a year
// @Summary Get monthly donation totals
// @Description Months without donations are omitted from the series
// @Tags stats
// @Security BearerAuth
// @Produce json
// @Param year query int false "Year (defaults to the current year)"
// @Success 200 {object} dto.APIResponse{data=dto.MonthlyStatsResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Router /stats/donations/monthly [get]
func (c *StatsController) MonthlyDonations(ctx *gin.Context) {
	actor := middleware.ActorFromContext(ctx)

	year, _ := strconv.Atoi(ctx.Query("year"))

	stats, err := c.statsService.MonthlyDonations(ctx.Request.Context(), actor, year)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats, ""))
}

// TopDonors returns the biggest identified donors
// @Summary Get the top donors
// @Description Anonymous donations never appear in the ranking
// @Tags stats
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Number of entries (default 10, max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.ListResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Router /stats/donors/top [get]
func (c *StatsController) TopDonors(ctx *gin.Context) {
	actor := middleware.ActorFromContext(ctx)

	limit, _ := strconv.Atoi(ctx.Query("limit"))

	donors, err := c.statsService.TopDonors(ctx.Request.Context(), actor, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ListResponse{Count: len(donors), Items: donors}, ""))
}

// CampaignPerformance returns the best-funded campaigns with their goal progress
// @Summary Get campaign performance
// @Description Top ten campaigns by amount raised. Display percentages are clamped to 100 even when a goal is exceeded
// @Tags stats
// @Security BearerAuth
// @Produce json
// @Param association query int false "Association (admins only)"
// @Success 200 {object} dto.APIResponse{data=dto.ListResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Router /stats/campaigns/performance [get]
func (c *StatsController) CampaignPerformance(ctx *gin.Context) {
	actor := middleware.ActorFromContext(ctx)

	var requested *int64
	if raw := ctx.Query("association"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err == nil && id > 0 {
			requested = &id
		}
	}

	performances, err := c.statsService.CampaignPerformance(ctx.Request.Context(), actor, requested)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ListResponse{Count: len(performances), Items: performances}, ""))
}
