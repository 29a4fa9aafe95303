package services

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/emre/solidarity/internal/app/models"
	"github.com/emre/solidarity/internal/app/models/dto"
	"github.com/emre/solidarity/internal/app/policy"
	"github.com/emre/solidarity/internal/pkg/apperrors"
)

// defaultTopDonorsLimit bounds the top-donors ranking
const defaultTopDonorsLimit = 10

// StatsService serves role-scoped aggregate statistics
type StatsService struct {
	statsStore StatsStore
	logger     zerolog.Logger
}

// NewStatsService creates a new StatsService
func NewStatsService(statsStore StatsStore, logger zerolog.Logger) *StatsService {
	return &StatsService{
		statsStore: statsStore,
		logger:     logger,
	}
}

// Dashboard returns the dashboard shaped for the caller's role
func (s *StatsService) Dashboard(ctx context.Context, actor policy.Actor) (any, error) {
	switch {
	case actor.IsAdmin():
		return s.statsStore.GetAdminDashboard(ctx)
	case actor.Role == models.RoleAssociation:
		if actor.AssociationID == nil {
			return nil, apperrors.ErrNoAssociationForUser
		}
		return s.statsStore.GetAssociationDashboard(ctx, *actor.AssociationID)
	default:
		return s.statsStore.GetUserDashboard(ctx, actor.UserID)
	}
}

// MonthlyDonations returns the sparse monthly donation series for a year.
// Associations are scoped to their own donations; admins see the platform.
func (s *StatsService) MonthlyDonations(ctx context.Context, actor policy.Actor, year int) (*dto.MonthlyStatsResponse, error) {
	if year == 0 {
		year = time.Now().Year()
	}
	if year < 2000 || year > time.Now().Year()+1 {
		return nil, apperrors.NewValidationError("year out of range")
	}

	scope, err := statsScope(actor)
	if err != nil {
		return nil, err
	}

	stats, err := s.statsStore.GetMonthlyDonations(ctx, year, scope)
	if err != nil {
		return nil, err
	}

	return &dto.MonthlyStatsResponse{Year: year, MonthlyStats: stats}, nil
}

// TopDonors returns the biggest identified donors, scoped like
// MonthlyDonations
func (s *StatsService) TopDonors(ctx context.Context, actor policy.Actor, limit int) ([]dto.TopDonor, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultTopDonorsLimit
	}

	scope, err := statsScope(actor)
	if err != nil {
		return nil, err
	}

	return s.statsStore.GetTopDonors(ctx, limit, scope)
}

// CampaignPerformance returns the best-funded campaigns with their goal
// progress. Associations see their own campaigns; admins see the platform
// ranking, or one association's when they name it.
func (s *StatsService) CampaignPerformance(ctx context.Context, actor policy.Actor, requested *int64) ([]dto.CampaignPerformance, error) {
	scope, err := statsScope(actor)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() && requested != nil {
		scope = requested
	}

	performances, err := s.statsStore.GetCampaignPerformance(ctx, scope)
	if err != nil {
		return nil, err
	}

	for i := range performances {
		performances[i].Percentage = goalPercentage(performances[i].CurrentAmount, performances[i].GoalAmount)
	}

	return performances, nil
}

// goalPercentage clamps progress to [0,100] for display
func goalPercentage(current, goal float64) int {
	if goal <= 0 {
		return 0
	}
	p := int(math.Round(current / goal * 100))
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}

// statsScope narrows platform statistics to an association for
// association callers; admins see everything.
func statsScope(actor policy.Actor) (*int64, error) {
	if actor.IsAdmin() {
		return nil, nil
	}
	if actor.Role == models.RoleAssociation {
		if actor.AssociationID == nil {
			return nil, apperrors.ErrNoAssociationForUser
		}
		return actor.AssociationID, nil
	}
	return nil, apperrors.ErrPermissionDenied
}
