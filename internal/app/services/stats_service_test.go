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

// fakeStatsStore records the scope it was queried with.
type fakeStatsStore struct {
	dashboard    string
	monthlyScope *int64
	topScope     *int64
	topLimit     int
	perfScope    *int64
	performances []dto.CampaignPerformance
}

func (f *fakeStatsStore) GetAdminDashboard(context.Context) (*dto.AdminDashboard, error) {
	f.dashboard = "admin"
	return &dto.AdminDashboard{}, nil
}

func (f *fakeStatsStore) GetAssociationDashboard(_ context.Context, associationID int64) (*dto.AssociationDashboard, error) {
	f.dashboard = "association"
	return &dto.AssociationDashboard{}, nil
}

func (f *fakeStatsStore) GetUserDashboard(_ context.Context, userID int64) (*dto.UserDashboard, error) {
	f.dashboard = "user"
	return &dto.UserDashboard{}, nil
}

func (f *fakeStatsStore) GetMonthlyDonations(_ context.Context, year int, associationID *int64) ([]dto.MonthlyDonationStat, error) {
	f.monthlyScope = associationID
	return []dto.MonthlyDonationStat{{Month: 3, TotalAmount: 500, Count: 2}}, nil
}

func (f *fakeStatsStore) GetTopDonors(_ context.Context, limit int, associationID *int64) ([]dto.TopDonor, error) {
	f.topLimit = limit
	f.topScope = associationID
	return nil, nil
}

func (f *fakeStatsStore) GetCampaignPerformance(_ context.Context, associationID *int64) ([]dto.CampaignPerformance, error) {
	f.perfScope = associationID
	return f.performances, nil
}

func TestDashboardShapeFollowsRole(t *testing.T) {
	fs := &fakeStatsStore{}
	svc := NewStatsService(fs, zerolog.Nop())

	svc.Dashboard(context.Background(), policy.Actor{UserID: 1, Role: models.RoleAdmin})
	if fs.dashboard != "admin" {
		t.Errorf("admin got the %q dashboard", fs.dashboard)
	}

	svc.Dashboard(context.Background(), policy.Actor{UserID: 8, Role: models.RoleAssociation, AssociationID: ptr(3)})
	if fs.dashboard != "association" {
		t.Errorf("association got the %q dashboard", fs.dashboard)
	}

	svc.Dashboard(context.Background(), policy.Actor{UserID: 5, Role: models.RoleUser})
	if fs.dashboard != "user" {
		t.Errorf("user got the %q dashboard", fs.dashboard)
	}

	_, err := svc.Dashboard(context.Background(), policy.Actor{UserID: 9, Role: models.RoleAssociation})
	if !errors.Is(err, apperrors.ErrNoAssociationForUser) {
		t.Errorf("association account without association: got %v", err)
	}
}

func TestMonthlyDonationsScope(t *testing.T) {
	fs := &fakeStatsStore{}
	svc := NewStatsService(fs, zerolog.Nop())

	resp, err := svc.MonthlyDonations(context.Background(), policy.Actor{Role: models.RoleAdmin}, 2026)
	if err != nil {
		t.Fatalf("MonthlyDonations() error: %v", err)
	}
	if fs.monthlyScope != nil {
		t.Error("admin query should be unscoped")
	}
	if resp.Year != 2026 {
		t.Errorf("year = %d, want 2026", resp.Year)
	}

	assoc := policy.Actor{UserID: 8, Role: models.RoleAssociation, AssociationID: ptr(3)}
	if _, err := svc.MonthlyDonations(context.Background(), assoc, 2026); err != nil {
		t.Fatalf("MonthlyDonations() error: %v", err)
	}
	if fs.monthlyScope == nil || *fs.monthlyScope != 3 {
		t.Error("association query should be scoped to its own donations")
	}

	_, err = svc.MonthlyDonations(context.Background(), policy.Actor{UserID: 5, Role: models.RoleUser}, 2026)
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("plain user: got %v, want permission denied", err)
	}
}

func TestMonthlyDonationsYearValidation(t *testing.T) {
	fs := &fakeStatsStore{}
	svc := NewStatsService(fs, zerolog.Nop())
	admin := policy.Actor{Role: models.RoleAdmin}

	resp, err := svc.MonthlyDonations(context.Background(), admin, 0)
	if err != nil {
		t.Fatalf("MonthlyDonations() error: %v", err)
	}
	if resp.Year != time.Now().Year() {
		t.Errorf("zero year should default to the current year, got %d", resp.Year)
	}

	for _, year := range []int{1999, time.Now().Year() + 2} {
		if _, err := svc.MonthlyDonations(context.Background(), admin, year); !errors.Is(err, apperrors.ErrValidationFailed) {
			t.Errorf("year %d: got %v, want validation failure", year, err)
		}
	}
}

func TestTopDonorsLimitClamped(t *testing.T) {
	fs := &fakeStatsStore{}
	svc := NewStatsService(fs, zerolog.Nop())
	admin := policy.Actor{Role: models.RoleAdmin}

	for _, limit := range []int{0, -5, 500} {
		if _, err := svc.TopDonors(context.Background(), admin, limit); err != nil {
			t.Fatalf("TopDonors() error: %v", err)
		}
		if fs.topLimit != defaultTopDonorsLimit {
			t.Errorf("limit %d should fall back to %d, got %d", limit, defaultTopDonorsLimit, fs.topLimit)
		}
	}

	svc.TopDonors(context.Background(), admin, 25)
	if fs.topLimit != 25 {
		t.Errorf("in-range limit should pass through, got %d", fs.topLimit)
	}
}

func TestCampaignPerformancePercentage(t *testing.T) {
	fs := &fakeStatsStore{performances: []dto.CampaignPerformance{
		{ID: 1, GoalAmount: 10000, CurrentAmount: 2500},
		{ID: 2, GoalAmount: 1000, CurrentAmount: 1500},
		{ID: 3, GoalAmount: 0, CurrentAmount: 100},
	}}
	svc := NewStatsService(fs, zerolog.Nop())

	assoc := policy.Actor{UserID: 8, Role: models.RoleAssociation, AssociationID: ptr(3)}
	performances, err := svc.CampaignPerformance(context.Background(), assoc, nil)
	if err != nil {
		t.Fatalf("CampaignPerformance() error: %v", err)
	}
	if fs.perfScope == nil || *fs.perfScope != 3 {
		t.Errorf("queried scope = %v, want the caller's own association", fs.perfScope)
	}

	want := []int{25, 100, 0}
	for i, p := range performances {
		if p.Percentage != want[i] {
			t.Errorf("campaign %d percentage = %d, want %d", p.ID, p.Percentage, want[i])
		}
	}
}

func TestCampaignPerformanceAdminScope(t *testing.T) {
	fs := &fakeStatsStore{}
	svc := NewStatsService(fs, zerolog.Nop())
	admin := policy.Actor{UserID: 1, Role: models.RoleAdmin}

	// Admins default to the platform-wide ranking
	if _, err := svc.CampaignPerformance(context.Background(), admin, nil); err != nil {
		t.Fatalf("CampaignPerformance() error: %v", err)
	}
	if fs.perfScope != nil {
		t.Errorf("admin query should be unscoped, got %d", *fs.perfScope)
	}

	// ...and may narrow to one association
	if _, err := svc.CampaignPerformance(context.Background(), admin, ptr(4)); err != nil {
		t.Fatalf("CampaignPerformance() error: %v", err)
	}
	if fs.perfScope == nil || *fs.perfScope != 4 {
		t.Errorf("requested scope not honored, got %v", fs.perfScope)
	}

	_, err := svc.CampaignPerformance(context.Background(), policy.Actor{UserID: 5, Role: models.RoleUser}, nil)
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("plain user: got %v, want permission denied", err)
	}
}
