package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/solidarity/internal/app/models/dto"
)

// StatsRepository computes aggregate statistics straight from the database
type StatsRepository struct {
	db *pgxpool.Pool
}

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(db *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{db: db}
}

// GetAdminDashboard aggregates platform-wide counters for administrators
func (r *StatsRepository) GetAdminDashboard(ctx context.Context) (*dto.AdminDashboard, error) {
	var d dto.AdminDashboard
	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM associations),
			(SELECT COUNT(*) FROM associations WHERE is_verified = TRUE),
			(SELECT COUNT(*) FROM campaigns),
			(SELECT COUNT(*) FROM campaigns WHERE status = 'active'),
			(SELECT COUNT(*) FROM donations WHERE payment_status = 'completed'),
			(SELECT COALESCE(SUM(amount), 0) FROM donations WHERE payment_status = 'completed'),
			(SELECT COUNT(*) FROM aid_requests),
			(SELECT COUNT(*) FROM aid_requests WHERE status = 'pending')
	`).Scan(
		&d.TotalUsers, &d.TotalAssociations, &d.VerifiedAssociations,
		&d.TotalCampaigns, &d.ActiveCampaigns,
		&d.TotalDonations, &d.TotalDonationAmount, &d.TotalRequests, &d.PendingRequests,
	)
	if err != nil {
		return nil, fmt.Errorf("error computing admin dashboard: %w", err)
	}
	return &d, nil
}

// GetAssociationDashboard aggregates counters scoped to one association
func (r *StatsRepository) GetAssociationDashboard(ctx context.Context, associationID int64) (*dto.AssociationDashboard, error) {
	var d dto.AssociationDashboard
	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM campaigns WHERE association_id = $1),
			(SELECT COUNT(*) FROM campaigns WHERE association_id = $1 AND status = 'active'),
			(SELECT COUNT(*) FROM campaigns WHERE association_id = $1 AND status = 'completed'),
			(SELECT COUNT(*) FROM donations WHERE association_id = $1 AND payment_status = 'completed'),
			(SELECT COALESCE(SUM(amount), 0) FROM donations WHERE association_id = $1 AND payment_status = 'completed'),
			(SELECT COUNT(*) FROM aid_requests WHERE assigned_association_id = $1),
			(SELECT COUNT(*) FROM aid_requests WHERE assigned_association_id = $1 AND status = 'pending'),
			(SELECT COALESCE(SUM(beneficiaries_count), 0) FROM campaigns WHERE association_id = $1)
	`, associationID).Scan(
		&d.TotalCampaigns, &d.ActiveCampaigns, &d.CompletedCampaigns,
		&d.TotalDonations, &d.TotalDonationAmount,
		&d.TotalRequests, &d.PendingRequests, &d.BeneficiariesHelped,
	)
	if err != nil {
		return nil, fmt.Errorf("error computing association dashboard: %w", err)
	}
	return &d, nil
}

// GetUserDashboard aggregates counters scoped to one donor
func (r *StatsRepository) GetUserDashboard(ctx context.Context, userID int64) (*dto.UserDashboard, error) {
	var d dto.UserDashboard
	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM donations WHERE donor_id = $1 AND payment_status = 'completed'),
			(SELECT COALESCE(SUM(amount), 0) FROM donations WHERE donor_id = $1 AND payment_status = 'completed'),
			(SELECT COUNT(*) FROM aid_requests WHERE requester_id = $1),
			(SELECT COUNT(*) FROM aid_requests WHERE requester_id = $1 AND status IN ('approved', 'in_progress', 'completed')),
			(SELECT COUNT(DISTINCT campaign_id) FROM donations WHERE donor_id = $1 AND payment_status = 'completed')
	`, userID).Scan(
		&d.TotalDonations, &d.TotalDonationAmount,
		&d.TotalRequests, &d.ApprovedRequests, &d.CampaignsSupported,
	)
	if err != nil {
		return nil, fmt.Errorf("error computing user dashboard: %w", err)
	}
	return &d, nil
}

// GetMonthlyDonations returns per-month donation totals for a year. Months
// with no completed donations are absent from the result.
func (r *StatsRepository) GetMonthlyDonations(ctx context.Context, year int, associationID *int64) ([]dto.MonthlyDonationStat, error) {
	query := `
		SELECT EXTRACT(MONTH FROM donation_date)::int AS month,
		       COALESCE(SUM(amount), 0) AS total,
		       COUNT(*) AS count
		FROM donations
		WHERE payment_status = 'completed'
		  AND EXTRACT(YEAR FROM donation_date) = $1
		  AND ($2::bigint IS NULL OR association_id = $2)
		GROUP BY month
		ORDER BY month
	`

	rows, err := r.db.Query(ctx, query, year, associationID)
	if err != nil {
		return nil, fmt.Errorf("error computing monthly donations: %w", err)
	}
	defer rows.Close()

	stats := []dto.MonthlyDonationStat{}
	for rows.Next() {
		var s dto.MonthlyDonationStat
		if err := rows.Scan(&s.Month, &s.TotalAmount, &s.Count); err != nil {
			return nil, fmt.Errorf("error scanning monthly stat row: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// GetTopDonors returns the biggest non-anonymous donors by completed amount
func (r *StatsRepository) GetTopDonors(ctx context.Context, limit int, associationID *int64) ([]dto.TopDonor, error) {
	query := `
		SELECT u.id, u.first_name || ' ' || u.last_name, u.email,
		       SUM(d.amount) AS total_amount,
		       COUNT(*) AS donation_count
		FROM donations d
		JOIN users u ON u.id = d.donor_id
		WHERE d.payment_status = 'completed'
		  AND d.is_anonymous = FALSE
		  AND ($2::bigint IS NULL OR d.association_id = $2)
		GROUP BY u.id, u.first_name, u.last_name, u.email
		ORDER BY total_amount DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit, associationID)
	if err != nil {
		return nil, fmt.Errorf("error computing top donors: %w", err)
	}
	defer rows.Close()

	donors := []dto.TopDonor{}
	for rows.Next() {
		var t dto.TopDonor
		if err := rows.Scan(&t.DonorID, &t.DonorName, &t.Email, &t.TotalAmount, &t.DonationCount); err != nil {
			return nil, fmt.Errorf("error scanning top donor row: %w", err)
		}
		donors = append(donors, t)
	}
	return donors, rows.Err()
}

// GetCampaignPerformance returns the ten best-funded campaigns, platform
// wide when associationID is nil. The display percentage is filled in by
// the service.
func (r *StatsRepository) GetCampaignPerformance(ctx context.Context, associationID *int64) ([]dto.CampaignPerformance, error) {
	query := `
		SELECT id, title, goal_amount, current_amount, donations_count, status
		FROM campaigns
		WHERE ($1::bigint IS NULL OR association_id = $1)
		ORDER BY current_amount DESC
		LIMIT 10
	`

	rows, err := r.db.Query(ctx, query, associationID)
	if err != nil {
		return nil, fmt.Errorf("error computing campaign performance: %w", err)
	}
	defer rows.Close()

	performances := []dto.CampaignPerformance{}
	for rows.Next() {
		var p dto.CampaignPerformance
		if err := rows.Scan(&p.ID, &p.Title, &p.GoalAmount, &p.CurrentAmount, &p.DonationsCount, &p.Status); err != nil {
			return nil, fmt.Errorf("error scanning performance row: %w", err)
		}
		performances = append(performances, p)
	}
	return performances, rows.Err()
}
