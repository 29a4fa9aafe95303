package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/solidarity/internal/app/models"
	"github.com/emre/solidarity/internal/pkg/apperrors"
)

const donationColumns = `d.id, d.donor_id, d.campaign_id, d.association_id, d.amount,
	d.currency, d.payment_method, d.payment_status, d.transaction_id, d.message,
	d.is_anonymous, d.donation_date, d.created_at, d.updated_at`

// DonationRepository handles database operations for donations
type DonationRepository struct {
	db *pgxpool.Pool
}

// NewDonationRepository creates a new DonationRepository
func NewDonationRepository(db *pgxpool.Pool) *DonationRepository {
	return &DonationRepository{db: db}
}

// Record inserts a donation and applies its amount to the campaign and
// association counters. All three writes happen in a single transaction so
// the denormalized totals can never drift from the donation rows.
func (r *DonationRepository) Record(ctx context.Context, d *models.Donation) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO donations (donor_id, campaign_id, association_id, amount, currency,
			payment_method, payment_status, transaction_id, message, is_anonymous, donation_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`,
		d.DonorID, d.CampaignID, d.AssociationID, d.Amount, d.Currency,
		d.PaymentMethod, d.PaymentStatus, d.TransactionID, d.Message, d.IsAnonymous, d.DonationDate,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperrors.ErrDuplicateTransactionID
		}
		return 0, fmt.Errorf("error recording donation: %w", err)
	}

	if d.PaymentStatus == models.PaymentCompleted {
		if err := applyDonation(ctx, tx, d.CampaignID, d.AssociationID, d.Amount, 1); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return id, nil
}

// applyDonation moves the denormalized counters by the given amount and count.
// Negative values back a donation out after a refund or failure.
func applyDonation(ctx context.Context, tx pgx.Tx, campaignID, associationID int64, amount float64, count int) error {
	if _, err := tx.Exec(ctx, `
		UPDATE campaigns
		SET current_amount = current_amount + $1,
		    donations_count = donations_count + $2,
		    updated_at = NOW()
		WHERE id = $3
	`, amount, count, campaignID); err != nil {
		return fmt.Errorf("error updating campaign totals: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE associations
		SET total_donations = total_donations + $1, updated_at = NOW()
		WHERE id = $2
	`, amount, associationID); err != nil {
		return fmt.Errorf("error updating association totals: %w", err)
	}

	return nil
}

// GetByID retrieves a donation with donor and campaign summaries
func (r *DonationRepository) GetByID(ctx context.Context, id int64) (*models.Donation, error) {
	query := `SELECT ` + donationColumns + `,
			u.first_name, u.last_name, u.email, u.avatar,
			c.title, c.category
		FROM donations d
		JOIN users u ON u.id = d.donor_id
		JOIN campaigns c ON c.id = d.campaign_id
		WHERE d.id = $1`

	d, err := scanDonationWithRelations(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDonationNotFound
		}
		return nil, fmt.Errorf("error fetching donation: %w", err)
	}

	return d, nil
}

// GetByDonor retrieves a page of donations made by a user, newest first,
// together with the donor's total donation count.
func (r *DonationRepository) GetByDonor(ctx context.Context, donorID int64, offset uint64, limit int) ([]*models.Donation, int64, error) {
	query := `SELECT ` + donationColumns + `,
			u.first_name, u.last_name, u.email, u.avatar,
			c.title, c.category
		FROM donations d
		JOIN users u ON u.id = d.donor_id
		JOIN campaigns c ON c.id = d.campaign_id
		WHERE d.donor_id = $1
		ORDER BY d.donation_date DESC
		LIMIT $2 OFFSET $3`

	donations, err := r.queryDonations(ctx, query, donorID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := r.countDonations(ctx, `WHERE donor_id = $1`, donorID)
	return donations, total, err
}

// GetByAssociation retrieves a page of donations received by an association
func (r *DonationRepository) GetByAssociation(ctx context.Context, associationID int64, offset uint64, limit int) ([]*models.Donation, int64, error) {
	query := `SELECT ` + donationColumns + `,
			u.first_name, u.last_name, u.email, u.avatar,
			c.title, c.category
		FROM donations d
		JOIN users u ON u.id = d.donor_id
		JOIN campaigns c ON c.id = d.campaign_id
		WHERE d.association_id = $1
		ORDER BY d.donation_date DESC
		LIMIT $2 OFFSET $3`

	donations, err := r.queryDonations(ctx, query, associationID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := r.countDonations(ctx, `WHERE association_id = $1`, associationID)
	return donations, total, err
}

// GetAll retrieves a page of all donations, newest first
func (r *DonationRepository) GetAll(ctx context.Context, offset uint64, limit int) ([]*models.Donation, int64, error) {
	query := `SELECT ` + donationColumns + `,
			u.first_name, u.last_name, u.email, u.avatar,
			c.title, c.category
		FROM donations d
		JOIN users u ON u.id = d.donor_id
		JOIN campaigns c ON c.id = d.campaign_id
		ORDER BY d.donation_date DESC
		LIMIT $1 OFFSET $2`

	donations, err := r.queryDonations(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := r.countDonations(ctx, ``)
	return donations, total, err
}

func (r *DonationRepository) countDonations(ctx context.Context, where string, args ...any) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM donations `+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("error counting donations: %w", err)
	}
	return total, nil
}

// GetCompletedByCampaign retrieves the most recent completed donations for a
// campaign's public ticker
func (r *DonationRepository) GetCompletedByCampaign(ctx context.Context, campaignID int64, limit int) ([]*models.Donation, error) {
	query := `SELECT ` + donationColumns + `,
			u.first_name, u.last_name, u.email, u.avatar,
			c.title, c.category
		FROM donations d
		JOIN users u ON u.id = d.donor_id
		JOIN campaigns c ON c.id = d.campaign_id
		WHERE d.campaign_id = $1 AND d.payment_status = $2
		ORDER BY d.donation_date DESC
		LIMIT $3`

	return r.queryDonations(ctx, query, campaignID, models.PaymentCompleted, limit)
}

// UpdateStatus changes a donation's payment status and shifts the
// denormalized totals when the donation enters or leaves the completed state.
func (r *DonationRepository) UpdateStatus(ctx context.Context, id int64, status models.PaymentStatus) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var d models.Donation
	err = tx.QueryRow(ctx, `
		SELECT campaign_id, association_id, amount, payment_status
		FROM donations WHERE id = $1 FOR UPDATE
	`, id).Scan(&d.CampaignID, &d.AssociationID, &d.Amount, &d.PaymentStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrDonationNotFound
		}
		return fmt.Errorf("error locking donation: %w", err)
	}

	if d.PaymentStatus == status {
		return nil
	}

	if _, err := tx.Exec(ctx,
		`UPDATE donations SET payment_status = $1, updated_at = NOW() WHERE id = $2`,
		status, id,
	); err != nil {
		return fmt.Errorf("error updating donation status: %w", err)
	}

	wasCounted := d.PaymentStatus == models.PaymentCompleted
	isCounted := status == models.PaymentCompleted
	if wasCounted != isCounted {
		amount, count := d.Amount, 1
		if wasCounted {
			amount, count = -d.Amount, -1
		}
		if err := applyDonation(ctx, tx, d.CampaignID, d.AssociationID, amount, count); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Reconcile recomputes every denormalized donation counter from the donation
// rows themselves. It repairs any drift left by manual data fixes.
func (r *DonationRepository) Reconcile(ctx context.Context) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		UPDATE campaigns c
		SET current_amount = agg.total,
		    donations_count = agg.count,
		    updated_at = NOW()
		FROM (
			SELECT c2.id,
			       COALESCE(SUM(d.amount) FILTER (WHERE d.payment_status = 'completed'), 0) AS total,
			       COUNT(d.id) FILTER (WHERE d.payment_status = 'completed') AS count
			FROM campaigns c2
			LEFT JOIN donations d ON d.campaign_id = c2.id
			GROUP BY c2.id
		) agg
		WHERE agg.id = c.id
		  AND (c.current_amount <> agg.total OR c.donations_count <> agg.count)
	`); err != nil {
		return fmt.Errorf("error reconciling campaign totals: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE associations a
		SET total_donations = agg.total, updated_at = NOW()
		FROM (
			SELECT a2.id,
			       COALESCE(SUM(d.amount) FILTER (WHERE d.payment_status = 'completed'), 0) AS total
			FROM associations a2
			LEFT JOIN donations d ON d.association_id = a2.id
			GROUP BY a2.id
		) agg
		WHERE agg.id = a.id AND a.total_donations <> agg.total
	`); err != nil {
		return fmt.Errorf("error reconciling association totals: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *DonationRepository) queryDonations(ctx context.Context, query string, args ...any) ([]*models.Donation, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing donations: %w", err)
	}
	defer rows.Close()

	donations := []*models.Donation{}
	for rows.Next() {
		d, err := scanDonationWithRelations(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning donation row: %w", err)
		}
		donations = append(donations, d)
	}
	return donations, rows.Err()
}

func scanDonationWithRelations(row pgx.Row) (*models.Donation, error) {
	var d models.Donation
	var donor models.User
	var campaign models.Campaign
	err := row.Scan(
		&d.ID, &d.DonorID, &d.CampaignID, &d.AssociationID, &d.Amount,
		&d.Currency, &d.PaymentMethod, &d.PaymentStatus, &d.TransactionID, &d.Message,
		&d.IsAnonymous, &d.DonationDate, &d.CreatedAt, &d.UpdatedAt,
		&donor.FirstName, &donor.LastName, &donor.Email, &donor.Avatar,
		&campaign.Title, &campaign.Category,
	)
	if err != nil {
		return nil, err
	}
	donor.ID = d.DonorID
	campaign.ID = d.CampaignID
	d.Donor = &donor
	d.Campaign = &campaign
	return &d, nil
}
