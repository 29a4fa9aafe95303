package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/solidarity/internal/app/models"
	"github.com/emre/solidarity/internal/app/models/dto"
	"github.com/emre/solidarity/internal/pkg/apperrors"
)

const campaignColumns = `c.id, c.association_id, c.title, c.description, c.category,
	c.goal_amount, c.current_amount, c.currency, c.images, c.start_date, c.end_date,
	c.status, c.is_urgent, c.city, c.country, c.beneficiaries_count, c.donations_count,
	c.created_at, c.updated_at`

// CampaignRepository handles database operations for campaigns
type CampaignRepository struct {
	db *pgxpool.Pool
}

// NewCampaignRepository creates a new CampaignRepository
func NewCampaignRepository(db *pgxpool.Pool) *CampaignRepository {
	return &CampaignRepository{db: db}
}

func scanCampaign(row pgx.Row) (*models.Campaign, error) {
	var c models.Campaign
	err := row.Scan(
		&c.ID, &c.AssociationID, &c.Title, &c.Description, &c.Category,
		&c.GoalAmount, &c.CurrentAmount, &c.Currency, &c.Images, &c.StartDate, &c.EndDate,
		&c.Status, &c.IsUrgent, &c.Location.City, &c.Location.Country,
		&c.BeneficiariesCount, &c.DonationsCount, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetAll retrieves campaigns matching the filter, urgent first then newest
func (r *CampaignRepository) GetAll(ctx context.Context, filter dto.CampaignFilter) ([]*models.Campaign, error) {
	builder := squirrel.Select(campaignColumns+", a.name, a.logo, a.is_verified").
		From("campaigns c").
		Join("associations a ON a.id = c.association_id").
		OrderBy("c.is_urgent DESC", "c.created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if filter.Category != nil {
		builder = builder.Where("c.category = ?", string(*filter.Category))
	}
	if filter.Status != nil {
		builder = builder.Where("c.status = ?", string(*filter.Status))
	}
	if filter.AssociationID != nil {
		builder = builder.Where("c.association_id = ?", *filter.AssociationID)
	}
	if filter.IsUrgent != nil {
		builder = builder.Where("c.is_urgent = ?", *filter.IsUrgent)
	}
	if filter.Search != nil && *filter.Search != "" {
		pattern := "%" + *filter.Search + "%"
		builder = builder.Where("(c.title ILIKE ? OR c.description ILIKE ?)", pattern, pattern)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := []*models.Campaign{}
	for rows.Next() {
		var c models.Campaign
		var assocName string
		var assocLogo *string
		var assocVerified bool
		err := rows.Scan(
			&c.ID, &c.AssociationID, &c.Title, &c.Description, &c.Category,
			&c.GoalAmount, &c.CurrentAmount, &c.Currency, &c.Images, &c.StartDate, &c.EndDate,
			&c.Status, &c.IsUrgent, &c.Location.City, &c.Location.Country,
			&c.BeneficiariesCount, &c.DonationsCount, &c.CreatedAt, &c.UpdatedAt,
			&assocName, &assocLogo, &assocVerified,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning campaign row: %w", err)
		}
		c.Association = &models.Association{
			ID:         c.AssociationID,
			Name:       assocName,
			Logo:       assocLogo,
			IsVerified: assocVerified,
		}
		campaigns = append(campaigns, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating campaign rows: %w", err)
	}

	return campaigns, nil
}

// GetByID retrieves a campaign with its association summary and update log
func (r *CampaignRepository) GetByID(ctx context.Context, id int64) (*models.Campaign, error) {
	query := `SELECT ` + campaignColumns + `, a.name, a.logo, a.is_verified, a.email
		FROM campaigns c
		JOIN associations a ON a.id = c.association_id
		WHERE c.id = $1`

	var c models.Campaign
	var assoc models.Association
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.AssociationID, &c.Title, &c.Description, &c.Category,
		&c.GoalAmount, &c.CurrentAmount, &c.Currency, &c.Images, &c.StartDate, &c.EndDate,
		&c.Status, &c.IsUrgent, &c.Location.City, &c.Location.Country,
		&c.BeneficiariesCount, &c.DonationsCount, &c.CreatedAt, &c.UpdatedAt,
		&assoc.Name, &assoc.Logo, &assoc.IsVerified, &assoc.Email,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCampaignNotFound
		}
		return nil, fmt.Errorf("error fetching campaign: %w", err)
	}
	assoc.ID = c.AssociationID
	c.Association = &assoc

	updates, err := r.getUpdates(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Updates = updates

	return &c, nil
}

// Create inserts a campaign and bumps the owning association's campaign
// counter in the same transaction
func (r *CampaignRepository) Create(ctx context.Context, c *models.Campaign) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO campaigns (association_id, title, description, category, goal_amount, currency,
			start_date, end_date, status, is_urgent, city, country, beneficiaries_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`,
		c.AssociationID, c.Title, c.Description, c.Category, c.GoalAmount, c.Currency,
		c.StartDate, c.EndDate, c.Status, c.IsUrgent,
		c.Location.City, c.Location.Country, c.BeneficiariesCount,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating campaign: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE associations SET total_campaigns = total_campaigns + 1, updated_at = NOW() WHERE id = $1`,
		c.AssociationID,
	); err != nil {
		return 0, fmt.Errorf("error incrementing campaign count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return id, nil
}

// Update updates the mutable fields of a campaign
func (r *CampaignRepository) Update(ctx context.Context, c *models.Campaign) error {
	query := `
		UPDATE campaigns
		SET title = $1, description = $2, category = $3, goal_amount = $4,
		    start_date = $5, end_date = $6, status = $7, is_urgent = $8,
		    city = $9, country = $10, beneficiaries_count = $11, updated_at = NOW()
		WHERE id = $12
	`

	result, err := r.db.Exec(ctx, query,
		c.Title, c.Description, c.Category, c.GoalAmount,
		c.StartDate, c.EndDate, c.Status, c.IsUrgent,
		c.Location.City, c.Location.Country, c.BeneficiariesCount, c.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating campaign: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrCampaignNotFound
	}

	return nil
}

// AppendImages adds uploaded image URLs to a campaign's gallery
func (r *CampaignRepository) AppendImages(ctx context.Context, id int64, urls []string) error {
	result, err := r.db.Exec(ctx,
		`UPDATE campaigns SET images = images || $1, updated_at = NOW() WHERE id = $2`,
		urls, id,
	)
	if err != nil {
		return fmt.Errorf("error appending campaign images: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrCampaignNotFound
	}
	return nil
}

// AddUpdate appends an entry to the campaign's update log
func (r *CampaignRepository) AddUpdate(ctx context.Context, update *models.CampaignUpdate) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO campaign_updates (campaign_id, title, content)
		VALUES ($1, $2, $3)
		RETURNING id
	`, update.CampaignID, update.Title, update.Content).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error adding campaign update: %w", err)
	}
	return id, nil
}

// Delete removes a campaign and decrements the association counter
func (r *CampaignRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var associationID int64
	err = tx.QueryRow(ctx, `DELETE FROM campaigns WHERE id = $1 RETURNING association_id`, id).
		Scan(&associationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrCampaignNotFound
		}
		return fmt.Errorf("error deleting campaign: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE associations SET total_campaigns = GREATEST(total_campaigns - 1, 0), updated_at = NOW() WHERE id = $1`,
		associationID,
	); err != nil {
		return fmt.Errorf("error decrementing campaign count: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *CampaignRepository) getUpdates(ctx context.Context, campaignID int64) ([]models.CampaignUpdate, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, campaign_id, title, content, created_at
		 FROM campaign_updates WHERE campaign_id = $1 ORDER BY created_at DESC`,
		campaignID,
	)
	if err != nil {
		return nil, fmt.Errorf("error fetching campaign updates: %w", err)
	}
	defer rows.Close()

	updates := []models.CampaignUpdate{}
	for rows.Next() {
		var u models.CampaignUpdate
		if err := rows.Scan(&u.ID, &u.CampaignID, &u.Title, &u.Content, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning update row: %w", err)
		}
		updates = append(updates, u)
	}
	return updates, rows.Err()
}
