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

const associationColumns = `id, name, description, logo, email, phone,
	street, city, postal_code, country, website, registration_number,
	categories, is_verified, is_active, total_donations, total_campaigns,
	created_at, updated_at`

// AssociationRepository handles database operations for associations
type AssociationRepository struct {
	db *pgxpool.Pool
}

// NewAssociationRepository creates a new AssociationRepository
func NewAssociationRepository(db *pgxpool.Pool) *AssociationRepository {
	return &AssociationRepository{db: db}
}

func scanAssociation(row pgx.Row) (*models.Association, error) {
	var a models.Association
	err := row.Scan(
		&a.ID, &a.Name, &a.Description, &a.Logo, &a.Email, &a.Phone,
		&a.Address.Street, &a.Address.City, &a.Address.PostalCode, &a.Address.Country,
		&a.Website, &a.RegistrationNumber, &a.Categories, &a.IsVerified, &a.IsActive,
		&a.TotalDonations, &a.TotalCampaigns, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAll retrieves associations matching the filter, most recent first
func (r *AssociationRepository) GetAll(ctx context.Context, filter dto.AssociationFilter) ([]*models.Association, error) {
	builder := squirrel.Select(associationColumns).
		From("associations").
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if filter.Category != nil {
		builder = builder.Where("? = ANY(categories)", string(*filter.Category))
	}
	if filter.IsVerified != nil {
		builder = builder.Where("is_verified = ?", *filter.IsVerified)
	}
	if filter.IsActive != nil {
		builder = builder.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Search != nil && *filter.Search != "" {
		pattern := "%" + *filter.Search + "%"
		builder = builder.Where("(name ILIKE ? OR description ILIKE ?)", pattern, pattern)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing associations: %w", err)
	}
	defer rows.Close()

	associations := []*models.Association{}
	for rows.Next() {
		a, err := scanAssociation(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning association row: %w", err)
		}
		associations = append(associations, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating association rows: %w", err)
	}

	for _, a := range associations {
		if err := r.loadAdminUserIDs(ctx, a); err != nil {
			return nil, err
		}
	}

	return associations, nil
}

// GetByID retrieves an association by id, including its admin user ids
func (r *AssociationRepository) GetByID(ctx context.Context, id int64) (*models.Association, error) {
	query := `SELECT ` + associationColumns + ` FROM associations WHERE id = $1`

	a, err := scanAssociation(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAssociationNotFound
		}
		return nil, fmt.Errorf("error fetching association: %w", err)
	}

	if err := r.loadAdminUserIDs(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

// ExistsByEmailOrRegistration reports whether an association already uses
// the given email or registration number
func (r *AssociationRepository) ExistsByEmailOrRegistration(ctx context.Context, email, registrationNumber string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM associations WHERE email = $1 OR registration_number = $2)`,
		email, registrationNumber,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking association existence: %w", err)
	}
	return exists, nil
}

// Create inserts an association, registers the founding user as its admin
// and flips that user to the association role, all in one transaction.
func (r *AssociationRepository) Create(ctx context.Context, association *models.Association, founderID int64) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO associations (name, description, email, phone, street, city, postal_code, country,
			website, registration_number, categories)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`,
		association.Name, association.Description, association.Email, association.Phone,
		association.Address.Street, association.Address.City, association.Address.PostalCode, association.Address.Country,
		association.Website, association.RegistrationNumber, association.Categories,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperrors.ErrAssociationAlreadyExists
		}
		return 0, fmt.Errorf("error creating association: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO association_admins (association_id, user_id) VALUES ($1, $2)`,
		id, founderID,
	); err != nil {
		return 0, fmt.Errorf("error registering association admin: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE users SET role = $1, association_id = $2, updated_at = NOW() WHERE id = $3`,
		models.RoleAssociation, id, founderID,
	); err != nil {
		return 0, fmt.Errorf("error promoting founder: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return id, nil
}

// Update updates the mutable profile fields of an association
func (r *AssociationRepository) Update(ctx context.Context, a *models.Association) error {
	query := `
		UPDATE associations
		SET name = $1, description = $2, phone = $3,
		    street = $4, city = $5, postal_code = $6, country = $7,
		    website = $8, categories = $9, is_active = $10, updated_at = NOW()
		WHERE id = $11
	`

	result, err := r.db.Exec(ctx, query,
		a.Name, a.Description, a.Phone,
		a.Address.Street, a.Address.City, a.Address.PostalCode, a.Address.Country,
		a.Website, a.Categories, a.IsActive, a.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrAssociationAlreadyExists
		}
		return fmt.Errorf("error updating association: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrAssociationNotFound
	}

	return nil
}

// UpdateLogo stores the logo URL for an association
func (r *AssociationRepository) UpdateLogo(ctx context.Context, id int64, logoURL string) error {
	result, err := r.db.Exec(ctx,
		`UPDATE associations SET logo = $1, updated_at = NOW() WHERE id = $2`,
		logoURL, id,
	)
	if err != nil {
		return fmt.Errorf("error updating logo: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrAssociationNotFound
	}
	return nil
}

// SetVerified marks an association as verified
func (r *AssociationRepository) SetVerified(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx,
		`UPDATE associations SET is_verified = TRUE, updated_at = NOW() WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("error verifying association: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrAssociationNotFound
	}
	return nil
}

// Delete removes an association
func (r *AssociationRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM associations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting association: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrAssociationNotFound
	}
	return nil
}

// IsAdminUser reports whether the user can manage the association
func (r *AssociationRepository) IsAdminUser(ctx context.Context, associationID, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM association_admins WHERE association_id = $1 AND user_id = $2)`,
		associationID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking association admin: %w", err)
	}
	return exists, nil
}

func (r *AssociationRepository) loadAdminUserIDs(ctx context.Context, a *models.Association) error {
	rows, err := r.db.Query(ctx,
		`SELECT user_id FROM association_admins WHERE association_id = $1 ORDER BY user_id`,
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("error fetching association admins: %w", err)
	}
	defer rows.Close()

	a.AdminUserIDs = []int64{}
	for rows.Next() {
		var userID int64
		if err := rows.Scan(&userID); err != nil {
			return fmt.Errorf("error scanning admin row: %w", err)
		}
		a.AdminUserIDs = append(a.AdminUserIDs, userID)
	}
	return rows.Err()
}
