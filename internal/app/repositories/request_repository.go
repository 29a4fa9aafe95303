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

const requestColumns = `r.id, r.requester_id, r.title, r.description, r.category,
	r.urgency_level, r.status, r.request_type, r.estimated_amount, r.city, r.country,
	r.assigned_association_id, r.review_notes, r.review_date, r.completion_date,
	r.created_at, r.updated_at`

// urgencyOrder sorts critical ahead of high, medium and low.
const urgencyOrder = `CASE r.urgency_level
	WHEN 'critical' THEN 0
	WHEN 'high' THEN 1
	WHEN 'medium' THEN 2
	ELSE 3
END`

// RequestRepository handles database operations for aid requests
type RequestRepository struct {
	db *pgxpool.Pool
}

// NewRequestRepository creates a new RequestRepository
func NewRequestRepository(db *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{db: db}
}

// Create inserts a new aid request
func (r *RequestRepository) Create(ctx context.Context, req *models.AidRequest) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO aid_requests (requester_id, title, description, category, urgency_level,
			status, request_type, estimated_amount, city, country)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`,
		req.RequesterID, req.Title, req.Description, req.Category, req.UrgencyLevel,
		req.Status, req.RequestType, req.EstimatedAmount,
		req.Location.City, req.Location.Country,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating aid request: %w", err)
	}
	return id, nil
}

// GetByID retrieves an aid request with requester summary and documents
func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*models.AidRequest, error) {
	query := `SELECT ` + requestColumns + `, u.first_name, u.last_name, u.email, u.phone
		FROM aid_requests r
		JOIN users u ON u.id = r.requester_id
		WHERE r.id = $1`

	req, err := scanRequestWithRequester(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, fmt.Errorf("error fetching aid request: %w", err)
	}

	documents, err := r.getDocuments(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Documents = documents

	return req, nil
}

// GetAll retrieves aid requests matching the filter, most urgent first.
// Associations see their own assignments plus the unassigned queue, which
// the service expresses through the filter.
func (r *RequestRepository) GetAll(ctx context.Context, filter dto.RequestFilter) ([]*models.AidRequest, error) {
	builder := squirrel.Select(requestColumns+", u.first_name, u.last_name, u.email, u.phone").
		From("aid_requests r").
		Join("users u ON u.id = r.requester_id").
		OrderBy(urgencyOrder, "r.created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if filter.Status != nil {
		builder = builder.Where("r.status = ?", string(*filter.Status))
	}
	if filter.Category != nil {
		builder = builder.Where("r.category = ?", string(*filter.Category))
	}
	if filter.UrgencyLevel != nil {
		builder = builder.Where("r.urgency_level = ?", string(*filter.UrgencyLevel))
	}
	if filter.RequesterID != nil {
		builder = builder.Where("r.requester_id = ?", *filter.RequesterID)
	}
	if filter.AssociationID != nil {
		if filter.IncludeUnassigned {
			builder = builder.Where(
				"(r.assigned_association_id = ? OR (r.assigned_association_id IS NULL AND r.status IN ('pending', 'reviewing')))",
				*filter.AssociationID,
			)
		} else {
			builder = builder.Where("r.assigned_association_id = ?", *filter.AssociationID)
		}
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing aid requests: %w", err)
	}
	defer rows.Close()

	requests := []*models.AidRequest{}
	for rows.Next() {
		req, err := scanRequestWithRequester(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning aid request row: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// Update updates the requester-editable fields of an aid request
func (r *RequestRepository) Update(ctx context.Context, req *models.AidRequest) error {
	query := `
		UPDATE aid_requests
		SET title = $1, description = $2, category = $3, urgency_level = $4,
		    request_type = $5, estimated_amount = $6, city = $7, country = $8,
		    updated_at = NOW()
		WHERE id = $9
	`

	result, err := r.db.Exec(ctx, query,
		req.Title, req.Description, req.Category, req.UrgencyLevel,
		req.RequestType, req.EstimatedAmount,
		req.Location.City, req.Location.Country, req.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating aid request: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrRequestNotFound
	}

	return nil
}

// Assign attaches a request to an association and moves it to reviewing
func (r *RequestRepository) Assign(ctx context.Context, id, associationID int64) error {
	result, err := r.db.Exec(ctx, `
		UPDATE aid_requests
		SET assigned_association_id = $1, status = $2, review_date = NOW(), updated_at = NOW()
		WHERE id = $3
	`, associationID, models.RequestReviewing, id)
	if err != nil {
		return fmt.Errorf("error assigning aid request: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrRequestNotFound
	}
	return nil
}

// UpdateStatus changes the request status, recording review notes and the
// relevant lifecycle timestamps
func (r *RequestRepository) UpdateStatus(ctx context.Context, id int64, status models.RequestStatus, reviewNotes *string) error {
	result, err := r.db.Exec(ctx, `
		UPDATE aid_requests
		SET status = $1,
		    review_notes = COALESCE($2, review_notes),
		    review_date = CASE WHEN $1 IN ('reviewing', 'approved', 'rejected') THEN NOW() ELSE review_date END,
		    completion_date = CASE WHEN $1 = 'completed' THEN NOW() ELSE completion_date END,
		    updated_at = NOW()
		WHERE id = $3
	`, status, reviewNotes, id)
	if err != nil {
		return fmt.Errorf("error updating request status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrRequestNotFound
	}
	return nil
}

// Delete removes an aid request and its documents
func (r *RequestRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM aid_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting aid request: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrRequestNotFound
	}
	return nil
}

// AddDocuments attaches uploaded supporting documents to a request
func (r *RequestRepository) AddDocuments(ctx context.Context, requestID int64, documents []*models.RequestDocument) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, doc := range documents {
		if _, err := tx.Exec(ctx, `
			INSERT INTO request_documents (request_id, name, url)
			VALUES ($1, $2, $3)
		`, requestID, doc.Name, doc.URL); err != nil {
			return fmt.Errorf("error adding request document: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *RequestRepository) getDocuments(ctx context.Context, requestID int64) ([]*models.RequestDocument, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, request_id, name, url, uploaded_at
		FROM request_documents WHERE request_id = $1 ORDER BY uploaded_at
	`, requestID)
	if err != nil {
		return nil, fmt.Errorf("error fetching request documents: %w", err)
	}
	defer rows.Close()

	documents := []*models.RequestDocument{}
	for rows.Next() {
		var d models.RequestDocument
		if err := rows.Scan(&d.ID, &d.RequestID, &d.Name, &d.URL, &d.UploadedAt); err != nil {
			return nil, fmt.Errorf("error scanning document row: %w", err)
		}
		documents = append(documents, &d)
	}
	return documents, rows.Err()
}

func scanRequestWithRequester(row pgx.Row) (*models.AidRequest, error) {
	var req models.AidRequest
	var requester models.User
	err := row.Scan(
		&req.ID, &req.RequesterID, &req.Title, &req.Description, &req.Category,
		&req.UrgencyLevel, &req.Status, &req.RequestType, &req.EstimatedAmount,
		&req.Location.City, &req.Location.Country,
		&req.AssignedAssociationID, &req.ReviewNotes, &req.ReviewDate, &req.CompletionDate,
		&req.CreatedAt, &req.UpdatedAt,
		&requester.FirstName, &requester.LastName, &requester.Email, &requester.Phone,
	)
	if err != nil {
		return nil, err
	}
	requester.ID = req.RequesterID
	req.Requester = &requester
	return &req, nil
}
