// Package services holds the business logic between controllers and
// repositories. Each service depends on narrow store interfaces so tests
// can swap in fakes without a database.
package services

import (
	"context"
	"time"

	"github.com/emre/solidarity/internal/app/models"
	"github.com/emre/solidarity/internal/app/models/dto"
)

// UserStore is the persistence surface for users
type UserStore interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetAll(ctx context.Context) ([]*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdateAvatar(ctx context.Context, userID int64, avatarURL string) error
	Delete(ctx context.Context, id int64) error
}

// TokenStore tracks refresh tokens
type TokenStore interface {
	CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error
	GetTokenByValue(ctx context.Context, token string) (int64, time.Time, bool, error)
	RevokeToken(ctx context.Context, token string) error
	RevokeAllUserTokens(ctx context.Context, userID int64) error
}

// AssociationStore is the persistence surface for associations
type AssociationStore interface {
	GetAll(ctx context.Context, filter dto.AssociationFilter) ([]*models.Association, error)
	GetByID(ctx context.Context, id int64) (*models.Association, error)
	ExistsByEmailOrRegistration(ctx context.Context, email, registrationNumber string) (bool, error)
	Create(ctx context.Context, association *models.Association, founderID int64) (int64, error)
	Update(ctx context.Context, association *models.Association) error
	UpdateLogo(ctx context.Context, id int64, logoURL string) error
	SetVerified(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// CampaignStore is the persistence surface for campaigns
type CampaignStore interface {
	GetAll(ctx context.Context, filter dto.CampaignFilter) ([]*models.Campaign, error)
	GetByID(ctx context.Context, id int64) (*models.Campaign, error)
	Create(ctx context.Context, campaign *models.Campaign) (int64, error)
	Update(ctx context.Context, campaign *models.Campaign) error
	AppendImages(ctx context.Context, id int64, urls []string) error
	AddUpdate(ctx context.Context, update *models.CampaignUpdate) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// DonationStore is the persistence surface for donations
type DonationStore interface {
	Record(ctx context.Context, donation *models.Donation) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Donation, error)
	GetByDonor(ctx context.Context, donorID int64, offset uint64, limit int) ([]*models.Donation, int64, error)
	GetByAssociation(ctx context.Context, associationID int64, offset uint64, limit int) ([]*models.Donation, int64, error)
	GetAll(ctx context.Context, offset uint64, limit int) ([]*models.Donation, int64, error)
	GetCompletedByCampaign(ctx context.Context, campaignID int64, limit int) ([]*models.Donation, error)
	UpdateStatus(ctx context.Context, id int64, status models.PaymentStatus) error
	Reconcile(ctx context.Context) error
}

// RequestStore is the persistence surface for aid requests
type RequestStore interface {
	Create(ctx context.Context, request *models.AidRequest) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.AidRequest, error)
	GetAll(ctx context.Context, filter dto.RequestFilter) ([]*models.AidRequest, error)
	Update(ctx context.Context, request *models.AidRequest) error
	Assign(ctx context.Context, id, associationID int64) error
	UpdateStatus(ctx context.Context, id int64, status models.RequestStatus, reviewNotes *string) error
	Delete(ctx context.Context, id int64) error
	AddDocuments(ctx context.Context, requestID int64, documents []*models.RequestDocument) error
}

// StatsStore computes aggregate statistics
type StatsStore interface {
	GetAdminDashboard(ctx context.Context) (*dto.AdminDashboard, error)
	GetAssociationDashboard(ctx context.Context, associationID int64) (*dto.AssociationDashboard, error)
	GetUserDashboard(ctx context.Context, userID int64) (*dto.UserDashboard, error)
	GetMonthlyDonations(ctx context.Context, year int, associationID *int64) ([]dto.MonthlyDonationStat, error)
	GetTopDonors(ctx context.Context, limit int, associationID *int64) ([]dto.TopDonor, error)
	GetCampaignPerformance(ctx context.Context, associationID *int64) ([]dto.CampaignPerformance, error)
}
