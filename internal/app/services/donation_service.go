package services

import (
	"context"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/emre/solidarity/internal/app/models"
	"github.com/emre/solidarity/internal/app/models/dto"
	"github.com/emre/solidarity/internal/app/policy"
	"github.com/emre/solidarity/internal/pkg/apperrors"
	"github.com/emre/solidarity/internal/pkg/helpers"
)

// publicDonationLimit caps the campaign donation ticker
const publicDonationLimit = 20

// DonationService handles donation recording and retrieval
type DonationService struct {
	donationStore DonationStore
	campaignStore CampaignStore
	logger        zerolog.Logger
	entropy       *ulid.MonotonicEntropy
	now           func() time.Time
}

// NewDonationService creates a new DonationService
func NewDonationService(donationStore DonationStore, campaignStore CampaignStore, logger zerolog.Logger) *DonationService {
	return &DonationService{
		donationStore: donationStore,
		campaignStore: campaignStore,
		logger:        logger,
		entropy:       ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
		now:           time.Now,
	}
}

// newTransactionID mints a unique payment reference
func (s *DonationService) newTransactionID() string {
	return "TXN" + ulid.MustNew(ulid.Timestamp(s.now()), s.entropy).String()
}

// Record accepts a donation against a running campaign. The payment stub
// settles immediately, so the donation lands in the completed state and
// the campaign and association totals move with it.
func (s *DonationService) Record(ctx context.Context, actor policy.Actor, req *dto.CreateDonationRequest) (*models.Donation, error) {
	if req.Amount < 1 {
		return nil, apperrors.NewValidationError("donation amount must be at least 1")
	}
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		return nil, apperrors.NewValidationError("unknown payment method")
	}

	campaign, err := s.campaignStore.GetByID(ctx, req.CampaignID)
	if err != nil {
		return nil, err
	}
	if !campaign.IsRunning(s.now()) {
		return nil, apperrors.NewBadRequestError("campaign is not accepting donations")
	}

	donation := &models.Donation{
		DonorID:       actor.UserID,
		CampaignID:    campaign.ID,
		AssociationID: campaign.AssociationID,
		Amount:        req.Amount,
		Currency:      campaign.Currency,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: models.PaymentCompleted,
		TransactionID: s.newTransactionID(),
		Message:       req.Message,
		IsAnonymous:   req.IsAnonymous,
		DonationDate:  s.now(),
	}

	id, err := s.donationStore.Record(ctx, donation)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("donationID", id).
		Int64("campaignID", campaign.ID).
		Float64("amount", req.Amount).
		Str("transactionID", donation.TransactionID).
		Msg("Donation recorded")

	return s.donationStore.GetByID(ctx, id)
}

// GetByID fetches a donation the actor is allowed to see
func (s *DonationService) GetByID(ctx context.Context, actor policy.Actor, id int64) (*models.Donation, error) {
	donation, err := s.donationStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanViewDonation(actor, donation) {
		return nil, apperrors.ErrPermissionDenied
	}
	return donation, nil
}

// List returns the donations visible to the actor: admins see everything,
// associations see what they received, donors see what they gave.
func (s *DonationService) List(ctx context.Context, actor policy.Actor, page, size int) ([]*models.Donation, dto.PaginationInfo, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	var (
		donations []*models.Donation
		total     int64
		err       error
	)
	switch {
	case actor.IsAdmin():
		donations, total, err = s.donationStore.GetAll(ctx, offset, limit)
	case actor.Role == models.RoleAssociation && actor.AssociationID != nil:
		donations, total, err = s.donationStore.GetByAssociation(ctx, *actor.AssociationID, offset, limit)
	default:
		donations, total, err = s.donationStore.GetByDonor(ctx, actor.UserID, offset, limit)
	}
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	return donations, helpers.NewPaginationInfo(total, page, limit), nil
}

// ListByDonor returns the donation history of one user. Callers may only
// read their own history unless they are admins.
func (s *DonationService) ListByDonor(ctx context.Context, actor policy.Actor, donorID int64, page, size int) ([]*models.Donation, dto.PaginationInfo, error) {
	if !actor.IsAdmin() && actor.UserID != donorID {
		return nil, dto.PaginationInfo{}, apperrors.ErrPermissionDenied
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	donations, total, err := s.donationStore.GetByDonor(ctx, donorID, offset, limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	return donations, helpers.NewPaginationInfo(total, page, limit), nil
}

// ListByCampaign returns the public donation ticker for a campaign:
// recent completed donations with anonymous donors redacted.
func (s *DonationService) ListByCampaign(ctx context.Context, campaignID int64) ([]dto.PublicDonation, error) {
	if _, err := s.campaignStore.GetByID(ctx, campaignID); err != nil {
		return nil, err
	}

	donations, err := s.donationStore.GetCompletedByCampaign(ctx, campaignID, publicDonationLimit)
	if err != nil {
		return nil, err
	}

	public := make([]dto.PublicDonation, 0, len(donations))
	for _, d := range donations {
		public = append(public, dto.NewPublicDonation(d))
	}
	return public, nil
}

// UpdateStatus moves a donation between payment states, meant for refunds
// and payment disputes. The receiving association and admins only; the
// denormalized totals follow the status change.
func (s *DonationService) UpdateStatus(ctx context.Context, actor policy.Actor, id int64, status models.PaymentStatus) (*models.Donation, error) {
	if !models.ValidPaymentStatus(status) {
		return nil, apperrors.NewValidationError("unknown payment status")
	}

	donation, err := s.donationStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanUpdateDonationStatus(actor, donation) {
		return nil, apperrors.ErrPermissionDenied
	}

	if err := s.donationStore.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("donationID", id).Str("status", string(status)).Msg("Donation status updated")
	return s.donationStore.GetByID(ctx, id)
}

// Reconcile recomputes every denormalized donation counter. Admin only.
func (s *DonationService) Reconcile(ctx context.Context, actor policy.Actor) error {
	if !actor.IsAdmin() {
		return apperrors.ErrPermissionDenied
	}
	if err := s.donationStore.Reconcile(ctx); err != nil {
		return err
	}
	s.logger.Info().Msg("Donation counters reconciled")
	return nil
}
