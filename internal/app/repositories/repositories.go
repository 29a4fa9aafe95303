package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository        *UserRepository
	AssociationRepository *AssociationRepository
	CampaignRepository    *CampaignRepository
	DonationRepository    *DonationRepository
	RequestRepository     *RequestRepository
	StatsRepository       *StatsRepository
	TokenRepository       *TokenRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:        NewUserRepository(db),
		AssociationRepository: NewAssociationRepository(db),
		CampaignRepository:    NewCampaignRepository(db),
		DonationRepository:    NewDonationRepository(db),
		RequestRepository:     NewRequestRepository(db),
		StatsRepository:       NewStatsRepository(db),
		TokenRepository:       NewTokenRepository(db),
	}
}
