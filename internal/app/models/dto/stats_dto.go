package dto

import "github.com/emre/solidarity/internal/app/models"

// AdminDashboard is the platform-wide statistics view
type AdminDashboard struct {
	TotalUsers           int64   `json:"totalUsers"`
	TotalAssociations    int64   `json:"totalAssociations"`
	VerifiedAssociations int64   `json:"verifiedAssociations"`
	TotalCampaigns       int64   `json:"totalCampaigns"`
	ActiveCampaigns      int64   `json:"activeCampaigns"`
	TotalDonations       int64   `json:"totalDonations"`
	TotalDonationAmount  float64 `json:"totalDonationAmount"`
	TotalRequests        int64   `json:"totalRequests"`
	PendingRequests      int64   `json:"pendingRequests"`
}

// AssociationDashboard is the statistics view scoped to one association
type AssociationDashboard struct {
	TotalCampaigns      int64   `json:"totalCampaigns"`
	ActiveCampaigns     int64   `json:"activeCampaigns"`
	CompletedCampaigns  int64   `json:"completedCampaigns"`
	TotalDonations      int64   `json:"totalDonations"`
	TotalDonationAmount float64 `json:"totalDonationAmount"`
	TotalRequests       int64   `json:"totalRequests"`
	PendingRequests     int64   `json:"pendingRequests"`
	BeneficiariesHelped int64   `json:"beneficiariesHelped"`
}

// UserDashboard is the statistics view scoped to one donor
type UserDashboard struct {
	TotalDonations      int64   `json:"totalDonations"`
	TotalDonationAmount float64 `json:"totalDonationAmount"`
	TotalRequests       int64   `json:"totalRequests"`
	ApprovedRequests    int64   `json:"approvedRequests"`
	CampaignsSupported  int64   `json:"campaignsSupported"`
}

// MonthlyDonationStat is one month's completed-donation aggregate.
// Months without donations are omitted from the series.
type MonthlyDonationStat struct {
	Month       int     `json:"month" example:"3"`
	TotalAmount float64 `json:"totalAmount"`
	Count       int64   `json:"count"`
}

// TopDonor is one entry of the top-donors ranking
type TopDonor struct {
	DonorID       int64   `json:"donorId"`
	DonorName     string  `json:"donorName" example:"Leila Benali"`
	Email         string  `json:"email"`
	TotalAmount   float64 `json:"totalAmount"`
	DonationCount int64   `json:"donationCount"`
}

// CampaignPerformance annotates a campaign with its goal percentage,
// clamped to [0,100] for display even when the goal is exceeded
type CampaignPerformance struct {
	ID             int64                 `json:"id"`
	Title          string                `json:"title"`
	GoalAmount     float64               `json:"goalAmount"`
	CurrentAmount  float64               `json:"currentAmount"`
	Percentage     int                   `json:"percentage"`
	DonationsCount int                   `json:"donationsCount"`
	Status         models.CampaignStatus `json:"status"`
}

// MonthlyStatsResponse wraps the sparse monthly series with its year
type MonthlyStatsResponse struct {
	Year         int                   `json:"year"`
	MonthlyStats []MonthlyDonationStat `json:"monthlyStats"`
}
