// Package routes wires controllers into the HTTP surface
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emre/solidarity/internal/app/controllers"
	"github.com/emre/solidarity/internal/app/models"
	"github.com/emre/solidarity/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	associationController *controllers.AssociationController,
	campaignController *controllers.CampaignController,
	donationController *controllers.DonationController,
	requestController *controllers.RequestController,
	statsController *controllers.StatsController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	associations := v1.Group("/associations")
	{
		associations.GET("", associationController.GetAll)
		associations.GET("/:id", associationController.GetByID)
	}

	campaigns := v1.Group("/campaigns")
	{
		campaigns.GET("", campaignController.GetAll)
		campaigns.GET("/:id", campaignController.GetByID)
		campaigns.GET("/:id/donations", campaignController.GetDonations)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)

		users := authenticated.Group("/users")
		{
			users.GET("/me", userController.GetMe)
			users.GET("", authMiddleware.RoleRequired(models.RoleAdmin), userController.GetAll)
			users.GET("/:id", userController.GetByID)
			users.PUT("/:id", userController.Update)
			users.POST("/:id/avatar", userController.UploadAvatar)
			users.GET("/:id/donations", donationController.GetByUser)
			users.DELETE("/:id", authMiddleware.RoleRequired(models.RoleAdmin), userController.Delete)
		}

		associationsProtected := authenticated.Group("/associations")
		{
			associationsProtected.POST("", associationController.Create)
			associationsProtected.PUT("/:id", associationController.Update)
			associationsProtected.POST("/:id/logo", associationController.UploadLogo)
			associationsProtected.PATCH("/:id/verify", authMiddleware.RoleRequired(models.RoleAdmin), associationController.Verify)
			associationsProtected.DELETE("/:id", authMiddleware.RoleRequired(models.RoleAdmin), associationController.Delete)
		}

		campaignsProtected := authenticated.Group("/campaigns")
		campaignsProtected.Use(authMiddleware.RoleRequired(models.RoleAssociation, models.RoleAdmin))
		{
			campaignsProtected.POST("", campaignController.Create)
			campaignsProtected.PUT("/:id", campaignController.Update)
			campaignsProtected.POST("/:id/images", campaignController.UploadImages)
			campaignsProtected.POST("/:id/updates", campaignController.AddUpdate)
			campaignsProtected.DELETE("/:id", campaignController.Delete)
		}

		donations := authenticated.Group("/donations")
		{
			donations.POST("", donationController.Create)
			donations.GET("", donationController.GetAll)
			donations.GET("/:id", donationController.GetByID)
			donations.PATCH("/:id/status", authMiddleware.RoleRequired(models.RoleAssociation, models.RoleAdmin), donationController.UpdateStatus)
			donations.POST("/reconcile", authMiddleware.RoleRequired(models.RoleAdmin), donationController.Reconcile)
		}

		requests := authenticated.Group("/requests")
		{
			requests.POST("", requestController.Create)
			requests.GET("", requestController.GetAll)
			requests.GET("/:id", requestController.GetByID)
			requests.PUT("/:id", requestController.Update)
			requests.PATCH("/:id/assign", authMiddleware.RoleRequired(models.RoleAssociation, models.RoleAdmin), requestController.Assign)
			requests.PATCH("/:id/status", authMiddleware.RoleRequired(models.RoleAssociation, models.RoleAdmin), requestController.UpdateStatus)
			requests.POST("/:id/documents", requestController.UploadDocuments)
			requests.DELETE("/:id", requestController.Delete)
		}

		stats := authenticated.Group("/stats")
		{
			stats.GET("/dashboard", statsController.Dashboard)
			stats.GET("/donations/monthly", statsController.MonthlyDonations)
			stats.GET("/donors/top", statsController.TopDonors)
			stats.GET("/campaigns/performance", statsController.CampaignPerformance)
		}
	}
}
