// Package bootstrap assembles the application: configuration, logging,
// database, dependency graph and HTTP router.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/emre/solidarity/docs" // Import generated swagger docs
	"github.com/emre/solidarity/internal/app/controllers"
	"github.com/emre/solidarity/internal/app/migrations"
	"github.com/emre/solidarity/internal/app/repositories"
	"github.com/emre/solidarity/internal/app/routes"
	"github.com/emre/solidarity/internal/app/services"
	"github.com/emre/solidarity/internal/config"
	"github.com/emre/solidarity/internal/db"
	"github.com/emre/solidarity/internal/middleware"
	"github.com/emre/solidarity/internal/obs"
	pkgAuth "github.com/emre/solidarity/internal/pkg/auth"
	"github.com/emre/solidarity/internal/pkg/filestorage"
	"github.com/emre/solidarity/internal/pkg/helpers"
	"github.com/emre/solidarity/internal/pkg/logger"
	"github.com/emre/solidarity/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos       *repositories.Repositories
	JWTService  *pkgAuth.JWTService
	FileStorage filestorage.FileStorage

	AuthService        *services.AuthService
	UserService        *services.UserService
	AssociationService *services.AssociationService
	CampaignService    *services.CampaignService
	DonationService    *services.DonationService
	RequestService     *services.RequestService
	StatsService       *services.StatsService

	AuthController        *controllers.AuthController
	UserController        *controllers.UserController
	AssociationController *controllers.AssociationController
	CampaignController    *controllers.CampaignController
	DonationController    *controllers.DonationController
	RequestController     *controllers.RequestController
	StatsController       *controllers.StatsController

	AuthMiddleware *middleware.AuthMiddleware
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "console"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection established")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	migrator := migrations.NewMigrator(dbPool)
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	if err := seed.CreateDefaultData(ctx, dbPool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes repositories, services and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = repositories.NewRepositories(dbPool)

	storage, err := buildFileStorage(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}
	deps.FileStorage = storage

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 168*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.AuthService = services.NewAuthService(deps.Repos.UserRepository, deps.Repos.TokenRepository, deps.JWTService, lgr)
	deps.UserService = services.NewUserService(deps.Repos.UserRepository, deps.FileStorage, lgr)
	deps.AssociationService = services.NewAssociationService(deps.Repos.AssociationRepository, deps.FileStorage, lgr)
	deps.CampaignService = services.NewCampaignService(deps.Repos.CampaignRepository, deps.FileStorage, lgr)
	deps.DonationService = services.NewDonationService(deps.Repos.DonationRepository, deps.Repos.CampaignRepository, lgr)
	deps.RequestService = services.NewRequestService(deps.Repos.RequestRepository, deps.FileStorage, lgr)
	deps.StatsService = services.NewStatsService(deps.Repos.StatsRepository, lgr)

	deps.AuthMiddleware = middleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = controllers.NewAuthController(deps.AuthService, lgr)
	deps.UserController = controllers.NewUserController(deps.UserService, lgr)
	deps.AssociationController = controllers.NewAssociationController(deps.AssociationService, lgr)
	deps.CampaignController = controllers.NewCampaignController(deps.CampaignService, deps.DonationService, lgr)
	deps.DonationController = controllers.NewDonationController(deps.DonationService, lgr)
	deps.RequestController = controllers.NewRequestController(deps.RequestService, lgr)
	deps.StatsController = controllers.NewStatsController(deps.StatsService, lgr)

	return deps, nil
}

// buildFileStorage picks the storage backend from configuration. Local
// storage serves files from the uploads directory, S3 delegates to the
// configured bucket.
func buildFileStorage(cfg *config.Config) (filestorage.FileStorage, error) {
	switch cfg.Storage.Backend {
	case "s3":
		return filestorage.NewS3Storage(context.Background(), cfg.Storage.S3Region, cfg.Storage.S3Bucket, cfg.Storage.BaseURL)
	default:
		baseURL := cfg.Storage.BaseURL
		if baseURL == "" {
			// Must match the static file serving URL path
			baseURL = "http://localhost:" + cfg.Server.Port + "/uploads"
		}
		return filestorage.NewLocalStorage(cfg.Server.StoragePath, baseURL)
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	if cfg.RateLimit.PerSecond > 0 {
		router.Use(middleware.RateLimit(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst))
	}

	obs.Init()
	router.Use(obs.Instrument())
	router.GET("/metrics", gin.WrapH(obs.Handler()))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	routes.SetupRouter(router,
		deps.AuthController,
		deps.UserController,
		deps.AssociationController,
		deps.CampaignController,
		deps.DonationController,
		deps.RequestController,
		deps.StatsController,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
