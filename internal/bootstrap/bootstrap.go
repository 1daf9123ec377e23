package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	appControllers "github.com/institut/vitrine/internal/app/controllers"
	appMigrations "github.com/institut/vitrine/internal/app/migrations"
	appRepos "github.com/institut/vitrine/internal/app/repositories"
	"github.com/institut/vitrine/internal/app/repositories/memory"
	appRoutes "github.com/institut/vitrine/internal/app/routes"
	appServices "github.com/institut/vitrine/internal/app/services"
	"github.com/institut/vitrine/internal/config"
	"github.com/institut/vitrine/internal/db"
	"github.com/institut/vitrine/internal/metrics"
	appMiddleware "github.com/institut/vitrine/internal/middleware"
	"github.com/institut/vitrine/internal/pkg/email"
	"github.com/institut/vitrine/internal/pkg/filestorage"
	"github.com/institut/vitrine/internal/pkg/logger"
	"github.com/institut/vitrine/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos               *appRepos.Repositories
	Services            *appServices.Services
	FormationController *appControllers.FormationController
	GalleryController   *appControllers.GalleryController
	AssetController     *appControllers.AssetController
	MessageController   *appControllers.MessageController
	Notifier            email.Notifier
	FileStorage         *filestorage.LocalStorage
	Metrics             *metrics.Metrics
	Registry            *prometheus.Registry
	SearchLimiter       *appMiddleware.RateLimiter // nil when rate limiting is disabled
	Database            *db.PostgresDB             // nil with the memory driver
	Logger              zerolog.Logger
}

// Close releases the resources owned by the dependencies
func (d *Dependencies) Close() {
	if d.SearchLimiter != nil {
		d.SearchLimiter.Stop()
	}
	if d.Database != nil {
		d.Database.Close()
	}
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.EqualFold(cfg.Logging.Format, "text"),
	})

	lgr := logger.Get()
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase opens the configured store, applies migrations and seeds an empty catalog.
// The returned PostgresDB is nil with the memory driver.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*appRepos.Repositories, *db.PostgresDB, error) {
	var (
		repos    *appRepos.Repositories
		database *db.PostgresDB
	)

	switch cfg.Database.Driver {
	case config.DriverMemory:
		lgr.Warn().Msg("Using the in-memory catalog store; data is lost on restart")
		repos = memory.NewRepositories()

	default:
		lgr.Info().Msg("Establishing database connection...")
		var err error
		database, err = db.NewPostgresDB(cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, nil, err
		}
		lgr.Info().Msg("Database connection successfully established.")

		migrationsDir := cfg.Database.MigrationsDir
		if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
			database.Close()
			return nil, nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
		}

		lgr.Info().Str("dir", migrationsDir).Msg("Running database migrations...")
		if err := appMigrations.NewMigrator(database).MigrateFromDirectory(ctx, migrationsDir); err != nil {
			database.Close()
			return nil, nil, fmt.Errorf("database migrations failed: %w", err)
		}
		lgr.Info().Msg("Database migrations successfully applied.")

		repos = appRepos.NewRepositories(database.Pool)
	}

	if cfg.Database.Seed {
		if err := seed.CreateDefaultData(ctx, repos, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return repos, database, nil
}

// BuildDependencies initializes services, controllers and supporting infrastructure.
func BuildDependencies(ctx context.Context, cfg *config.Config, repos *appRepos.Repositories, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Repos:    repos,
		Database: database,
		Logger:   lgr,
		Registry: prometheus.NewRegistry(),
	}

	deps.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	deps.Metrics = metrics.NewMetrics(deps.Registry)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.PublicBaseURL())
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	if cfg.RateLimit.Enabled {
		deps.SearchLimiter = appMiddleware.NewRateLimiter(ctx, cfg.RateLimit.RPS, cfg.RateLimit.Burst, deps.Metrics)
	}

	deps.Notifier = email.NewFromConfig(cfg)
	if cfg.Mail.Host == "" {
		lgr.Warn().Msg("Mail host not set, notification mails will be skipped")
	}

	deps.Services = appServices.NewServices(repos, deps.Metrics, deps.Notifier)
	deps.FormationController = appControllers.NewFormationController(deps.Services.FormationService)
	deps.GalleryController = appControllers.NewGalleryController(deps.Services.GalleryService)
	deps.AssetController = appControllers.NewAssetController(deps.FileStorage, deps.Metrics)
	deps.MessageController = appControllers.NewMessageController(deps.Services.MessageService, deps.Services.NewsletterService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	switch strings.ToLower(cfg.Server.Mode) {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	lgr.Info().Str("mode", gin.Mode()).Msg("Gin mode set")

	router := gin.New()
	router.Use(appMiddleware.Recovery(), appMiddleware.RequestLogger(), appMiddleware.Metrics(deps.Metrics))
	router.NoRoute(appMiddleware.NotFound())

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, appRoutes.Controllers{
		Formation: deps.FormationController,
		Gallery:   deps.GalleryController,
		Asset:     deps.AssetController,
		Message:   deps.MessageController,
	}, deps.SearchLimiter)

	router.Static(filestorage.UploadsRoute, cfg.Server.StoragePath)

	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	router.GET("/health", healthHandler(deps))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}

func healthHandler(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.Database == nil {
			c.JSON(http.StatusOK, gin.H{"status": "UP", "database": "memory"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := deps.Database.Ping(ctx); err != nil {
			deps.Logger.Warn().Err(err).Msg("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DOWN", "database": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "UP", "database": "up"})
	}
}
