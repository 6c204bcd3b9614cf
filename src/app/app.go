package app

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/huntboard/backend/src/domain"
	"github.com/huntboard/backend/src/handler"
	"github.com/huntboard/backend/src/repository"
	"github.com/huntboard/backend/src/service"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/rs/zerolog"
	postgresDriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Application struct {
	config               AppConfig
	database             *gorm.DB
	redis                *redis.Client
	ChallengeService     *service.ChallengeService
	VulnerabilityService *service.VulnerabilityService
	ActivityService      *service.ActivityService
}

func NewApplication(ctx context.Context, config AppConfig) *Application {
	logger := zerolog.Ctx(ctx).With().Str("function", "NewApplication").Logger()

	database, err := openDatabase(*config.DSN, *config.MigrationPath)
	if err != nil {
		logger.Error().Err(err).Msg("connection to database failed")
		return nil
	}

	// Test database connection
	db, err := database.DB()
	if err != nil {
		logger.Error().Err(err).Msg("failed to get underlying database connection")
		return nil
	}

	if err := db.Ping(); err != nil {
		logger.Error().Err(err).Msg("connection to database failed")
		return nil
	}

	logger.Info().Msg("Database connection established")

	// Connect to Redis when a cache is configured
	var rdb *redis.Client
	var cache *repository.SummaryCache
	if *config.RedisAddr != "" {
		redisOpts, err := redis.ParseURL(*config.RedisAddr)
		if err != nil {
			logger.Error().Err(err).Msg("failed to parse redis URL")
			return nil
		}

		rdb = redis.NewClient(redisOpts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Error().Err(err).Msg("connection to redis failed")
			return nil
		}
		logger.Info().Msg("Redis connection established")

		cache = repository.NewSummaryCache(rdb, "huntboard")
	}

	var timeSource service.TimeSource
	if *config.TimeAPIURL == "local" {
		timeSource = service.SystemTimeSource{}
	} else {
		timeSource = service.NewWorldTimeSource(*config.TimeAPIURL)
	}

	challengeRepo := repository.NewChallengeRepository(database)
	vulnRepo := repository.NewVulnerabilityRepository(database)
	sessionRepo := repository.NewWorkSessionRepository(database)
	activityRepo := repository.NewActivityRepository(database)

	challengeService := service.NewChallengeService(challengeRepo, vulnRepo, cache, timeSource)
	vulnerabilityService := service.NewVulnerabilityService(challengeRepo, vulnRepo, cache)
	activityService := service.NewActivityService(challengeRepo, activityRepo, sessionRepo, vulnRepo, cache)

	return &Application{
		config:               config,
		database:             database,
		redis:                rdb,
		ChallengeService:     challengeService,
		VulnerabilityService: vulnerabilityService,
		ActivityService:      activityService,
	}
}

// openDatabase selects the driver from the DSN: postgres DSNs run the SQL
// migration files, anything else is a SQLite file path kept in sync with
// gorm AutoMigrate.
func openDatabase(dsn string, migrationPath string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		database, err := gorm.Open(postgresDriver.Open(dsn), &gorm.Config{})
		if err != nil {
			return nil, err
		}

		MigrationUp(dsn, migrationPath)
		return database, nil
	}

	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := database.AutoMigrate(
		&domain.Challenge{},
		&domain.Vulnerability{},
		&domain.WorkSession{},
		&domain.ActivityLog{},
	); err != nil {
		return nil, err
	}
	return database, nil
}

func (app *Application) Shutdown(ctx context.Context) {
	logger := zerolog.Ctx(ctx).With().Str("function", "Shutdown").Logger()

	// Close database connection
	if app.database != nil {
		db, err := app.database.DB()
		if err != nil {
			logger.Error().Err(err).Msg("Failed to get underlying database connection")
		} else {
			if err := db.Close(); err != nil {
				logger.Error().Err(err).Msg("Failed to close database connection")
			} else {
				logger.Info().Msg("Database connection closed")
			}
		}
	}

	// Close Redis connection
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close redis connection")
		} else {
			logger.Info().Msg("Redis connection closed")
		}
	}
}

func (app *Application) RunHTTPServer(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	logger := zerolog.Ctx(ctx).With().Str("function", "RunHTTPServer").Logger()

	// Set to release mode to disable Gin logger
	gin.SetMode(gin.ReleaseMode)

	ginRouter := gin.Default()

	// Register routes
	app.registerRoutes(ctx, ginRouter)

	// Build HTTP server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", *app.config.Port),
		Handler: ginRouter,
	}

	// Start server in goroutine
	go func() {
		zerolog.Ctx(ctx).Info().Msgf("HTTP server is on http://localhost:%s/api/v1/health", *app.config.Port)
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			zerolog.Ctx(ctx).Panic().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	// Wait for context cancellation
	<-ctx.Done()

	logger.Info().Msg("Gracefully shutting down HTTP server...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Shutdown server
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Failed to shutdown HTTP server gracefully")
	} else {
		logger.Info().Msg("HTTP server shutdown complete")
	}
}

func (app *Application) registerRoutes(ctx context.Context, router *gin.Engine) {

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if value, ok := field.Interface().(decimal.Decimal); ok {
				return value.String()
			}
			return nil
		}, decimal.Decimal{})
	}

	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = *app.config.AllowOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"}
	config.AllowCredentials = true

	router.Use(cors.New(config))

	handler.SetMiddlewares(ctx, router)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	challengeHandler := handler.NewChallengeHandler(app.ChallengeService, app.VulnerabilityService, app.ActivityService)
	vulnerabilityHandler := handler.NewVulnerabilityHandler(app.VulnerabilityService)
	activityHandler := handler.NewActivityHandler(app.ActivityService)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handler.HandleHealthCheck)

		// Challenge management endpoints
		v1.GET("/challenges", challengeHandler.ListChallenges)
		v1.POST("/challenges", challengeHandler.CreateChallenge)
		v1.GET("/challenges/:id", challengeHandler.GetChallenge)
		v1.PUT("/challenges/:id", challengeHandler.EditChallenge)
		v1.DELETE("/challenges/:id", challengeHandler.DeleteChallenge)
		v1.POST("/challenges/:id/toggle", challengeHandler.ToggleChallenge)
		v1.GET("/challenges/:id/summary", challengeHandler.GetSummary)
		v1.GET("/challenges/:id/countdown", challengeHandler.GetCountdown)
		v1.GET("/challenges/:id/work-stats", challengeHandler.GetWorkStats)
		v1.GET("/challenges/:id/analytics", challengeHandler.GetAnalytics)

		// Vulnerability endpoints
		v1.GET("/vulnerabilities", vulnerabilityHandler.ListVulnerabilities)
		v1.POST("/vulnerabilities", vulnerabilityHandler.AddVulnerability)
		v1.DELETE("/vulnerabilities/:id", vulnerabilityHandler.DeleteVulnerability)

		// Activity heartbeat endpoint
		v1.POST("/activity", activityHandler.LogActivity)
	}
}
