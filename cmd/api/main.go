package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/johnquangdev/l10-platform/docs"
	"github.com/johnquangdev/l10-platform/internal/adapter/handler"
	"github.com/johnquangdev/l10-platform/internal/adapter/repository"
	"github.com/johnquangdev/l10-platform/internal/infrastructure/cache"
	"github.com/johnquangdev/l10-platform/internal/infrastructure/crypto"
	"github.com/johnquangdev/l10-platform/internal/infrastructure/database"
	"github.com/johnquangdev/l10-platform/internal/infrastructure/external/gcal"
	"github.com/johnquangdev/l10-platform/internal/infrastructure/external/oauth"
	"github.com/johnquangdev/l10-platform/internal/infrastructure/external/slack"
	httpmw "github.com/johnquangdev/l10-platform/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/l10-platform/internal/infrastructure/storage"
	"github.com/johnquangdev/l10-platform/internal/usecase/auth"
	"github.com/johnquangdev/l10-platform/internal/usecase/briefing"
	"github.com/johnquangdev/l10-platform/internal/usecase/integration"
	"github.com/johnquangdev/l10-platform/internal/usecase/meeting"
	"github.com/johnquangdev/l10-platform/internal/usecase/scheduler"
	"github.com/johnquangdev/l10-platform/internal/usecase/workspace"
	pkgai "github.com/johnquangdev/l10-platform/pkg/ai"
	"github.com/johnquangdev/l10-platform/pkg/config"
	"github.com/johnquangdev/l10-platform/pkg/jwt"
	pkgmw "github.com/johnquangdev/l10-platform/pkg/middleware"
	pkgvalidator "github.com/johnquangdev/l10-platform/pkg/validator"
)

// @title           L10 Platform API
// @version         1.0
// @description     Business operating system API: L10 meetings, rocks, scorecard, issues, to-dos, AI briefings and Slack / Google Calendar integrations.

// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the identity provider access token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Echo instance
	e := echo.New()
	e.Validator = pkgvalidator.New()
	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.RequestID())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${id} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(pkgmw.Metrics())

	log.Println("🔧 Initializing dependencies...")

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Production deployments apply the schema with `l10ctl migrate up`
	if cfg.Database.AutoMigrate {
		if cfg.IsProduction() {
			log.Fatalf("DB_AUTO_MIGRATE is enabled in production. Disable it and run l10ctl migrate up instead.")
		}
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; run l10ctl migrate up to apply the schema")
	}

	health := map[string]handler.HealthCheck{
		"database": func(ctx context.Context) error { return pingDB(ctx, db) },
	}

	// Cache for Slack event dedupe
	store, err := newStore(cfg, health)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer store.Close()

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	profileRepo := repository.NewProfileRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)
	issueRepo := repository.NewIssueRepository(db)
	todoRepo := repository.NewTodoRepository(db)
	headlineRepo := repository.NewHeadlineRepository(db)
	rockRepo := repository.NewRockRepository(db)
	metricRepo := repository.NewMetricRepository(db)
	integrationRepo := repository.NewIntegrationRepository(db)

	// Identity verification
	log.Println("🔑 Initializing identity verification...")
	tokens := jwt.NewManager(cfg.Identity.JWTSecret, cfg.Identity.Issuer, cfg.Identity.Audience)
	identities := auth.NewIdentityService(tokens, profileRepo, logger)

	// Integrations
	log.Println("🔐 Initializing Slack and Google Calendar providers...")
	tokenBox, err := crypto.NewTokenBox(cfg.Crypto.TokenEncryptionKey)
	if err != nil {
		log.Fatalf("Failed to initialize token encryption: %v", err)
	}
	if !tokenBox.Configured() {
		log.Println("⚠️  TOKEN_ENCRYPTION_KEY is not set; connecting Slack or Google Calendar will fail")
	}
	stateSecret := cfg.Crypto.StateSecret
	if stateSecret == "" {
		stateSecret = cfg.Identity.JWTSecret
	}
	stateManager := oauth.NewStateManager(integrationRepo, jwt.NewStateSigner(stateSecret), cfg.Crypto.StateTTL)

	integrationService := integration.NewIntegrationService(
		integration.Repositories{
			Integrations: integrationRepo,
			Rocks:        rockRepo,
			Metrics:      metricRepo,
			Issues:       issueRepo,
		},
		integration.Providers{
			States:   stateManager,
			Slack:    oauth.NewSlackProvider(cfg.Slack.ClientID, cfg.Slack.ClientSecret, cfg.CallbackURL("slack"), nil),
			Bot:      slack.NewClient(cfg.Slack.SigningSecret),
			Google:   oauth.NewGoogleProvider(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.CallbackURL("google-calendar")),
			Calendar: gcal.NewClient(),
			Tokens:   tokenBox,
		},
		store,
		logger,
	)

	// Meetings
	log.Println("📅 Initializing meeting service...")
	meetingOpts := []meeting.Option{
		meeting.WithAnnouncer(integrationService),
		meeting.WithCalendar(integrationService),
	}
	if cfg.Storage.Enabled {
		log.Println("🗄️  Connecting to object storage...")
		notes, err := storage.NewMinIOClient(context.Background(), &cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to initialize object storage: %v", err)
		}
		meetingOpts = append(meetingOpts, meeting.WithNotesArchive(notes))
		health["storage"] = notes.Ping
	}
	meetingService := meeting.NewMeetingService(meeting.Repositories{
		Meetings:  meetingRepo,
		Issues:    issueRepo,
		Todos:     todoRepo,
		Headlines: headlineRepo,
		Rocks:     rockRepo,
		Metrics:   metricRepo,
		Profiles:  profileRepo,
	}, logger, meetingOpts...)

	workspaceService := workspace.NewWorkspaceService(workspace.Repositories{
		Goals:       repository.NewGoalRepository(db),
		Rocks:       rockRepo,
		Metrics:     metricRepo,
		Pillars:     repository.NewPillarRepository(db),
		DataSources: repository.NewDataSourceRepository(db),
		Profiles:    profileRepo,
		Issues:      issueRepo,
		Todos:       todoRepo,
		Headlines:   headlineRepo,
		Meetings:    meetingRepo,
	}, logger)

	// Briefings
	log.Println("🤖 Initializing AI briefings...")
	chat := pkgai.NewChatClient(&cfg.LLM)
	if !chat.Configured() {
		log.Println("⚠️  LLM_API_KEY is not set; briefings fall back to alert lists")
	}
	briefingService := briefing.NewBriefingService(briefing.Repositories{
		Briefings: repository.NewBriefingRepository(db),
		Insights:  repository.NewInsightRepository(db),
		Profiles:  profileRepo,
		Metrics:   metricRepo,
		Rocks:     rockRepo,
		Issues:    issueRepo,
		Todos:     todoRepo,
		Meetings:  meetingRepo,
	}, chat, logger, briefing.WithRateInterval(cfg.Scheduler.LLMRate))

	// Background jobs
	if cfg.Scheduler.Enabled {
		log.Printf("⏰ Starting scheduler (briefings after %02d:00 UTC)", cfg.Scheduler.BriefingHour)
		jobs := scheduler.New(briefingService, integrationService, scheduler.Config{
			BriefingHour: cfg.Scheduler.BriefingHour,
			Interval:     cfg.Scheduler.Interval,
		}, logger)
		jobs.Start(context.Background())
		defer jobs.Stop()
	}

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(
		cfg,
		httpmw.EchoAuth(identities, logger),
		handler.NewMeetingHandler(meetingService, logger),
		handler.NewBriefingHandler(briefingService, logger),
		handler.NewWorkspaceHandler(workspaceService, logger),
		handler.NewIntegrationHandler(integrationService, cfg.Server.AppURL, logger),
		health,
		logger,
	)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Println("✅ Server stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// newStore connects to Redis when configured and registers its health check.
// Without REDIS_HOST the in-memory store is used, which only dedupes within one replica.
func newStore(cfg *config.Config, health map[string]handler.HealthCheck) (cache.Store, error) {
	if cfg.Redis.Host == "" {
		log.Println("⚠️  REDIS_HOST is not set; using in-memory cache")
		return cache.NewMemoryStore(time.Minute), nil
	}

	log.Println("📦 Connecting to Redis...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rs, err := cache.NewRedisStore(ctx, cfg.GetRedisAddr(), cfg.Redis.Password, cfg.Redis.DB, "l10:")
	if err != nil {
		return nil, err
	}
	health["cache"] = rs.Ping
	return rs, nil
}

func pingDB(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
