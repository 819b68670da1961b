package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	adoptionserver "github.com/pawhaven/adoption-api-server/go"

	adoptionsmemory "github.com/pawhaven/adoption-api-server/internal/domains/adoptions/adapters/memory"
	adoptionsobs "github.com/pawhaven/adoption-api-server/internal/domains/adoptions/adapters/observability"
	adoptionspostgres "github.com/pawhaven/adoption-api-server/internal/domains/adoptions/adapters/persistence/postgres"
	adoptionsworkflows "github.com/pawhaven/adoption-api-server/internal/domains/adoptions/adapters/workflows"
	adoptionsapp "github.com/pawhaven/adoption-api-server/internal/domains/adoptions/application"
	adoptionports "github.com/pawhaven/adoption-api-server/internal/domains/adoptions/ports"

	petsmemory "github.com/pawhaven/adoption-api-server/internal/domains/pets/adapters/memory"
	petsobs "github.com/pawhaven/adoption-api-server/internal/domains/pets/adapters/observability"
	petspostgres "github.com/pawhaven/adoption-api-server/internal/domains/pets/adapters/persistence/postgres"
	petsapp "github.com/pawhaven/adoption-api-server/internal/domains/pets/application"
	petsports "github.com/pawhaven/adoption-api-server/internal/domains/pets/ports"

	usersmemory "github.com/pawhaven/adoption-api-server/internal/domains/users/adapters/memory"
	usersobs "github.com/pawhaven/adoption-api-server/internal/domains/users/adapters/observability"
	userspostgres "github.com/pawhaven/adoption-api-server/internal/domains/users/adapters/persistence/postgres"
	usersapp "github.com/pawhaven/adoption-api-server/internal/domains/users/application"
	userports "github.com/pawhaven/adoption-api-server/internal/domains/users/ports"

	platformmigrations "github.com/pawhaven/adoption-api-server/internal/platform/migrations"
	platformobservability "github.com/pawhaven/adoption-api-server/internal/platform/observability"
	platformpostgres "github.com/pawhaven/adoption-api-server/internal/platform/postgres"
)

// Run boots the adoption HTTP API with observability, repositories, and
// workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "adoption-api"
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := connectDatabase(ctx, cfg, logger)
	defer cleanupDB()

	petRepo := buildPetRepository(db, logger)
	petService := petsobs.New(
		petsapp.NewService(petRepo),
		petsobs.WithLogger(logger),
		petsobs.WithTracer(instruments.Tracer("internal.pets.application")),
		petsobs.WithMeter(instruments.Meter("internal.pets.application")),
	)

	ledger := buildLedger(db, logger)
	coordinator := adoptionsobs.New(
		adoptionsapp.NewCoordinator(ledger, petRepo),
		adoptionsobs.WithLogger(logger),
		adoptionsobs.WithTracer(instruments.Tracer("internal.adoptions.application")),
		adoptionsobs.WithMeter(instruments.Meter("internal.adoptions.application")),
	)

	var submissions adoptionports.SubmissionOrchestrator = adoptionsworkflows.NewInlineSubmissions(coordinator)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, running submissions inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		submissions = adoptionsworkflows.NewTemporalSubmissions(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	userRepo, sessions := buildIdentityStores(db, cfg, logger)
	userService := usersobs.New(
		usersapp.NewService(userRepo, sessions),
		usersobs.WithLogger(logger),
		usersobs.WithTracer(instruments.Tracer("internal.users.application")),
		usersobs.WithMeter(instruments.Meter("internal.users.application")),
	)

	handlers := adoptionserver.ApiHandleFunctions{
		AdoptionAPI: adoptionserver.NewAdoptionAPI(coordinator, submissions),
		PetAPI:      adoptionserver.NewPetAPI(petService),
		UserAPI:     adoptionserver.NewUserAPI(userService),
	}

	router := adoptionserver.NewRouter(handlers,
		otelgin.Middleware(serviceName),
		adoptionserver.AuthMiddleware(userService),
	)
	addr := ":" + cfg.Port
	logger.Info("adoption API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("adoption API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func connectDatabase(ctx context.Context, cfg Config, logger *slog.Logger) (*gorm.DB, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory repositories")
		return nil, func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to in-memory repositories", slog.String("error", err.Error()))
		return nil, func() {}
	}
	if err := platformmigrations.Run(db); err != nil {
		logger.Warn("failed to run migrations, falling back to in-memory repositories", slog.String("error", err.Error()))
		return nil, func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to in-memory repositories", slog.String("error", err.Error()))
		return nil, func() {}
	}
	logger.Info("postgres connection established")
	return db, func() { _ = sqlDB.Close() }
}

func buildPetRepository(db *gorm.DB, logger *slog.Logger) petsports.Repository {
	if db == nil {
		return petsmemory.NewRepository()
	}
	logger.Info("pet repository configured with postgres")
	return petspostgres.NewRepository(db)
}

func buildLedger(db *gorm.DB, logger *slog.Logger) adoptionports.Ledger {
	if db == nil {
		return adoptionsmemory.NewLedger()
	}
	logger.Info("adoption ledger configured with postgres")
	return adoptionspostgres.NewLedger(db)
}

func buildIdentityStores(db *gorm.DB, cfg Config, logger *slog.Logger) (userports.Repository, userports.SessionStore) {
	if db == nil {
		return usersmemory.NewRepository(), usersmemory.NewSessionStore()
	}
	logger.Info("identity stores configured with postgres")
	return userspostgres.NewRepository(db), userspostgres.NewSessionStore(db, cfg.SessionTTL)
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	logger := workerlog.NewStructuredLogger(effectiveLogger(instruments))
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    logger,
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
