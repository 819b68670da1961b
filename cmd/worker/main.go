package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"
	"gorm.io/gorm"

	adoptionsmemory "github.com/pawhaven/adoption-api-server/internal/domains/adoptions/adapters/memory"
	adoptionsobs "github.com/pawhaven/adoption-api-server/internal/domains/adoptions/adapters/observability"
	adoptionspostgres "github.com/pawhaven/adoption-api-server/internal/domains/adoptions/adapters/persistence/postgres"
	adoptionsapp "github.com/pawhaven/adoption-api-server/internal/domains/adoptions/application"
	adoptionports "github.com/pawhaven/adoption-api-server/internal/domains/adoptions/ports"
	petsmemory "github.com/pawhaven/adoption-api-server/internal/domains/pets/adapters/memory"
	petspostgres "github.com/pawhaven/adoption-api-server/internal/domains/pets/adapters/persistence/postgres"
	petsports "github.com/pawhaven/adoption-api-server/internal/domains/pets/ports"
	platformmigrations "github.com/pawhaven/adoption-api-server/internal/platform/migrations"
	platformobservability "github.com/pawhaven/adoption-api-server/internal/platform/observability"
	platformpostgres "github.com/pawhaven/adoption-api-server/internal/platform/postgres"
	adoptionactivities "github.com/pawhaven/adoption-api-server/internal/platform/temporal/activities/adoptions"
	adoptionworkflows "github.com/pawhaven/adoption-api-server/internal/platform/temporal/workflows/adoptions"
)

func main() {
	ctx := context.Background()
	const serviceName = "adoption-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := connectDatabase(ctx, logger)
	defer cleanupDB()

	ledger, petRepo := buildStores(db, logger)
	coordinator := adoptionsobs.New(
		adoptionsapp.NewCoordinator(ledger, petRepo),
		adoptionsobs.WithLogger(logger),
		adoptionsobs.WithTracer(instruments.Tracer("internal.adoptions.application")),
		adoptionsobs.WithMeter(instruments.Meter("internal.adoptions.application")),
	)
	activities := adoptionactivities.NewActivities(coordinator)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, adoptionworkflows.SubmissionTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(adoptionworkflows.SubmissionWorkflow, workflow.RegisterOptions{Name: adoptionworkflows.SubmissionWorkflowName})
	w.RegisterActivityWithOptions(activities.SubmitApplication, activity.RegisterOptions{Name: adoptionactivities.SubmitApplicationActivityName})

	logger.Info("worker listening", slog.String("taskQueue", adoptionworkflows.SubmissionTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func connectDatabase(ctx context.Context, logger *slog.Logger) (*gorm.DB, func()) {
	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	if db == nil {
		return nil, cleanup
	}
	if err := platformmigrations.Run(db); err != nil {
		logger.Warn("worker failed to run migrations, falling back to in-memory stores", slog.String("error", err.Error()))
		cleanup()
		return nil, func() {}
	}
	return db, cleanup
}

func buildStores(db *gorm.DB, logger *slog.Logger) (adoptionports.Ledger, petsports.Repository) {
	if db == nil {
		logger.Warn("worker using in-memory stores; submissions will not survive restarts")
		return adoptionsmemory.NewLedger(), petsmemory.NewRepository()
	}
	return adoptionspostgres.NewLedger(db), petspostgres.NewRepository(db)
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
