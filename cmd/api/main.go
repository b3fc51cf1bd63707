package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sashabaranov/go-openai"

	"github.com/beaconhq/beacon/internal/api/handlers"
	"github.com/beaconhq/beacon/internal/api/router"
	"github.com/beaconhq/beacon/internal/config"
	"github.com/beaconhq/beacon/internal/engine"
	"github.com/beaconhq/beacon/internal/pkg/logger"
	"github.com/beaconhq/beacon/internal/pkg/validator"
	"github.com/beaconhq/beacon/internal/repository/postgres"
	"github.com/beaconhq/beacon/internal/services"
	"github.com/beaconhq/beacon/internal/worker"
	"github.com/beaconhq/beacon/migrations"
)

// @title Beacon API
// @version 1.0
// @description Incident alerting platform: alert ingestion, rule-based routing and incident management.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	db, err := postgres.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db, migrations.GetFS()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	teamRepo := postgres.NewTeamRepository(db)
	serviceRepo := postgres.NewServiceRepository(db)
	integrationRepo := postgres.NewIntegrationRepository(db)
	alertRepo := postgres.NewAlertRepository(db)
	incidentRepo := postgres.NewIncidentRepository(db)
	routingRepo := postgres.NewRoutingRepository(db)
	escalationRepo := postgres.NewEscalationRepository(db)
	scheduleRepo := postgres.NewScheduleRepository(db)
	statusPageRepo := postgres.NewStatusPageRepository(db)

	// Routing engine
	eng := engine.New(routingRepo, log, engine.Config{FirstMatchOnly: cfg.Routing.FirstMatchOnly})

	// Optional AI client for incident summaries
	var aiClient *openai.Client
	if cfg.OpenAI.APIKey != "" {
		aiClient = openai.NewClient(cfg.OpenAI.APIKey)
	}

	// Services
	userService := services.NewUserService(userRepo, log)
	teamService := services.NewTeamService(teamRepo, log)
	serviceManager := services.NewServiceManager(serviceRepo, log)
	integrationService := services.NewIntegrationService(integrationRepo, log)
	alertService := services.NewAlertService(alertRepo, integrationRepo, serviceRepo, incidentRepo, eng, log)
	incidentService := services.NewIncidentService(incidentRepo, aiClient, cfg.OpenAI.Model, log)
	routingService := services.NewRoutingService(routingRepo, eng, log)
	escalationService := services.NewEscalationService(escalationRepo, log)
	scheduleService := services.NewScheduleService(scheduleRepo, log)
	statusPageService := services.NewStatusPageService(statusPageRepo, log)

	val := validator.New()

	h := &router.Handlers{
		Health:      handlers.NewHealthHandler(db, "1.0.0"),
		Auth:        handlers.NewAuthHandler(userService, cfg, log, val),
		Team:        handlers.NewTeamHandler(teamService, log, val),
		Service:     handlers.NewServiceHandler(serviceManager, log, val),
		Integration: handlers.NewIntegrationHandler(integrationService, log, val),
		Ingest:      handlers.NewIngestHandler(alertService, log, val),
		Alert:       handlers.NewAlertHandler(alertService, log),
		Incident:    handlers.NewIncidentHandler(incidentService, log),
		Routing:     handlers.NewRoutingHandler(routingService, log, val),
		Escalation:  handlers.NewEscalationHandler(escalationService, log, val),
		Schedule:    handlers.NewScheduleHandler(scheduleService, log, val),
		StatusPage:  handlers.NewStatusPageHandler(statusPageService, log, val),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Background maintenance
	var maintenance *worker.Maintenance
	if cfg.Worker.Enabled {
		maintenance = worker.NewMaintenance(alertRepo, routingRepo, cfg.Worker, log)
		if err := maintenance.Start(ctx); err != nil {
			log.Fatalf("Failed to start maintenance worker: %v", err)
		}
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.New(cfg, log, h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Infof("Starting API server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	cancel()
	if maintenance != nil {
		maintenance.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.ErrorWithErr(err, "Graceful shutdown failed")
	}
	log.Info("Server stopped")
}
