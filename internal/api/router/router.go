package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/beaconhq/beacon/internal/api/handlers"
	"github.com/beaconhq/beacon/internal/api/middleware"
	"github.com/beaconhq/beacon/internal/config"
	"github.com/beaconhq/beacon/internal/pkg/logger"
	"github.com/beaconhq/beacon/internal/pkg/metrics"
)

type Handlers struct {
	Health      *handlers.HealthHandler
	Auth        *handlers.AuthHandler
	Team        *handlers.TeamHandler
	Service     *handlers.ServiceHandler
	Integration *handlers.IntegrationHandler
	Ingest      *handlers.IngestHandler
	Alert       *handlers.AlertHandler
	Incident    *handlers.IncidentHandler
	Routing     *handlers.RoutingHandler
	Escalation  *handlers.EscalationHandler
	Schedule    *handlers.ScheduleHandler
	StatusPage  *handlers.StatusPageHandler
}

func New(cfg *config.Config, log *logger.Logger, h *Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.DefaultCORS(cfg.Server.FrontendURL))
	r.Use(metrics.Middleware)
	r.Use(middleware.RateLimit(100, 200)) // 100 req/sec, burst of 200

	// Public routes
	r.Group(func(r chi.Router) {
		// Swagger documentation
		r.Get("/swagger/*", httpSwagger.WrapHandler)

		// Health checks
		r.Get("/health", h.Health.Healthz)
		r.Get("/healthz", h.Health.Healthz)
		r.Get("/readyz", h.Health.Readyz)

		// Prometheus metrics
		r.Handle("/metrics", metrics.Handler())

		// Auth endpoints
		r.Post("/api/v1/auth/register", h.Auth.Register)
		r.Post("/api/v1/auth/login", h.Auth.Login)
		r.Post("/api/v1/auth/refresh", h.Auth.RefreshToken)

		// Event ingestion. The routing key in the URL is the credential,
		// and the rate limit is keyed per routing key.
		r.Group(func(r chi.Router) {
			r.Use(middleware.IngestRateLimit(50, 100, func(req *http.Request) string {
				return chi.URLParam(req, "routingKey")
			}))
			r.Post("/api/v1/ingest/{routingKey}", h.Ingest.Ingest)
		})
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Auth.JWTSecret))

		// Auth
		r.Get("/api/v1/auth/me", h.Auth.Me)

		// Teams
		r.Route("/api/v1/teams", func(r chi.Router) {
			r.Get("/", h.Team.List)
			r.Post("/", h.Team.Create)
			r.Get("/{id}", h.Team.Get)
			r.Put("/{id}", h.Team.Update)
			r.Delete("/{id}", h.Team.Delete)
		})

		// Services
		r.Route("/api/v1/services", func(r chi.Router) {
			r.Get("/", h.Service.List)
			r.Post("/", h.Service.Create)
			r.Get("/{id}", h.Service.Get)
			r.Put("/{id}", h.Service.Update)
			r.Delete("/{id}", h.Service.Delete)
		})

		// Integrations
		r.Route("/api/v1/integrations", func(r chi.Router) {
			r.Get("/", h.Integration.List)
			r.Post("/", h.Integration.Create)
			r.Get("/{id}", h.Integration.Get)
			r.Put("/{id}", h.Integration.Update)
			r.Post("/{id}/rotate-key", h.Integration.RotateKey)
			r.Delete("/{id}", h.Integration.Delete)
		})

		// Alerts
		r.Route("/api/v1/alerts", func(r chi.Router) {
			r.Get("/", h.Alert.List)
			r.Get("/{id}", h.Alert.Get)
			r.Post("/{id}/resolve", h.Alert.Resolve)
			r.Delete("/{id}", h.Alert.Delete)
		})

		// Incidents
		r.Route("/api/v1/incidents", func(r chi.Router) {
			r.Get("/", h.Incident.List)
			r.Get("/summary", h.Incident.GetSummary)
			r.Get("/{id}", h.Incident.Get)
			r.Post("/{id}/acknowledge", h.Incident.Acknowledge)
			r.Post("/{id}/resolve", h.Incident.Resolve)
			r.Post("/{id}/summary", h.Incident.GenerateSummary)
			r.Delete("/{id}", h.Incident.Delete)
		})

		// Routing rules
		r.Route("/api/v1/routing/rules", func(r chi.Router) {
			r.Get("/", h.Routing.List)
			r.Post("/", h.Routing.Create)
			r.Post("/test", h.Routing.Test)
			r.Get("/{id}", h.Routing.Get)
			r.Put("/{id}", h.Routing.Update)
			r.Put("/{id}/priority", h.Routing.UpdatePriority)
			r.Get("/{id}/matches", h.Routing.GetMatches)
			r.Delete("/{id}", h.Routing.Delete)
		})

		// Escalation policies
		r.Route("/api/v1/escalation-policies", func(r chi.Router) {
			r.Get("/", h.Escalation.List)
			r.Post("/", h.Escalation.Create)
			r.Get("/{id}", h.Escalation.Get)
			r.Delete("/{id}", h.Escalation.Delete)
		})

		// Schedules
		r.Route("/api/v1/schedules", func(r chi.Router) {
			r.Get("/", h.Schedule.List)
			r.Post("/", h.Schedule.Create)
			r.Get("/{id}", h.Schedule.Get)
			r.Delete("/{id}", h.Schedule.Delete)
		})

		// Status pages
		r.Route("/api/v1/status-pages", func(r chi.Router) {
			r.Get("/", h.StatusPage.List)
			r.Post("/", h.StatusPage.Create)
			r.Get("/{id}", h.StatusPage.Get)
			r.Post("/{id}/publish", h.StatusPage.Publish)
			r.Delete("/{id}", h.StatusPage.Delete)
		})
	})

	return r
}
