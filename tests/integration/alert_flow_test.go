package integration

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/beaconhq/beacon/internal/api/dto"
	"github.com/beaconhq/beacon/internal/api/handlers"
	"github.com/beaconhq/beacon/internal/api/router"
	"github.com/beaconhq/beacon/internal/config"
	"github.com/beaconhq/beacon/internal/engine"
	"github.com/beaconhq/beacon/internal/pkg/logger"
	"github.com/beaconhq/beacon/internal/pkg/validator"
	"github.com/beaconhq/beacon/internal/repository/postgres"
	"github.com/beaconhq/beacon/internal/services"
	"github.com/beaconhq/beacon/migrations"
)

// newTestServer wires the full stack against an in-memory database, the
// same way cmd/api does it.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	// A pooled second connection would see a fresh empty :memory: database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := postgres.RunMigrations(db, migrations.GetFS()); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:          "test-secret-key-for-testing-only",
			AccessTokenExpiry:  15 * time.Minute,
			RefreshTokenExpiry: 24 * time.Hour,
		},
		Routing: config.RoutingConfig{FirstMatchOnly: true},
	}
	log := logger.NewNop()
	val := validator.New()

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

	eng := engine.New(routingRepo, log, engine.Config{FirstMatchOnly: cfg.Routing.FirstMatchOnly})

	userService := services.NewUserService(userRepo, log)
	teamService := services.NewTeamService(teamRepo, log)
	serviceManager := services.NewServiceManager(serviceRepo, log)
	integrationService := services.NewIntegrationService(integrationRepo, log)
	incidentService := services.NewIncidentService(incidentRepo, nil, "", log)
	alertService := services.NewAlertService(alertRepo, integrationRepo, serviceRepo, incidentRepo, eng, log)
	routingService := services.NewRoutingService(routingRepo, eng, log)
	escalationService := services.NewEscalationService(escalationRepo, log)
	scheduleService := services.NewScheduleService(scheduleRepo, log)
	statusPageService := services.NewStatusPageService(statusPageRepo, log)

	h := &router.Handlers{
		Health:      handlers.NewHealthHandler(db, "test"),
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

	ts := httptest.NewServer(router.New(cfg, log, h))
	t.Cleanup(ts.Close)
	return ts
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// do performs a request against the test server and decodes the response
// envelope. A non-nil token is sent as a bearer credential.
func do(t *testing.T, ts *httptest.Server, method, path, token string, body interface{}) (int, json.RawMessage) {
	t.Helper()

	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, ts.URL+path, buf)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response: %v", err)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("Failed to decode envelope %s: %v", raw, err)
		}
	}
	return resp.StatusCode, env.Data
}

func decodeInto(t *testing.T, data json.RawMessage, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("Failed to decode %s: %v", data, err)
	}
}

// register creates an account and returns an access token.
func register(t *testing.T, ts *httptest.Server, email string) string {
	t.Helper()

	status, data := do(t, ts, http.MethodPost, "/api/v1/auth/register", "", dto.RegisterRequest{
		Email:    email,
		Password: "integration-pass-1",
	})
	if status != http.StatusCreated {
		t.Fatalf("Register returned status %d", status)
	}

	var auth dto.AuthResponse
	decodeInto(t, data, &auth)
	if auth.AccessToken == "" {
		t.Fatal("Register returned empty access token")
	}
	return auth.AccessToken
}

// setupPipeline creates team, service and integration and returns the
// team ID, service ID and routing key.
func setupPipeline(t *testing.T, ts *httptest.Server, token string) (int64, int64, string) {
	t.Helper()

	status, data := do(t, ts, http.MethodPost, "/api/v1/teams", token, dto.CreateTeamRequest{Name: "Platform"})
	if status != http.StatusCreated {
		t.Fatalf("Create team returned status %d", status)
	}
	var created struct {
		ID int64 `json:"id"`
	}
	decodeInto(t, data, &created)
	teamID := created.ID

	status, data = do(t, ts, http.MethodPost, "/api/v1/services", token, dto.CreateServiceRequest{
		TeamID: teamID,
		Name:   "checkout",
	})
	if status != http.StatusCreated {
		t.Fatalf("Create service returned status %d", status)
	}
	decodeInto(t, data, &created)
	serviceID := created.ID

	status, data = do(t, ts, http.MethodPost, "/api/v1/integrations", token, dto.CreateIntegrationRequest{
		ServiceID: serviceID,
		Name:      "prometheus-prod",
		Type:      "prometheus",
	})
	if status != http.StatusCreated {
		t.Fatalf("Create integration returned status %d", status)
	}
	var in dto.IntegrationDTO
	decodeInto(t, data, &in)
	if in.RoutingKey == "" {
		t.Fatal("Integration created without a routing key")
	}

	return teamID, serviceID, in.RoutingKey
}

func TestAlertPipeline(t *testing.T) {
	ts := newTestServer(t)
	token := register(t, ts, "pipeline@example.com")
	teamID, _, routingKey := setupPipeline(t, ts, token)

	// A rule that tags critical database alerts.
	status, data := do(t, ts, http.MethodPost, "/api/v1/routing/rules", token, map[string]interface{}{
		"teamId":   teamID,
		"name":     "critical db alerts",
		"priority": 10,
		"conditions": map[string]interface{}{
			"severity":      []string{"critical"},
			"titleContains": "database",
		},
		"actions": map[string]interface{}{
			"addTags": []string{"urgent"},
		},
	})
	if status != http.StatusCreated {
		t.Fatalf("Create rule returned status %d", status)
	}
	var created struct {
		ID int64 `json:"id"`
	}
	decodeInto(t, data, &created)
	ruleID := created.ID

	// First event: routed, tagged, incident opened.
	event := dto.IngestEventRequest{
		Severity: "critical",
		Title:    "database connection pool exhausted",
		Source:   "prometheus",
		Labels:   map[string]string{"env": "prod"},
	}
	status, data = do(t, ts, http.MethodPost, "/api/v1/ingest/"+routingKey, "", event)
	if status != http.StatusAccepted {
		t.Fatalf("Ingest returned status %d", status)
	}
	var result dto.IngestResultDTO
	decodeInto(t, data, &result)
	if !result.RuleMatched {
		t.Error("Expected the rule to match")
	}
	if result.Deduplicated {
		t.Error("First event should not be deduplicated")
	}
	if len(result.Alert.Tags) != 1 || result.Alert.Tags[0] != "urgent" {
		t.Errorf("Expected tags [urgent], got %v", result.Alert.Tags)
	}
	if result.Alert.IncidentID == nil {
		t.Fatal("Expected an incident to be opened")
	}
	alertID := result.Alert.ID
	incidentID := *result.Alert.IncidentID

	// Same event again: deduplicated, no second incident.
	status, data = do(t, ts, http.MethodPost, "/api/v1/ingest/"+routingKey, "", event)
	if status != http.StatusAccepted {
		t.Fatalf("Second ingest returned status %d", status)
	}
	decodeInto(t, data, &result)
	if !result.Deduplicated {
		t.Error("Identical open event should be deduplicated")
	}
	if result.Alert.Count != 2 {
		t.Errorf("Expected count 2, got %d", result.Alert.Count)
	}

	// The match audit trail holds exactly one record for the rule.
	status, data = do(t, ts, http.MethodGet, fmt.Sprintf("/api/v1/routing/rules/%d/matches", ruleID), token, nil)
	if status != http.StatusOK {
		t.Fatalf("Get matches returned status %d", status)
	}
	var matches []dto.MatchDTO
	decodeInto(t, data, &matches)
	if len(matches) != 1 {
		t.Fatalf("Expected 1 match record, got %d", len(matches))
	}
	if matches[0].AlertID != alertID {
		t.Errorf("Match references alert %d, want %d", matches[0].AlertID, alertID)
	}

	// Acknowledge and resolve the incident, then resolve the alert.
	status, _ = do(t, ts, http.MethodPost, fmt.Sprintf("/api/v1/incidents/%d/acknowledge", incidentID), token, nil)
	if status != http.StatusOK {
		t.Fatalf("Acknowledge returned status %d", status)
	}
	status, _ = do(t, ts, http.MethodPost, fmt.Sprintf("/api/v1/alerts/%d/resolve", alertID), token, nil)
	if status != http.StatusOK {
		t.Fatalf("Resolve alert returned status %d", status)
	}

	// A resolved alert no longer deduplicates the next occurrence.
	status, data = do(t, ts, http.MethodPost, "/api/v1/ingest/"+routingKey, "", event)
	if status != http.StatusAccepted {
		t.Fatalf("Third ingest returned status %d", status)
	}
	decodeInto(t, data, &result)
	if result.Deduplicated {
		t.Error("Event after resolution should open a fresh alert")
	}
	if result.Alert.ID == alertID {
		t.Error("Expected a new alert after resolution")
	}
}

func TestAlertPipeline_Suppression(t *testing.T) {
	ts := newTestServer(t)
	token := register(t, ts, "suppress@example.com")
	teamID, _, routingKey := setupPipeline(t, ts, token)

	status, _ := do(t, ts, http.MethodPost, "/api/v1/routing/rules", token, map[string]interface{}{
		"teamId": teamID,
		"name":   "mute noisy source",
		"conditions": map[string]interface{}{
			"source": "chatty-cron",
		},
		"actions": map[string]interface{}{
			"suppress": true,
		},
	})
	if status != http.StatusCreated {
		t.Fatalf("Create rule returned status %d", status)
	}

	status, data := do(t, ts, http.MethodPost, "/api/v1/ingest/"+routingKey, "", dto.IngestEventRequest{
		Title:  "cron chatter",
		Source: "chatty-cron",
	})
	if status != http.StatusAccepted {
		t.Fatalf("Ingest returned status %d", status)
	}
	var result dto.IngestResultDTO
	decodeInto(t, data, &result)
	if !result.Suppressed {
		t.Error("Expected the alert to be suppressed")
	}
	if result.Alert.IncidentID != nil {
		t.Error("Suppressed alert must not open an incident")
	}

	// Suppressed alerts stay out of the incident list entirely.
	status, data = do(t, ts, http.MethodGet, fmt.Sprintf("/api/v1/incidents?team_id=%d", teamID), token, nil)
	if status != http.StatusOK {
		t.Fatalf("List incidents returned status %d", status)
	}
	var page struct {
		Data []json.RawMessage `json:"data"`
	}
	decodeInto(t, data, &page)
	if len(page.Data) != 0 {
		t.Errorf("Expected no incidents, got %d", len(page.Data))
	}
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t)

	token := register(t, ts, "auth-flow@example.com")

	// Login with the same credentials.
	status, data := do(t, ts, http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{
		Email:    "auth-flow@example.com",
		Password: "integration-pass-1",
	})
	if status != http.StatusOK {
		t.Fatalf("Login returned status %d", status)
	}
	var auth dto.AuthResponse
	decodeInto(t, data, &auth)
	if auth.AccessToken == "" {
		t.Fatal("Login returned empty access token")
	}

	// Wrong password is rejected.
	status, _ = do(t, ts, http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{
		Email:    "auth-flow@example.com",
		Password: "wrong-password-1",
	})
	if status != http.StatusUnauthorized {
		t.Errorf("Expected status 401 for bad password, got %d", status)
	}

	// The token authenticates protected endpoints.
	status, data = do(t, ts, http.MethodGet, "/api/v1/auth/me", token, nil)
	if status != http.StatusOK {
		t.Fatalf("Me returned status %d", status)
	}
	var me dto.UserDTO
	decodeInto(t, data, &me)
	if me.Email != "auth-flow@example.com" {
		t.Errorf("Expected email auth-flow@example.com, got %s", me.Email)
	}

	// No token, no access.
	status, _ = do(t, ts, http.MethodGet, "/api/v1/auth/me", "", nil)
	if status != http.StatusUnauthorized {
		t.Errorf("Expected status 401 without token, got %d", status)
	}
}
