package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/beaconhq/beacon/internal/api/dto"
	"github.com/beaconhq/beacon/internal/domain/integration"
	"github.com/beaconhq/beacon/internal/domain/service"
	"github.com/beaconhq/beacon/internal/engine"
	"github.com/beaconhq/beacon/internal/pkg/logger"
	"github.com/beaconhq/beacon/internal/pkg/validator"
	"github.com/beaconhq/beacon/internal/services"
	"github.com/beaconhq/beacon/internal/testutil"
)

// newIngestServer mounts the ingest handler behind a chi router so the
// routing key URL parameter resolves the same way it does in production.
func newIngestServer(t *testing.T) http.Handler {
	t.Helper()

	alerts := testutil.NewMockAlertRepository()
	integrations := testutil.NewMockIntegrationRepository()
	serviceRepo := testutil.NewMockServiceRepository()
	incidents := testutil.NewMockIncidentRepository()
	rules := testutil.NewMockRoutingRepository()

	ctx := context.Background()
	if _, err := serviceRepo.Create(ctx, &service.Service{TeamID: 1, Name: "checkout", Status: service.StatusOperational}); err != nil {
		t.Fatalf("seed service: %v", err)
	}
	if _, err := integrations.Create(ctx, &integration.Integration{
		ServiceID:  1,
		Name:       "prometheus",
		Type:       integration.TypePrometheus,
		RoutingKey: "key-1",
		Enabled:    true,
	}); err != nil {
		t.Fatalf("seed integration: %v", err)
	}

	log := logger.NewNop()
	eng := engine.New(rules, log, engine.Config{FirstMatchOnly: true})
	svc := services.NewAlertService(alerts, integrations, serviceRepo, incidents, eng, log)
	handler := NewIngestHandler(svc, log, validator.New())

	r := chi.NewRouter()
	r.Post("/api/v1/ingest/{routingKey}", handler.Ingest)
	return r
}

func TestIngestHandler_Ingest(t *testing.T) {
	srv := newIngestServer(t)

	tests := []struct {
		name           string
		routingKey     string
		body           string
		expectedStatus int
	}{
		{
			name:           "accepted",
			routingKey:     "key-1",
			body:           `{"title":"cpu saturated","severity":"high","source":"prometheus"}`,
			expectedStatus: http.StatusAccepted,
		},
		{
			name:           "severity defaults",
			routingKey:     "key-1",
			body:           `{"title":"no severity given"}`,
			expectedStatus: http.StatusAccepted,
		},
		{
			name:           "unknown routing key",
			routingKey:     "bogus",
			body:           `{"title":"cpu saturated"}`,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "missing title",
			routingKey:     "key-1",
			body:           `{"severity":"high"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown severity",
			routingKey:     "key-1",
			body:           `{"title":"x","severity":"catastrophic"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed body",
			routingKey:     "key-1",
			body:           `{"title":`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest/"+tt.routingKey, bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()

			srv.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v (body %s)", rr.Code, tt.expectedStatus, rr.Body.String())
			}
		})
	}
}

func TestIngestHandler_Deduplicates(t *testing.T) {
	srv := newIngestServer(t)

	body := `{"title":"cpu saturated","severity":"high","source":"prometheus"}`
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest/key-1", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()
		srv.ServeHTTP(rr, req)

		if rr.Code != http.StatusAccepted {
			t.Fatalf("ingest %d returned status %v", i, rr.Code)
		}

		var response struct {
			Data dto.IngestResultDTO `json:"data"`
		}
		if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if want := i == 1; response.Data.Deduplicated != want {
			t.Errorf("ingest %d: deduplicated = %v, want %v", i, response.Data.Deduplicated, want)
		}
	}
}
