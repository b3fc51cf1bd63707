package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/beaconhq/beacon/internal/domain/routing"
	"github.com/beaconhq/beacon/internal/engine"
	"github.com/beaconhq/beacon/internal/pkg/logger"
	"github.com/beaconhq/beacon/internal/pkg/validator"
	"github.com/beaconhq/beacon/internal/services"
	"github.com/beaconhq/beacon/internal/testutil"
)

func newRoutingHandler(t *testing.T) (*RoutingHandler, *testutil.MockRoutingRepository) {
	t.Helper()

	repo := testutil.NewMockRoutingRepository()
	log := logger.NewNop()
	eng := engine.New(repo, log, engine.Config{FirstMatchOnly: true})
	svc := services.NewRoutingService(repo, eng, log)
	return NewRoutingHandler(svc, log, validator.New()), repo
}

func TestRoutingHandler_Create(t *testing.T) {
	handler, repo := newRoutingHandler(t)

	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{
			name:           "valid rule",
			body:           `{"teamId":1,"name":"db pages","priority":100,"conditions":{"severity":["critical"]},"actions":{"routeToServiceId":3}}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing team",
			body:           `{"name":"no team"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing name",
			body:           `{"teamId":1}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed body",
			body:           `{"teamId":`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/routing/rules", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()

			handler.Create(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
		})
	}

	rules, err := repo.ListByTeam(context.Background(), 1)
	if err != nil {
		t.Fatalf("list rules: %v", err)
	}
	if len(rules) != 1 {
		t.Errorf("expected 1 stored rule, got %d", len(rules))
	}
}

func TestRoutingHandler_Get_NotFound(t *testing.T) {
	handler, _ := newRoutingHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/routing/rules/42", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "42")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rr := httptest.NewRecorder()

	handler.Get(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusNotFound)
	}
}

func TestRoutingHandler_Test(t *testing.T) {
	handler, _ := newRoutingHandler(t)

	body := `{
		"conditions": {"severity": ["critical"], "titleContains": "db"},
		"sample": {"severity": "critical", "title": "db connection pool exhausted"}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/routing/rules/test", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()

	handler.Test(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}

	var response struct {
		Data routing.TestResult `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !response.Data.Matches {
		t.Errorf("expected sample to match, got %+v", response.Data)
	}
}

func TestRoutingHandler_Test_NoMatch(t *testing.T) {
	handler, _ := newRoutingHandler(t)

	body := `{
		"conditions": {"severity": ["critical"]},
		"sample": {"severity": "low", "title": "disk usage at 70%"}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/routing/rules/test", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()

	handler.Test(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}

	var response struct {
		Data routing.TestResult `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Data.Matches {
		t.Errorf("expected no match, got %+v", response.Data)
	}
	if response.Data.Reason == "" {
		t.Error("expected a reason for the failed match")
	}
}
