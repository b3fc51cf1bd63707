package services

import (
	"context"
	"testing"
	"time"

	"github.com/beaconhq/beacon/internal/domain/alert"
	"github.com/beaconhq/beacon/internal/domain/incident"
	"github.com/beaconhq/beacon/internal/domain/integration"
	"github.com/beaconhq/beacon/internal/domain/routing"
	"github.com/beaconhq/beacon/internal/domain/service"
	"github.com/beaconhq/beacon/internal/engine"
	"github.com/beaconhq/beacon/internal/pkg/errors"
	"github.com/beaconhq/beacon/internal/pkg/logger"
	"github.com/beaconhq/beacon/internal/testutil"
)

type ingestFixture struct {
	alerts       *testutil.MockAlertRepository
	integrations *testutil.MockIntegrationRepository
	services     *testutil.MockServiceRepository
	incidents    *testutil.MockIncidentRepository
	rules        *testutil.MockRoutingRepository
	svc          alert.Service
}

// newIngestFixture wires an alert service over mocks with one team (1),
// one service (1) and one enabled integration keyed "key-1".
func newIngestFixture(t *testing.T) *ingestFixture {
	t.Helper()

	f := &ingestFixture{
		alerts:       testutil.NewMockAlertRepository(),
		integrations: testutil.NewMockIntegrationRepository(),
		services:     testutil.NewMockServiceRepository(),
		incidents:    testutil.NewMockIncidentRepository(),
		rules:        testutil.NewMockRoutingRepository(),
	}

	ctx := context.Background()
	if _, err := f.services.Create(ctx, &service.Service{TeamID: 1, Name: "checkout", Status: service.StatusOperational}); err != nil {
		t.Fatalf("seed service: %v", err)
	}
	if _, err := f.integrations.Create(ctx, &integration.Integration{
		ServiceID:  1,
		Name:       "prometheus",
		Type:       integration.TypePrometheus,
		RoutingKey: "key-1",
		Enabled:    true,
	}); err != nil {
		t.Fatalf("seed integration: %v", err)
	}

	eng := engine.New(f.rules, logger.NewNop(), engine.Config{FirstMatchOnly: true})
	f.svc = NewAlertService(f.alerts, f.integrations, f.services, f.incidents, eng, logger.NewNop())
	return f
}

func (f *ingestFixture) addRule(t *testing.T, priority int, conditions routing.Conditions, actions routing.Actions) {
	t.Helper()
	if _, err := f.rules.Create(context.Background(), &routing.Rule{
		TeamID:     1,
		Name:       "rule",
		Priority:   priority,
		Enabled:    true,
		Conditions: conditions,
		Actions:    actions,
	}); err != nil {
		t.Fatalf("seed rule: %v", err)
	}
}

func TestAlertService_Ingest_OpensIncident(t *testing.T) {
	f := newIngestFixture(t)

	res, err := f.svc.Ingest(context.Background(), "key-1", &alert.Event{
		Severity: "critical",
		Title:    "db connections exhausted",
		Source:   "prometheus",
	})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	if res.Deduplicated || res.Suppressed {
		t.Errorf("result = %+v, want fresh non-suppressed alert", res)
	}
	if res.Alert.Status != alert.StatusFiring {
		t.Errorf("Status = %q, want firing", res.Alert.Status)
	}
	if res.Alert.IncidentID == nil {
		t.Fatal("IncidentID not set, incident was not opened")
	}

	in, err := f.incidents.GetByID(context.Background(), *res.Alert.IncidentID)
	if err != nil {
		t.Fatalf("incident lookup: %v", err)
	}
	if in.Status != incident.StatusTriggered || in.Severity != "critical" {
		t.Errorf("incident = %+v, want triggered critical", in)
	}
}

func TestAlertService_Ingest_UnknownRoutingKey(t *testing.T) {
	f := newIngestFixture(t)

	_, err := f.svc.Ingest(context.Background(), "no-such-key", &alert.Event{
		Title:    "anything",
		Severity: "low",
	})
	if !errors.IsNotFound(err) {
		t.Errorf("Ingest() error = %v, want not found", err)
	}
}

func TestAlertService_Ingest_Deduplicates(t *testing.T) {
	f := newIngestFixture(t)
	ctx := context.Background()

	ev := &alert.Event{
		Severity: "high",
		Title:    "latency above slo",
		Source:   "prometheus",
		Labels:   map[string]string{"env": "production"},
	}

	first, err := f.svc.Ingest(ctx, "key-1", ev)
	if err != nil {
		t.Fatalf("first Ingest() error = %v", err)
	}

	second, err := f.svc.Ingest(ctx, "key-1", ev)
	if err != nil {
		t.Fatalf("second Ingest() error = %v", err)
	}

	if !second.Deduplicated {
		t.Error("second ingest not deduplicated")
	}
	if second.Alert.ID != first.Alert.ID {
		t.Errorf("dedup returned alert %d, want %d", second.Alert.ID, first.Alert.ID)
	}
	if second.Alert.Count != 2 {
		t.Errorf("Count = %d, want 2", second.Alert.Count)
	}
	if len(f.incidents.Incidents) != 1 {
		t.Errorf("incidents = %d, want 1 (dedup must not open another)", len(f.incidents.Incidents))
	}
}

func TestAlertService_Ingest_SuppressedByRule(t *testing.T) {
	f := newIngestFixture(t)
	f.addRule(t, 100,
		routing.Conditions{Severity: []string{"info"}},
		routing.Actions{Suppress: true},
	)

	res, err := f.svc.Ingest(context.Background(), "key-1", &alert.Event{
		Severity: "info",
		Title:    "disk usage at 60 percent",
	})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	if !res.Suppressed || !res.RuleMatched {
		t.Errorf("result = %+v, want suppressed via rule", res)
	}
	if res.Alert.Status != alert.StatusSuppressed {
		t.Errorf("Status = %q, want suppressed", res.Alert.Status)
	}
	if res.Alert.IncidentID != nil {
		t.Error("suppressed alert must not open an incident")
	}
	if len(f.incidents.Incidents) != 0 {
		t.Errorf("incidents = %d, want 0", len(f.incidents.Incidents))
	}
}

func TestAlertService_Ingest_AppliesActions(t *testing.T) {
	f := newIngestFixture(t)

	routeTo := int64(7)
	policy := int64(3)
	f.addRule(t, 100,
		routing.Conditions{Labels: map[string]string{"env": "production"}},
		routing.Actions{
			SetSeverity:        "critical",
			RouteToServiceID:   &routeTo,
			AddTags:            []string{"prod", "paging"},
			EscalationPolicyID: &policy,
		},
	)

	res, err := f.svc.Ingest(context.Background(), "key-1", &alert.Event{
		Severity: "medium",
		Title:    "api errors rising",
		Labels:   map[string]string{"env": "production"},
	})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	if res.Alert.Severity != "critical" {
		t.Errorf("Severity = %q, want critical (overridden)", res.Alert.Severity)
	}
	if res.Alert.ServiceID != routeTo {
		t.Errorf("ServiceID = %d, want %d", res.Alert.ServiceID, routeTo)
	}
	if len(res.Alert.Tags) != 2 {
		t.Errorf("Tags = %v, want two", res.Alert.Tags)
	}

	in, err := f.incidents.GetByID(context.Background(), *res.Alert.IncidentID)
	if err != nil {
		t.Fatalf("incident lookup: %v", err)
	}
	if in.EscalationPolicyID == nil || *in.EscalationPolicyID != policy {
		t.Errorf("EscalationPolicyID = %v, want %d", in.EscalationPolicyID, policy)
	}
	if in.ServiceID != routeTo {
		t.Errorf("incident ServiceID = %d, want %d", in.ServiceID, routeTo)
	}
}

func TestAlertService_Ingest_InvalidSeverityOverrideIgnored(t *testing.T) {
	f := newIngestFixture(t)
	f.addRule(t, 100,
		routing.Conditions{},
		routing.Actions{SetSeverity: "catastrophic"},
	)

	res, err := f.svc.Ingest(context.Background(), "key-1", &alert.Event{
		Severity: "medium",
		Title:    "something",
	})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if res.Alert.Severity != "medium" {
		t.Errorf("Severity = %q, want medium (invalid override ignored)", res.Alert.Severity)
	}
}

func TestAlertService_Ingest_EngineFailureFallsBack(t *testing.T) {
	f := newIngestFixture(t)
	f.rules.ListError = errors.DatabaseError("rule store down", nil)

	res, err := f.svc.Ingest(context.Background(), "key-1", &alert.Event{
		Severity: "high",
		Title:    "queue depth growing",
	})
	if err != nil {
		t.Fatalf("Ingest() error = %v, alert must not be lost", err)
	}

	if res.RuleMatched || res.Suppressed {
		t.Errorf("result = %+v, want default routing", res)
	}
	if res.Alert.IncidentID == nil {
		t.Error("default routing must still open an incident")
	}
}

func TestAlertService_Ingest_Validation(t *testing.T) {
	f := newIngestFixture(t)

	tests := []struct {
		name string
		ev   *alert.Event
	}{
		{name: "missing title", ev: &alert.Event{Severity: "high"}},
		{name: "unknown severity", ev: &alert.Event{Title: "x", Severity: "blocker"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.Ingest(context.Background(), "key-1", tt.ev); err == nil {
				t.Error("Ingest() expected error")
			}
		})
	}
}

func TestAlertService_Resolve(t *testing.T) {
	f := newIngestFixture(t)
	ctx := context.Background()

	res, err := f.svc.Ingest(ctx, "key-1", &alert.Event{Severity: "low", Title: "noise"})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	if err := f.svc.Resolve(ctx, res.Alert.ID); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	got, err := f.svc.GetByID(ctx, res.Alert.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != alert.StatusResolved || got.ResolvedAt == nil {
		t.Errorf("alert = %+v, want resolved with timestamp", got)
	}

	// Resolving twice is a no-op.
	if err := f.svc.Resolve(ctx, res.Alert.ID); err != nil {
		t.Errorf("second Resolve() error = %v", err)
	}
}

func TestFingerprint_Stable(t *testing.T) {
	a := &alert.Event{
		Title:  "db down",
		Source: "prometheus",
		Labels: map[string]string{"env": "prod", "zone": "eu-1"},
	}
	b := &alert.Event{
		Title:  "db down",
		Source: "prometheus",
		Labels: map[string]string{"zone": "eu-1", "env": "prod"},
	}

	if Fingerprint(a) != Fingerprint(b) {
		t.Error("fingerprint depends on label iteration order")
	}

	c := &alert.Event{Title: "db down", Source: "grafana"}
	if Fingerprint(a) == Fingerprint(c) {
		t.Error("different sources must not collide")
	}
}

func TestFingerprint_IgnoresTimestamps(t *testing.T) {
	ev := &alert.Event{Title: "flapping check", Source: "cron"}
	first := Fingerprint(ev)
	time.Sleep(2 * time.Millisecond)
	if Fingerprint(ev) != first {
		t.Error("fingerprint must be time-independent")
	}
}
