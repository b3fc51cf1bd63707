package services

import (
	"context"
	"testing"

	"github.com/beaconhq/beacon/internal/domain/incident"
	"github.com/beaconhq/beacon/internal/pkg/logger"
	"github.com/beaconhq/beacon/internal/testutil"
)

func newIncidentFixture(t *testing.T) (incident.Service, *testutil.MockIncidentRepository) {
	t.Helper()
	repo := testutil.NewMockIncidentRepository()
	return NewIncidentService(repo, nil, "", logger.NewNop()), repo
}

func TestIncidentService_Lifecycle(t *testing.T) {
	svc, _ := newIncidentFixture(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, &incident.Incident{
		TeamID:    1,
		ServiceID: 2,
		Title:     "checkout is down",
		Severity:  "critical",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	in, err := svc.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if in.Status != incident.StatusTriggered {
		t.Fatalf("Status = %q, want triggered", in.Status)
	}

	if err := svc.Acknowledge(ctx, id); err != nil {
		t.Fatalf("Acknowledge() error = %v", err)
	}
	in, _ = svc.GetByID(ctx, id)
	if in.Status != incident.StatusAcknowledged || in.AcknowledgedAt == nil {
		t.Errorf("after ack: %+v", in)
	}

	// Acknowledging twice is a no-op.
	if err := svc.Acknowledge(ctx, id); err != nil {
		t.Errorf("second Acknowledge() error = %v", err)
	}

	if err := svc.Resolve(ctx, id); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	in, _ = svc.GetByID(ctx, id)
	if in.Status != incident.StatusResolved || in.ResolvedAt == nil {
		t.Errorf("after resolve: %+v", in)
	}

	// A resolved incident cannot go back to acknowledged.
	if err := svc.Acknowledge(ctx, id); err == nil {
		t.Error("Acknowledge() on resolved incident expected error")
	}
}

func TestIncidentService_Create_RequiresTitle(t *testing.T) {
	svc, _ := newIncidentFixture(t)

	if _, err := svc.Create(context.Background(), &incident.Incident{TeamID: 1}); err == nil {
		t.Error("Create() without title expected error")
	}
}

func TestIncidentService_GenerateSummary_Unconfigured(t *testing.T) {
	svc, repo := newIncidentFixture(t)
	ctx := context.Background()

	id, _ := repo.Create(ctx, &incident.Incident{TeamID: 1, Title: "x", Status: incident.StatusTriggered})

	if _, err := svc.GenerateSummary(ctx, id); err == nil {
		t.Error("GenerateSummary() without client expected error")
	}
}

func TestIncidentService_GetSummary(t *testing.T) {
	svc, repo := newIncidentFixture(t)
	ctx := context.Background()

	repo.Create(ctx, &incident.Incident{TeamID: 1, Title: "a", Status: incident.StatusTriggered})
	repo.Create(ctx, &incident.Incident{TeamID: 1, Title: "b", Status: incident.StatusTriggered})
	repo.Create(ctx, &incident.Incident{TeamID: 1, Title: "c", Status: incident.StatusResolved})
	repo.Create(ctx, &incident.Incident{TeamID: 2, Title: "d", Status: incident.StatusTriggered})

	counts, err := svc.GetSummary(ctx, 1)
	if err != nil {
		t.Fatalf("GetSummary() error = %v", err)
	}
	if counts[incident.StatusTriggered] != 2 || counts[incident.StatusResolved] != 1 {
		t.Errorf("counts = %v", counts)
	}
}
