package worker

import (
	"context"
	"testing"
	"time"

	"github.com/beaconhq/beacon/internal/config"
	"github.com/beaconhq/beacon/internal/domain/alert"
	"github.com/beaconhq/beacon/internal/domain/routing"
	"github.com/beaconhq/beacon/internal/pkg/logger"
	"github.com/beaconhq/beacon/internal/testutil"
)

func TestMaintenance_AutoResolve(t *testing.T) {
	alerts := testutil.NewMockAlertRepository()
	rules := testutil.NewMockRoutingRepository()
	ctx := context.Background()

	stale := &alert.Alert{
		Title: "old", Severity: alert.SeverityLow, Status: alert.StatusFiring,
		LastSeenAt: time.Now().Add(-48 * time.Hour),
	}
	fresh := &alert.Alert{
		Title: "new", Severity: alert.SeverityLow, Status: alert.StatusFiring,
		LastSeenAt: time.Now(),
	}
	staleID, _ := alerts.Create(ctx, stale)
	freshID, _ := alerts.Create(ctx, fresh)

	m := NewMaintenance(alerts, rules, config.WorkerConfig{
		AutoResolveAfter: 24 * time.Hour,
	}, logger.NewNop())

	m.autoResolve(ctx)

	got, _ := alerts.GetByID(ctx, staleID)
	if got.Status != alert.StatusResolved {
		t.Errorf("stale alert status = %q, want %q", got.Status, alert.StatusResolved)
	}
	got, _ = alerts.GetByID(ctx, freshID)
	if got.Status != alert.StatusFiring {
		t.Errorf("fresh alert status = %q, want %q", got.Status, alert.StatusFiring)
	}
}

func TestMaintenance_Purge(t *testing.T) {
	alerts := testutil.NewMockAlertRepository()
	rules := testutil.NewMockRoutingRepository()
	ctx := context.Background()

	old := time.Now().Add(-100 * 24 * time.Hour)
	recent := time.Now()

	rules.CreateMatch(ctx, &routing.Match{AlertID: 1, RuleID: 1, MatchedAt: old})
	rules.CreateMatch(ctx, &routing.Match{AlertID: 2, RuleID: 1, MatchedAt: recent})

	resolvedOld := &alert.Alert{
		Title: "done", Severity: alert.SeverityLow, Status: alert.StatusResolved,
		LastSeenAt: old, ResolvedAt: &old,
	}
	resolvedRecent := &alert.Alert{
		Title: "done recently", Severity: alert.SeverityLow, Status: alert.StatusResolved,
		LastSeenAt: recent, ResolvedAt: &recent,
	}
	alerts.Create(ctx, resolvedOld)
	keepID, _ := alerts.Create(ctx, resolvedRecent)

	m := NewMaintenance(alerts, rules, config.WorkerConfig{
		MatchRetention: 90 * 24 * time.Hour,
	}, logger.NewNop())

	m.purge(ctx)

	if len(rules.Matches) != 1 {
		t.Errorf("expected 1 surviving match record, got %d", len(rules.Matches))
	}
	if _, err := alerts.GetByID(ctx, keepID); err != nil {
		t.Errorf("recent resolved alert should survive the purge: %v", err)
	}
	if len(alerts.Alerts) != 1 {
		t.Errorf("expected 1 surviving alert, got %d", len(alerts.Alerts))
	}
}
