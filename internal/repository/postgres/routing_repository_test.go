package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/beaconhq/beacon/internal/domain/routing"
	"github.com/beaconhq/beacon/internal/pkg/errors"
	"github.com/beaconhq/beacon/internal/testutil"
)

func seedRule(t *testing.T, repo routing.Repository, teamID int64, name string, priority int, enabled bool) int64 {
	t.Helper()

	id, err := repo.Create(context.Background(), &routing.Rule{
		TeamID:   teamID,
		Name:     name,
		Priority: priority,
		Enabled:  enabled,
		Conditions: routing.Conditions{
			Severity: []string{"critical"},
		},
		Actions: routing.Actions{
			AddTags: []string{"seeded"},
		},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return id
}

func TestRoutingRepository_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRoutingRepository(db)
	ctx := context.Background()

	source := "datadog"
	id, err := repo.Create(ctx, &routing.Rule{
		TeamID:   1,
		Name:     "critical db alerts",
		Priority: 100,
		Enabled:  true,
		Conditions: routing.Conditions{
			Labels:   map[string]string{"env": "production"},
			Source:   &source,
			Severity: []string{"critical", "high"},
		},
		Actions: routing.Actions{
			Suppress: false,
			AddTags:  []string{"db"},
		},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if id == 0 {
		t.Fatal("Create() returned zero ID")
	}

	got, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "critical db alerts" {
		t.Errorf("Name = %q, want %q", got.Name, "critical db alerts")
	}
	if got.Priority != 100 {
		t.Errorf("Priority = %d, want 100", got.Priority)
	}
	if got.Conditions.Labels["env"] != "production" {
		t.Errorf("Labels = %v, want env:production", got.Conditions.Labels)
	}
	if got.Conditions.Source == nil || *got.Conditions.Source != "datadog" {
		t.Errorf("Source = %v, want datadog", got.Conditions.Source)
	}
	if len(got.Conditions.Severity) != 2 {
		t.Errorf("Severity = %v, want two values", got.Conditions.Severity)
	}
	if len(got.Actions.AddTags) != 1 || got.Actions.AddTags[0] != "db" {
		t.Errorf("AddTags = %v, want [db]", got.Actions.AddTags)
	}
}

func TestRoutingRepository_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRoutingRepository(db)

	_, err := repo.GetByID(context.Background(), 9999)
	if !errors.IsNotFound(err) {
		t.Errorf("GetByID() error = %v, want not found", err)
	}
}

func TestRoutingRepository_ListEnabledOrdering(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRoutingRepository(db)
	ctx := context.Background()

	seedRule(t, repo, 1, "low", 10, true)
	seedRule(t, repo, 1, "disabled", 500, false)
	seedRule(t, repo, 1, "high", 100, true)
	seedRule(t, repo, 2, "other team", 999, true)

	// Same priority, created later; newest must come first.
	time.Sleep(5 * time.Millisecond)
	seedRule(t, repo, 1, "high newer", 100, true)

	rules, err := repo.ListEnabled(ctx, 1)
	if err != nil {
		t.Fatalf("ListEnabled() error = %v", err)
	}

	want := []string{"high newer", "high", "low"}
	if len(rules) != len(want) {
		t.Fatalf("ListEnabled() returned %d rules, want %d", len(rules), len(want))
	}
	for i, name := range want {
		if rules[i].Name != name {
			t.Errorf("rules[%d].Name = %q, want %q", i, rules[i].Name, name)
		}
	}
}

func TestRoutingRepository_UpdateAndDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRoutingRepository(db)
	ctx := context.Background()

	id := seedRule(t, repo, 1, "before", 10, true)

	rule, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	rule.Name = "after"
	rule.Priority = 50
	rule.Enabled = false
	if err := repo.Update(ctx, rule); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "after" || got.Priority != 50 || got.Enabled {
		t.Errorf("Update() not persisted: %+v", got)
	}

	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := repo.Delete(ctx, id); !errors.IsNotFound(err) {
		t.Errorf("Delete() second call error = %v, want not found", err)
	}
}

func TestRoutingRepository_Update_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRoutingRepository(db)

	err := repo.Update(context.Background(), &routing.Rule{ID: 404, Name: "ghost"})
	if !errors.IsNotFound(err) {
		t.Errorf("Update() error = %v, want not found", err)
	}
}

func TestRoutingRepository_Matches(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRoutingRepository(db)
	ctx := context.Background()

	ruleID := seedRule(t, repo, 1, "matched rule", 10, true)

	for i := 0; i < 3; i++ {
		if _, err := repo.CreateMatch(ctx, &routing.Match{AlertID: int64(i + 1), RuleID: ruleID}); err != nil {
			t.Fatalf("CreateMatch() error = %v", err)
		}
	}

	matches, err := repo.ListMatchesByRule(ctx, ruleID, 2)
	if err != nil {
		t.Fatalf("ListMatchesByRule() error = %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("ListMatchesByRule() returned %d, want 2", len(matches))
	}
	// Most recent first.
	if matches[0].AlertID != 3 {
		t.Errorf("matches[0].AlertID = %d, want 3", matches[0].AlertID)
	}
}

func TestRoutingRepository_PurgeMatches(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRoutingRepository(db)
	ctx := context.Background()

	ruleID := seedRule(t, repo, 1, "rule", 10, true)

	old := time.Now().Add(-48 * time.Hour)
	if _, err := repo.CreateMatch(ctx, &routing.Match{AlertID: 1, RuleID: ruleID, MatchedAt: old}); err != nil {
		t.Fatalf("CreateMatch() error = %v", err)
	}
	if _, err := repo.CreateMatch(ctx, &routing.Match{AlertID: 2, RuleID: ruleID}); err != nil {
		t.Fatalf("CreateMatch() error = %v", err)
	}

	purged, err := repo.PurgeMatches(ctx, time.Now().Add(-24*time.Hour).Unix())
	if err != nil {
		t.Fatalf("PurgeMatches() error = %v", err)
	}
	if purged != 1 {
		t.Errorf("PurgeMatches() = %d, want 1", purged)
	}

	matches, err := repo.ListMatchesByRule(ctx, ruleID, 10)
	if err != nil {
		t.Fatalf("ListMatchesByRule() error = %v", err)
	}
	if len(matches) != 1 || matches[0].AlertID != 2 {
		t.Errorf("remaining matches = %+v, want the recent one only", matches)
	}
}
