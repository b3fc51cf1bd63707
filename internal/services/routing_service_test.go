package services

import (
	"context"
	"testing"

	"github.com/beaconhq/beacon/internal/domain/alert"
	"github.com/beaconhq/beacon/internal/domain/routing"
	"github.com/beaconhq/beacon/internal/engine"
	"github.com/beaconhq/beacon/internal/pkg/errors"
	"github.com/beaconhq/beacon/internal/pkg/logger"
	"github.com/beaconhq/beacon/internal/testutil"
)

func newRoutingService(repo routing.Repository) routing.Service {
	eng := engine.New(repo, logger.NewNop(), engine.Config{FirstMatchOnly: true})
	return NewRoutingService(repo, eng, logger.NewNop())
}

func TestRoutingService_Create(t *testing.T) {
	repo := testutil.NewMockRoutingRepository()
	svc := newRoutingService(repo)

	tests := []struct {
		name    string
		rule    *routing.Rule
		wantErr bool
	}{
		{
			name: "valid rule",
			rule: &routing.Rule{
				TeamID:   1,
				Name:     "page on critical",
				Priority: 50,
				Enabled:  true,
				Conditions: routing.Conditions{
					Severity: []string{"critical"},
				},
			},
			wantErr: false,
		},
		{
			name:    "missing name",
			rule:    &routing.Rule{TeamID: 1},
			wantErr: true,
		},
		{
			name:    "missing team",
			rule:    &routing.Rule{Name: "orphan"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := svc.Create(context.Background(), tt.rule)
			if (err != nil) != tt.wantErr {
				t.Errorf("Create() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && id == 0 {
				t.Error("Create() returned zero ID")
			}
		})
	}
}

func TestRoutingService_Update_PartialPatch(t *testing.T) {
	repo := testutil.NewMockRoutingRepository()
	svc := newRoutingService(repo)
	ctx := context.Background()

	id, err := svc.Create(ctx, &routing.Rule{
		TeamID:      1,
		Name:        "original",
		Description: "keep me",
		Priority:    10,
		Enabled:     true,
		Conditions:  routing.Conditions{Severity: []string{"high"}},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	newName := "renamed"
	enabled := false
	if err := svc.Update(ctx, id, &routing.RulePatch{Name: &newName, Enabled: &enabled}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := svc.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "renamed" {
		t.Errorf("Name = %q, want renamed", got.Name)
	}
	if got.Enabled {
		t.Error("Enabled = true, want false")
	}
	// Untouched fields survive the patch.
	if got.Description != "keep me" || got.Priority != 10 {
		t.Errorf("untouched fields changed: %+v", got)
	}
	if len(got.Conditions.Severity) != 1 {
		t.Errorf("Conditions changed: %+v", got.Conditions)
	}
}

func TestRoutingService_Update_NotFound(t *testing.T) {
	repo := testutil.NewMockRoutingRepository()
	svc := newRoutingService(repo)

	name := "ghost"
	err := svc.Update(context.Background(), 404, &routing.RulePatch{Name: &name})
	if !errors.IsNotFound(err) {
		t.Errorf("Update() error = %v, want not found", err)
	}
}

func TestRoutingService_UpdatePriority(t *testing.T) {
	repo := testutil.NewMockRoutingRepository()
	svc := newRoutingService(repo)
	ctx := context.Background()

	id, err := svc.Create(ctx, &routing.Rule{TeamID: 1, Name: "rule", Priority: 5})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.UpdatePriority(ctx, id, 99); err != nil {
		t.Fatalf("UpdatePriority() error = %v", err)
	}

	got, _ := svc.GetByID(ctx, id)
	if got.Priority != 99 {
		t.Errorf("Priority = %d, want 99", got.Priority)
	}

	if err := svc.UpdatePriority(ctx, 404, 1); !errors.IsNotFound(err) {
		t.Errorf("UpdatePriority() on missing rule error = %v, want not found", err)
	}
}

func TestRoutingService_GetMatchesByRule(t *testing.T) {
	repo := testutil.NewMockRoutingRepository()
	svc := newRoutingService(repo)
	ctx := context.Background()

	id, err := svc.Create(ctx, &routing.Rule{TeamID: 1, Name: "rule", Enabled: true})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := repo.CreateMatch(ctx, &routing.Match{AlertID: 11, RuleID: id}); err != nil {
		t.Fatalf("CreateMatch() error = %v", err)
	}

	matches, err := svc.GetMatchesByRule(ctx, id, 10)
	if err != nil {
		t.Fatalf("GetMatchesByRule() error = %v", err)
	}
	if len(matches) != 1 || matches[0].AlertID != 11 {
		t.Errorf("matches = %+v, want one for alert 11", matches)
	}

	if _, err := svc.GetMatchesByRule(ctx, 404, 10); !errors.IsNotFound(err) {
		t.Errorf("GetMatchesByRule() on missing rule error = %v, want not found", err)
	}
}

func TestRoutingService_TestRule(t *testing.T) {
	repo := testutil.NewMockRoutingRepository()
	svc := newRoutingService(repo)

	sample := &alert.Alert{
		Severity: "critical",
		Title:    "API timeout spike",
		Labels:   map[string]string{"env": "production"},
	}

	res := svc.TestRule(routing.Conditions{
		Severity: []string{"critical"},
		Labels:   map[string]string{"env": "production"},
	}, sample)
	if !res.Matches {
		t.Errorf("TestRule() = %+v, want match", res)
	}

	res = svc.TestRule(routing.Conditions{
		Severity: []string{"low"},
	}, sample)
	if res.Matches {
		t.Errorf("TestRule() = %+v, want no match", res)
	}
	if res.Reason == "" {
		t.Error("TestRule() no-match reason is empty")
	}

	// Dry runs never touch the audit trail.
	if len(repo.Matches) != 0 {
		t.Errorf("dry run wrote %d audit records", len(repo.Matches))
	}
}
