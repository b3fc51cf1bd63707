package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/beaconhq/beacon/internal/domain/alert"
	"github.com/beaconhq/beacon/internal/domain/routing"
	"github.com/beaconhq/beacon/internal/pkg/logger"
	"github.com/beaconhq/beacon/internal/testutil"
)

func int64Ptr(v int64) *int64 { return &v }

func newTestEngine(repo *testutil.MockRoutingRepository, firstMatchOnly bool) *Engine {
	return New(repo, logger.NewNop(), Config{FirstMatchOnly: firstMatchOnly})
}

func addRule(repo *testutil.MockRoutingRepository, teamID int64, priority int, createdAt time.Time, conds routing.Conditions, actions routing.Actions) *routing.Rule {
	r := &routing.Rule{
		TeamID:     teamID,
		Name:       "rule",
		Priority:   priority,
		Enabled:    true,
		Conditions: conds,
		Actions:    actions,
		CreatedAt:  createdAt,
	}
	_, _ = repo.Create(context.Background(), r)
	return r
}

func TestEngine_Evaluate_HighestPriorityWins(t *testing.T) {
	repo := testutil.NewMockRoutingRepository()
	now := time.Now()

	// Lower priority, broader rule
	addRule(repo, 1, 10, now, routing.Conditions{
		Severity: []string{"critical"},
	}, routing.Actions{RouteToServiceID: int64Ptr(100)})

	// Higher priority, narrower rule
	addRule(repo, 1, 100, now, routing.Conditions{
		Severity: []string{"critical"},
		Labels:   map[string]string{"env": "production"},
	}, routing.Actions{RouteToServiceID: int64Ptr(200)})

	e := newTestEngine(repo, true)
	a := &alert.Alert{
		ID:       42,
		Severity: "critical",
		Title:    "Production Database Down",
		Labels:   map[string]string{"env": "production"},
	}

	result, err := e.Evaluate(context.Background(), a, 1)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if !result.Matched {
		t.Fatal("expected a match")
	}
	if len(result.MatchedRules) != 1 {
		t.Fatalf("MatchedRules = %d, want 1", len(result.MatchedRules))
	}
	if result.MatchedRules[0].Priority != 100 {
		t.Errorf("matched priority = %d, want 100", result.MatchedRules[0].Priority)
	}
	if result.Actions[0].RouteToServiceID == nil || *result.Actions[0].RouteToServiceID != 200 {
		t.Errorf("RouteToServiceID = %v, want 200", result.Actions[0].RouteToServiceID)
	}
}

func TestEngine_Evaluate_FirstMatchWins(t *testing.T) {
	repo := testutil.NewMockRoutingRepository()
	now := time.Now()

	addRule(repo, 1, 100, now, routing.Conditions{Severity: []string{"high"}}, routing.Actions{Suppress: true})
	addRule(repo, 1, 50, now, routing.Conditions{Severity: []string{"high"}}, routing.Actions{SetSeverity: "low"})

	e := newTestEngine(repo, true)
	a := &alert.Alert{ID: 7, Severity: "high", Title: "t"}

	result, err := e.Evaluate(context.Background(), a, 1)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if len(result.MatchedRules) != 1 {
		t.Fatalf("MatchedRules = %d, want exactly 1", len(result.MatchedRules))
	}
	if result.MatchedRules[0].Priority != 100 {
		t.Errorf("matched priority = %d, want 100", result.MatchedRules[0].Priority)
	}
	if len(repo.Matches) != 1 {
		t.Errorf("audit records = %d, want 1", len(repo.Matches))
	}
}

func TestEngine_Evaluate_EvaluateAllMode(t *testing.T) {
	repo := testutil.NewMockRoutingRepository()
	now := time.Now()

	addRule(repo, 1, 100, now, routing.Conditions{Severity: []string{"high"}}, routing.Actions{AddTags: []string{"a"}})
	addRule(repo, 1, 50, now, routing.Conditions{}, routing.Actions{AddTags: []string{"b"}})

	e := newTestEngine(repo, false)
	a := &alert.Alert{ID: 7, Severity: "high", Title: "t"}

	result, err := e.Evaluate(context.Background(), a, 1)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if len(result.MatchedRules) != 2 {
		t.Fatalf("MatchedRules = %d, want 2", len(result.MatchedRules))
	}
	// Actions come back in priority order
	if result.Actions[0].AddTags[0] != "a" || result.Actions[1].AddTags[0] != "b" {
		t.Errorf("actions out of order: %v", result.Actions)
	}
	if len(repo.Matches) != 2 {
		t.Errorf("audit records = %d, want 2", len(repo.Matches))
	}
}

func TestEngine_Evaluate_NoMatchIsNotAnError(t *testing.T) {
	repo := testutil.NewMockRoutingRepository()
	addRule(repo, 1, 10, time.Now(), routing.Conditions{
		Labels: map[string]string{"env": "production"},
	}, routing.Actions{Suppress: true})

	e := newTestEngine(repo, true)
	a := &alert.Alert{ID: 9, Severity: "low", Title: "t", Labels: map[string]string{"env": "staging"}}

	result, err := e.Evaluate(context.Background(), a, 1)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if result.Matched {
		t.Error("expected no match")
	}
	if len(result.MatchedRules) != 0 || len(result.Actions) != 0 {
		t.Error("no-match result must carry empty slices")
	}
	if len(repo.Matches) != 0 {
		t.Error("no audit record may be written without a match")
	}
}

func TestEngine_Evaluate_CatchAllLowestPriority(t *testing.T) {
	repo := testutil.NewMockRoutingRepository()
	now := time.Now()

	addRule(repo, 1, 100, now, routing.Conditions{Severity: []string{"critical"}}, routing.Actions{Suppress: true})
	catchAll := addRule(repo, 1, 1, now, routing.Conditions{}, routing.Actions{EscalationPolicyID: int64Ptr(5)})

	e := newTestEngine(repo, true)
	a := &alert.Alert{ID: 3, Severity: "info", Title: "chatter"}

	result, err := e.Evaluate(context.Background(), a, 1)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if !result.Matched || result.MatchedRules[0].ID != catchAll.ID {
		t.Errorf("expected the catch-all rule to match")
	}
}

func TestEngine_Evaluate_CreatedAtBreaksPriorityTies(t *testing.T) {
	repo := testutil.NewMockRoutingRepository()
	older := time.Now().Add(-time.Hour)
	newer := time.Now()

	addRule(repo, 1, 50, older, routing.Conditions{}, routing.Actions{SetSeverity: "low"})
	newest := addRule(repo, 1, 50, newer, routing.Conditions{}, routing.Actions{SetSeverity: "high"})

	e := newTestEngine(repo, true)
	a := &alert.Alert{ID: 1, Severity: "medium", Title: "t"}

	result, err := e.Evaluate(context.Background(), a, 1)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if result.MatchedRules[0].ID != newest.ID {
		t.Errorf("newest rule must win priority ties")
	}
}

func TestEngine_Evaluate_DisabledAndForeignRulesIgnored(t *testing.T) {
	repo := testutil.NewMockRoutingRepository()
	now := time.Now()

	disabled := addRule(repo, 1, 100, now, routing.Conditions{}, routing.Actions{Suppress: true})
	disabled.Enabled = false
	addRule(repo, 2, 100, now, routing.Conditions{}, routing.Actions{Suppress: true}) // other team

	e := newTestEngine(repo, true)
	a := &alert.Alert{ID: 1, Severity: "high", Title: "t"}

	result, err := e.Evaluate(context.Background(), a, 1)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if result.Matched {
		t.Error("disabled rules and other teams' rules must not match")
	}
}

func TestEngine_Evaluate_BadRegexSkipsToNextRule(t *testing.T) {
	repo := testutil.NewMockRoutingRepository()
	now := time.Now()

	addRule(repo, 1, 100, now, routing.Conditions{DescriptionMatches: `([bad`}, routing.Actions{Suppress: true})
	good := addRule(repo, 1, 50, now, routing.Conditions{}, routing.Actions{SetSeverity: "low"})

	e := newTestEngine(repo, true)
	a := &alert.Alert{ID: 1, Severity: "high", Title: "t", Description: "d"}

	result, err := e.Evaluate(context.Background(), a, 1)
	if err != nil {
		t.Fatalf("bad regex must not surface as an engine error, got %v", err)
	}
	if !result.Matched || result.MatchedRules[0].ID != good.ID {
		t.Error("evaluation must continue past a rule with an invalid pattern")
	}
}

func TestEngine_Evaluate_StoreErrorsPropagate(t *testing.T) {
	t.Run("rule load failure", func(t *testing.T) {
		repo := testutil.NewMockRoutingRepository()
		repo.ListError = errors.New("store unavailable")

		e := newTestEngine(repo, true)
		_, err := e.Evaluate(context.Background(), &alert.Alert{ID: 1, Severity: "high"}, 1)
		if err == nil {
			t.Fatal("expected rule load failure to propagate")
		}
	})

	t.Run("audit write failure", func(t *testing.T) {
		repo := testutil.NewMockRoutingRepository()
		addRule(repo, 1, 10, time.Now(), routing.Conditions{}, routing.Actions{})
		repo.CreateMatchError = errors.New("store unavailable")

		e := newTestEngine(repo, true)
		_, err := e.Evaluate(context.Background(), &alert.Alert{ID: 1, Severity: "high"}, 1)
		if err == nil {
			t.Fatal("expected audit write failure to propagate")
		}
	})
}

func TestEngine_Evaluate_Idempotent(t *testing.T) {
	repo := testutil.NewMockRoutingRepository()
	addRule(repo, 1, 10, time.Now(), routing.Conditions{Severity: []string{"high"}}, routing.Actions{SetSeverity: "critical"})

	e := newTestEngine(repo, true)
	a := &alert.Alert{ID: 1, Severity: "high", Title: "t"}

	first, err := e.Evaluate(context.Background(), a, 1)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	second, err := e.Evaluate(context.Background(), a, 1)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	if first.Matched != second.Matched || len(first.MatchedRules) != len(second.MatchedRules) {
		t.Error("identical inputs must produce identical evaluations")
	}
	if first.MatchedRules[0].ID != second.MatchedRules[0].ID {
		t.Error("identical inputs must match the same rule")
	}
	// Each call appends its own audit row; duplicates are accepted.
	if len(repo.Matches) != 2 {
		t.Errorf("audit records = %d, want 2", len(repo.Matches))
	}
}

func TestEngine_TestRule_SharesEvaluator(t *testing.T) {
	repo := testutil.NewMockRoutingRepository()
	e := newTestEngine(repo, true)

	conds := routing.Conditions{
		Severity: []string{"critical"},
		Labels:   map[string]string{"env": "production"},
	}
	sample := &alert.Alert{
		Severity: "critical",
		Title:    "Production Database Down",
		Labels:   map[string]string{"env": "production"},
	}

	dryRun := e.TestRule(conds, sample)
	if !dryRun.Matches {
		t.Fatalf("TestRule() = %+v, want a match", dryRun)
	}
	if dryRun.Reason == "" {
		t.Error("TestRule() must report a reason")
	}

	// The dry run agrees with a live evaluation of the same inputs.
	addRule(repo, 1, 10, time.Now(), conds, routing.Actions{})
	live, err := e.Evaluate(context.Background(), sample, 1)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if live.Matched != dryRun.Matches {
		t.Error("TestRule and Evaluate disagree for the same inputs")
	}

	// And it never writes audit records of its own.
	before := len(repo.Matches)
	e.TestRule(conds, sample)
	if len(repo.Matches) != before {
		t.Error("TestRule must not write audit records")
	}
}

func TestEngine_TestRule_InvalidPattern(t *testing.T) {
	e := newTestEngine(testutil.NewMockRoutingRepository(), true)

	result := e.TestRule(routing.Conditions{DescriptionMatches: `(`}, &alert.Alert{Title: "x"})
	if result.Matches {
		t.Error("invalid pattern must not match")
	}
	if result.Reason == "" {
		t.Error("reason must explain the failure to the rule author")
	}
}
