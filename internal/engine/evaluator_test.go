package engine

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/beaconhq/beacon/internal/domain/alert"
	"github.com/beaconhq/beacon/internal/domain/routing"
)

func strPtr(s string) *string { return &s }

func TestEvaluateConditions(t *testing.T) {
	baseAlert := &alert.Alert{
		ID:          1,
		Severity:    alert.SeverityCritical,
		Title:       "Production Database Down",
		Description: "connection pool exhausted on pg-primary",
		Source:      "prometheus",
		Labels:      map[string]string{"env": "production", "region": "eu-west-1"},
	}

	tests := []struct {
		name       string
		alert      *alert.Alert
		conditions routing.Conditions
		want       bool
	}{
		{
			name:       "empty conditions match everything",
			alert:      baseAlert,
			conditions: routing.Conditions{},
			want:       true,
		},
		{
			name:  "all clauses satisfied",
			alert: baseAlert,
			conditions: routing.Conditions{
				Labels:        map[string]string{"env": "production"},
				Source:        strPtr("prometheus"),
				Severity:      []string{"critical", "high"},
				TitleContains: "database",
			},
			want: true,
		},
		{
			name:  "label value mismatch fails the whole predicate",
			alert: baseAlert,
			conditions: routing.Conditions{
				Labels: map[string]string{"env": "staging"},
			},
			want: false,
		},
		{
			name:  "missing label key fails the whole predicate",
			alert: baseAlert,
			conditions: routing.Conditions{
				Labels: map[string]string{"cluster": "a"},
			},
			want: false,
		},
		{
			name:  "label match is case-sensitive",
			alert: baseAlert,
			conditions: routing.Conditions{
				Labels: map[string]string{"env": "Production"},
			},
			want: false,
		},
		{
			name:  "one failing label among passing ones fails",
			alert: baseAlert,
			conditions: routing.Conditions{
				Labels: map[string]string{"env": "production", "region": "us-east-1"},
			},
			want: false,
		},
		{
			name:       "source mismatch",
			alert:      baseAlert,
			conditions: routing.Conditions{Source: strPtr("grafana")},
			want:       false,
		},
		{
			name:       "empty source expectation does not match a set source",
			alert:      baseAlert,
			conditions: routing.Conditions{Source: strPtr("")},
			want:       false,
		},
		{
			name:       "empty source expectation matches empty source",
			alert:      &alert.Alert{Severity: "low", Title: "x"},
			conditions: routing.Conditions{Source: strPtr("")},
			want:       true,
		},
		{
			name:       "severity membership",
			alert:      baseAlert,
			conditions: routing.Conditions{Severity: []string{"high", "critical"}},
			want:       true,
		},
		{
			name:       "severity non-membership",
			alert:      baseAlert,
			conditions: routing.Conditions{Severity: []string{"low", "info"}},
			want:       false,
		},
		{
			name:       "title contains is case-insensitive",
			alert:      baseAlert,
			conditions: routing.Conditions{TitleContains: "DATABASE down"},
			want:       true,
		},
		{
			name:       "title substring absent",
			alert:      baseAlert,
			conditions: routing.Conditions{TitleContains: "disk full"},
			want:       false,
		},
		{
			name:       "description regex match",
			alert:      baseAlert,
			conditions: routing.Conditions{DescriptionMatches: `pool (exhausted|saturated)`},
			want:       true,
		},
		{
			name:       "description regex no match",
			alert:      baseAlert,
			conditions: routing.Conditions{DescriptionMatches: `out of memory`},
			want:       false,
		},
		{
			name:       "regex tested against empty description when absent",
			alert:      &alert.Alert{Severity: "low", Title: "x"},
			conditions: routing.Conditions{DescriptionMatches: `^$`},
			want:       true,
		},
		{
			name:       "invalid regex fails the clause not the engine",
			alert:      baseAlert,
			conditions: routing.Conditions{DescriptionMatches: `([unclosed`},
			want:       false,
		},
		{
			name:  "matchMode any still evaluates conjunctively",
			alert: baseAlert,
			conditions: routing.Conditions{
				MatchMode:     routing.MatchModeAny,
				Severity:      []string{"critical"},
				TitleContains: "no such title",
			},
			want: false,
		},
		{
			name:  "unknown clauses are ignored",
			alert: baseAlert,
			conditions: routing.Conditions{
				Severity: []string{"critical"},
				Unknown:  []string{"futureClause"},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := EvaluateConditions(tt.alert, &tt.conditions)
			if verdict.Matched != tt.want {
				t.Errorf("EvaluateConditions() matched = %v, want %v (reason: %s)", verdict.Matched, tt.want, verdict.Reason)
			}
			if verdict.Reason == "" {
				t.Error("EvaluateConditions() returned an empty reason")
			}
		})
	}
}

func TestEvaluateConditions_InvalidPatternReported(t *testing.T) {
	a := &alert.Alert{Severity: "high", Title: "x", Description: "y"}
	verdict := EvaluateConditions(a, &routing.Conditions{DescriptionMatches: `(`})

	if verdict.Matched {
		t.Error("invalid pattern must fail the predicate")
	}
	if verdict.PatternErr == nil {
		t.Error("expected PatternErr to carry the compile error")
	}
	if !strings.Contains(verdict.Reason, "invalid") {
		t.Errorf("reason should mention the invalid pattern, got %q", verdict.Reason)
	}
}

func TestConditionsUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		check   func(t *testing.T, c routing.Conditions)
		wantErr bool
	}{
		{
			name:  "scalar severity coerced to one-element set",
			input: `{"severity": "critical"}`,
			check: func(t *testing.T, c routing.Conditions) {
				if len(c.Severity) != 1 || c.Severity[0] != "critical" {
					t.Errorf("Severity = %v, want [critical]", c.Severity)
				}
			},
		},
		{
			name:  "severity list kept as-is",
			input: `{"severity": ["critical", "high"]}`,
			check: func(t *testing.T, c routing.Conditions) {
				if len(c.Severity) != 2 {
					t.Errorf("Severity = %v, want two elements", c.Severity)
				}
			},
		},
		{
			name:  "unknown keys collected",
			input: `{"severity": "low", "futureClause": {"x": 1}, "another": true}`,
			check: func(t *testing.T, c routing.Conditions) {
				if len(c.Unknown) != 2 {
					t.Fatalf("Unknown = %v, want two entries", c.Unknown)
				}
				if c.Unknown[0] != "another" || c.Unknown[1] != "futureClause" {
					t.Errorf("Unknown = %v, want sorted [another futureClause]", c.Unknown)
				}
			},
		},
		{
			name:  "explicit empty source kept distinct from absent",
			input: `{"source": ""}`,
			check: func(t *testing.T, c routing.Conditions) {
				if c.Source == nil || *c.Source != "" {
					t.Errorf("Source = %v, want pointer to empty string", c.Source)
				}
			},
		},
		{
			name:  "empty document is a catch-all",
			input: `{}`,
			check: func(t *testing.T, c routing.Conditions) {
				if !c.IsEmpty() {
					t.Error("expected IsEmpty() for {}")
				}
			},
		},
		{
			name:    "non-object document rejected",
			input:   `[1, 2]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c routing.Conditions
			err := json.Unmarshal([]byte(tt.input), &c)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, c)
			}
		})
	}
}
