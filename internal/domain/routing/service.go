package routing

import (
	"context"

	"github.com/beaconhq/beacon/internal/domain/alert"
)

// Service defines the interface for routing rule management and evaluation
type Service interface {
	// Create creates a new rule
	Create(ctx context.Context, r *Rule) (int64, error)

	// GetByID retrieves a rule by ID; not-found is reported distinctly
	GetByID(ctx context.Context, id int64) (*Rule, error)

	// Update applies a partial update to a rule
	Update(ctx context.Context, id int64, patch *RulePatch) error

	// UpdatePriority changes only a rule's priority
	UpdatePriority(ctx context.Context, id int64, priority int) error

	// Delete deletes a rule
	Delete(ctx context.Context, id int64) error

	// FindByTeam retrieves all rules for a team, priority descending
	FindByTeam(ctx context.Context, teamID int64) ([]*Rule, error)

	// GetMatchesByRule retrieves the most recent match audit records
	GetMatchesByRule(ctx context.Context, ruleID int64, limit int) ([]*Match, error)

	// Evaluate runs the routing engine for an alert owned by teamID
	Evaluate(ctx context.Context, a *alert.Alert, teamID int64) (*Evaluation, error)

	// TestRule dry-runs a condition document against a sample alert. It
	// never touches the rule store and writes no audit record.
	TestRule(conditions Conditions, sample *alert.Alert) TestResult
}

// RulePatch is a partial rule update. Nil fields are left unchanged.
type RulePatch struct {
	Name        *string     `json:"name,omitempty"`
	Description *string     `json:"description,omitempty"`
	Priority    *int        `json:"priority,omitempty"`
	Enabled     *bool       `json:"enabled,omitempty"`
	Conditions  *Conditions `json:"conditions,omitempty"`
	Actions     *Actions    `json:"actions,omitempty"`
}

// Evaluation is the outcome of running the engine for one alert.
// No match is a valid outcome, not an error: Matched is false and both
// slices are empty, and the caller applies its default handling.
type Evaluation struct {
	Matched      bool      `json:"matched"`
	MatchedRules []*Rule   `json:"matched_rules"`
	Actions      []Actions `json:"actions"`
}

// TestResult is the outcome of a dry-run, surfaced verbatim to the
// rule-authoring UI.
type TestResult struct {
	Matches bool   `json:"matches"`
	Reason  string `json:"reason"`
}
