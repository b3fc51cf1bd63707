package routing

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Rule is a team-scoped routing policy. Rules are evaluated against
// incoming alerts in priority order (higher first); the condition document
// decides whether the rule applies and the action document tells the caller
// what to do with the alert.
type Rule struct {
	ID          int64      `json:"id"`
	TeamID      int64      `json:"team_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Priority    int        `json:"priority"`
	Enabled     bool       `json:"enabled"`
	Conditions  Conditions `json:"conditions"`
	Actions     Actions    `json:"actions"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Match is the append-only audit record written once per successful rule
// match. It references the rule by id, not by snapshot; rule content may
// change after the fact.
type Match struct {
	ID        int64     `json:"id"`
	AlertID   int64     `json:"alert_id"`
	RuleID    int64     `json:"rule_id"`
	MatchedAt time.Time `json:"matched_at"`
}

// Condition clause keys as they appear on the wire.
const (
	ClauseLabels             = "labels"
	ClauseSource             = "source"
	ClauseSeverity           = "severity"
	ClauseTitleContains      = "titleContains"
	ClauseDescriptionMatches = "descriptionMatches"
	ClauseMatchMode          = "matchMode"
)

// Match modes. MatchModeAny is accepted in the schema for forward
// compatibility but is not honored: evaluation is always conjunctive.
const (
	MatchModeAll = "all"
	MatchModeAny = "any"
)

// Conditions is the semi-structured predicate document of a rule. Each
// clause is optional and independently evaluated; all present clauses must
// hold for the rule to match. An empty document matches every alert.
//
// The document decodes from a loose key-value object into typed clauses;
// keys that are not recognized are kept in Unknown and ignored during
// evaluation, so older engines tolerate newer rule schemas.
type Conditions struct {
	Labels             map[string]string
	Source             *string
	Severity           []string
	TitleContains      string
	DescriptionMatches string
	MatchMode          string
	Unknown            []string
}

// IsEmpty reports whether no predicate clause is present. matchMode alone
// is advisory and does not count as a predicate.
func (c *Conditions) IsEmpty() bool {
	return len(c.Labels) == 0 &&
		c.Source == nil &&
		len(c.Severity) == 0 &&
		c.TitleContains == "" &&
		c.DescriptionMatches == ""
}

// UnmarshalJSON decodes the loose condition object, coercing a scalar
// severity to a one-element set and collecting unknown clause keys.
func (c *Conditions) UnmarshalJSON(data []byte) error {
	*c = Conditions{}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("conditions must be an object: %w", err)
	}

	for key, val := range raw {
		switch key {
		case ClauseLabels:
			if err := json.Unmarshal(val, &c.Labels); err != nil {
				return fmt.Errorf("labels clause: %w", err)
			}
		case ClauseSource:
			var s string
			if err := json.Unmarshal(val, &s); err != nil {
				return fmt.Errorf("source clause: %w", err)
			}
			c.Source = &s
		case ClauseSeverity:
			// Scalar or list; a scalar becomes a one-element set.
			var list []string
			if err := json.Unmarshal(val, &list); err != nil {
				var single string
				if err := json.Unmarshal(val, &single); err != nil {
					return fmt.Errorf("severity clause: %w", err)
				}
				list = []string{single}
			}
			c.Severity = list
		case ClauseTitleContains:
			if err := json.Unmarshal(val, &c.TitleContains); err != nil {
				return fmt.Errorf("titleContains clause: %w", err)
			}
		case ClauseDescriptionMatches:
			if err := json.Unmarshal(val, &c.DescriptionMatches); err != nil {
				return fmt.Errorf("descriptionMatches clause: %w", err)
			}
		case ClauseMatchMode:
			if err := json.Unmarshal(val, &c.MatchMode); err != nil {
				return fmt.Errorf("matchMode: %w", err)
			}
		default:
			c.Unknown = append(c.Unknown, key)
		}
	}

	sort.Strings(c.Unknown)
	return nil
}

// MarshalJSON emits only the clauses that are present. Unknown keys are not
// round-tripped; they exist solely so evaluation can skip them knowingly.
func (c Conditions) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{})
	if len(c.Labels) > 0 {
		out[ClauseLabels] = c.Labels
	}
	if c.Source != nil {
		out[ClauseSource] = *c.Source
	}
	if len(c.Severity) > 0 {
		out[ClauseSeverity] = c.Severity
	}
	if c.TitleContains != "" {
		out[ClauseTitleContains] = c.TitleContains
	}
	if c.DescriptionMatches != "" {
		out[ClauseDescriptionMatches] = c.DescriptionMatches
	}
	if c.MatchMode != "" {
		out[ClauseMatchMode] = c.MatchMode
	}
	return json.Marshal(out)
}

// Actions is the effect document of a rule. The engine treats it as an
// opaque pass-through payload; it does not verify that referenced services
// or escalation policies exist.
type Actions struct {
	RouteToServiceID   *int64   `json:"routeToServiceId,omitempty"`
	SetSeverity        string   `json:"setSeverity,omitempty"`
	Suppress           bool     `json:"suppress,omitempty"`
	AddTags            []string `json:"addTags,omitempty"`
	EscalationPolicyID *int64   `json:"escalationPolicyId,omitempty"`
}

// IsZero reports whether the action document carries no effect.
func (a Actions) IsZero() bool {
	return a.RouteToServiceID == nil &&
		a.SetSeverity == "" &&
		!a.Suppress &&
		len(a.AddTags) == 0 &&
		a.EscalationPolicyID == nil
}

// Filter contains rule filtering options
type Filter struct {
	TeamID  int64
	Enabled *bool
}
