package dto

import (
	"time"

	"github.com/beaconhq/beacon/internal/domain/routing"
)

// RuleDTO represents a routing rule in API responses
type RuleDTO struct {
	ID          int64              `json:"id"`
	TeamID      int64              `json:"teamId"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Priority    int                `json:"priority"`
	Enabled     bool               `json:"enabled"`
	Conditions  routing.Conditions `json:"conditions"`
	Actions     routing.Actions    `json:"actions"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// NewRuleDTO converts a rule to its API representation
func NewRuleDTO(r *routing.Rule) RuleDTO {
	return RuleDTO{
		ID:          r.ID,
		TeamID:      r.TeamID,
		Name:        r.Name,
		Description: r.Description,
		Priority:    r.Priority,
		Enabled:     r.Enabled,
		Conditions:  r.Conditions,
		Actions:     r.Actions,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// CreateRuleRequest represents a rule creation request
type CreateRuleRequest struct {
	TeamID      int64              `json:"teamId" validate:"required"`
	Name        string             `json:"name" validate:"required,max=255"`
	Description string             `json:"description,omitempty"`
	Priority    int                `json:"priority"`
	Enabled     *bool              `json:"enabled,omitempty"`
	Conditions  routing.Conditions `json:"conditions"`
	Actions     routing.Actions    `json:"actions"`
}

// UpdateRuleRequest represents a partial rule update request
type UpdateRuleRequest struct {
	Name        *string             `json:"name,omitempty"`
	Description *string             `json:"description,omitempty"`
	Priority    *int                `json:"priority,omitempty"`
	Enabled     *bool               `json:"enabled,omitempty"`
	Conditions  *routing.Conditions `json:"conditions,omitempty"`
	Actions     *routing.Actions    `json:"actions,omitempty"`
}

// UpdateRulePriorityRequest represents a priority-only update
type UpdateRulePriorityRequest struct {
	Priority int `json:"priority"`
}

// TestRuleRequest represents a dry-run request: a condition document plus a
// sample alert to evaluate it against
type TestRuleRequest struct {
	Conditions routing.Conditions `json:"conditions"`
	Sample     SampleAlert        `json:"sample" validate:"required"`
}

// SampleAlert is the synthetic alert used by rule dry-runs
type SampleAlert struct {
	Severity    string            `json:"severity"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Source      string            `json:"source,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// MatchDTO represents a rule match audit record in API responses
type MatchDTO struct {
	ID        int64     `json:"id"`
	AlertID   int64     `json:"alertId"`
	RuleID    int64     `json:"ruleId"`
	MatchedAt time.Time `json:"matchedAt"`
}
