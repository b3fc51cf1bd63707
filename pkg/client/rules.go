package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// RuleService handles routing rule API calls
type RuleService struct {
	client *Client
}

// CreateRuleRequest represents a rule creation request
type CreateRuleRequest struct {
	TeamID      int64                  `json:"teamId"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Priority    int                    `json:"priority"`
	Enabled     *bool                  `json:"enabled,omitempty"`
	Conditions  map[string]interface{} `json:"conditions,omitempty"`
	Actions     map[string]interface{} `json:"actions,omitempty"`
}

// UpdateRuleRequest represents a partial rule update
type UpdateRuleRequest struct {
	Name        *string                 `json:"name,omitempty"`
	Description *string                 `json:"description,omitempty"`
	Priority    *int                    `json:"priority,omitempty"`
	Enabled     *bool                   `json:"enabled,omitempty"`
	Conditions  *map[string]interface{} `json:"conditions,omitempty"`
	Actions     *map[string]interface{} `json:"actions,omitempty"`
}

// TestRuleRequest represents a dry-run request
type TestRuleRequest struct {
	Conditions map[string]interface{} `json:"conditions"`
	Sample     SampleAlert            `json:"sample"`
}

// SampleAlert is the synthetic alert evaluated by a dry-run
type SampleAlert struct {
	Severity    string            `json:"severity,omitempty"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Source      string            `json:"source,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// List retrieves a team's rules in evaluation order
func (s *RuleService) List(ctx context.Context, teamID int64) ([]Rule, error) {
	path := "/api/v1/routing/rules?team_id=" + strconv.FormatInt(teamID, 10)
	var rules []Rule
	if err := s.client.doRequest(ctx, "GET", path, nil, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// Get retrieves a rule by ID
func (s *RuleService) Get(ctx context.Context, id int64) (*Rule, error) {
	var r Rule
	path := fmt.Sprintf("/api/v1/routing/rules/%d", id)
	if err := s.client.doRequest(ctx, "GET", path, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Create creates a new rule and returns its ID
func (s *RuleService) Create(ctx context.Context, req CreateRuleRequest) (int64, error) {
	var created struct {
		ID int64 `json:"id"`
	}
	if err := s.client.doRequest(ctx, "POST", "/api/v1/routing/rules", req, &created); err != nil {
		return 0, err
	}
	return created.ID, nil
}

// Update applies a partial update to a rule
func (s *RuleService) Update(ctx context.Context, id int64, req UpdateRuleRequest) error {
	path := fmt.Sprintf("/api/v1/routing/rules/%d", id)
	return s.client.doRequest(ctx, "PUT", path, req, nil)
}

// UpdatePriority changes only a rule's priority
func (s *RuleService) UpdatePriority(ctx context.Context, id int64, priority int) error {
	path := fmt.Sprintf("/api/v1/routing/rules/%d/priority", id)
	return s.client.doRequest(ctx, "PUT", path, map[string]int{"priority": priority}, nil)
}

// Delete deletes a rule
func (s *RuleService) Delete(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/v1/routing/rules/%d", id)
	return s.client.doRequest(ctx, "DELETE", path, nil, nil)
}

// Matches retrieves a rule's most recent match audit records
func (s *RuleService) Matches(ctx context.Context, id int64, limit int) ([]Match, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	path := fmt.Sprintf("/api/v1/routing/rules/%d/matches", id)
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var matches []Match
	if err := s.client.doRequest(ctx, "GET", path, nil, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// Test dry-runs a condition document against a sample alert
func (s *RuleService) Test(ctx context.Context, req TestRuleRequest) (*TestResult, error) {
	var result TestResult
	if err := s.client.doRequest(ctx, "POST", "/api/v1/routing/rules/test", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
