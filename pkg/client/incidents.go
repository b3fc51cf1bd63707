package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// IncidentService handles incident API calls
type IncidentService struct {
	client *Client
}

// IncidentListOptions contains options for listing incidents
type IncidentListOptions struct {
	ListOptions
	TeamID    *int64
	ServiceID *int64
	Status    *string
	Severity  *string
}

type incidentPage struct {
	Paginated
	Data []Incident `json:"data"`
}

// List retrieves incidents
func (s *IncidentService) List(ctx context.Context, opts *IncidentListOptions) ([]Incident, *Paginated, error) {
	query := url.Values{}
	if opts != nil {
		if opts.Page > 0 {
			query.Set("page", strconv.Itoa(opts.Page))
		}
		if opts.PageSize > 0 {
			query.Set("page_size", strconv.Itoa(opts.PageSize))
		}
		if opts.TeamID != nil {
			query.Set("team_id", strconv.FormatInt(*opts.TeamID, 10))
		}
		if opts.ServiceID != nil {
			query.Set("service_id", strconv.FormatInt(*opts.ServiceID, 10))
		}
		if opts.Status != nil {
			query.Set("status", *opts.Status)
		}
		if opts.Severity != nil {
			query.Set("severity", *opts.Severity)
		}
	}

	path := "/api/v1/incidents"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var page incidentPage
	if err := s.client.doRequest(ctx, "GET", path, nil, &page); err != nil {
		return nil, nil, err
	}
	return page.Data, &page.Paginated, nil
}

// Get retrieves an incident by ID
func (s *IncidentService) Get(ctx context.Context, id int64) (*Incident, error) {
	var in Incident
	path := fmt.Sprintf("/api/v1/incidents/%d", id)
	if err := s.client.doRequest(ctx, "GET", path, nil, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

// Acknowledge acknowledges a triggered incident
func (s *IncidentService) Acknowledge(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/v1/incidents/%d/acknowledge", id)
	return s.client.doRequest(ctx, "POST", path, nil, nil)
}

// Resolve resolves an incident
func (s *IncidentService) Resolve(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/v1/incidents/%d/resolve", id)
	return s.client.doRequest(ctx, "POST", path, nil, nil)
}

// Summary retrieves incident counts by status for a team
func (s *IncidentService) Summary(ctx context.Context, teamID int64) (map[string]int, error) {
	path := "/api/v1/incidents/summary?team_id=" + strconv.FormatInt(teamID, 10)
	var counts map[string]int
	if err := s.client.doRequest(ctx, "GET", path, nil, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// GenerateSummary drafts an incident summary with the AI integration
func (s *IncidentService) GenerateSummary(ctx context.Context, id int64) (string, error) {
	path := fmt.Sprintf("/api/v1/incidents/%d/summary", id)
	var result struct {
		Summary string `json:"summary"`
	}
	if err := s.client.doRequest(ctx, "POST", path, nil, &result); err != nil {
		return "", err
	}
	return result.Summary, nil
}
