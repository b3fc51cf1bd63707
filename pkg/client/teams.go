package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// TeamService handles team API calls
type TeamService struct {
	client *Client
}

// CreateTeamRequest represents a team creation request
type CreateTeamRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug,omitempty"`
	Description string `json:"description,omitempty"`
}

type teamPage struct {
	Paginated
	Data []Team `json:"data"`
}

// List retrieves teams
func (s *TeamService) List(ctx context.Context, opts *ListOptions) ([]Team, *Paginated, error) {
	query := url.Values{}
	if opts != nil {
		if opts.Page > 0 {
			query.Set("page", strconv.Itoa(opts.Page))
		}
		if opts.PageSize > 0 {
			query.Set("page_size", strconv.Itoa(opts.PageSize))
		}
	}

	path := "/api/v1/teams"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var page teamPage
	if err := s.client.doRequest(ctx, "GET", path, nil, &page); err != nil {
		return nil, nil, err
	}
	return page.Data, &page.Paginated, nil
}

// Get retrieves a team by ID
func (s *TeamService) Get(ctx context.Context, id int64) (*Team, error) {
	var t Team
	path := fmt.Sprintf("/api/v1/teams/%d", id)
	if err := s.client.doRequest(ctx, "GET", path, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create creates a new team and returns its ID
func (s *TeamService) Create(ctx context.Context, req CreateTeamRequest) (int64, error) {
	var created struct {
		ID int64 `json:"id"`
	}
	if err := s.client.doRequest(ctx, "POST", "/api/v1/teams", req, &created); err != nil {
		return 0, err
	}
	return created.ID, nil
}

// Delete deletes a team
func (s *TeamService) Delete(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/v1/teams/%d", id)
	return s.client.doRequest(ctx, "DELETE", path, nil, nil)
}
