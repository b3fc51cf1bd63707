package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// AlertService handles alert-related API calls
type AlertService struct {
	client *Client
}

// IngestEvent is an alert event to submit through an integration
type IngestEvent struct {
	Severity    string            `json:"severity,omitempty"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Source      string            `json:"source,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
	Fingerprint string            `json:"fingerprint,omitempty"`
}

// AlertListOptions contains options for listing alerts
type AlertListOptions struct {
	ListOptions
	ServiceID *int64
	Severity  *string
	Status    *string
	Source    *string
}

// alertPage mirrors the paginated alert payload
type alertPage struct {
	Paginated
	Data []Alert `json:"data"`
}

// Ingest submits an event through the integration behind routingKey. It
// needs no authentication; the routing key is the credential.
func (s *AlertService) Ingest(ctx context.Context, routingKey string, ev IngestEvent) (*IngestResult, error) {
	var result IngestResult
	path := "/api/v1/ingest/" + url.PathEscape(routingKey)
	if err := s.client.doRequest(ctx, "POST", path, ev, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// List retrieves alerts
func (s *AlertService) List(ctx context.Context, opts *AlertListOptions) ([]Alert, *Paginated, error) {
	query := url.Values{}
	if opts != nil {
		if opts.Page > 0 {
			query.Set("page", strconv.Itoa(opts.Page))
		}
		if opts.PageSize > 0 {
			query.Set("page_size", strconv.Itoa(opts.PageSize))
		}
		if opts.ServiceID != nil {
			query.Set("service_id", strconv.FormatInt(*opts.ServiceID, 10))
		}
		if opts.Severity != nil {
			query.Set("severity", *opts.Severity)
		}
		if opts.Status != nil {
			query.Set("status", *opts.Status)
		}
		if opts.Source != nil {
			query.Set("source", *opts.Source)
		}
	}

	path := "/api/v1/alerts"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var page alertPage
	if err := s.client.doRequest(ctx, "GET", path, nil, &page); err != nil {
		return nil, nil, err
	}
	return page.Data, &page.Paginated, nil
}

// Get retrieves an alert by ID
func (s *AlertService) Get(ctx context.Context, id int64) (*Alert, error) {
	var a Alert
	path := fmt.Sprintf("/api/v1/alerts/%d", id)
	if err := s.client.doRequest(ctx, "GET", path, nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Resolve marks an alert resolved
func (s *AlertService) Resolve(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/v1/alerts/%d/resolve", id)
	return s.client.doRequest(ctx, "POST", path, nil, nil)
}

// Delete deletes an alert
func (s *AlertService) Delete(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/v1/alerts/%d", id)
	return s.client.doRequest(ctx, "DELETE", path, nil, nil)
}
