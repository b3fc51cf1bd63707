package alert

import "context"

// Event is an incoming alert payload before persistence, as delivered to
// the ingest endpoint.
type Event struct {
	Severity    string            `json:"severity"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Source      string            `json:"source,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
	Fingerprint string            `json:"fingerprint,omitempty"`
}

// IngestResult describes what happened to an ingested event.
type IngestResult struct {
	Alert        *Alert `json:"alert"`
	Deduplicated bool   `json:"deduplicated"`
	Suppressed   bool   `json:"suppressed"`
	RuleMatched  bool   `json:"rule_matched"`
}

// Service defines the interface for alert business logic
type Service interface {
	// Ingest processes an incoming event for the integration identified by
	// routingKey: dedup by fingerprint, run the routing engine, apply the
	// matched action document and open an incident unless suppressed.
	Ingest(ctx context.Context, routingKey string, ev *Event) (*IngestResult, error)

	// GetByID retrieves an alert by ID
	GetByID(ctx context.Context, id int64) (*Alert, error)

	// List retrieves alerts with filters and pagination
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Alert, int64, error)

	// Resolve marks an alert resolved
	Resolve(ctx context.Context, id int64) error

	// Delete deletes an alert
	Delete(ctx context.Context, id int64) error
}
