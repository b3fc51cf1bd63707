package incident

import "context"

// Service defines the interface for incident business logic
type Service interface {
	// Create creates a new incident
	Create(ctx context.Context, in *Incident) (int64, error)

	// GetByID retrieves an incident by ID
	GetByID(ctx context.Context, id int64) (*Incident, error)

	// Acknowledge moves a triggered incident to acknowledged
	Acknowledge(ctx context.Context, id int64) error

	// Resolve moves an incident to resolved
	Resolve(ctx context.Context, id int64) error

	// List retrieves incidents with filters and pagination
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Incident, int64, error)

	// GetSummary gets incident counts by status for a team
	GetSummary(ctx context.Context, teamID int64) (map[string]int, error)

	// GenerateSummary drafts a short incident summary. Available only when
	// the OpenAI integration is configured.
	GenerateSummary(ctx context.Context, id int64) (string, error)

	// Delete deletes an incident
	Delete(ctx context.Context, id int64) error
}
