package incident

import "context"

// Repository defines the interface for incident data access
type Repository interface {
	// Create creates a new incident
	Create(ctx context.Context, in *Incident) (int64, error)

	// GetByID retrieves an incident by ID
	GetByID(ctx context.Context, id int64) (*Incident, error)

	// Update updates an incident
	Update(ctx context.Context, in *Incident) error

	// Delete deletes an incident
	Delete(ctx context.Context, id int64) error

	// List retrieves incidents with filters and pagination
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Incident, int64, error)

	// ListRecentByServices retrieves the most recent incidents touching any
	// of the given services. Used by public status pages.
	ListRecentByServices(ctx context.Context, serviceIDs []int64, limit int) ([]*Incident, error)

	// CountByStatus counts incidents by status for a team
	CountByStatus(ctx context.Context, teamID int64) (map[string]int, error)
}
