package team

import "context"

// Repository defines the interface for team data access
type Repository interface {
	// Create creates a new team
	Create(ctx context.Context, t *Team) (int64, error)

	// GetByID retrieves a team by ID
	GetByID(ctx context.Context, id int64) (*Team, error)

	// GetBySlug retrieves a team by slug
	GetBySlug(ctx context.Context, slug string) (*Team, error)

	// Update updates a team
	Update(ctx context.Context, t *Team) error

	// Delete deletes a team
	Delete(ctx context.Context, id int64) error

	// List retrieves teams with pagination
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Team, int64, error)
}
