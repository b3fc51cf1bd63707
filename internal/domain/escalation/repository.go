package escalation

import "context"

// Repository defines the interface for escalation policy data access
type Repository interface {
	// Create creates a new policy
	Create(ctx context.Context, p *Policy) (int64, error)

	// GetByID retrieves a policy by ID
	GetByID(ctx context.Context, id int64) (*Policy, error)

	// Update updates a policy
	Update(ctx context.Context, p *Policy) error

	// Delete deletes a policy
	Delete(ctx context.Context, id int64) error

	// List retrieves policies with filters and pagination
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Policy, int64, error)
}
