package escalation

import "context"

// Service defines the interface for escalation policy business logic
type Service interface {
	// Create creates a new policy
	Create(ctx context.Context, p *Policy) (int64, error)

	// GetByID retrieves a policy by ID
	GetByID(ctx context.Context, id int64) (*Policy, error)

	// Update updates a policy
	Update(ctx context.Context, id int64, updates map[string]interface{}) error

	// Delete deletes a policy
	Delete(ctx context.Context, id int64) error

	// List retrieves policies with filters and pagination
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Policy, int64, error)
}
