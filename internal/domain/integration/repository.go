package integration

import "context"

// Repository defines the interface for integration data access
type Repository interface {
	// Create creates a new integration
	Create(ctx context.Context, in *Integration) (int64, error)

	// GetByID retrieves an integration by ID
	GetByID(ctx context.Context, id int64) (*Integration, error)

	// GetByRoutingKey retrieves an enabled integration by its routing key
	GetByRoutingKey(ctx context.Context, key string) (*Integration, error)

	// Update updates an integration
	Update(ctx context.Context, in *Integration) error

	// Delete deletes an integration
	Delete(ctx context.Context, id int64) error

	// List retrieves integrations with filters and pagination
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Integration, int64, error)
}
