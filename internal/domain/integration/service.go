package integration

import "context"

// Service defines the interface for integration business logic
type Service interface {
	// Create creates a new integration with a generated routing key
	Create(ctx context.Context, in *Integration) (int64, error)

	// GetByID retrieves an integration by ID
	GetByID(ctx context.Context, id int64) (*Integration, error)

	// ResolveKey resolves a routing key to an enabled integration
	ResolveKey(ctx context.Context, key string) (*Integration, error)

	// Update updates an integration
	Update(ctx context.Context, id int64, updates map[string]interface{}) error

	// RotateKey replaces an integration's routing key
	RotateKey(ctx context.Context, id int64) (string, error)

	// Delete deletes an integration
	Delete(ctx context.Context, id int64) error

	// List retrieves integrations with filters and pagination
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Integration, int64, error)
}
