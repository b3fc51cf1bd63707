package service

import "context"

// Manager defines the interface for service business logic. Named Manager
// because Service is taken by the entity itself.
type Manager interface {
	// Create creates a new service
	Create(ctx context.Context, s *Service) (int64, error)

	// GetByID retrieves a service by ID
	GetByID(ctx context.Context, id int64) (*Service, error)

	// Update updates a service
	Update(ctx context.Context, id int64, updates map[string]interface{}) error

	// UpdateStatus updates a service's operational status
	UpdateStatus(ctx context.Context, id int64, status string) error

	// Delete deletes a service
	Delete(ctx context.Context, id int64) error

	// List retrieves services with filters and pagination
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Service, int64, error)
}
