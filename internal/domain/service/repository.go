package service

import "context"

// Repository defines the interface for service data access
type Repository interface {
	// Create creates a new service
	Create(ctx context.Context, s *Service) (int64, error)

	// GetByID retrieves a service by ID
	GetByID(ctx context.Context, id int64) (*Service, error)

	// Update updates a service
	Update(ctx context.Context, s *Service) error

	// Delete deletes a service
	Delete(ctx context.Context, id int64) error

	// List retrieves services with filters and pagination
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Service, int64, error)

	// ListByIDs retrieves services by a set of IDs
	ListByIDs(ctx context.Context, ids []int64) ([]*Service, error)
}
