package schedule

import "context"

// Service defines the interface for schedule business logic
type Service interface {
	// Create creates a new schedule
	Create(ctx context.Context, s *Schedule) (int64, error)

	// GetByID retrieves a schedule by ID
	GetByID(ctx context.Context, id int64) (*Schedule, error)

	// Update updates a schedule
	Update(ctx context.Context, id int64, updates map[string]interface{}) error

	// Delete deletes a schedule
	Delete(ctx context.Context, id int64) error

	// List retrieves schedules with filters and pagination
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Schedule, int64, error)
}
