package statuspage

import "context"

// Service defines the interface for status page business logic
type Service interface {
	// Create creates a new page
	Create(ctx context.Context, p *Page) (int64, error)

	// GetByID retrieves a page by ID
	GetByID(ctx context.Context, id int64) (*Page, error)

	// Update updates a page
	Update(ctx context.Context, id int64, updates map[string]interface{}) error

	// Publish toggles a page's published flag
	Publish(ctx context.Context, id int64, published bool) error

	// Delete deletes a page
	Delete(ctx context.Context, id int64) error

	// List retrieves pages with filters and pagination
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Page, int64, error)
}
