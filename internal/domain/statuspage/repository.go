package statuspage

import "context"

// Repository defines the interface for status page data access
type Repository interface {
	// Create creates a new page
	Create(ctx context.Context, p *Page) (int64, error)

	// GetByID retrieves a page by ID
	GetByID(ctx context.Context, id int64) (*Page, error)

	// GetBySlug retrieves a published page by slug
	GetBySlug(ctx context.Context, slug string) (*Page, error)

	// Update updates a page
	Update(ctx context.Context, p *Page) error

	// Delete deletes a page
	Delete(ctx context.Context, id int64) error

	// List retrieves pages with filters and pagination
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Page, int64, error)
}
