package alert

import "context"

// Repository defines the interface for alert data access
type Repository interface {
	// Create creates a new alert
	Create(ctx context.Context, a *Alert) (int64, error)

	// GetByID retrieves an alert by ID
	GetByID(ctx context.Context, id int64) (*Alert, error)

	// GetOpenByFingerprint retrieves the open (firing or suppressed) alert
	// with the given fingerprint, if any
	GetOpenByFingerprint(ctx context.Context, fingerprint string) (*Alert, error)

	// Update updates an alert
	Update(ctx context.Context, a *Alert) error

	// Delete deletes an alert
	Delete(ctx context.Context, id int64) error

	// List retrieves alerts with filters and pagination
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Alert, int64, error)

	// ResolveStale marks firing alerts as resolved when their last
	// occurrence is older than the cutoff. Returns the number resolved.
	ResolveStale(ctx context.Context, cutoffUnix int64) (int64, error)

	// PurgeResolved deletes resolved alerts older than the cutoff.
	// Returns the number deleted.
	PurgeResolved(ctx context.Context, cutoffUnix int64) (int64, error)
}
