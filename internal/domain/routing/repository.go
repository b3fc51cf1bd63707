package routing

import "context"

// Repository defines the interface for routing rule and match data access
type Repository interface {
	// Create creates a new rule
	Create(ctx context.Context, r *Rule) (int64, error)

	// GetByID retrieves a rule by ID
	GetByID(ctx context.Context, id int64) (*Rule, error)

	// Update updates a rule
	Update(ctx context.Context, r *Rule) error

	// Delete deletes a rule
	Delete(ctx context.Context, id int64) error

	// ListByTeam retrieves all rules for a team, priority descending
	ListByTeam(ctx context.Context, teamID int64) ([]*Rule, error)

	// ListEnabled retrieves the enabled rules for a team ordered by
	// priority descending, created_at descending (newest wins ties). This
	// is the ordering the evaluation engine relies on.
	ListEnabled(ctx context.Context, teamID int64) ([]*Rule, error)

	// CreateMatch appends a match audit record
	CreateMatch(ctx context.Context, m *Match) (int64, error)

	// ListMatchesByRule retrieves the most recent matches for a rule
	ListMatchesByRule(ctx context.Context, ruleID int64, limit int) ([]*Match, error)

	// PurgeMatches deletes match records older than the cutoff. Returns
	// the number deleted.
	PurgeMatches(ctx context.Context, cutoffUnix int64) (int64, error)
}
