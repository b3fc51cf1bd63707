package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/beaconhq/beacon/internal/domain/routing"
	"github.com/beaconhq/beacon/internal/pkg/errors"
)

type RoutingRepository struct {
	db *sql.DB
}

func NewRoutingRepository(db *sql.DB) routing.Repository {
	return &RoutingRepository{db: db}
}

func (r *RoutingRepository) Create(ctx context.Context, rule *routing.Rule) (int64, error) {
	now := time.Now()
	rule.CreatedAt = now
	rule.UpdatedAt = now

	conditions, err := json.Marshal(rule.Conditions)
	if err != nil {
		return 0, errors.Internal("Failed to encode rule conditions", err)
	}
	actions, err := json.Marshal(rule.Actions)
	if err != nil {
		return 0, errors.Internal("Failed to encode rule actions", err)
	}

	query := `INSERT INTO routing_rules (team_id, name, description, priority, enabled, conditions, actions, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, rule.TeamID, rule.Name, rule.Description, rule.Priority, rule.Enabled, string(conditions), string(actions), now.UTC().Format(timeLayout), now.UTC().Format(timeLayout))
	if err != nil {
		return 0, errors.DatabaseError("Failed to create routing rule", err)
	}

	return result.LastInsertId()
}

func (r *RoutingRepository) GetByID(ctx context.Context, id int64) (*routing.Rule, error) {
	query := `SELECT id, team_id, name, description, priority, enabled, conditions, actions, created_at, updated_at FROM routing_rules WHERE id = ?`

	rule, err := scanRule(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Routing rule")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get routing rule", err)
	}

	return rule, nil
}

func (r *RoutingRepository) Update(ctx context.Context, rule *routing.Rule) error {
	rule.UpdatedAt = time.Now()

	conditions, err := json.Marshal(rule.Conditions)
	if err != nil {
		return errors.Internal("Failed to encode rule conditions", err)
	}
	actions, err := json.Marshal(rule.Actions)
	if err != nil {
		return errors.Internal("Failed to encode rule actions", err)
	}

	query := `UPDATE routing_rules SET name = ?, description = ?, priority = ?, enabled = ?, conditions = ?, actions = ?, updated_at = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, rule.Name, rule.Description, rule.Priority, rule.Enabled, string(conditions), string(actions), rule.UpdatedAt.UTC().Format(timeLayout), rule.ID)
	if err != nil {
		return errors.DatabaseError("Failed to update routing rule", err)
	}

	rows, err := result.RowsAffected()
	if err != nil || rows == 0 {
		return errors.NotFound("Routing rule")
	}

	return nil
}

func (r *RoutingRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM routing_rules WHERE id = ?", id)
	if err != nil {
		return errors.DatabaseError("Failed to delete routing rule", err)
	}

	rows, err := result.RowsAffected()
	if err != nil || rows == 0 {
		return errors.NotFound("Routing rule")
	}

	return nil
}

func (r *RoutingRepository) ListByTeam(ctx context.Context, teamID int64) ([]*routing.Rule, error) {
	query := `SELECT id, team_id, name, description, priority, enabled, conditions, actions, created_at, updated_at FROM routing_rules WHERE team_id = ? ORDER BY priority DESC, created_at DESC`
	return r.listRules(ctx, query, teamID)
}

// ListEnabled returns the rules the evaluation engine walks. The ordering
// here is a contract: priority descending, newest first on ties.
func (r *RoutingRepository) ListEnabled(ctx context.Context, teamID int64) ([]*routing.Rule, error) {
	query := `SELECT id, team_id, name, description, priority, enabled, conditions, actions, created_at, updated_at FROM routing_rules WHERE team_id = ? AND enabled = ? ORDER BY priority DESC, created_at DESC`
	return r.listRules(ctx, query, teamID, true)
}

func (r *RoutingRepository) listRules(ctx context.Context, query string, args ...interface{}) ([]*routing.Rule, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list routing rules", err)
	}
	defer rows.Close()

	var rules []*routing.Rule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan routing rule", err)
		}
		rules = append(rules, rule)
	}

	return rules, rows.Err()
}

func (r *RoutingRepository) CreateMatch(ctx context.Context, m *routing.Match) (int64, error) {
	if m.MatchedAt.IsZero() {
		m.MatchedAt = time.Now()
	}

	query := `INSERT INTO routing_matches (alert_id, rule_id, matched_at) VALUES (?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, m.AlertID, m.RuleID, m.MatchedAt.UTC().Format(timeLayout))
	if err != nil {
		return 0, errors.DatabaseError("Failed to record rule match", err)
	}

	return result.LastInsertId()
}

func (r *RoutingRepository) ListMatchesByRule(ctx context.Context, ruleID int64, limit int) ([]*routing.Match, error) {
	query := `SELECT id, alert_id, rule_id, matched_at FROM routing_matches WHERE rule_id = ? ORDER BY id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, ruleID, limit)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list rule matches", err)
	}
	defer rows.Close()

	var matches []*routing.Match
	for rows.Next() {
		var m routing.Match
		var matchedAt string
		if err := rows.Scan(&m.ID, &m.AlertID, &m.RuleID, &matchedAt); err != nil {
			return nil, errors.DatabaseError("Failed to scan rule match", err)
		}
		m.MatchedAt, _ = time.Parse(timeLayout, matchedAt)
		matches = append(matches, &m)
	}

	return matches, rows.Err()
}

func (r *RoutingRepository) PurgeMatches(ctx context.Context, cutoffUnix int64) (int64, error) {
	cutoff := time.Unix(cutoffUnix, 0).UTC().Format(timeLayout)

	result, err := r.db.ExecContext(ctx, "DELETE FROM routing_matches WHERE matched_at < ?", cutoff)
	if err != nil {
		return 0, errors.DatabaseError("Failed to purge rule matches", err)
	}

	return result.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRule(row rowScanner) (*routing.Rule, error) {
	var rule routing.Rule
	var conditions, actions, createdAt, updatedAt string

	err := row.Scan(&rule.ID, &rule.TeamID, &rule.Name, &rule.Description, &rule.Priority, &rule.Enabled, &conditions, &actions, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(conditions), &rule.Conditions); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(actions), &rule.Actions); err != nil {
		return nil, err
	}
	rule.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	rule.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)

	return &rule, nil
}
