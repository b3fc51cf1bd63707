package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/beaconhq/beacon/internal/domain/escalation"
	"github.com/beaconhq/beacon/internal/pkg/errors"
)

type EscalationRepository struct {
	db *sql.DB
}

func NewEscalationRepository(db *sql.DB) escalation.Repository {
	return &EscalationRepository{db: db}
}

func (r *EscalationRepository) Create(ctx context.Context, p *escalation.Policy) (int64, error) {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	steps, err := json.Marshal(p.Steps)
	if err != nil {
		return 0, errors.Internal("Failed to encode policy steps", err)
	}

	query := `INSERT INTO escalation_policies (team_id, name, description, steps, repeat_count, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, p.TeamID, p.Name, p.Description, string(steps), p.RepeatCount, now.UTC().Format(timeLayout), now.UTC().Format(timeLayout))
	if err != nil {
		return 0, errors.DatabaseError("Failed to create escalation policy", err)
	}

	return result.LastInsertId()
}

func (r *EscalationRepository) GetByID(ctx context.Context, id int64) (*escalation.Policy, error) {
	query := `SELECT id, team_id, name, description, steps, repeat_count, created_at, updated_at FROM escalation_policies WHERE id = ?`

	p, err := scanPolicy(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Escalation policy")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get escalation policy", err)
	}
	return p, nil
}

func (r *EscalationRepository) Update(ctx context.Context, p *escalation.Policy) error {
	p.UpdatedAt = time.Now()

	steps, err := json.Marshal(p.Steps)
	if err != nil {
		return errors.Internal("Failed to encode policy steps", err)
	}

	query := `UPDATE escalation_policies SET name = ?, description = ?, steps = ?, repeat_count = ?, updated_at = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, p.Name, p.Description, string(steps), p.RepeatCount, p.UpdatedAt.UTC().Format(timeLayout), p.ID)
	if err != nil {
		return errors.DatabaseError("Failed to update escalation policy", err)
	}

	rows, err := result.RowsAffected()
	if err != nil || rows == 0 {
		return errors.NotFound("Escalation policy")
	}

	return nil
}

func (r *EscalationRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM escalation_policies WHERE id = ?", id)
	if err != nil {
		return errors.DatabaseError("Failed to delete escalation policy", err)
	}

	rows, err := result.RowsAffected()
	if err != nil || rows == 0 {
		return errors.NotFound("Escalation policy")
	}

	return nil
}

func (r *EscalationRepository) List(ctx context.Context, filter escalation.Filter, limit, offset int) ([]*escalation.Policy, int64, error) {
	where := []string{"1 = 1"}
	args := []interface{}{}

	if filter.TeamID != 0 {
		where = append(where, "team_id = ?")
		args = append(args, filter.TeamID)
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	err := r.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM escalation_policies WHERE %s", whereClause), args...).Scan(&total)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to count escalation policies", err)
	}

	query := fmt.Sprintf(`SELECT id, team_id, name, description, steps, repeat_count, created_at, updated_at FROM escalation_policies WHERE %s ORDER BY id DESC LIMIT ? OFFSET ?`, whereClause)

	args = append(args, limit, offset)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list escalation policies", err)
	}
	defer rows.Close()

	var policies []*escalation.Policy
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, 0, errors.DatabaseError("Failed to scan escalation policy", err)
		}
		policies = append(policies, p)
	}

	return policies, total, rows.Err()
}

func scanPolicy(row rowScanner) (*escalation.Policy, error) {
	var p escalation.Policy
	var steps, createdAt, updatedAt string

	err := row.Scan(&p.ID, &p.TeamID, &p.Name, &p.Description, &steps, &p.RepeatCount, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(steps), &p.Steps); err != nil {
		return nil, err
	}
	p.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	p.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)

	return &p, nil
}
