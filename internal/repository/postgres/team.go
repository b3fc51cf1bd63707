package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/beaconhq/beacon/internal/domain/team"
	"github.com/beaconhq/beacon/internal/pkg/errors"
)

type TeamRepository struct {
	db *sql.DB
}

func NewTeamRepository(db *sql.DB) team.Repository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Create(ctx context.Context, t *team.Team) (int64, error) {
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now

	query := `INSERT INTO teams (name, slug, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, t.Name, t.Slug, t.Description, now.UTC().Format(timeLayout), now.UTC().Format(timeLayout))
	if err != nil {
		return 0, errors.DatabaseError("Failed to create team", err)
	}

	return result.LastInsertId()
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (*team.Team, error) {
	return r.getBy(ctx, "id = ?", id)
}

func (r *TeamRepository) GetBySlug(ctx context.Context, slug string) (*team.Team, error) {
	return r.getBy(ctx, "slug = ?", slug)
}

func (r *TeamRepository) getBy(ctx context.Context, cond string, arg interface{}) (*team.Team, error) {
	query := `SELECT id, name, slug, description, created_at, updated_at FROM teams WHERE ` + cond

	var t team.Team
	var createdAt, updatedAt string
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&t.ID, &t.Name, &t.Slug, &t.Description, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Team")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get team", err)
	}

	t.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	t.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
	return &t, nil
}

func (r *TeamRepository) Update(ctx context.Context, t *team.Team) error {
	t.UpdatedAt = time.Now()
	query := `UPDATE teams SET name = ?, slug = ?, description = ?, updated_at = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, t.Name, t.Slug, t.Description, t.UpdatedAt.UTC().Format(timeLayout), t.ID)
	if err != nil {
		return errors.DatabaseError("Failed to update team", err)
	}

	rows, err := result.RowsAffected()
	if err != nil || rows == 0 {
		return errors.NotFound("Team")
	}

	return nil
}

func (r *TeamRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM teams WHERE id = ?", id)
	if err != nil {
		return errors.DatabaseError("Failed to delete team", err)
	}

	rows, err := result.RowsAffected()
	if err != nil || rows == 0 {
		return errors.NotFound("Team")
	}

	return nil
}

func (r *TeamRepository) List(ctx context.Context, filter team.Filter, limit, offset int) ([]*team.Team, int64, error) {
	where := []string{"1 = 1"}
	args := []interface{}{}

	if filter.Name != "" {
		where = append(where, "name LIKE ?")
		args = append(args, "%"+filter.Name+"%")
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	err := r.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM teams WHERE %s", whereClause), args...).Scan(&total)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to count teams", err)
	}

	query := fmt.Sprintf(`SELECT id, name, slug, description, created_at, updated_at FROM teams WHERE %s ORDER BY id DESC LIMIT ? OFFSET ?`, whereClause)

	args = append(args, limit, offset)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list teams", err)
	}
	defer rows.Close()

	var teams []*team.Team
	for rows.Next() {
		var t team.Team
		var createdAt, updatedAt string
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.Description, &createdAt, &updatedAt); err != nil {
			return nil, 0, errors.DatabaseError("Failed to scan team", err)
		}
		t.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		t.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
		teams = append(teams, &t)
	}

	return teams, total, rows.Err()
}
