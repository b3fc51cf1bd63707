package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/beaconhq/beacon/internal/domain/statuspage"
	"github.com/beaconhq/beacon/internal/pkg/errors"
)

type StatusPageRepository struct {
	db *sql.DB
}

func NewStatusPageRepository(db *sql.DB) statuspage.Repository {
	return &StatusPageRepository{db: db}
}

func (r *StatusPageRepository) Create(ctx context.Context, p *statuspage.Page) (int64, error) {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	serviceIDs, err := json.Marshal(p.ServiceIDs)
	if err != nil {
		return 0, errors.Internal("Failed to encode page services", err)
	}

	query := `INSERT INTO status_pages (team_id, name, slug, published, service_ids, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, p.TeamID, p.Name, p.Slug, p.Published, string(serviceIDs), now.UTC().Format(timeLayout), now.UTC().Format(timeLayout))
	if err != nil {
		return 0, errors.DatabaseError("Failed to create status page", err)
	}

	return result.LastInsertId()
}

func (r *StatusPageRepository) GetByID(ctx context.Context, id int64) (*statuspage.Page, error) {
	query := `SELECT id, team_id, name, slug, published, service_ids, created_at, updated_at FROM status_pages WHERE id = ?`

	p, err := scanPage(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Status page")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get status page", err)
	}
	return p, nil
}

// GetBySlug is the public lookup; unpublished pages are invisible through it.
func (r *StatusPageRepository) GetBySlug(ctx context.Context, slug string) (*statuspage.Page, error) {
	query := `SELECT id, team_id, name, slug, published, service_ids, created_at, updated_at FROM status_pages WHERE slug = ? AND published = ?`

	p, err := scanPage(r.db.QueryRowContext(ctx, query, slug, true))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Status page")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get status page", err)
	}
	return p, nil
}

func (r *StatusPageRepository) Update(ctx context.Context, p *statuspage.Page) error {
	p.UpdatedAt = time.Now()

	serviceIDs, err := json.Marshal(p.ServiceIDs)
	if err != nil {
		return errors.Internal("Failed to encode page services", err)
	}

	query := `UPDATE status_pages SET name = ?, slug = ?, published = ?, service_ids = ?, updated_at = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, p.Name, p.Slug, p.Published, string(serviceIDs), p.UpdatedAt.UTC().Format(timeLayout), p.ID)
	if err != nil {
		return errors.DatabaseError("Failed to update status page", err)
	}

	rows, err := result.RowsAffected()
	if err != nil || rows == 0 {
		return errors.NotFound("Status page")
	}

	return nil
}

func (r *StatusPageRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM status_pages WHERE id = ?", id)
	if err != nil {
		return errors.DatabaseError("Failed to delete status page", err)
	}

	rows, err := result.RowsAffected()
	if err != nil || rows == 0 {
		return errors.NotFound("Status page")
	}

	return nil
}

func (r *StatusPageRepository) List(ctx context.Context, filter statuspage.Filter, limit, offset int) ([]*statuspage.Page, int64, error) {
	where := []string{"1 = 1"}
	args := []interface{}{}

	if filter.TeamID != 0 {
		where = append(where, "team_id = ?")
		args = append(args, filter.TeamID)
	}
	if filter.Published != nil {
		where = append(where, "published = ?")
		args = append(args, *filter.Published)
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	err := r.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM status_pages WHERE %s", whereClause), args...).Scan(&total)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to count status pages", err)
	}

	query := fmt.Sprintf(`SELECT id, team_id, name, slug, published, service_ids, created_at, updated_at FROM status_pages WHERE %s ORDER BY id DESC LIMIT ? OFFSET ?`, whereClause)

	args = append(args, limit, offset)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list status pages", err)
	}
	defer rows.Close()

	var pages []*statuspage.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, 0, errors.DatabaseError("Failed to scan status page", err)
		}
		pages = append(pages, p)
	}

	return pages, total, rows.Err()
}

func scanPage(row rowScanner) (*statuspage.Page, error) {
	var p statuspage.Page
	var serviceIDs, createdAt, updatedAt string

	err := row.Scan(&p.ID, &p.TeamID, &p.Name, &p.Slug, &p.Published, &serviceIDs, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(serviceIDs), &p.ServiceIDs); err != nil {
		return nil, err
	}
	p.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	p.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)

	return &p, nil
}
