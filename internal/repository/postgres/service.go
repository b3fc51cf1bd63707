package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/beaconhq/beacon/internal/domain/service"
	"github.com/beaconhq/beacon/internal/pkg/errors"
)

type ServiceRepository struct {
	db *sql.DB
}

func NewServiceRepository(db *sql.DB) service.Repository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) Create(ctx context.Context, s *service.Service) (int64, error) {
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
	if s.Status == "" {
		s.Status = service.StatusOperational
	}

	query := `INSERT INTO services (team_id, name, description, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, s.TeamID, s.Name, s.Description, s.Status, now.UTC().Format(timeLayout), now.UTC().Format(timeLayout))
	if err != nil {
		return 0, errors.DatabaseError("Failed to create service", err)
	}

	return result.LastInsertId()
}

func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*service.Service, error) {
	query := `SELECT id, team_id, name, description, status, created_at, updated_at FROM services WHERE id = ?`

	var s service.Service
	var createdAt, updatedAt string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.TeamID, &s.Name, &s.Description, &s.Status, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Service")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get service", err)
	}

	s.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	s.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
	return &s, nil
}

func (r *ServiceRepository) Update(ctx context.Context, s *service.Service) error {
	s.UpdatedAt = time.Now()
	query := `UPDATE services SET name = ?, description = ?, status = ?, updated_at = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, s.Name, s.Description, s.Status, s.UpdatedAt.UTC().Format(timeLayout), s.ID)
	if err != nil {
		return errors.DatabaseError("Failed to update service", err)
	}

	rows, err := result.RowsAffected()
	if err != nil || rows == 0 {
		return errors.NotFound("Service")
	}

	return nil
}

func (r *ServiceRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM services WHERE id = ?", id)
	if err != nil {
		return errors.DatabaseError("Failed to delete service", err)
	}

	rows, err := result.RowsAffected()
	if err != nil || rows == 0 {
		return errors.NotFound("Service")
	}

	return nil
}

func (r *ServiceRepository) List(ctx context.Context, filter service.Filter, limit, offset int) ([]*service.Service, int64, error) {
	where := []string{"1 = 1"}
	args := []interface{}{}

	if filter.TeamID != 0 {
		where = append(where, "team_id = ?")
		args = append(args, filter.TeamID)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	err := r.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM services WHERE %s", whereClause), args...).Scan(&total)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to count services", err)
	}

	query := fmt.Sprintf(`SELECT id, team_id, name, description, status, created_at, updated_at FROM services WHERE %s ORDER BY id DESC LIMIT ? OFFSET ?`, whereClause)

	args = append(args, limit, offset)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list services", err)
	}
	defer rows.Close()

	services, err := scanServices(rows)
	if err != nil {
		return nil, 0, err
	}
	return services, total, rows.Err()
}

func (r *ServiceRepository) ListByIDs(ctx context.Context, ids []int64) ([]*service.Service, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`SELECT id, team_id, name, description, status, created_at, updated_at FROM services WHERE id IN (%s) ORDER BY name`, strings.Join(placeholders, ", "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list services", err)
	}
	defer rows.Close()

	services, err := scanServices(rows)
	if err != nil {
		return nil, err
	}
	return services, rows.Err()
}

func scanServices(rows *sql.Rows) ([]*service.Service, error) {
	var services []*service.Service
	for rows.Next() {
		var s service.Service
		var createdAt, updatedAt string
		if err := rows.Scan(&s.ID, &s.TeamID, &s.Name, &s.Description, &s.Status, &createdAt, &updatedAt); err != nil {
			return nil, errors.DatabaseError("Failed to scan service", err)
		}
		s.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		s.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
		services = append(services, &s)
	}
	return services, nil
}
