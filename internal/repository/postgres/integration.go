package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/beaconhq/beacon/internal/domain/integration"
	"github.com/beaconhq/beacon/internal/pkg/errors"
)

type IntegrationRepository struct {
	db *sql.DB
}

func NewIntegrationRepository(db *sql.DB) integration.Repository {
	return &IntegrationRepository{db: db}
}

func (r *IntegrationRepository) Create(ctx context.Context, in *integration.Integration) (int64, error) {
	now := time.Now()
	in.CreatedAt = now
	in.UpdatedAt = now

	query := `INSERT INTO integrations (service_id, name, type, routing_key, enabled, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, in.ServiceID, in.Name, in.Type, in.RoutingKey, in.Enabled, now.UTC().Format(timeLayout), now.UTC().Format(timeLayout))
	if err != nil {
		return 0, errors.DatabaseError("Failed to create integration", err)
	}

	return result.LastInsertId()
}

func (r *IntegrationRepository) GetByID(ctx context.Context, id int64) (*integration.Integration, error) {
	query := `SELECT id, service_id, name, type, routing_key, enabled, created_at, updated_at FROM integrations WHERE id = ?`
	return r.getOne(ctx, query, id)
}

// GetByRoutingKey only resolves enabled integrations; a disabled routing key
// behaves exactly like an unknown one.
func (r *IntegrationRepository) GetByRoutingKey(ctx context.Context, key string) (*integration.Integration, error) {
	query := `SELECT id, service_id, name, type, routing_key, enabled, created_at, updated_at FROM integrations WHERE routing_key = ? AND enabled = ?`
	return r.getOne(ctx, query, key, true)
}

func (r *IntegrationRepository) getOne(ctx context.Context, query string, args ...interface{}) (*integration.Integration, error) {
	var in integration.Integration
	var createdAt, updatedAt string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&in.ID, &in.ServiceID, &in.Name, &in.Type, &in.RoutingKey, &in.Enabled, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Integration")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get integration", err)
	}

	in.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	in.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
	return &in, nil
}

func (r *IntegrationRepository) Update(ctx context.Context, in *integration.Integration) error {
	in.UpdatedAt = time.Now()
	query := `UPDATE integrations SET name = ?, type = ?, routing_key = ?, enabled = ?, updated_at = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, in.Name, in.Type, in.RoutingKey, in.Enabled, in.UpdatedAt.UTC().Format(timeLayout), in.ID)
	if err != nil {
		return errors.DatabaseError("Failed to update integration", err)
	}

	rows, err := result.RowsAffected()
	if err != nil || rows == 0 {
		return errors.NotFound("Integration")
	}

	return nil
}

func (r *IntegrationRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM integrations WHERE id = ?", id)
	if err != nil {
		return errors.DatabaseError("Failed to delete integration", err)
	}

	rows, err := result.RowsAffected()
	if err != nil || rows == 0 {
		return errors.NotFound("Integration")
	}

	return nil
}

func (r *IntegrationRepository) List(ctx context.Context, filter integration.Filter, limit, offset int) ([]*integration.Integration, int64, error) {
	where := []string{"1 = 1"}
	args := []interface{}{}

	if filter.ServiceID != 0 {
		where = append(where, "service_id = ?")
		args = append(args, filter.ServiceID)
	}
	if filter.Type != "" {
		where = append(where, "type = ?")
		args = append(args, filter.Type)
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	err := r.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM integrations WHERE %s", whereClause), args...).Scan(&total)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to count integrations", err)
	}

	query := fmt.Sprintf(`SELECT id, service_id, name, type, routing_key, enabled, created_at, updated_at FROM integrations WHERE %s ORDER BY id DESC LIMIT ? OFFSET ?`, whereClause)

	args = append(args, limit, offset)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list integrations", err)
	}
	defer rows.Close()

	var integrations []*integration.Integration
	for rows.Next() {
		var in integration.Integration
		var createdAt, updatedAt string
		if err := rows.Scan(&in.ID, &in.ServiceID, &in.Name, &in.Type, &in.RoutingKey, &in.Enabled, &createdAt, &updatedAt); err != nil {
			return nil, 0, errors.DatabaseError("Failed to scan integration", err)
		}
		in.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		in.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
		integrations = append(integrations, &in)
	}

	return integrations, total, rows.Err()
}
