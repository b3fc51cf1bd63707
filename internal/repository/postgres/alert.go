package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/beaconhq/beacon/internal/domain/alert"
	"github.com/beaconhq/beacon/internal/pkg/errors"
)

type AlertRepository struct {
	db *sql.DB
}

func NewAlertRepository(db *sql.DB) alert.Repository {
	return &AlertRepository{db: db}
}

const alertColumns = `id, integration_id, service_id, incident_id, fingerprint, severity, title, description, source, labels, tags, status, count, last_seen_at, created_at, resolved_at`

func (r *AlertRepository) Create(ctx context.Context, a *alert.Alert) (int64, error) {
	now := time.Now()
	a.CreatedAt = now
	if a.LastSeenAt.IsZero() {
		a.LastSeenAt = now
	}
	if a.Count == 0 {
		a.Count = 1
	}

	labels, err := json.Marshal(a.Labels)
	if err != nil {
		return 0, errors.Internal("Failed to encode alert labels", err)
	}
	tags, err := json.Marshal(a.Tags)
	if err != nil {
		return 0, errors.Internal("Failed to encode alert tags", err)
	}

	query := `INSERT INTO alerts (integration_id, service_id, incident_id, fingerprint, severity, title, description, source, labels, tags, status, count, last_seen_at, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, a.IntegrationID, a.ServiceID, a.IncidentID, a.Fingerprint, a.Severity, a.Title, a.Description, a.Source, string(labels), string(tags), a.Status, a.Count, a.LastSeenAt.UTC().Format(timeLayout), now.UTC().Format(timeLayout))
	if err != nil {
		return 0, errors.DatabaseError("Failed to create alert", err)
	}

	return result.LastInsertId()
}

func (r *AlertRepository) GetByID(ctx context.Context, id int64) (*alert.Alert, error) {
	query := fmt.Sprintf(`SELECT %s FROM alerts WHERE id = ?`, alertColumns)

	a, err := scanAlert(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Alert")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get alert", err)
	}
	return a, nil
}

func (r *AlertRepository) GetOpenByFingerprint(ctx context.Context, fingerprint string) (*alert.Alert, error) {
	query := fmt.Sprintf(`SELECT %s FROM alerts WHERE fingerprint = ? AND status IN (?, ?) ORDER BY id DESC LIMIT 1`, alertColumns)

	a, err := scanAlert(r.db.QueryRowContext(ctx, query, fingerprint, alert.StatusFiring, alert.StatusSuppressed))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Alert")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get alert", err)
	}
	return a, nil
}

func (r *AlertRepository) Update(ctx context.Context, a *alert.Alert) error {
	labels, err := json.Marshal(a.Labels)
	if err != nil {
		return errors.Internal("Failed to encode alert labels", err)
	}
	tags, err := json.Marshal(a.Tags)
	if err != nil {
		return errors.Internal("Failed to encode alert tags", err)
	}

	var resolvedAt interface{}
	if a.ResolvedAt != nil {
		resolvedAt = a.ResolvedAt.UTC().Format(timeLayout)
	}

	query := `UPDATE alerts SET incident_id = ?, severity = ?, title = ?, description = ?, source = ?, labels = ?, tags = ?, status = ?, count = ?, last_seen_at = ?, resolved_at = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, a.IncidentID, a.Severity, a.Title, a.Description, a.Source, string(labels), string(tags), a.Status, a.Count, a.LastSeenAt.UTC().Format(timeLayout), resolvedAt, a.ID)
	if err != nil {
		return errors.DatabaseError("Failed to update alert", err)
	}

	rows, err := result.RowsAffected()
	if err != nil || rows == 0 {
		return errors.NotFound("Alert")
	}

	return nil
}

func (r *AlertRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM alerts WHERE id = ?", id)
	if err != nil {
		return errors.DatabaseError("Failed to delete alert", err)
	}

	rows, err := result.RowsAffected()
	if err != nil || rows == 0 {
		return errors.NotFound("Alert")
	}

	return nil
}

func (r *AlertRepository) List(ctx context.Context, filter alert.Filter, limit, offset int) ([]*alert.Alert, int64, error) {
	where := []string{"1 = 1"}
	args := []interface{}{}

	if filter.ServiceID != 0 {
		where = append(where, "service_id = ?")
		args = append(args, filter.ServiceID)
	}
	if filter.Severity != "" {
		where = append(where, "severity = ?")
		args = append(args, filter.Severity)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Source != "" {
		where = append(where, "source = ?")
		args = append(args, filter.Source)
	}
	if filter.Fingerprint != "" {
		where = append(where, "fingerprint = ?")
		args = append(args, filter.Fingerprint)
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	err := r.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM alerts WHERE %s", whereClause), args...).Scan(&total)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to count alerts", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM alerts WHERE %s ORDER BY id DESC LIMIT ? OFFSET ?`, alertColumns, whereClause)

	args = append(args, limit, offset)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list alerts", err)
	}
	defer rows.Close()

	var alerts []*alert.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, 0, errors.DatabaseError("Failed to scan alert", err)
		}
		alerts = append(alerts, a)
	}

	return alerts, total, rows.Err()
}

func (r *AlertRepository) ResolveStale(ctx context.Context, cutoffUnix int64) (int64, error) {
	cutoff := time.Unix(cutoffUnix, 0).UTC().Format(timeLayout)
	now := time.Now().UTC().Format(timeLayout)

	result, err := r.db.ExecContext(ctx, "UPDATE alerts SET status = ?, resolved_at = ? WHERE status = ? AND last_seen_at < ?", alert.StatusResolved, now, alert.StatusFiring, cutoff)
	if err != nil {
		return 0, errors.DatabaseError("Failed to resolve stale alerts", err)
	}

	return result.RowsAffected()
}

func (r *AlertRepository) PurgeResolved(ctx context.Context, cutoffUnix int64) (int64, error) {
	cutoff := time.Unix(cutoffUnix, 0).UTC().Format(timeLayout)

	result, err := r.db.ExecContext(ctx, "DELETE FROM alerts WHERE status = ? AND resolved_at < ?", alert.StatusResolved, cutoff)
	if err != nil {
		return 0, errors.DatabaseError("Failed to purge resolved alerts", err)
	}

	return result.RowsAffected()
}

func scanAlert(row rowScanner) (*alert.Alert, error) {
	var a alert.Alert
	var labels, tags, lastSeenAt, createdAt string
	var resolvedAt sql.NullString

	err := row.Scan(&a.ID, &a.IntegrationID, &a.ServiceID, &a.IncidentID, &a.Fingerprint, &a.Severity, &a.Title, &a.Description, &a.Source, &labels, &tags, &a.Status, &a.Count, &lastSeenAt, &createdAt, &resolvedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(labels), &a.Labels); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &a.Tags); err != nil {
		return nil, err
	}
	a.LastSeenAt, _ = time.Parse(timeLayout, lastSeenAt)
	a.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	if resolvedAt.Valid {
		t, _ := time.Parse(timeLayout, resolvedAt.String)
		a.ResolvedAt = &t
	}

	return &a, nil
}
