package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/beaconhq/beacon/internal/domain/incident"
	"github.com/beaconhq/beacon/internal/pkg/errors"
)

type IncidentRepository struct {
	db *sql.DB
}

func NewIncidentRepository(db *sql.DB) incident.Repository {
	return &IncidentRepository{db: db}
}

const incidentColumns = `id, team_id, service_id, alert_id, escalation_policy_id, title, severity, status, summary, created_at, acknowledged_at, resolved_at`

func (r *IncidentRepository) Create(ctx context.Context, in *incident.Incident) (int64, error) {
	now := time.Now()
	in.CreatedAt = now
	if in.Status == "" {
		in.Status = incident.StatusTriggered
	}

	query := `INSERT INTO incidents (team_id, service_id, alert_id, escalation_policy_id, title, severity, status, summary, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, in.TeamID, in.ServiceID, in.AlertID, in.EscalationPolicyID, in.Title, in.Severity, in.Status, in.Summary, now.UTC().Format(timeLayout))
	if err != nil {
		return 0, errors.DatabaseError("Failed to create incident", err)
	}

	return result.LastInsertId()
}

func (r *IncidentRepository) GetByID(ctx context.Context, id int64) (*incident.Incident, error) {
	query := fmt.Sprintf(`SELECT %s FROM incidents WHERE id = ?`, incidentColumns)

	in, err := scanIncident(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Incident")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get incident", err)
	}
	return in, nil
}

func (r *IncidentRepository) Update(ctx context.Context, in *incident.Incident) error {
	var acknowledgedAt, resolvedAt interface{}
	if in.AcknowledgedAt != nil {
		acknowledgedAt = in.AcknowledgedAt.UTC().Format(timeLayout)
	}
	if in.ResolvedAt != nil {
		resolvedAt = in.ResolvedAt.UTC().Format(timeLayout)
	}

	query := `UPDATE incidents SET escalation_policy_id = ?, title = ?, severity = ?, status = ?, summary = ?, acknowledged_at = ?, resolved_at = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, in.EscalationPolicyID, in.Title, in.Severity, in.Status, in.Summary, acknowledgedAt, resolvedAt, in.ID)
	if err != nil {
		return errors.DatabaseError("Failed to update incident", err)
	}

	rows, err := result.RowsAffected()
	if err != nil || rows == 0 {
		return errors.NotFound("Incident")
	}

	return nil
}

func (r *IncidentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM incidents WHERE id = ?", id)
	if err != nil {
		return errors.DatabaseError("Failed to delete incident", err)
	}

	rows, err := result.RowsAffected()
	if err != nil || rows == 0 {
		return errors.NotFound("Incident")
	}

	return nil
}

func (r *IncidentRepository) List(ctx context.Context, filter incident.Filter, limit, offset int) ([]*incident.Incident, int64, error) {
	where := []string{"1 = 1"}
	args := []interface{}{}

	if filter.TeamID != 0 {
		where = append(where, "team_id = ?")
		args = append(args, filter.TeamID)
	}
	if filter.ServiceID != 0 {
		where = append(where, "service_id = ?")
		args = append(args, filter.ServiceID)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Severity != "" {
		where = append(where, "severity = ?")
		args = append(args, filter.Severity)
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	err := r.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM incidents WHERE %s", whereClause), args...).Scan(&total)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to count incidents", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM incidents WHERE %s ORDER BY id DESC LIMIT ? OFFSET ?`, incidentColumns, whereClause)

	args = append(args, limit, offset)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list incidents", err)
	}
	defer rows.Close()

	var incidents []*incident.Incident
	for rows.Next() {
		in, err := scanIncident(rows)
		if err != nil {
			return nil, 0, errors.DatabaseError("Failed to scan incident", err)
		}
		incidents = append(incidents, in)
	}

	return incidents, total, rows.Err()
}

func (r *IncidentRepository) ListRecentByServices(ctx context.Context, serviceIDs []int64, limit int) ([]*incident.Incident, error) {
	if len(serviceIDs) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(serviceIDs))
	args := make([]interface{}, 0, len(serviceIDs)+1)
	for i, id := range serviceIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}
	args = append(args, limit)

	query := fmt.Sprintf(`SELECT %s FROM incidents WHERE service_id IN (%s) ORDER BY id DESC LIMIT ?`, incidentColumns, strings.Join(placeholders, ", "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list incidents", err)
	}
	defer rows.Close()

	var incidents []*incident.Incident
	for rows.Next() {
		in, err := scanIncident(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan incident", err)
		}
		incidents = append(incidents, in)
	}

	return incidents, rows.Err()
}

func (r *IncidentRepository) CountByStatus(ctx context.Context, teamID int64) (map[string]int, error) {
	query := `SELECT status, COUNT(*) FROM incidents WHERE team_id = ? GROUP BY status`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to count incidents by status", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, errors.DatabaseError("Failed to scan count", err)
		}
		counts[status] = count
	}

	return counts, rows.Err()
}

func scanIncident(row rowScanner) (*incident.Incident, error) {
	var in incident.Incident
	var createdAt string
	var acknowledgedAt, resolvedAt sql.NullString

	err := row.Scan(&in.ID, &in.TeamID, &in.ServiceID, &in.AlertID, &in.EscalationPolicyID, &in.Title, &in.Severity, &in.Status, &in.Summary, &createdAt, &acknowledgedAt, &resolvedAt)
	if err != nil {
		return nil, err
	}

	in.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	if acknowledgedAt.Valid {
		t, _ := time.Parse(timeLayout, acknowledgedAt.String)
		in.AcknowledgedAt = &t
	}
	if resolvedAt.Valid {
		t, _ := time.Parse(timeLayout, resolvedAt.String)
		in.ResolvedAt = &t
	}

	return &in, nil
}
