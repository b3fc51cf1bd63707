package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/beaconhq/beacon/internal/domain/schedule"
	"github.com/beaconhq/beacon/internal/pkg/errors"
)

type ScheduleRepository struct {
	db *sql.DB
}

func NewScheduleRepository(db *sql.DB) schedule.Repository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) Create(ctx context.Context, s *schedule.Schedule) (int64, error) {
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now

	layers, err := json.Marshal(s.Layers)
	if err != nil {
		return 0, errors.Internal("Failed to encode schedule layers", err)
	}

	query := `INSERT INTO schedules (team_id, name, timezone, layers, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, s.TeamID, s.Name, s.Timezone, string(layers), now.UTC().Format(timeLayout), now.UTC().Format(timeLayout))
	if err != nil {
		return 0, errors.DatabaseError("Failed to create schedule", err)
	}

	return result.LastInsertId()
}

func (r *ScheduleRepository) GetByID(ctx context.Context, id int64) (*schedule.Schedule, error) {
	query := `SELECT id, team_id, name, timezone, layers, created_at, updated_at FROM schedules WHERE id = ?`

	s, err := scanSchedule(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Schedule")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get schedule", err)
	}
	return s, nil
}

func (r *ScheduleRepository) Update(ctx context.Context, s *schedule.Schedule) error {
	s.UpdatedAt = time.Now()

	layers, err := json.Marshal(s.Layers)
	if err != nil {
		return errors.Internal("Failed to encode schedule layers", err)
	}

	query := `UPDATE schedules SET name = ?, timezone = ?, layers = ?, updated_at = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, s.Name, s.Timezone, string(layers), s.UpdatedAt.UTC().Format(timeLayout), s.ID)
	if err != nil {
		return errors.DatabaseError("Failed to update schedule", err)
	}

	rows, err := result.RowsAffected()
	if err != nil || rows == 0 {
		return errors.NotFound("Schedule")
	}

	return nil
}

func (r *ScheduleRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM schedules WHERE id = ?", id)
	if err != nil {
		return errors.DatabaseError("Failed to delete schedule", err)
	}

	rows, err := result.RowsAffected()
	if err != nil || rows == 0 {
		return errors.NotFound("Schedule")
	}

	return nil
}

func (r *ScheduleRepository) List(ctx context.Context, filter schedule.Filter, limit, offset int) ([]*schedule.Schedule, int64, error) {
	where := []string{"1 = 1"}
	args := []interface{}{}

	if filter.TeamID != 0 {
		where = append(where, "team_id = ?")
		args = append(args, filter.TeamID)
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	err := r.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM schedules WHERE %s", whereClause), args...).Scan(&total)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to count schedules", err)
	}

	query := fmt.Sprintf(`SELECT id, team_id, name, timezone, layers, created_at, updated_at FROM schedules WHERE %s ORDER BY id DESC LIMIT ? OFFSET ?`, whereClause)

	args = append(args, limit, offset)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list schedules", err)
	}
	defer rows.Close()

	var schedules []*schedule.Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, 0, errors.DatabaseError("Failed to scan schedule", err)
		}
		schedules = append(schedules, s)
	}

	return schedules, total, rows.Err()
}

func scanSchedule(row rowScanner) (*schedule.Schedule, error) {
	var s schedule.Schedule
	var layers, createdAt, updatedAt string

	err := row.Scan(&s.ID, &s.TeamID, &s.Name, &s.Timezone, &layers, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(layers), &s.Layers); err != nil {
		return nil, err
	}
	s.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	s.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)

	return &s, nil
}
