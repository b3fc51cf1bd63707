package services

import (
	"context"
	"time"

	"github.com/beaconhq/beacon/internal/domain/schedule"
	"github.com/beaconhq/beacon/internal/pkg/errors"
	"github.com/beaconhq/beacon/internal/pkg/logger"
)

// ScheduleService implements schedule.Service
type ScheduleService struct {
	repo   schedule.Repository
	logger *logger.Logger
}

// NewScheduleService creates a new schedule service
func NewScheduleService(repo schedule.Repository, log *logger.Logger) schedule.Service {
	return &ScheduleService{
		repo:   repo,
		logger: log,
	}
}

// Create creates a new schedule
func (s *ScheduleService) Create(ctx context.Context, sc *schedule.Schedule) (int64, error) {
	if sc.Name == "" {
		return 0, errors.BadRequest("Schedule name is required")
	}
	if sc.TeamID == 0 {
		return 0, errors.BadRequest("Schedule team is required")
	}
	if sc.Timezone == "" {
		sc.Timezone = "UTC"
	}
	if _, err := time.LoadLocation(sc.Timezone); err != nil {
		return 0, errors.BadRequest("Unknown timezone")
	}

	id, err := s.repo.Create(ctx, sc)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to create schedule")
		return 0, err
	}

	s.logger.WithFields(map[string]interface{}{
		"schedule_id": id,
		"team_id":     sc.TeamID,
	}).Info("Schedule created")

	return id, nil
}

// GetByID retrieves a schedule by ID
func (s *ScheduleService) GetByID(ctx context.Context, id int64) (*schedule.Schedule, error) {
	return s.repo.GetByID(ctx, id)
}

// Update updates a schedule
func (s *ScheduleService) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	sc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if name, ok := updates["name"].(string); ok && name != "" {
		sc.Name = name
	}
	if tz, ok := updates["timezone"].(string); ok && tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			return errors.BadRequest("Unknown timezone")
		}
		sc.Timezone = tz
	}
	if layers, ok := updates["layers"].([]schedule.Layer); ok {
		sc.Layers = layers
	}

	if err := s.repo.Update(ctx, sc); err != nil {
		s.logger.ErrorWithErr(err, "Failed to update schedule")
		return err
	}

	return nil
}

// Delete deletes a schedule
func (s *ScheduleService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// List retrieves schedules with filters and pagination
func (s *ScheduleService) List(ctx context.Context, filter schedule.Filter, limit, offset int) ([]*schedule.Schedule, int64, error) {
	return s.repo.List(ctx, filter, limit, offset)
}
