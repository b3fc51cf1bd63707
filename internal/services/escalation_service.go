package services

import (
	"context"

	"github.com/beaconhq/beacon/internal/domain/escalation"
	"github.com/beaconhq/beacon/internal/pkg/errors"
	"github.com/beaconhq/beacon/internal/pkg/logger"
)

// EscalationService implements escalation.Service
type EscalationService struct {
	repo   escalation.Repository
	logger *logger.Logger
}

// NewEscalationService creates a new escalation service
func NewEscalationService(repo escalation.Repository, log *logger.Logger) escalation.Service {
	return &EscalationService{
		repo:   repo,
		logger: log,
	}
}

// Create creates a new policy
func (s *EscalationService) Create(ctx context.Context, p *escalation.Policy) (int64, error) {
	if p.Name == "" {
		return 0, errors.BadRequest("Policy name is required")
	}
	if p.TeamID == 0 {
		return 0, errors.BadRequest("Policy team is required")
	}
	if len(p.Steps) == 0 {
		return 0, errors.BadRequest("Policy needs at least one step")
	}
	for _, step := range p.Steps {
		for _, target := range step.Targets {
			if target.Type != escalation.TargetUser && target.Type != escalation.TargetSchedule {
				return 0, errors.BadRequest("Step targets must be users or schedules")
			}
		}
	}

	id, err := s.repo.Create(ctx, p)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to create escalation policy")
		return 0, err
	}

	s.logger.WithFields(map[string]interface{}{
		"policy_id": id,
		"team_id":   p.TeamID,
		"steps":     len(p.Steps),
	}).Info("Escalation policy created")

	return id, nil
}

// GetByID retrieves a policy by ID
func (s *EscalationService) GetByID(ctx context.Context, id int64) (*escalation.Policy, error) {
	return s.repo.GetByID(ctx, id)
}

// Update updates a policy
func (s *EscalationService) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if name, ok := updates["name"].(string); ok && name != "" {
		p.Name = name
	}
	if description, ok := updates["description"].(string); ok {
		p.Description = description
	}
	if steps, ok := updates["steps"].([]escalation.Step); ok && len(steps) > 0 {
		p.Steps = steps
	}
	if repeatCount, ok := updates["repeat_count"].(int); ok {
		p.RepeatCount = repeatCount
	}

	if err := s.repo.Update(ctx, p); err != nil {
		s.logger.ErrorWithErr(err, "Failed to update escalation policy")
		return err
	}

	return nil
}

// Delete deletes a policy
func (s *EscalationService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// List retrieves policies with filters and pagination
func (s *EscalationService) List(ctx context.Context, filter escalation.Filter, limit, offset int) ([]*escalation.Policy, int64, error) {
	return s.repo.List(ctx, filter, limit, offset)
}
