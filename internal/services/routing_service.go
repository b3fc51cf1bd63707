package services

import (
	"context"

	"github.com/beaconhq/beacon/internal/domain/alert"
	"github.com/beaconhq/beacon/internal/domain/routing"
	"github.com/beaconhq/beacon/internal/engine"
	"github.com/beaconhq/beacon/internal/pkg/errors"
	"github.com/beaconhq/beacon/internal/pkg/logger"
)

// RoutingService implements routing.Service
type RoutingService struct {
	repo   routing.Repository
	engine *engine.Engine
	logger *logger.Logger
}

// NewRoutingService creates a new routing service
func NewRoutingService(repo routing.Repository, eng *engine.Engine, log *logger.Logger) routing.Service {
	return &RoutingService{
		repo:   repo,
		engine: eng,
		logger: log,
	}
}

// Create creates a new rule
func (s *RoutingService) Create(ctx context.Context, r *routing.Rule) (int64, error) {
	if r.Name == "" {
		return 0, errors.BadRequest("Rule name is required")
	}
	if r.TeamID == 0 {
		return 0, errors.BadRequest("Rule team is required")
	}

	id, err := s.repo.Create(ctx, r)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to create routing rule")
		return 0, err
	}

	s.logger.WithFields(map[string]interface{}{
		"rule_id":  id,
		"team_id":  r.TeamID,
		"priority": r.Priority,
	}).Info("Routing rule created")

	return id, nil
}

// GetByID retrieves a rule by ID
func (s *RoutingService) GetByID(ctx context.Context, id int64) (*routing.Rule, error) {
	return s.repo.GetByID(ctx, id)
}

// Update applies a partial update to a rule. Nil patch fields leave the
// stored value unchanged.
func (s *RoutingService) Update(ctx context.Context, id int64, patch *routing.RulePatch) error {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return errors.BadRequest("Rule name cannot be empty")
		}
		r.Name = *patch.Name
	}
	if patch.Description != nil {
		r.Description = *patch.Description
	}
	if patch.Priority != nil {
		r.Priority = *patch.Priority
	}
	if patch.Enabled != nil {
		r.Enabled = *patch.Enabled
	}
	if patch.Conditions != nil {
		r.Conditions = *patch.Conditions
	}
	if patch.Actions != nil {
		r.Actions = *patch.Actions
	}

	if err := s.repo.Update(ctx, r); err != nil {
		s.logger.ErrorWithErr(err, "Failed to update routing rule")
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"rule_id": id,
	}).Info("Routing rule updated")

	return nil
}

// UpdatePriority changes only a rule's priority
func (s *RoutingService) UpdatePriority(ctx context.Context, id int64, priority int) error {
	return s.Update(ctx, id, &routing.RulePatch{Priority: &priority})
}

// Delete deletes a rule
func (s *RoutingService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"rule_id": id,
	}).Info("Routing rule deleted")

	return nil
}

// FindByTeam retrieves all rules for a team, priority descending
func (s *RoutingService) FindByTeam(ctx context.Context, teamID int64) ([]*routing.Rule, error) {
	return s.repo.ListByTeam(ctx, teamID)
}

// GetMatchesByRule retrieves the most recent match audit records
func (s *RoutingService) GetMatchesByRule(ctx context.Context, ruleID int64, limit int) ([]*routing.Match, error) {
	if _, err := s.repo.GetByID(ctx, ruleID); err != nil {
		return nil, err
	}
	return s.repo.ListMatchesByRule(ctx, ruleID, limit)
}

// Evaluate runs the routing engine for an alert owned by teamID
func (s *RoutingService) Evaluate(ctx context.Context, a *alert.Alert, teamID int64) (*routing.Evaluation, error) {
	return s.engine.Evaluate(ctx, a, teamID)
}

// TestRule dry-runs a condition document against a sample alert
func (s *RoutingService) TestRule(conditions routing.Conditions, sample *alert.Alert) routing.TestResult {
	return s.engine.TestRule(conditions, sample)
}
