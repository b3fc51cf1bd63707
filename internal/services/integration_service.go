package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/beaconhq/beacon/internal/domain/integration"
	"github.com/beaconhq/beacon/internal/pkg/errors"
	"github.com/beaconhq/beacon/internal/pkg/logger"
)

// IntegrationService implements integration.Service
type IntegrationService struct {
	repo   integration.Repository
	logger *logger.Logger
}

// NewIntegrationService creates a new integration service
func NewIntegrationService(repo integration.Repository, log *logger.Logger) integration.Service {
	return &IntegrationService{
		repo:   repo,
		logger: log,
	}
}

// Create creates a new integration with a generated routing key
func (s *IntegrationService) Create(ctx context.Context, in *integration.Integration) (int64, error) {
	if in.Name == "" {
		return 0, errors.BadRequest("Integration name is required")
	}
	if in.ServiceID == 0 {
		return 0, errors.BadRequest("Integration service is required")
	}
	if in.Type == "" {
		in.Type = integration.TypeWebhook
	}

	in.RoutingKey = newRoutingKey()
	in.Enabled = true

	id, err := s.repo.Create(ctx, in)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to create integration")
		return 0, err
	}

	s.logger.WithFields(map[string]interface{}{
		"integration_id": id,
		"service_id":     in.ServiceID,
		"type":           in.Type,
	}).Info("Integration created")

	return id, nil
}

// GetByID retrieves an integration by ID
func (s *IntegrationService) GetByID(ctx context.Context, id int64) (*integration.Integration, error) {
	return s.repo.GetByID(ctx, id)
}

// ResolveKey resolves a routing key to an enabled integration
func (s *IntegrationService) ResolveKey(ctx context.Context, key string) (*integration.Integration, error) {
	return s.repo.GetByRoutingKey(ctx, key)
}

// Update updates an integration
func (s *IntegrationService) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	in, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if name, ok := updates["name"].(string); ok && name != "" {
		in.Name = name
	}
	if enabled, ok := updates["enabled"].(bool); ok {
		in.Enabled = enabled
	}

	if err := s.repo.Update(ctx, in); err != nil {
		s.logger.ErrorWithErr(err, "Failed to update integration")
		return err
	}

	return nil
}

// RotateKey replaces an integration's routing key. The old key stops
// resolving immediately.
func (s *IntegrationService) RotateKey(ctx context.Context, id int64) (string, error) {
	in, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	in.RoutingKey = newRoutingKey()
	if err := s.repo.Update(ctx, in); err != nil {
		return "", err
	}

	s.logger.WithFields(map[string]interface{}{
		"integration_id": id,
	}).Info("Integration routing key rotated")

	return in.RoutingKey, nil
}

// Delete deletes an integration
func (s *IntegrationService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// List retrieves integrations with filters and pagination
func (s *IntegrationService) List(ctx context.Context, filter integration.Filter, limit, offset int) ([]*integration.Integration, int64, error) {
	return s.repo.List(ctx, filter, limit, offset)
}

func newRoutingKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
