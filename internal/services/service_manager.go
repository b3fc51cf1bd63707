package services

import (
	"context"
	"fmt"

	"github.com/beaconhq/beacon/internal/domain/service"
	"github.com/beaconhq/beacon/internal/pkg/errors"
	"github.com/beaconhq/beacon/internal/pkg/logger"
)

// ServiceManager implements service.Manager
type ServiceManager struct {
	repo   service.Repository
	logger *logger.Logger
}

// NewServiceManager creates a new service manager
func NewServiceManager(repo service.Repository, log *logger.Logger) service.Manager {
	return &ServiceManager{
		repo:   repo,
		logger: log,
	}
}

// Create creates a new service
func (s *ServiceManager) Create(ctx context.Context, svc *service.Service) (int64, error) {
	if svc.Name == "" {
		return 0, errors.BadRequest("Service name is required")
	}
	if svc.TeamID == 0 {
		return 0, errors.BadRequest("Service team is required")
	}
	if svc.Status == "" {
		svc.Status = service.StatusOperational
	}

	id, err := s.repo.Create(ctx, svc)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to create service")
		return 0, err
	}

	s.logger.WithFields(map[string]interface{}{
		"service_id": id,
		"team_id":    svc.TeamID,
	}).Info("Service created")

	return id, nil
}

// GetByID retrieves a service by ID
func (s *ServiceManager) GetByID(ctx context.Context, id int64) (*service.Service, error) {
	return s.repo.GetByID(ctx, id)
}

// Update updates a service
func (s *ServiceManager) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	svc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if name, ok := updates["name"].(string); ok && name != "" {
		svc.Name = name
	}
	if description, ok := updates["description"].(string); ok {
		svc.Description = description
	}
	if status, ok := updates["status"].(string); ok && status != "" {
		if !validServiceStatus(status) {
			return errors.BadRequest(fmt.Sprintf("Unknown service status %q", status))
		}
		svc.Status = status
	}

	if err := s.repo.Update(ctx, svc); err != nil {
		s.logger.ErrorWithErr(err, "Failed to update service")
		return err
	}

	return nil
}

// UpdateStatus updates a service's operational status
func (s *ServiceManager) UpdateStatus(ctx context.Context, id int64, status string) error {
	if !validServiceStatus(status) {
		return errors.BadRequest(fmt.Sprintf("Unknown service status %q", status))
	}

	svc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	svc.Status = status
	if err := s.repo.Update(ctx, svc); err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"service_id": id,
		"status":     status,
	}).Info("Service status updated")

	return nil
}

// Delete deletes a service
func (s *ServiceManager) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// List retrieves services with filters and pagination
func (s *ServiceManager) List(ctx context.Context, filter service.Filter, limit, offset int) ([]*service.Service, int64, error) {
	return s.repo.List(ctx, filter, limit, offset)
}

func validServiceStatus(status string) bool {
	switch status {
	case service.StatusOperational, service.StatusDegraded, service.StatusPartialOutage, service.StatusMajorOutage, service.StatusMaintenance:
		return true
	}
	return false
}
