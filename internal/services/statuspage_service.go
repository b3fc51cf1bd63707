package services

import (
	"context"

	"github.com/beaconhq/beacon/internal/domain/statuspage"
	"github.com/beaconhq/beacon/internal/pkg/errors"
	"github.com/beaconhq/beacon/internal/pkg/logger"
)

// StatusPageService implements statuspage.Service
type StatusPageService struct {
	repo   statuspage.Repository
	logger *logger.Logger
}

// NewStatusPageService creates a new status page service
func NewStatusPageService(repo statuspage.Repository, log *logger.Logger) statuspage.Service {
	return &StatusPageService{
		repo:   repo,
		logger: log,
	}
}

// Create creates a new page
func (s *StatusPageService) Create(ctx context.Context, p *statuspage.Page) (int64, error) {
	if p.Name == "" {
		return 0, errors.BadRequest("Page name is required")
	}
	if p.TeamID == 0 {
		return 0, errors.BadRequest("Page team is required")
	}
	if p.Slug == "" {
		p.Slug = slugify(p.Name)
	}

	id, err := s.repo.Create(ctx, p)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to create status page")
		return 0, err
	}

	s.logger.WithFields(map[string]interface{}{
		"page_id": id,
		"slug":    p.Slug,
	}).Info("Status page created")

	return id, nil
}

// GetByID retrieves a page by ID
func (s *StatusPageService) GetByID(ctx context.Context, id int64) (*statuspage.Page, error) {
	return s.repo.GetByID(ctx, id)
}

// Update updates a page
func (s *StatusPageService) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if name, ok := updates["name"].(string); ok && name != "" {
		p.Name = name
	}
	if serviceIDs, ok := updates["service_ids"].([]int64); ok {
		p.ServiceIDs = serviceIDs
	}

	if err := s.repo.Update(ctx, p); err != nil {
		s.logger.ErrorWithErr(err, "Failed to update status page")
		return err
	}

	return nil
}

// Publish toggles a page's published flag
func (s *StatusPageService) Publish(ctx context.Context, id int64, published bool) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	p.Published = published
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"page_id":   id,
		"published": published,
	}).Info("Status page publication changed")

	return nil
}

// Delete deletes a page
func (s *StatusPageService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// List retrieves pages with filters and pagination
func (s *StatusPageService) List(ctx context.Context, filter statuspage.Filter, limit, offset int) ([]*statuspage.Page, int64, error) {
	return s.repo.List(ctx, filter, limit, offset)
}
