package services

import (
	"context"
	"strings"

	"github.com/beaconhq/beacon/internal/domain/team"
	"github.com/beaconhq/beacon/internal/pkg/errors"
	"github.com/beaconhq/beacon/internal/pkg/logger"
)

// TeamService implements team.Service
type TeamService struct {
	repo   team.Repository
	logger *logger.Logger
}

// NewTeamService creates a new team service
func NewTeamService(repo team.Repository, log *logger.Logger) team.Service {
	return &TeamService{
		repo:   repo,
		logger: log,
	}
}

// Create creates a new team
func (s *TeamService) Create(ctx context.Context, t *team.Team) (int64, error) {
	if t.Name == "" {
		return 0, errors.BadRequest("Team name is required")
	}
	if t.Slug == "" {
		t.Slug = slugify(t.Name)
	}

	if _, err := s.repo.GetBySlug(ctx, t.Slug); err == nil {
		return 0, errors.Conflict("Team slug already in use")
	} else if !errors.IsNotFound(err) {
		return 0, err
	}

	id, err := s.repo.Create(ctx, t)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to create team")
		return 0, err
	}

	s.logger.WithFields(map[string]interface{}{
		"team_id": id,
		"slug":    t.Slug,
	}).Info("Team created")

	return id, nil
}

// GetByID retrieves a team by ID
func (s *TeamService) GetByID(ctx context.Context, id int64) (*team.Team, error) {
	return s.repo.GetByID(ctx, id)
}

// Update updates a team
func (s *TeamService) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if name, ok := updates["name"].(string); ok && name != "" {
		t.Name = name
	}
	if description, ok := updates["description"].(string); ok {
		t.Description = description
	}

	if err := s.repo.Update(ctx, t); err != nil {
		s.logger.ErrorWithErr(err, "Failed to update team")
		return err
	}

	return nil
}

// Delete deletes a team
func (s *TeamService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"team_id": id,
	}).Info("Team deleted")

	return nil
}

// List retrieves teams with pagination
func (s *TeamService) List(ctx context.Context, filter team.Filter, limit, offset int) ([]*team.Team, int64, error) {
	return s.repo.List(ctx, filter, limit, offset)
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "-")
	var b strings.Builder
	for _, r := range slug {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-")
}
