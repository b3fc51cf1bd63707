package services

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/beaconhq/beacon/internal/domain/incident"
	"github.com/beaconhq/beacon/internal/pkg/errors"
	"github.com/beaconhq/beacon/internal/pkg/logger"
)

// IncidentService implements incident.Service
type IncidentService struct {
	repo    incident.Repository
	ai      *openai.Client
	aiModel string
	logger  *logger.Logger
}

// NewIncidentService creates a new incident service. The OpenAI client may
// be nil; GenerateSummary then reports the feature as unavailable.
func NewIncidentService(repo incident.Repository, ai *openai.Client, aiModel string, log *logger.Logger) incident.Service {
	return &IncidentService{
		repo:    repo,
		ai:      ai,
		aiModel: aiModel,
		logger:  log,
	}
}

// Create creates a new incident
func (s *IncidentService) Create(ctx context.Context, in *incident.Incident) (int64, error) {
	if in.Title == "" {
		return 0, errors.BadRequest("Incident title is required")
	}
	if in.Status == "" {
		in.Status = incident.StatusTriggered
	}

	id, err := s.repo.Create(ctx, in)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to create incident")
		return 0, err
	}

	s.logger.WithFields(map[string]interface{}{
		"incident_id": id,
		"team_id":     in.TeamID,
		"service_id":  in.ServiceID,
		"severity":    in.Severity,
	}).Info("Incident created")

	return id, nil
}

// GetByID retrieves an incident by ID
func (s *IncidentService) GetByID(ctx context.Context, id int64) (*incident.Incident, error) {
	return s.repo.GetByID(ctx, id)
}

// Acknowledge moves a triggered incident to acknowledged
func (s *IncidentService) Acknowledge(ctx context.Context, id int64) error {
	in, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if in.Status == incident.StatusResolved {
		return errors.Conflict("Incident is already resolved")
	}
	if in.Status == incident.StatusAcknowledged {
		return nil
	}

	now := time.Now()
	in.Status = incident.StatusAcknowledged
	in.AcknowledgedAt = &now

	if err := s.repo.Update(ctx, in); err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"incident_id": id,
	}).Info("Incident acknowledged")

	return nil
}

// Resolve moves an incident to resolved
func (s *IncidentService) Resolve(ctx context.Context, id int64) error {
	in, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if in.Status == incident.StatusResolved {
		return nil
	}

	now := time.Now()
	in.Status = incident.StatusResolved
	in.ResolvedAt = &now

	if err := s.repo.Update(ctx, in); err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"incident_id": id,
	}).Info("Incident resolved")

	return nil
}

// List retrieves incidents with filters and pagination
func (s *IncidentService) List(ctx context.Context, filter incident.Filter, limit, offset int) ([]*incident.Incident, int64, error) {
	return s.repo.List(ctx, filter, limit, offset)
}

// GetSummary gets incident counts by status for a team
func (s *IncidentService) GetSummary(ctx context.Context, teamID int64) (map[string]int, error) {
	return s.repo.CountByStatus(ctx, teamID)
}

// GenerateSummary drafts a short incident summary with the configured
// model and stores it on the incident.
func (s *IncidentService) GenerateSummary(ctx context.Context, id int64) (string, error) {
	if s.ai == nil {
		return "", errors.BadRequest("Summary generation is not configured")
	}

	in, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(
		"Write a two-sentence status update for this incident.\nTitle: %s\nSeverity: %s\nStatus: %s\nOpened: %s",
		in.Title, in.Severity, in.Status, in.CreatedAt.Format(time.RFC3339),
	)

	resp, err := s.ai.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.aiModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an incident communications assistant. Be factual and brief.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to generate incident summary")
		return "", errors.Internal("Failed to generate summary", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.Internal("Summary generation returned no content", nil)
	}

	summary := resp.Choices[0].Message.Content
	in.Summary = summary
	if err := s.repo.Update(ctx, in); err != nil {
		return "", err
	}

	return summary, nil
}

// Delete deletes an incident
func (s *IncidentService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
