package dto

import (
	"time"

	"github.com/beaconhq/beacon/internal/domain/alert"
)

// AlertDTO represents an alert in API responses
type AlertDTO struct {
	ID            int64             `json:"id"`
	IntegrationID int64             `json:"integrationId"`
	ServiceID     int64             `json:"serviceId"`
	IncidentID    *int64            `json:"incidentId,omitempty"`
	Fingerprint   string            `json:"fingerprint"`
	Severity      string            `json:"severity"`
	Title         string            `json:"title"`
	Description   string            `json:"description,omitempty"`
	Source        string            `json:"source,omitempty"`
	Labels        map[string]string `json:"labels,omitempty"`
	Tags          []string          `json:"tags,omitempty"`
	Status        string            `json:"status"`
	Count         int               `json:"count"`
	LastSeenAt    time.Time         `json:"lastSeenAt"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// NewAlertDTO converts an alert to its API representation
func NewAlertDTO(a *alert.Alert) AlertDTO {
	return AlertDTO{
		ID:            a.ID,
		IntegrationID: a.IntegrationID,
		ServiceID:     a.ServiceID,
		IncidentID:    a.IncidentID,
		Fingerprint:   a.Fingerprint,
		Severity:      a.Severity,
		Title:         a.Title,
		Description:   a.Description,
		Source:        a.Source,
		Labels:        a.Labels,
		Tags:          a.Tags,
		Status:        a.Status,
		Count:         a.Count,
		LastSeenAt:    a.LastSeenAt,
		CreatedAt:     a.CreatedAt,
	}
}

// IngestEventRequest represents an incoming alert event
type IngestEventRequest struct {
	Severity    string            `json:"severity,omitempty" validate:"omitempty,oneof=critical high medium low info"`
	Title       string            `json:"title" validate:"required"`
	Description string            `json:"description,omitempty"`
	Source      string            `json:"source,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
	Fingerprint string            `json:"fingerprint,omitempty"`
}

// IngestResultDTO represents the outcome of an ingested event
type IngestResultDTO struct {
	Alert        AlertDTO `json:"alert"`
	Deduplicated bool     `json:"deduplicated"`
	Suppressed   bool     `json:"suppressed"`
	RuleMatched  bool     `json:"ruleMatched"`
}
