package dto

import (
	"time"

	"github.com/beaconhq/beacon/internal/domain/escalation"
	"github.com/beaconhq/beacon/internal/domain/schedule"
)

// TeamDTO represents a team in API responses
type TeamDTO struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateTeamRequest represents a team creation request
type CreateTeamRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Slug        string `json:"slug,omitempty" validate:"omitempty,max=255"`
	Description string `json:"description,omitempty"`
}

// UpdateTeamRequest represents a team update request
type UpdateTeamRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// ServiceDTO represents a monitored service in API responses
type ServiceDTO struct {
	ID          int64     `json:"id"`
	TeamID      int64     `json:"teamId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateServiceRequest represents a service creation request
type CreateServiceRequest struct {
	TeamID      int64  `json:"teamId" validate:"required"`
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description,omitempty"`
}

// UpdateServiceRequest represents a service update request
type UpdateServiceRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=operational degraded partial_outage major_outage maintenance"`
}

// IntegrationDTO represents an integration in API responses
type IntegrationDTO struct {
	ID         int64     `json:"id"`
	ServiceID  int64     `json:"serviceId"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	RoutingKey string    `json:"routingKey"`
	Enabled    bool      `json:"enabled"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CreateIntegrationRequest represents an integration creation request
type CreateIntegrationRequest struct {
	ServiceID int64  `json:"serviceId" validate:"required"`
	Name      string `json:"name" validate:"required,max=255"`
	Type      string `json:"type,omitempty" validate:"omitempty,oneof=webhook prometheus grafana email"`
}

// UpdateIntegrationRequest represents an integration update request
type UpdateIntegrationRequest struct {
	Name    *string `json:"name,omitempty"`
	Enabled *bool   `json:"enabled,omitempty"`
}

// IncidentDTO represents an incident in API responses
type IncidentDTO struct {
	ID                 int64      `json:"id"`
	TeamID             int64      `json:"teamId"`
	ServiceID          int64      `json:"serviceId"`
	AlertID            *int64     `json:"alertId,omitempty"`
	EscalationPolicyID *int64     `json:"escalationPolicyId,omitempty"`
	Title              string     `json:"title"`
	Severity           string     `json:"severity"`
	Status             string     `json:"status"`
	Summary            string     `json:"summary,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	AcknowledgedAt     *time.Time `json:"acknowledgedAt,omitempty"`
	ResolvedAt         *time.Time `json:"resolvedAt,omitempty"`
}

// PolicyDTO represents an escalation policy in API responses
type PolicyDTO struct {
	ID          int64             `json:"id"`
	TeamID      int64             `json:"teamId"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Steps       []escalation.Step `json:"steps"`
	RepeatCount int               `json:"repeatCount"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// CreatePolicyRequest represents a policy creation request
type CreatePolicyRequest struct {
	TeamID      int64             `json:"teamId" validate:"required"`
	Name        string            `json:"name" validate:"required,max=255"`
	Description string            `json:"description,omitempty"`
	Steps       []escalation.Step `json:"steps" validate:"required,min=1"`
	RepeatCount int               `json:"repeatCount,omitempty"`
}

// ScheduleDTO represents an on-call schedule in API responses
type ScheduleDTO struct {
	ID        int64            `json:"id"`
	TeamID    int64            `json:"teamId"`
	Name      string           `json:"name"`
	Timezone  string           `json:"timezone"`
	Layers    []schedule.Layer `json:"layers"`
	CreatedAt time.Time        `json:"createdAt"`
}

// CreateScheduleRequest represents a schedule creation request
type CreateScheduleRequest struct {
	TeamID   int64            `json:"teamId" validate:"required"`
	Name     string           `json:"name" validate:"required,max=255"`
	Timezone string           `json:"timezone,omitempty"`
	Layers   []schedule.Layer `json:"layers,omitempty"`
}

// PageDTO represents a status page in API responses
type PageDTO struct {
	ID         int64     `json:"id"`
	TeamID     int64     `json:"teamId"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	Published  bool      `json:"published"`
	ServiceIDs []int64   `json:"serviceIds"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CreatePageRequest represents a status page creation request
type CreatePageRequest struct {
	TeamID     int64   `json:"teamId" validate:"required"`
	Name       string  `json:"name" validate:"required,max=255"`
	Slug       string  `json:"slug,omitempty"`
	ServiceIDs []int64 `json:"serviceIds,omitempty"`
}

// PublishPageRequest toggles a page's published flag
type PublishPageRequest struct {
	Published bool `json:"published"`
}
