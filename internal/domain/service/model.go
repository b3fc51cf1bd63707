package service

import "time"

// Service is a monitored service belonging to a team. Alerts route to a
// service, and status pages publish service health.
type Service struct {
	ID          int64     `json:"id"`
	TeamID      int64     `json:"team_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Operational statuses, as published on status pages
const (
	StatusOperational   = "operational"
	StatusDegraded      = "degraded"
	StatusPartialOutage = "partial_outage"
	StatusMajorOutage   = "major_outage"
	StatusMaintenance   = "maintenance"
)

// Filter contains service filtering options
type Filter struct {
	TeamID int64
	Status string
}
