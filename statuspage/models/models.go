package models

import "time"

// ---- Public page ----

// PublicPage is the rendered view of a published status page.
type PublicPage struct {
	Name          string      `json:"name"`
	Slug          string      `json:"slug"`
	OverallStatus string      `json:"overallStatus"`
	Components    []Component `json:"components"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// Component is one published service and its operational status.
type Component struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
}

// ---- Incidents ----

// PublicIncident is the stripped-down incident view shown on a page.
// Internal routing detail stays out of the public payload.
type PublicIncident struct {
	Title      string     `json:"title"`
	Severity   string     `json:"severity"`
	Status     string     `json:"status"`
	StartedAt  time.Time  `json:"startedAt"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
}
