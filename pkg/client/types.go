package client

import "time"

// ListOptions contains common pagination options
type ListOptions struct {
	Page     int
	PageSize int
}

// Paginated wraps a page of results
type Paginated struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// User represents a user account
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role"`
}

// AuthResponse is returned by login, register and refresh
type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user"`
}

// Team represents a team
type Team struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Alert represents a deduplicated alert
type Alert struct {
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

// IngestResult describes what happened to an ingested event
type IngestResult struct {
	Alert        Alert `json:"alert"`
	Deduplicated bool  `json:"deduplicated"`
	Suppressed   bool  `json:"suppressed"`
	RuleMatched  bool  `json:"ruleMatched"`
}

// Rule represents a routing rule
type Rule struct {
	ID          int64                  `json:"id"`
	TeamID      int64                  `json:"teamId"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Priority    int                    `json:"priority"`
	Enabled     bool                   `json:"enabled"`
	Conditions  map[string]interface{} `json:"conditions"`
	Actions     map[string]interface{} `json:"actions"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

// Match represents a rule match audit record
type Match struct {
	ID        int64     `json:"id"`
	AlertID   int64     `json:"alertId"`
	RuleID    int64     `json:"ruleId"`
	MatchedAt time.Time `json:"matchedAt"`
}

// TestResult is the outcome of a rule dry-run
type TestResult struct {
	Matches bool   `json:"matches"`
	Reason  string `json:"reason"`
}

// Incident represents an incident
type Incident struct {
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

// HealthResponse is returned by the health endpoints
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
