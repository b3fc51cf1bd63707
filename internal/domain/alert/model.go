package alert

import "time"

// Alert is a deduplicated, fingerprinted event produced by an integration.
// The routing engine reads severity, title, description, source and labels;
// the remaining fields are bookkeeping.
type Alert struct {
	ID            int64             `json:"id"`
	IntegrationID int64             `json:"integration_id"`
	ServiceID     int64             `json:"service_id"`
	IncidentID    *int64            `json:"incident_id,omitempty"`
	Fingerprint   string            `json:"fingerprint"`
	Severity      string            `json:"severity"`
	Title         string            `json:"title"`
	Description   string            `json:"description,omitempty"`
	Source        string            `json:"source,omitempty"`
	Labels        map[string]string `json:"labels,omitempty"`
	Tags          []string          `json:"tags,omitempty"`
	Status        string            `json:"status"`
	Count         int               `json:"count"`
	LastSeenAt    time.Time         `json:"last_seen_at"`
	CreatedAt     time.Time         `json:"created_at"`
	ResolvedAt    *time.Time        `json:"resolved_at,omitempty"`
}

// Severity levels
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
	SeverityInfo     = "info"
)

// Alert status
const (
	StatusFiring     = "firing"
	StatusSuppressed = "suppressed"
	StatusResolved   = "resolved"
)

// ValidSeverity reports whether s is a known severity level.
func ValidSeverity(s string) bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo:
		return true
	}
	return false
}

// Filter contains alert filtering options
type Filter struct {
	ServiceID   int64
	Severity    string
	Status      string
	Source      string
	Fingerprint string
}
