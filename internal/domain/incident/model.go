package incident

import "time"

// Incident is opened from a routed, non-suppressed alert and tracks the
// response lifecycle.
type Incident struct {
	ID                 int64      `json:"id"`
	TeamID             int64      `json:"team_id"`
	ServiceID          int64      `json:"service_id"`
	AlertID            *int64     `json:"alert_id,omitempty"`
	EscalationPolicyID *int64     `json:"escalation_policy_id,omitempty"`
	Title              string     `json:"title"`
	Severity           string     `json:"severity"`
	Status             string     `json:"status"`
	Summary            string     `json:"summary,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	AcknowledgedAt     *time.Time `json:"acknowledged_at,omitempty"`
	ResolvedAt         *time.Time `json:"resolved_at,omitempty"`
}

// Incident status lifecycle
const (
	StatusTriggered    = "triggered"
	StatusAcknowledged = "acknowledged"
	StatusResolved     = "resolved"
)

// Filter contains incident filtering options
type Filter struct {
	TeamID    int64
	ServiceID int64
	Status    string
	Severity  string
}
