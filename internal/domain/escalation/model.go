package escalation

import "time"

// Policy is a named, team-scoped escalation policy. Routing rules select a
// policy via the escalationPolicyId action; dispatch itself happens outside
// this system.
type Policy struct {
	ID          int64     `json:"id"`
	TeamID      int64     `json:"team_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Steps       []Step    `json:"steps"`
	RepeatCount int       `json:"repeat_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Step is one stage of an escalation policy.
type Step struct {
	DelayMinutes int      `json:"delay_minutes"`
	Targets      []Target `json:"targets"`
}

// Target identifies who a step notifies.
type Target struct {
	Type string `json:"type"` // user or schedule
	ID   int64  `json:"id"`
}

// Target types
const (
	TargetUser     = "user"
	TargetSchedule = "schedule"
)

// Filter contains policy filtering options
type Filter struct {
	TeamID int64
}
