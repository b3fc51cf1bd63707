package team

import "time"

// Team owns services, routing rules, schedules and escalation policies.
type Team struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Filter contains team filtering options
type Filter struct {
	Name string
}
