package statuspage

import "time"

// Page is a public status page definition: which services a team publishes
// under a slug. Rendering happens in the public status server.
type Page struct {
	ID         int64     `json:"id"`
	TeamID     int64     `json:"team_id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	Published  bool      `json:"published"`
	ServiceIDs []int64   `json:"service_ids"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Filter contains page filtering options
type Filter struct {
	TeamID    int64
	Published *bool
}
