package schedule

import "time"

// Schedule is an on-call schedule definition. Rotation computation (who is
// on call right now) happens in the scheduling system, not here; this
// platform only stores and manages the definitions.
type Schedule struct {
	ID        int64     `json:"id"`
	TeamID    int64     `json:"team_id"`
	Name      string    `json:"name"`
	Timezone  string    `json:"timezone"`
	Layers    []Layer   `json:"layers"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Layer is a rotation layer within a schedule.
type Layer struct {
	Name          string  `json:"name"`
	RotationHours int     `json:"rotation_hours"`
	UserIDs       []int64 `json:"user_ids"`
}

// Filter contains schedule filtering options
type Filter struct {
	TeamID int64
}
