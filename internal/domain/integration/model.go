package integration

import "time"

// Integration is an ingestion endpoint tied to a service. Incoming alerts
// carry the integration's routing key; the owning team is resolved through
// the integration -> service -> team chain.
type Integration struct {
	ID         int64     `json:"id"`
	ServiceID  int64     `json:"service_id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	RoutingKey string    `json:"routing_key"`
	Enabled    bool      `json:"enabled"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Integration types
const (
	TypeWebhook    = "webhook"
	TypePrometheus = "prometheus"
	TypeGrafana    = "grafana"
	TypeEmail      = "email"
)

// Filter contains integration filtering options
type Filter struct {
	ServiceID int64
	Type      string
}
