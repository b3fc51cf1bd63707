package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/beaconhq/beacon/internal/domain/alert"
	"github.com/beaconhq/beacon/internal/domain/incident"
	"github.com/beaconhq/beacon/internal/domain/integration"
	"github.com/beaconhq/beacon/internal/domain/routing"
	"github.com/beaconhq/beacon/internal/domain/service"
	"github.com/beaconhq/beacon/internal/engine"
	"github.com/beaconhq/beacon/internal/pkg/errors"
	"github.com/beaconhq/beacon/internal/pkg/logger"
	"github.com/beaconhq/beacon/internal/pkg/metrics"
)

// AlertService implements alert.Service
type AlertService struct {
	alerts       alert.Repository
	integrations integration.Repository
	services     service.Repository
	incidents    incident.Repository
	engine       *engine.Engine
	logger       *logger.Logger
}

// NewAlertService creates a new alert service
func NewAlertService(
	alerts alert.Repository,
	integrations integration.Repository,
	services service.Repository,
	incidents incident.Repository,
	eng *engine.Engine,
	log *logger.Logger,
) alert.Service {
	return &AlertService{
		alerts:       alerts,
		integrations: integrations,
		services:     services,
		incidents:    incidents,
		engine:       eng,
		logger:       log,
	}
}

// Ingest processes an incoming event end to end: resolve the routing key,
// dedup by fingerprint, run the routing engine, apply the matched actions
// and open an incident unless the alert was suppressed.
func (s *AlertService) Ingest(ctx context.Context, routingKey string, ev *alert.Event) (*alert.IngestResult, error) {
	if ev.Title == "" {
		metrics.RecordIngest("invalid")
		return nil, errors.BadRequest("Event title is required")
	}
	if ev.Severity == "" {
		ev.Severity = alert.SeverityMedium
	}
	if !alert.ValidSeverity(ev.Severity) {
		metrics.RecordIngest("invalid")
		return nil, errors.BadRequest(fmt.Sprintf("Unknown severity %q", ev.Severity))
	}

	in, err := s.integrations.GetByRoutingKey(ctx, routingKey)
	if err != nil {
		metrics.RecordIngest("rejected")
		return nil, err
	}

	fingerprint := ev.Fingerprint
	if fingerprint == "" {
		fingerprint = Fingerprint(ev)
	}

	// An open alert with the same fingerprint is the same problem still
	// happening; bump the counters and skip the engine entirely.
	if existing, err := s.alerts.GetOpenByFingerprint(ctx, fingerprint); err == nil {
		existing.Count++
		existing.LastSeenAt = time.Now()
		if err := s.alerts.Update(ctx, existing); err != nil {
			return nil, err
		}
		metrics.RecordIngest("deduplicated")
		return &alert.IngestResult{
			Alert:        existing,
			Deduplicated: true,
			Suppressed:   existing.Status == alert.StatusSuppressed,
		}, nil
	} else if !errors.IsNotFound(err) {
		return nil, err
	}

	svc, err := s.services.GetByID(ctx, in.ServiceID)
	if err != nil {
		metrics.RecordIngest("rejected")
		return nil, err
	}

	a := &alert.Alert{
		IntegrationID: in.ID,
		ServiceID:     svc.ID,
		Fingerprint:   fingerprint,
		Severity:      ev.Severity,
		Title:         ev.Title,
		Description:   ev.Description,
		Source:        ev.Source,
		Labels:        ev.Labels,
		Status:        alert.StatusFiring,
	}

	// Persist before evaluation so the match audit trail references a real
	// alert ID.
	id, err := s.alerts.Create(ctx, a)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to persist alert")
		return nil, err
	}
	a.ID = id

	eval, err := s.engine.Evaluate(ctx, a, svc.TeamID)
	if err != nil {
		// Routing must not lose alerts: a failing rule store means
		// default routing, not a dropped event.
		s.logger.WithFields(map[string]interface{}{
			"team_id":  svc.TeamID,
			"alert_id": a.ID,
		}).WarnWithErr(err, "Routing evaluation failed, falling back to default routing")
		eval = &routing.Evaluation{}
	}

	var escalationPolicyID *int64
	for _, actions := range eval.Actions {
		if actions.Suppress {
			a.Status = alert.StatusSuppressed
		}
		if actions.SetSeverity != "" && alert.ValidSeverity(actions.SetSeverity) {
			a.Severity = actions.SetSeverity
		}
		if actions.RouteToServiceID != nil {
			a.ServiceID = *actions.RouteToServiceID
		}
		if len(actions.AddTags) > 0 {
			a.Tags = appendUnique(a.Tags, actions.AddTags)
		}
		if actions.EscalationPolicyID != nil {
			escalationPolicyID = actions.EscalationPolicyID
		}
	}

	result := &alert.IngestResult{
		Alert:       a,
		Suppressed:  a.Status == alert.StatusSuppressed,
		RuleMatched: eval.Matched,
	}

	if a.Status != alert.StatusSuppressed {
		incID, err := s.incidents.Create(ctx, &incident.Incident{
			TeamID:             svc.TeamID,
			ServiceID:          a.ServiceID,
			AlertID:            &a.ID,
			EscalationPolicyID: escalationPolicyID,
			Title:              a.Title,
			Severity:           a.Severity,
			Status:             incident.StatusTriggered,
		})
		if err != nil {
			s.logger.ErrorWithErr(err, "Failed to open incident for alert")
			return nil, err
		}
		a.IncidentID = &incID
	}

	// Persist the post-routing state: applied actions and incident link.
	if err := s.alerts.Update(ctx, a); err != nil {
		return nil, err
	}

	if result.Suppressed {
		metrics.RecordIngest("suppressed")
	} else {
		metrics.RecordIngest("accepted")
	}

	s.logger.WithFields(map[string]interface{}{
		"alert_id":     a.ID,
		"service_id":   a.ServiceID,
		"severity":     a.Severity,
		"suppressed":   result.Suppressed,
		"rule_matched": result.RuleMatched,
	}).Info("Alert ingested")

	return result, nil
}

// GetByID retrieves an alert by ID
func (s *AlertService) GetByID(ctx context.Context, id int64) (*alert.Alert, error) {
	return s.alerts.GetByID(ctx, id)
}

// List retrieves alerts with filters and pagination
func (s *AlertService) List(ctx context.Context, filter alert.Filter, limit, offset int) ([]*alert.Alert, int64, error) {
	return s.alerts.List(ctx, filter, limit, offset)
}

// Resolve marks an alert resolved
func (s *AlertService) Resolve(ctx context.Context, id int64) error {
	a, err := s.alerts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.Status == alert.StatusResolved {
		return nil
	}

	now := time.Now()
	a.Status = alert.StatusResolved
	a.ResolvedAt = &now

	if err := s.alerts.Update(ctx, a); err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"alert_id": id,
	}).Info("Alert resolved")

	return nil
}

// Delete deletes an alert
func (s *AlertService) Delete(ctx context.Context, id int64) error {
	return s.alerts.Delete(ctx, id)
}

// Fingerprint derives a stable identity for an event from its title,
// source and labels. Events carrying their own fingerprint bypass this.
func Fingerprint(ev *alert.Event) string {
	keys := make([]string, 0, len(ev.Labels))
	for k := range ev.Labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(ev.Title)
	b.WriteByte('\n')
	b.WriteString(ev.Source)
	for _, k := range keys {
		b.WriteByte('\n')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(ev.Labels[k])
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func appendUnique(tags []string, add []string) []string {
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		seen[t] = true
	}
	for _, t := range add {
		if !seen[t] {
			tags = append(tags, t)
			seen[t] = true
		}
	}
	return tags
}
