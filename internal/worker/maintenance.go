package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/beaconhq/beacon/internal/config"
	"github.com/beaconhq/beacon/internal/domain/alert"
	"github.com/beaconhq/beacon/internal/domain/routing"
	"github.com/beaconhq/beacon/internal/pkg/logger"
)

// Maintenance runs the periodic housekeeping jobs: auto-resolving stale
// alerts and purging old resolved alerts and match audit records.
type Maintenance struct {
	alerts    alert.Repository
	rules     routing.Repository
	cfg       config.WorkerConfig
	scheduler *cron.Cron
	logger    *logger.Logger
}

// NewMaintenance creates a new maintenance worker
func NewMaintenance(alerts alert.Repository, rules routing.Repository, cfg config.WorkerConfig, log *logger.Logger) *Maintenance {
	return &Maintenance{
		alerts: alerts,
		rules:  rules,
		cfg:    cfg,
		logger: log,
	}
}

// Start registers the cron entries and begins scheduling. It returns
// immediately; jobs run on the scheduler's goroutine until Stop.
func (m *Maintenance) Start(ctx context.Context) error {
	m.scheduler = cron.New()

	if _, err := m.scheduler.AddFunc(m.cfg.AutoResolveSpec, func() {
		m.autoResolve(ctx)
	}); err != nil {
		return err
	}
	if _, err := m.scheduler.AddFunc(m.cfg.PurgeSpec, func() {
		m.purge(ctx)
	}); err != nil {
		return err
	}

	m.scheduler.Start()
	m.logger.WithFields(map[string]interface{}{
		"auto_resolve_spec": m.cfg.AutoResolveSpec,
		"purge_spec":        m.cfg.PurgeSpec,
	}).Info("Maintenance worker started")
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish.
func (m *Maintenance) Stop() {
	if m.scheduler == nil {
		return
	}
	<-m.scheduler.Stop().Done()
	m.logger.Info("Maintenance worker stopped")
}

// autoResolve resolves firing alerts that have not been seen within the
// configured window.
func (m *Maintenance) autoResolve(ctx context.Context) {
	cutoff := time.Now().Add(-m.cfg.AutoResolveAfter).Unix()

	n, err := m.alerts.ResolveStale(ctx, cutoff)
	if err != nil {
		m.logger.ErrorWithErr(err, "Failed to auto-resolve stale alerts")
		return
	}
	if n > 0 {
		m.logger.WithFields(map[string]interface{}{
			"resolved": n,
		}).Info("Auto-resolved stale alerts")
	}
}

// purge deletes resolved alerts and match audit records older than the
// retention window.
func (m *Maintenance) purge(ctx context.Context) {
	cutoff := time.Now().Add(-m.cfg.MatchRetention).Unix()

	matches, err := m.rules.PurgeMatches(ctx, cutoff)
	if err != nil {
		m.logger.ErrorWithErr(err, "Failed to purge match records")
	}

	alerts, err := m.alerts.PurgeResolved(ctx, cutoff)
	if err != nil {
		m.logger.ErrorWithErr(err, "Failed to purge resolved alerts")
	}

	m.logger.WithFields(map[string]interface{}{
		"matches": matches,
		"alerts":  alerts,
	}).Info("Completed retention purge")
}
