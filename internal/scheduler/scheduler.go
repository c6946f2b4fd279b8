// Package scheduler runs the periodic document reconciliation job.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/localnerve/ojt-tracker/internal/logger"
	"github.com/localnerve/ojt-tracker/internal/metrics"
	"github.com/localnerve/ojt-tracker/internal/services"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Reconciler owns the cron runner and the reconcile job's dependencies
type Reconciler struct {
	db    *gorm.DB
	store services.FileStore
	grace time.Duration
	cron  *cron.Cron
}

// New builds a reconciler that runs on schedule, a standard cron spec or a
// descriptor such as "@every 15m". Overlapping runs are skipped.
func New(db *gorm.DB, store services.FileStore, schedule string, grace time.Duration) (*Reconciler, error) {
	cronLog := cron.PrintfLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn))
	r := &Reconciler{
		db:    db,
		store: store,
		grace: grace,
		cron:  cron.New(cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog))),
	}
	if _, err := r.cron.AddFunc(schedule, func() {
		if _, err := r.RunOnce(context.Background()); err != nil {
			logger.Error("scheduled reconciliation failed", "error", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("invalid reconcile schedule %q: %w", schedule, err)
	}
	return r, nil
}

// Start begins running the job in the background
func (r *Reconciler) Start() {
	r.cron.Start()
	logger.Info("reconciler started", "entries", len(r.cron.Entries()))
}

// Stop halts the schedule and waits for a running job up to ctx
func (r *Reconciler) Stop(ctx context.Context) {
	done := r.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		logger.Warn("reconciler stop timed out")
	}
}

// RunOnce performs one reconciliation pass and records its metrics
func (r *Reconciler) RunOnce(ctx context.Context) (services.ReconcileResult, error) {
	res, err := services.ReconcileDocuments(ctx, r.db, r.store, r.grace, time.Now())
	metrics.Reconciled.WithLabelValues("pending_finished").Add(float64(res.PendingFinished))
	metrics.Reconciled.WithLabelValues("pending_failed").Add(float64(res.PendingFailed))
	metrics.Reconciled.WithLabelValues("orphans_removed").Add(float64(res.OrphansRemoved))
	return res, err
}
