package cron

import (
	"context"
	"log/slog"
	"time"
)

// AlertRecomputer is the part of the alert service the refresh job needs.
type AlertRecomputer interface {
	RecomputeAll(ctx context.Context) (int, error)
}

// AlertJobs keeps stored alerts current as calendar days pass.
type AlertJobs struct {
	alerts   AlertRecomputer
	interval time.Duration
}

func NewAlertJobs(alerts AlertRecomputer, interval time.Duration) *AlertJobs {
	return &AlertJobs{alerts: alerts, interval: interval}
}

// RegisterJobs registers all alert-related cron jobs
func (j *AlertJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(Job{
		Name:       "refresh_alerts",
		Interval:   j.interval,
		Fn:         j.RefreshAlerts,
		RunOnStart: true,
	})
}

// RefreshAlerts recomputes days remaining and levels for every live sale.
func (j *AlertJobs) RefreshAlerts(ctx context.Context) error {
	n, err := j.alerts.RecomputeAll(ctx)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "Alerts refreshed", "count", n)
	return nil
}
