package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DJBrause/MarketSpreadSniper/internal/notify"
)

// RunMode executes a single pipeline run, writes and delivers the report, and
// exits.
func (a *App) RunMode(ctx context.Context, deps *Dependencies) error {
	return a.runOnce(ctx, deps)
}

// DaemonMode runs the pipeline immediately and then on every tick of the
// configured interval until the context is cancelled. A failed run is reported
// but does not stop the daemon.
func (a *App) DaemonMode(ctx context.Context, deps *Dependencies) error {
	interval := a.cfg.Interval.Duration
	if interval <= 0 {
		return fmt.Errorf("app: daemon interval must be positive, got %s", interval)
	}

	a.logger.InfoContext(ctx, "daemon started", slog.Duration("interval", interval))

	if err := a.runOnce(ctx, deps); err != nil && !errors.Is(err, context.Canceled) {
		a.logger.ErrorContext(ctx, "run failed", slog.String("error", err.Error()))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := a.runOnce(ctx, deps); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.ErrorContext(ctx, "run failed", slog.String("error", err.Error()))
			}
		}
	}
}

// runOnce executes the full pipeline: fetch and compute spreads for every
// region, write the workbook, archive it, and notify the configured channels.
func (a *App) runOnce(ctx context.Context, deps *Dependencies) error {
	started := time.Now()

	runReport, err := deps.Pipeline.Run(ctx)
	if err != nil {
		a.notifyFailure(ctx, deps, err)
		return err
	}

	path, err := deps.Reports.Write(runReport)
	if err != nil {
		a.notifyFailure(ctx, deps, err)
		return fmt.Errorf("app: write report: %w", err)
	}

	if deps.Archiver != nil {
		key, err := deps.Archiver.ArchiveReport(ctx, runReport, path)
		if err != nil {
			// Archiving is best effort; the local report and email still go out.
			a.logger.WarnContext(ctx, "report archive failed",
				slog.String("run_id", runReport.RunID),
				slog.String("error", err.Error()),
			)
		} else {
			a.logger.InfoContext(ctx, "report archived", slog.String("key", key))
		}
	}

	msg := notify.Message{
		Event:          "report_sent",
		Subject:        a.cfg.Email.Subject,
		Body:           a.cfg.Email.Body,
		AttachmentPath: path,
	}
	if err := deps.Notifier.Notify(ctx, msg); err != nil {
		a.logger.WarnContext(ctx, "notification failed", slog.String("error", err.Error()))
	}

	a.logger.InfoContext(ctx, "run complete",
		slog.String("run_id", runReport.RunID),
		slog.Int("regions", len(runReport.Results)),
		slog.Int("failed_regions", len(runReport.Failed)),
		slog.Int("rows", runReport.TotalRows()),
		slog.Duration("elapsed", time.Since(started)),
		slog.String("report", path),
	)

	return nil
}

// notifyFailure reports a failed run on the run_failed event. Notification
// errors are logged and swallowed so the run failure propagates.
func (a *App) notifyFailure(ctx context.Context, deps *Dependencies, runErr error) {
	msg := notify.Message{
		Event:   "run_failed",
		Subject: "Spread run failed",
		Body:    fmt.Sprintf("The spread pipeline run failed: %v", runErr),
	}
	if err := deps.Notifier.Notify(ctx, msg); err != nil {
		a.logger.WarnContext(ctx, "failure notification failed", slog.String("error", err.Error()))
	}
}
