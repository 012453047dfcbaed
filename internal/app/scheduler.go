package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/avaldsgard/divvy/internal/interfaces"
)

// syncTimeout bounds a scheduled full refresh. A large table at the default
// request interval stays well inside this.
const syncTimeout = 30 * time.Minute

// StartRefreshScheduler launches the cron-driven full sync when a refresh
// schedule is configured. With no schedule configured it is a no-op.
func (a *App) StartRefreshScheduler() error {
	spec := a.Config.Sync.RefreshCron
	if spec == "" {
		a.Logger.Debug().Msg("No refresh schedule configured, scheduler not started")
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()

		report, err := a.HoldingService.Sync(ctx, interfaces.SyncOptions{})
		if err != nil {
			a.Logger.Error().Err(err).Msg("Scheduled sync failed")
			return
		}

		a.Logger.Info().
			Str("run_id", report.RunID).
			Int("succeeded", len(report.Succeeded)).
			Int("failed", len(report.Failed)).
			Msg("Scheduled sync complete")
	})
	if err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}

	c.Start()
	a.scheduler = c

	a.Logger.Info().Str("schedule", spec).Msg("Refresh scheduler started")
	return nil
}
