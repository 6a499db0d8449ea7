package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/hyperengineering/copydesk/internal/types"
)

// AliveChecker defines the operation the alive-check worker drives.
// Implemented by checklist.Reconciler.
type AliveChecker interface {
	RunDailyCheck(ctx context.Context) (*types.DailyCheckSummary, error)
}

// AliveCheckCoordinator runs the daily spend reconciliation on a
// schedule.
type AliveCheckCoordinator struct {
	checker  AliveChecker
	interval time.Duration
}

// NewAliveCheckCoordinator creates a coordinator for the daily alive
// check.
func NewAliveCheckCoordinator(checker AliveChecker, interval time.Duration) *AliveCheckCoordinator {
	return &AliveCheckCoordinator{checker: checker, interval: interval}
}

// Run starts the coordinator loop. It blocks until ctx is cancelled.
//
// Does NOT run immediately on start: the check walks two weeks of
// checklists plus the spend table, and a restart mid-day must not
// re-run a reconciliation that already happened on schedule.
func (c *AliveCheckCoordinator) Run(ctx context.Context) {
	slog.Info("alive check coordinator started",
		"component", "worker",
		"worker", "alive-check-coordinator",
		"interval", c.interval.String(),
	)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("alive check coordinator stopped",
				"component", "worker",
				"worker", "alive-check-coordinator",
				"reason", "context_cancelled",
			)
			return
		case <-ticker.C:
			c.runCheck(ctx)
		}
	}
}

func (c *AliveCheckCoordinator) runCheck(ctx context.Context) {
	summary, err := c.checker.RunDailyCheck(ctx)
	if err != nil {
		slog.Error("daily alive check failed",
			"component", "worker",
			"worker", "alive-check-coordinator",
			"error", err,
		)
		return
	}
	slog.Info("daily alive check finished",
		"component", "worker",
		"worker", "alive-check-coordinator",
		"date", summary.Date,
		"checked", summary.Checked,
		"alive", summary.Alive,
		"dead", summary.Dead,
		"removed", summary.Removed,
		"reactivated", summary.Reactivated,
	)
}
