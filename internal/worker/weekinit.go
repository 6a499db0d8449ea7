// Package worker runs the scheduled background loops: periodic week
// initialization and the daily alive check.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/hyperengineering/copydesk/internal/checklist"
)

// WeekInitializer defines the operation the week-init worker drives.
// Implemented by checklist.Initializer.
type WeekInitializer interface {
	InitWeek(ctx context.Context, week string) (*checklist.InitResult, error)
}

// WeekInitCoordinator keeps the current week's checklist grid
// populated. Initialization is idempotent and additive, so running it
// on a short interval is safe; new team-product assignments and copy
// types get their rows within one tick.
type WeekInitCoordinator struct {
	initializer WeekInitializer
	interval    time.Duration
}

// NewWeekInitCoordinator creates a coordinator for periodic week
// initialization.
func NewWeekInitCoordinator(initializer WeekInitializer, interval time.Duration) *WeekInitCoordinator {
	return &WeekInitCoordinator{initializer: initializer, interval: interval}
}

// Run starts the coordinator loop. It blocks until ctx is cancelled.
// The first initialization happens immediately so a freshly started
// server never serves an empty week.
func (c *WeekInitCoordinator) Run(ctx context.Context) {
	slog.Info("week init coordinator started",
		"component", "worker",
		"worker", "week-init-coordinator",
		"interval", c.interval.String(),
	)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.initCurrentWeek(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("week init coordinator stopped",
				"component", "worker",
				"worker", "week-init-coordinator",
				"reason", "context_cancelled",
			)
			return
		case <-ticker.C:
			c.initCurrentWeek(ctx)
		}
	}
}

func (c *WeekInitCoordinator) initCurrentWeek(ctx context.Context) {
	result, err := c.initializer.InitWeek(ctx, "")
	if err != nil {
		slog.Error("week initialization failed",
			"component", "worker",
			"worker", "week-init-coordinator",
			"error", err,
		)
		return
	}
	if result.Created > 0 {
		slog.Info("week initialized",
			"component", "worker",
			"worker", "week-init-coordinator",
			"week", result.Week,
			"created", result.Created,
			"carried", result.Carried,
		)
	}
}
