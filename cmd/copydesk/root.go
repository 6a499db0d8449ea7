package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/copydesk/internal/adspend"
	"github.com/hyperengineering/copydesk/internal/ai"
	"github.com/hyperengineering/copydesk/internal/api"
	"github.com/hyperengineering/copydesk/internal/checklist"
	"github.com/hyperengineering/copydesk/internal/config"
	"github.com/hyperengineering/copydesk/internal/report"
	"github.com/hyperengineering/copydesk/internal/store"
	"github.com/hyperengineering/copydesk/internal/worker"
)

// Version is set at build time via ldflags: -ldflags "-X main.Version=1.0.0"
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "copydesk",
	Short: "Copydesk - Ad Copy Dashboard Backend",
	RunE:  run,
}

func init() {
	rootCmd.AddCommand(initWeekCmd)
	rootCmd.AddCommand(aliveCheckCmd)
}

func run(cmd *cobra.Command, args []string) error {
	// 1. Signal handling
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// 2. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("configuration loaded")

	// 3. Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)
	slog.Info("logger initialized", "level", cfg.Log.Level)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// 4. Initialize store (migrations, WAL mode)
	db, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return err
	}
	slog.Info("store initialized", "path", cfg.Database.Path)

	// 5. Domain collaborators
	spend := adspend.NewSQLiteSource(db.DB())
	generator := ai.NewOpenAI(cfg.AI.APIKey, cfg.AI.Model)
	initializer := checklist.NewInitializer(db, spend, logger, loc)
	reconciler := checklist.NewReconciler(db, spend, logger, loc)
	weekly := report.NewWeekly(db, spend, logger)
	monthly := report.NewMonthly(db, spend, logger)
	slog.Info("collaborators initialized", "model", cfg.AI.Model, "timezone", cfg.Clock.Timezone)

	// 6. Initialize HTTP router
	handler := api.NewHandler(db, generator, initializer, reconciler, weekly, monthly, cfg.Auth.APIKey, Version)
	router := api.NewRouter(handler)
	slog.Info("router initialized")

	// 7. Configure HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout),
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout),
	}

	// 8. Background workers
	var wg sync.WaitGroup
	weekInit := worker.NewWeekInitCoordinator(initializer, time.Duration(cfg.Worker.WeekInitInterval))
	aliveCheck := worker.NewAliveCheckCoordinator(reconciler, time.Duration(cfg.Worker.AliveCheckInterval))
	startWorker(ctx, &wg, "week-init", weekInit.Run)
	startWorker(ctx, &wg, "alive-check", aliveCheck.Run)

	// 9. Start HTTP server in goroutine
	go func() {
		slog.Info("server starting", "address", addr)
		// ErrServerClosed is the expected error when Shutdown() is called gracefully.
		// Any other error indicates an actual server failure that should trigger shutdown.
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			cancel() // Trigger shutdown on server failure
		}
	}()

	// 10. Block until signal received
	<-ctx.Done()
	slog.Info("shutdown initiated")

	// 11. Graceful shutdown sequence
	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout))
	defer shutdownCancel()

	// 11a. Stop HTTP server (drains in-flight requests)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	// 11b. Wait for workers to complete
	wg.Wait()

	// 11c. Close store
	if err := db.Close(); err != nil {
		slog.Error("store close error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// startWorker launches a background worker goroutine that respects context cancellation.
// Workers are tracked via WaitGroup for graceful shutdown.
func startWorker(ctx context.Context, wg *sync.WaitGroup, name string, fn func(ctx context.Context)) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		slog.Info("worker started", "worker", name)
		fn(ctx)
		slog.Info("worker stopped", "worker", name)
	}()
}
