package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/copydesk/internal/adspend"
	"github.com/hyperengineering/copydesk/internal/checklist"
	"github.com/hyperengineering/copydesk/internal/config"
	"github.com/hyperengineering/copydesk/internal/store"
)

var (
	initWeekTarget     string
	initWeekJSONOutput bool
)

var initWeekCmd = &cobra.Command{
	Use:   "init-week",
	Short: "Create missing checklist rows for a week",
	Long: "Expands the active team-product assignments against the top-level copy " +
		"types for the target week, carrying forward tracking codes that still " +
		"show spend. Without --week the current week is used.",
	Args: cobra.NoArgs,
	RunE: runInitWeek,
}

func init() {
	initWeekCmd.Flags().StringVar(&initWeekTarget, "week", "",
		"Target ISO week, e.g. 2026-W05 (defaults to the current week)")
	initWeekCmd.Flags().BoolVar(&initWeekJSONOutput, "json", false,
		"Output in JSON format")
}

func runInitWeek(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.close()

	result, err := env.initializer.InitWeek(cmd.Context(), initWeekTarget)
	if err != nil {
		return fmt.Errorf("init week: %w", err)
	}

	if initWeekJSONOutput {
		return printJSON(cmd.OutOrStdout(), result)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "week %s: %d rows created, %d with carried codes\n",
		result.Week, result.Created, result.Carried)
	if len(result.Rows) > 0 {
		tw := newTabWriter(cmd.OutOrStdout())
		fmt.Fprintln(tw, "ID\tPRODUCT\tCOPY TYPE\tTEAM\tSTATUS\tCODES")
		for _, row := range result.Rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				row.ID, row.ProductID, row.CopyTypeID, row.TeamID, row.Status, row.UTMCode)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// cliEnv bundles the collaborators the one-shot commands need.
type cliEnv struct {
	store       *store.SQLiteStore
	initializer *checklist.Initializer
	reconciler  *checklist.Reconciler
}

func (e *cliEnv) close() {
	if err := e.store.Close(); err != nil {
		slog.Error("store close error", "error", err)
	}
}

func openEnv() (*cliEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)

	db, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	spend := adspend.NewSQLiteSource(db.DB())
	return &cliEnv{
		store:       db,
		initializer: checklist.NewInitializer(db, spend, logger, loc),
		reconciler:  checklist.NewReconciler(db, spend, logger, loc),
	}, nil
}

// printJSON marshals v to JSON and writes to the given writer.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTabWriter returns a configured tabwriter for aligned columns.
func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}
