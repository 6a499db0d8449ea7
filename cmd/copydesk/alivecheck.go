package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/copydesk/internal/types"
)

var aliveCheckJSONOutput bool

var aliveCheckCmd = &cobra.Command{
	Use:   "alive-check",
	Short: "Run the daily alive check against yesterday's ad spend",
	Long: "Collects tracking codes from the current and previous week's " +
		"checklists, removes codes that showed no spend yesterday, and " +
		"reactivates codes that are alive but only tracked on last week's rows.",
	Args: cobra.NoArgs,
	RunE: runAliveCheck,
}

func init() {
	aliveCheckCmd.Flags().BoolVar(&aliveCheckJSONOutput, "json", false,
		"Output in JSON format")
}

func runAliveCheck(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.close()

	summary, err := env.reconciler.RunDailyCheck(cmd.Context())
	if err != nil {
		return fmt.Errorf("alive check: %w", err)
	}

	if aliveCheckJSONOutput {
		return printJSON(cmd.OutOrStdout(), summary)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "date %s: %d checked, %d alive, %d dead, %d removed, %d reactivated\n",
		summary.Date, summary.Checked, summary.Alive, summary.Dead,
		summary.Removed, summary.Reactivated)
	if len(summary.Details) > 0 {
		tw := newTabWriter(cmd.OutOrStdout())
		fmt.Fprintln(tw, "ACTION\tCHECKLIST\tDETAIL")
		for _, d := range summary.Details {
			detail := d.UTMCode
			if d.Action == types.ActionRemoveDead {
				detail = fmt.Sprintf("removed %v, remaining %v", d.Removed, d.Remaining)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Action, d.ChecklistID, detail)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}
