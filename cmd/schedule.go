package cmd

import (
	"github.com/spf13/cobra"

	"statsync/core"
	"statsync/internal/contract"
)

// scheduleCmd runs every dataset that is due today.
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run a batch for every dataset whose refresh window is open today.",
	Long: `Evaluate the per-dataset refresh heuristics from the config file and run
a batch update for each dataset that is due.

A dataset is due when today falls in its publication window (days of the
month, optionally restricted to certain months), or in a retry window when
the last run left recent failures behind. Datasets run in priority order.

Schedules live under the 'schedule' key of the config file:

  schedule:
    ipca:
      frequency: monthly
      days: [9, 10, 11]
      retry_days: [12, 13]
      priority: high
    lspa:
      frequency: quarterly
      months: [3, 6, 9, 12]
      days: [10, 11]
      priority: low

A schedule results artifact is written after every invocation, which makes
this command suitable for a daily cron entry.

Examples:
  # Typical cron usage
  statsync schedule

  # See what would run without writing to the store
  statsync schedule --dry-run`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSchedule(rootCtx, cfg, runManager); err != nil {
			contract.LogFatal("Cannot run schedule: %v", err)
		}
	},
}
