package cmd

import (
	"github.com/spf13/cobra"

	"statsync/core"
	"statsync/internal/contract"
)

// retryCmd re-runs only the series that failed in a recent batch.
var retryCmd = &cobra.Command{
	Use:   "retry [dataset]",
	Short: "Re-run only the series that failed in a recent batch.",
	Long: `Rebuild a worklist from the failure records of a recent batch and run
the update again for just those series.

The worklist comes from the run store when run tracking is enabled, and
falls back to the most recent failure log artifact otherwise. Failures
older than the retry lookback window are ignored.

Examples:
  # Retry yesterday's ipca failures
  statsync retry ipca

  # Retry with a wider window
  statsync retry ipca --retry-lookback 336h`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRetry(rootCtx, cfg, runManager); err != nil {
			contract.LogFatal("Cannot run retry: %v", err)
		}
	},
}

// failuresCmd prints the current failure worklist.
var failuresCmd = &cobra.Command{
	Use:   "failures [dataset]",
	Short: "Show the failure worklist a retry would pick up.",
	Long: `List the series that failed in recent batches, with their endpoints and
error messages. This is exactly the worklist 'retry' would run.

Examples:
  # Inspect ipca failures before retrying
  statsync failures ipca

  # Machine-readable worklist
  statsync failures ipca --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFailures(rootCtx, cfg, runManager); err != nil {
			contract.LogFatal("Cannot list failures: %v", err)
		}
	},
}
