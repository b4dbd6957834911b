package cmd

import (
	"github.com/spf13/cobra"

	"statsync/core"
	"statsync/internal/contract"
)

// updateCmd runs a batch update over the catalog worklist.
var updateCmd = &cobra.Command{
	Use:   "update [dataset]",
	Short: "Fetch new observations for every series in a dataset.",
	Long: `Run a batch update over the catalog worklist for one dataset, or for
every dataset when none is given.

Each series is refreshed according to the selected strategy:
- incremental: fetch only periods after the last stored observation
- full: fetch the complete history and archive a vintage when values changed
- auto: try incremental first and fall back to full on a fetch failure

Failures never abort the batch; they are collected into a failure worklist
that a later 'retry' invocation can pick up.

Examples:
  # Update every ipca series with the default strategy
  statsync update ipca

  # Preview what would change without writing anything
  statsync update ipca --dry-run

  # Force a full refresh with vintage tracking
  statsync update ipca --strategy full

  # Only ingest series not yet present in the store
  statsync update ipca --resume

  # Export per-series outcomes for analysis
  statsync update ipca --output csv --output-file outcomes.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteUpdate(rootCtx, cfg, runManager); err != nil {
			contract.LogFatal("Cannot run update: %v", err)
		}
	},
}
