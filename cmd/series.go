package cmd

import (
	"github.com/spf13/cobra"

	"statsync/core"
	"statsync/internal/contract"
)

// seriesCmd shows one stored series.
var seriesCmd = &cobra.Command{
	Use:   "series <code>",
	Short: "Show the stored observations and metadata for one series.",
	Long: `Load one series record from the document store and print its
observations ordered by period, together with its metadata.

Examples:
  # Inspect a series as a table
  statsync series px1737

  # Full record including metadata and vintage markers
  statsync series px1737 --output json

  # Export observations for analytics
  statsync series px1737 --output parquet --output-file px1737.parquet`,
	Args:    cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		// The positional argument is the series code, not a dataset
		return sharedSetup(rootCtx, cmd, nil)
	},
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteSeries(rootCtx, cfg, args[0]); err != nil {
			contract.LogFatal("Cannot show series: %v", err)
		}
	},
}
