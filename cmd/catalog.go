package cmd

import (
	"github.com/spf13/cobra"

	"statsync/core"
	"statsync/internal/contract"
)

// catalogCmd lists catalog records.
var catalogCmd = &cobra.Command{
	Use:   "catalog [dataset]",
	Short: "List the catalog records a batch would process.",
	Long: `Print the series catalog after dataset filtering and de-duplication.
This is the worklist an 'update' invocation would start from, before
resume and national-only filters.

Examples:
  # Everything in the catalog
  statsync catalog

  # Only the pmc series
  statsync catalog pmc

  # Export the catalog view
  statsync catalog --output csv --output-file catalog.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCatalog(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot list catalog: %v", err)
		}
	},
}
