// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"golang.org/x/term"

	"statsync/internal/catalog"
	"statsync/internal/contract"
	"statsync/schema"
)

// OutWriter provides a unified interface for all output operations.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteSummary prints a batch summary using the configured output format.
func (ow *OutWriter) WriteSummary(summary schema.BatchSummary, cfg *contract.Config, duration time.Duration) error {
	return writeSummaryResults(summary, cfg, duration)
}

// WriteOutcomes prints per-record outcomes using the configured output format.
func (ow *OutWriter) WriteOutcomes(outcomes []schema.RecordOutcome, cfg *contract.Config) error {
	return writeOutcomeResults(outcomes, cfg)
}

// WriteSeries prints one stored series using the configured output format.
func (ow *OutWriter) WriteSeries(code string, rec *schema.SeriesRecord, cfg *contract.Config) error {
	return writeSeriesResults(code, rec, cfg)
}

// WriteFailures prints a failure worklist using the configured output format.
func (ow *OutWriter) WriteFailures(entries []schema.FailureEntry, cfg *contract.Config) error {
	return writeFailureResults(entries, cfg)
}

// WriteCatalog prints catalog records using the configured output format.
func (ow *OutWriter) WriteCatalog(records []catalog.Record, cfg *contract.Config) error {
	return writeCatalogResults(records, cfg)
}

// getMaxEndpointWidth calculates the maximum width for API URLs in table
// output based on terminal width.
func getMaxEndpointWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Conservative default for narrow terminals and CI
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the fixed columns with table formatting
	available := termWidth - 45
	if available < 20 {
		return 20
	}
	if available > 90 {
		return 90
	}
	return available
}
