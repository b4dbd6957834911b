package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"statsync/internal/contract"
	"statsync/schema"
)

// writeSummaryResults outputs the batch summary, dispatching based on the
// output format configured.
func writeSummaryResults(summary schema.BatchSummary, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summary)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryCSV(w, summary)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryTable(w, summary, cfg, duration)
		}, "Wrote table")
	}
}

func writeSummaryCSV(w io.Writer, summary schema.BatchSummary) error {
	header := []string{"dataset", "total", "succeeded", "failed", "first_ingestions", "revised", "unchanged", "no_new_data", "dry_run"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		row := []string{
			summary.Dataset,
			strconv.Itoa(summary.Total),
			strconv.Itoa(summary.Succeeded),
			strconv.Itoa(summary.Failed),
			strconv.Itoa(summary.FirstIngestions),
			strconv.Itoa(summary.Revised),
			strconv.Itoa(summary.Unchanged),
			strconv.Itoa(summary.NoNewData),
			strconv.FormatBool(summary.DryRun),
		}
		return csvWriter.Write(row)
	})
}

func writeSummaryTable(w io.Writer, summary schema.BatchSummary, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Outcome", "Count"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	data := [][]string{
		{contract.GetLabel(cfg, schema.OutcomeFirstIngestion), strconv.Itoa(summary.FirstIngestions)},
		{contract.GetLabel(cfg, schema.OutcomeRevised), strconv.Itoa(summary.Revised)},
		{contract.GetLabel(cfg, schema.OutcomeUnchanged), strconv.Itoa(summary.Unchanged)},
		{contract.GetLabel(cfg, schema.OutcomeNoNewData), strconv.Itoa(summary.NoNewData)},
		{contract.GetLabel(cfg, schema.OutcomeFailure), strconv.Itoa(summary.Failed)},
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	mode := ""
	if summary.DryRun {
		mode = " (dry run)"
	}
	if _, err := fmt.Fprintf(w, "Processed %d series for %s%s: %d succeeded, %d failed\n",
		summary.Total, summary.Dataset, mode, summary.Succeeded, summary.Failed); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Batch completed in %v with %d workers\n", duration, cfg.Workers); err != nil {
		return err
	}
	return nil
}

// writeOutcomeResults outputs per-record outcomes, dispatching on format.
func writeOutcomeResults(outcomes []schema.RecordOutcome, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, outcomes)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeOutcomesCSV(w, outcomes)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeOutcomesTable(w, outcomes, cfg)
		}, "Wrote table")
	}
}

func writeOutcomesCSV(w io.Writer, outcomes []schema.RecordOutcome) error {
	header := []string{"px_code", "dataset", "kind", "message", "error", "new_points", "total_points"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, o := range outcomes {
			row := []string{
				o.Code,
				o.Dataset,
				string(o.Kind),
				o.Message,
				o.Error,
				strconv.Itoa(o.NewPoints),
				strconv.Itoa(o.TotalPoints),
			}
			if err := csvWriter.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeOutcomesTable(w io.Writer, outcomes []schema.RecordOutcome, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Code", "Outcome", "New", "Total", "Detail"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, o := range outcomes {
		detail := o.Message
		if !o.OK() {
			detail = o.Error
		}
		data = append(data, []string{
			o.Code,
			contract.GetLabel(cfg, o.Kind),
			strconv.Itoa(o.NewPoints),
			strconv.Itoa(o.TotalPoints),
			detail,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
