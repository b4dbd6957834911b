package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"statsync/internal/catalog"
	"statsync/internal/contract"
	"statsync/schema"
)

// writeSeriesResults outputs one stored series, dispatching on format.
func writeSeriesResults(code string, rec *schema.SeriesRecord, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rec)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSeriesCSV(w, rec, fmtFloat)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSeriesTable(w, code, rec, fmtFloat)
		}, "Wrote table")
	}
}

func writeSeriesCSV(w io.Writer, rec *schema.SeriesRecord, fmtFloat func(float64) string) error {
	header := []string{"period", "value"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, period := range schema.SortedPeriods(rec.Values) {
			if err := csvWriter.Write([]string{period, fmtFloat(rec.Values[period])}); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeSeriesTable(w io.Writer, code string, rec *schema.SeriesRecord, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Period", "Value"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, period := range schema.SortedPeriods(rec.Values) {
		data = append(data, []string{period, fmtFloat(rec.Values[period])})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Series %s: %d observations\n", code, len(rec.Values)); err != nil {
		return err
	}
	if lastUpdated, ok := rec.Metadata[schema.MetaLastUpdated].(string); ok {
		if _, err := fmt.Fprintf(w, "Last updated: %s\n", lastUpdated); err != nil {
			return err
		}
	}
	return nil
}

// writeFailureResults outputs a failure worklist, dispatching on format.
func writeFailureResults(entries []schema.FailureEntry, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, entries)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"px_code", "label", "api_url", "error"}
			return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
				for _, e := range entries {
					if err := csvWriter.Write([]string{e.Code, e.Label, e.Endpoint, e.Error}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFailuresTable(w, entries, cfg)
		}, "Wrote table")
	}
}

func writeFailuresTable(w io.Writer, entries []schema.FailureEntry, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Code", "Label", "Endpoint", "Error"})

	maxWidth := getMaxEndpointWidth(cfg)
	var data [][]string
	for _, e := range entries {
		data = append(data, []string{
			e.Code,
			e.Label,
			contract.TruncateEndpoint(e.Endpoint, maxWidth),
			e.Error,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d failed series\n", len(entries))
	return err
}

// writeCatalogResults outputs catalog records, dispatching on format.
func writeCatalogResults(records []catalog.Record, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, records)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"px_code", "dataset", "label", "api_url"}
			return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
				for _, r := range records {
					if err := csvWriter.Write([]string{r.Code, r.Dataset, r.Label, r.APIURL}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCatalogTable(w, records, cfg)
		}, "Wrote table")
	}
}

func writeCatalogTable(w io.Writer, records []catalog.Record, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Code", "Dataset", "Label", "National"})

	var data [][]string
	for _, r := range records {
		data = append(data, []string{
			r.Code,
			r.Dataset,
			r.Label,
			fmt.Sprintf("%t", r.IsNational()),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d catalog records\n", len(records))
	return err
}
