// Package parquet provides data structures and functions for exporting
// statsync run history and series observations to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"statsync/schema"
)

// Run represents a single batch run with metadata.
// This struct maps to the statsync_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// Dataset is the dataset this run processed
	Dataset string `parquet:"dataset,snappy"`

	// StartTime is when the run began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalRecords is the number of series processed in this run
	TotalRecords int32 `parquet:"total_records,snappy"`

	// Succeeded is the number of series that finished without a failure
	Succeeded int32 `parquet:"succeeded,snappy"`

	// Failed is the number of series that failed
	Failed int32 `parquet:"failed,snappy"`

	// DryRun indicates whether store writes were suppressed
	DryRun bool `parquet:"dry_run,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// Outcome represents one per-series outcome within a run.
// This struct maps to the statsync_outcomes database table.
type Outcome struct {
	// RunID references the parent run
	RunID int64 `parquet:"run_id,snappy"`

	// Code is the series identifier
	Code string `parquet:"px_code,snappy"`

	// Dataset is the dataset the series belongs to
	Dataset string `parquet:"dataset,snappy"`

	// Label is the series' human-readable catalog label
	Label string `parquet:"label,snappy"`

	// Endpoint is the provider query URL
	Endpoint string `parquet:"api_url,snappy"`

	// Kind is the outcome classification
	Kind string `parquet:"kind,snappy"`

	// Message is the human-readable result message
	Message string `parquet:"message,snappy"`

	// Error is the failure text (nullable)
	Error *string `parquet:"error,optional,snappy"`

	// NewPoints is the number of observations added by this update
	NewPoints int32 `parquet:"new_points,snappy"`

	// TotalPoints is the series' observation count after the update
	TotalPoints int32 `parquet:"total_points,snappy"`

	// RecordedAt is when the outcome was stored
	RecordedAt time.Time `parquet:"recorded_at,snappy"`
}

// Observation represents one period/value pair of a stored series.
type Observation struct {
	// Code is the series identifier
	Code string `parquet:"px_code,snappy"`

	// Period is the canonical period key
	Period string `parquet:"period,snappy"`

	// Value is the numeric observation
	Value float64 `parquet:"value,snappy"`
}

// ConvertRunRecords converts database run records to their Parquet form.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, 0, len(records))
	for _, r := range records {
		result = append(result, Run{
			RunID:         r.RunID,
			Dataset:       r.Dataset,
			StartTime:     r.StartTime,
			EndTime:       r.EndTime,
			RunDurationMs: r.DurationMs,
			TotalRecords:  r.Total,
			Succeeded:     r.Succeeded,
			Failed:        r.Failed,
			DryRun:        r.DryRun,
			ConfigParams:  r.ConfigParams,
		})
	}
	return result
}

// ConvertOutcomeRecords converts database outcome records to their Parquet form.
func ConvertOutcomeRecords(records []schema.OutcomeRecord) []Outcome {
	result := make([]Outcome, 0, len(records))
	for _, r := range records {
		result = append(result, Outcome{
			RunID:       r.RunID,
			Code:        r.Code,
			Dataset:     r.Dataset,
			Label:       r.Label,
			Endpoint:    r.Endpoint,
			Kind:        r.Kind,
			Message:     r.Message,
			Error:       r.Error,
			NewPoints:   r.NewPoints,
			TotalPoints: r.TotalPoints,
			RecordedAt:  r.RecordedAt,
		})
	}
	return result
}

// ConvertSeriesRecord flattens one stored series into observation rows,
// ordered by period.
func ConvertSeriesRecord(code string, rec *schema.SeriesRecord) []Observation {
	result := make([]Observation, 0, len(rec.Values))
	for _, period := range schema.SortedPeriods(rec.Values) {
		result = append(result, Observation{Code: code, Period: period, Value: rec.Values[period]})
	}
	return result
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteOutcomesParquet writes a slice of Outcome structs to a Parquet file.
func WriteOutcomesParquet(data []Outcome, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteObservationsParquet writes a slice of Observation structs to a Parquet file.
func WriteObservationsParquet(data []Observation, outputPath string) error {
	return writeParquet(data, outputPath)
}

func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the struct tags
	writer := parquet.NewGenericWriter[T](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}
