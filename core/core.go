package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"statsync/internal/artifact"
	"statsync/internal/catalog"
	"statsync/internal/contract"
	"statsync/internal/docstore"
	"statsync/internal/outwriter"
	"statsync/internal/parquet"
	"statsync/internal/schedule"
	"statsync/internal/sidra"
	"statsync/schema"
)

// ExecutorFunc defines the function signature for executing a batch command.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.RunManager) error

// BuildPipeline wires the provider and series store from config. Exposed
// for embedding callers that assemble their own worklists.
func BuildPipeline(cfg *contract.Config) (*Updater, contract.SeriesStore) {
	provider := sidra.NewClient(cfg.Timeout, cfg.RateLimit)
	client := docstore.NewClient(cfg.StoreBaseURL, cfg.StoreSecret, cfg.Timeout)
	store := docstore.NewSeriesStore(client, cfg.StoreRoot)
	return NewUpdater(provider, store, cfg.DryRun), store
}

// BuildWorklist loads the catalog and applies dataset filtering, national
// filtering, ordering, and resume skipping. National series come first so
// headline aggregates land before their regional breakdowns.
func BuildWorklist(ctx context.Context, cfg *contract.Config, store contract.SeriesStore) ([]catalog.Record, error) {
	records, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	records = catalog.FilterDataset(records, cfg.Dataset)
	records = catalog.DedupeByCode(records)

	if cfg.NationalOnly {
		national := make([]catalog.Record, 0, len(records))
		for _, rec := range records {
			if rec.IsNational() {
				national = append(national, rec)
			}
		}
		records = national
	}

	records = catalog.OrderNationalFirst(records)

	if cfg.Resume {
		stored, err := store.ListCodes(ctx)
		if err != nil {
			return nil, fmt.Errorf("resume requested but listing stored codes failed: %w", err)
		}
		seen := make(map[string]struct{}, len(stored))
		for _, code := range stored {
			seen[code] = struct{}{}
		}
		remaining := make([]catalog.Record, 0, len(records))
		for _, rec := range records {
			if _, ok := seen[rec.Code]; !ok {
				remaining = append(remaining, rec)
			}
		}
		records = remaining
	}

	return records, nil
}

// GetUpdateResults runs one batch over the given records and records the run
// in the run store. It returns the aggregate summary and the per-record
// outcomes without printing them. Run tracking and the failure log artifact
// are best-effort; their errors are logged and never fail the batch.
func GetUpdateResults(ctx context.Context, cfg *contract.Config, mgr contract.RunManager, records []catalog.Record) (schema.BatchSummary, []schema.RecordOutcome, error) {
	updater, _ := BuildPipeline(cfg)
	update := SelectStrategy(updater, cfg.Strategy)

	var progress io.Writer
	if !shouldSuppressProgress(ctx) {
		progress = os.Stderr
	}
	runner := NewBatchRunner(update, cfg.Workers, progress)
	runner.UseColors = cfg.UseColors

	rs := mgr.GetRunStore()
	var runID int64
	if rs != nil {
		var err error
		runID, err = rs.BeginRun(time.Now(), cfg.Dataset, runConfigParams(cfg))
		if err != nil {
			contract.LogWarn("run tracking disabled for this batch: %v", err)
			runID = 0
		}
	}

	summary, outcomes := runner.Run(ctx, cfg.Dataset, records, cfg.DryRun)

	if runID > 0 {
		for _, out := range outcomes {
			if err := rs.RecordOutcome(runID, out); err != nil {
				contract.LogWarn("failed to record outcome for %s: %v", out.Code, err)
			}
		}
		if err := rs.EndRun(runID, time.Now(), summary); err != nil {
			contract.LogWarn("failed to finalize run %d: %v", runID, err)
		}
	}

	if path, err := artifact.WriteFailureLog(cfg.ArtifactsDir, summary, time.Now()); err != nil {
		contract.LogWarn("failed to write failure log: %v", err)
	} else if path != "" {
		fmt.Fprintf(os.Stderr, "Failure worklist saved to %s\n", path)
	}

	return summary, outcomes, nil
}

// ExecuteUpdate runs a batch update over the catalog worklist and prints the
// results. It serves as the main entry point for the 'update' command.
func ExecuteUpdate(ctx context.Context, cfg *contract.Config, mgr contract.RunManager) error {
	start := time.Now()
	_, store := BuildPipeline(cfg)
	records, err := BuildWorklist(ctx, cfg, store)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No catalog records matched the worklist filters")
		return nil
	}

	summary, outcomes, err := GetUpdateResults(ctx, cfg, mgr, records)
	if err != nil {
		return err
	}
	return writeBatchResults(summary, outcomes, cfg, time.Since(start))
}

// ExecuteRetry re-runs only the series that failed in a recent batch. The
// worklist comes from the run store when one is configured, falling back to
// the latest failure log artifact.
func ExecuteRetry(ctx context.Context, cfg *contract.Config, mgr contract.RunManager) error {
	start := time.Now()
	records, err := loadRetryWorklist(cfg, mgr)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Printf("No recorded failures for %s within %v\n", datasetLabel(cfg.Dataset), cfg.RetryLookback)
		return nil
	}

	summary, outcomes, err := GetUpdateResults(ctx, cfg, mgr, records)
	if err != nil {
		return err
	}
	return writeBatchResults(summary, outcomes, cfg, time.Since(start))
}

// ExecuteSchedule evaluates the refresh heuristics for today, runs a batch
// for every dataset that is due, and writes the schedule result artifact.
func ExecuteSchedule(ctx context.Context, cfg *contract.Config, mgr contract.RunManager) error {
	today := time.Now()
	rs := mgr.GetRunStore()

	due := schedule.DatasetsDue(cfg.Schedule, today, rs, cfg.RetryLookback)
	if len(due) == 0 {
		fmt.Println("No datasets due today")
		return nil
	}
	fmt.Printf("Datasets due today: %v\n", due)

	result := schema.ScheduleResult{
		Date:             today,
		DatasetsSelected: due,
		Results:          make(map[string]bool, len(due)),
	}

	for _, dataset := range due {
		dsCfg := cfg.Clone()
		dsCfg.Dataset = dataset

		_, store := BuildPipeline(dsCfg)
		records, err := BuildWorklist(ctx, dsCfg, store)
		if err != nil {
			contract.LogWarn("skipping %s: %v", dataset, err)
			result.Results[dataset] = false
			result.FailureCount++
			continue
		}

		summary, _, err := GetUpdateResults(ctx, dsCfg, mgr, records)
		ok := err == nil && summary.Success()
		result.Results[dataset] = ok
		if ok {
			result.SuccessCount++
		} else {
			result.FailureCount++
		}
		fmt.Printf("%s: %d succeeded, %d failed\n", dataset, summary.Succeeded, summary.Failed)
	}

	path, err := artifact.WriteScheduleResult(cfg.ArtifactsDir, result)
	if err != nil {
		contract.LogWarn("failed to write schedule result: %v", err)
	} else {
		fmt.Printf("Schedule result saved to %s\n", path)
	}

	if result.FailureCount > 0 {
		return fmt.Errorf("%d of %d scheduled datasets had failures", result.FailureCount, len(due))
	}
	return nil
}

// ExecuteSeries loads one stored series and prints it.
func ExecuteSeries(ctx context.Context, cfg *contract.Config, code string) error {
	rec, err := GetSeriesResult(ctx, cfg, code)
	if err != nil {
		return err
	}

	if cfg.Output == schema.ParquetOut {
		if cfg.OutputFile == "" {
			return errors.New("--output-file is required for parquet output")
		}
		rows := parquet.ConvertSeriesRecord(code, rec)
		if err := parquet.WriteObservationsParquet(rows, cfg.OutputFile); err != nil {
			return err
		}
		fmt.Printf("Exported %d observations to: %s\n", len(rows), cfg.OutputFile)
		return nil
	}

	ow := outwriter.NewOutWriter()
	return ow.WriteSeries(code, rec, cfg)
}

// ExecuteFailures prints the current failure worklist for a dataset.
func ExecuteFailures(_ context.Context, cfg *contract.Config, mgr contract.RunManager) error {
	entries, err := loadFailureEntries(cfg, mgr)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []schema.FailureEntry{}
	}
	ow := outwriter.NewOutWriter()
	return ow.WriteFailures(entries, cfg)
}

// ExecuteCatalog prints the catalog records matching the worklist filters.
func ExecuteCatalog(_ context.Context, cfg *contract.Config) error {
	records, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}
	records = catalog.FilterDataset(records, cfg.Dataset)
	records = catalog.DedupeByCode(records)

	ow := outwriter.NewOutWriter()
	return ow.WriteCatalog(records, cfg)
}

// GetSeriesResult loads one stored series record. A missing record is an
// error at this level since the caller asked for it by name.
func GetSeriesResult(ctx context.Context, cfg *contract.Config, code string) (*schema.SeriesRecord, error) {
	_, store := BuildPipeline(cfg)
	rec, err := store.LoadRecord(ctx, code)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("no stored series for code %s", code)
	}
	return rec, nil
}

// GetCompareResult fetches the current provider state for a series and
// compares it against the stored record without writing anything.
func GetCompareResult(ctx context.Context, cfg *contract.Config, code string) (*schema.VintageComparison, error) {
	records, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	var target *catalog.Record
	for i := range records {
		if records[i].Code == code {
			target = &records[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("code %s not found in catalog %s", code, cfg.CatalogPath)
	}

	updater, store := BuildPipeline(cfg)
	fetched, _, err := updater.Provider.FetchSeries(ctx, target.APIURL, "")
	if err != nil {
		return nil, err
	}

	existing, err := store.LoadRecord(ctx, code)
	if err != nil {
		return nil, err
	}
	var stored map[string]float64
	if existing != nil {
		stored = existing.Values
	}

	return CompareValues(stored, fetched), nil
}

// ListDatasets returns the distinct dataset names in the catalog.
func ListDatasets(cfg *contract.Config) ([]string, error) {
	records, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	return catalog.Datasets(records), nil
}

// writeBatchResults dispatches batch output by mode: the text mode prints the
// aggregate summary, machine formats carry the per-record outcomes, and
// parquet writes an outcome file.
func writeBatchResults(summary schema.BatchSummary, outcomes []schema.RecordOutcome, cfg *contract.Config, duration time.Duration) error {
	ow := outwriter.NewOutWriter()
	switch cfg.Output {
	case schema.JSONOut, schema.CSVOut:
		return ow.WriteOutcomes(outcomes, cfg)
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return errors.New("--output-file is required for parquet output")
		}
		rows := make([]parquet.Outcome, 0, len(outcomes))
		recordedAt := time.Now()
		for _, out := range outcomes {
			var errText *string
			if out.Error != "" {
				e := out.Error
				errText = &e
			}
			rows = append(rows, parquet.Outcome{
				Code:        out.Code,
				Dataset:     out.Dataset,
				Label:       out.Label,
				Endpoint:    out.Endpoint,
				Kind:        string(out.Kind),
				Message:     out.Message,
				Error:       errText,
				NewPoints:   int32(out.NewPoints),
				TotalPoints: int32(out.TotalPoints),
				RecordedAt:  recordedAt,
			})
		}
		if err := parquet.WriteOutcomesParquet(rows, cfg.OutputFile); err != nil {
			return err
		}
		fmt.Printf("Exported %d outcome records to: %s\n", len(rows), cfg.OutputFile)
		return nil
	default:
		return ow.WriteSummary(summary, cfg, duration)
	}
}

// loadFailureEntries reads the failure worklist from the run store, or from
// the latest failure log artifact when run tracking is disabled.
func loadFailureEntries(cfg *contract.Config, mgr contract.RunManager) ([]schema.FailureEntry, error) {
	if rs := mgr.GetRunStore(); rs != nil && cfg.RunBackend != schema.NoneBackend {
		since := time.Now().Add(-cfg.RetryLookback)
		entries, err := rs.LoadFailures(cfg.Dataset, since)
		if err == nil {
			return entries, nil
		}
		contract.LogWarn("run store unavailable, falling back to failure log: %v", err)
	}

	path, err := artifact.LatestFailureLog(cfg.ArtifactsDir, cfg.Dataset)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, nil
	}
	log, err := artifact.ReadFailureLog(path)
	if err != nil {
		return nil, err
	}
	if ts, err := time.Parse(time.RFC3339, log.Timestamp); err == nil && time.Since(ts) > cfg.RetryLookback {
		return nil, nil
	}
	return log.FailedRecords, nil
}

// loadRetryWorklist rebuilds catalog records from the failure worklist.
func loadRetryWorklist(cfg *contract.Config, mgr contract.RunManager) ([]catalog.Record, error) {
	entries, err := loadFailureEntries(cfg, mgr)
	if err != nil {
		return nil, err
	}
	records := make([]catalog.Record, 0, len(entries))
	for _, e := range entries {
		records = append(records, catalog.Record{
			Code:        e.Code,
			Dataset:     cfg.Dataset,
			Label:       e.Label,
			GeneralName: e.GeneralName,
			APIURL:      e.Endpoint,
		})
	}
	return catalog.DedupeByCode(records), nil
}

func runConfigParams(cfg *contract.Config) map[string]any {
	return map[string]any{
		"workers":       cfg.Workers,
		"strategy":      string(cfg.Strategy),
		"dry_run":       cfg.DryRun,
		"resume":        cfg.Resume,
		"national_only": cfg.NationalOnly,
		"store_root":    cfg.StoreRoot,
	}
}

func datasetLabel(dataset string) string {
	if dataset == "" {
		return "all datasets"
	}
	return dataset
}
