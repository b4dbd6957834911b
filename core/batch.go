package core

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"statsync/internal/catalog"
	"statsync/internal/contract"
	"statsync/schema"
)

// BatchRunner fans series update tasks out onto a bounded worker pool and
// aggregates their outcomes. Aggregation happens on a single goroutine fed
// by a result channel, so no counter needs its own lock.
type BatchRunner struct {
	Update  UpdateFunc
	Workers int

	// Progress receives one line per completed task. Nil disables
	// progress output.
	Progress  io.Writer
	UseColors bool

	// Now is injectable for deterministic summaries in tests.
	Now func() time.Time
}

// NewBatchRunner wires a runner with the real clock.
func NewBatchRunner(update UpdateFunc, workers int, progress io.Writer) *BatchRunner {
	return &BatchRunner{Update: update, Workers: workers, Progress: progress, Now: time.Now}
}

// Run processes every record and reports aggregate counts; it never aborts
// early on a single failure. Records are de-duplicated by code before
// fan-out so at most one updater per identifier is in flight.
func (b *BatchRunner) Run(ctx context.Context, dataset string, records []catalog.Record, dryRun bool) (schema.BatchSummary, []schema.RecordOutcome) {
	records = catalog.DedupeByCode(records)

	start := b.Now()
	summary := schema.BatchSummary{
		Dataset:   dataset,
		StartTime: start,
		DryRun:    dryRun,
	}

	taskCh := make(chan catalog.Record)
	resultCh := make(chan schema.RecordOutcome)

	var wg sync.WaitGroup
	workers := b.Workers
	if workers < 1 {
		workers = 1
	}
	for range workers {
		wg.Go(func() {
			for rec := range taskCh {
				resultCh <- b.runTask(ctx, rec)
			}
		})
	}

	go func() {
		for _, rec := range records {
			taskCh <- rec
		}
		close(taskCh)
		wg.Wait()
		close(resultCh)
	}()

	outcomes := make([]schema.RecordOutcome, 0, len(records))
	done := 0
	for out := range resultCh {
		done++
		summary.Count(out)
		outcomes = append(outcomes, out)
		b.printProgress(done, len(records), out)
	}

	summary.Duration = b.Now().Sub(start)
	return summary, outcomes
}

// runTask is the per-record boundary: every panic is converted into a
// failure outcome so one bad task cannot take down the batch.
func (b *BatchRunner) runTask(ctx context.Context, rec catalog.Record) (out schema.RecordOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out = schema.RecordOutcome{
				Code:        rec.Code,
				Dataset:     rec.Dataset,
				Label:       rec.Label,
				GeneralName: rec.GeneralName,
				Endpoint:    rec.APIURL,
				Kind:        schema.OutcomeFailure,
				Error:       fmt.Sprintf("panic: %v", r),
			}
		}
	}()
	return b.Update(ctx, rec)
}

func (b *BatchRunner) printProgress(done, total int, out schema.RecordOutcome) {
	if b.Progress == nil {
		return
	}
	label := contract.GetPlainLabel(out.Kind)
	if b.UseColors {
		label = contract.GetColorLabel(out.Kind)
	}
	detail := out.Message
	if !out.OK() {
		detail = out.Error
	}
	fmt.Fprintf(b.Progress, "[%s] %d/%d %s | %s\n", label, done, total, out.Code, detail)
}
