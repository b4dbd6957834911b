package core

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statsync/internal/catalog"
	"statsync/schema"
)

func batchRecords(n int) []catalog.Record {
	records := make([]catalog.Record, 0, n)
	for i := range n {
		records = append(records, catalog.Record{
			Code:    fmt.Sprintf("px%d", i),
			Dataset: "ipca",
			Label:   fmt.Sprintf("series %d", i),
			APIURL:  fmt.Sprintf("https://api.example.org/t/%d/p/all", i),
		})
	}
	return records
}

func TestBatchProcessesEveryRecord(t *testing.T) {
	update := func(ctx context.Context, rec catalog.Record) schema.RecordOutcome {
		return schema.RecordOutcome{Code: rec.Code, Kind: schema.OutcomeUnchanged}
	}
	runner := NewBatchRunner(update, 4, nil)

	summary, outcomes := runner.Run(context.Background(), "ipca", batchRecords(20), false)

	assert.Equal(t, 20, summary.Total)
	assert.Equal(t, 20, summary.Succeeded)
	assert.Zero(t, summary.Failed)
	assert.Len(t, outcomes, 20)
	assert.True(t, summary.Success())
}

func TestBatchSurvivesPanickingTask(t *testing.T) {
	update := func(ctx context.Context, rec catalog.Record) schema.RecordOutcome {
		if rec.Code == "px3" {
			panic("unexpected condition")
		}
		return schema.RecordOutcome{Code: rec.Code, Kind: schema.OutcomeUnchanged}
	}
	runner := NewBatchRunner(update, 4, nil)

	summary, outcomes := runner.Run(context.Background(), "ipca", batchRecords(10), false)

	assert.Equal(t, 10, summary.Total)
	assert.Equal(t, 9, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, "px3", summary.Failures[0].Code)
	assert.Contains(t, summary.Failures[0].Error, "panic")
	assert.Len(t, outcomes, 10)
}

func TestBatchDedupesByCode(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]int{}
	update := func(ctx context.Context, rec catalog.Record) schema.RecordOutcome {
		mu.Lock()
		seen[rec.Code]++
		mu.Unlock()
		return schema.RecordOutcome{Code: rec.Code, Kind: schema.OutcomeUnchanged}
	}
	records := append(batchRecords(3), batchRecords(3)...)
	runner := NewBatchRunner(update, 4, nil)

	summary, _ := runner.Run(context.Background(), "ipca", records, false)

	assert.Equal(t, 3, summary.Total)
	for code, n := range seen {
		assert.Equal(t, 1, n, "code %s ran more than once", code)
	}
}

func TestBatchCountsOutcomeKinds(t *testing.T) {
	kinds := map[string]schema.OutcomeKind{
		"px0": schema.OutcomeFirstIngestion,
		"px1": schema.OutcomeRevised,
		"px2": schema.OutcomeUnchanged,
		"px3": schema.OutcomeNoNewData,
		"px4": schema.OutcomeFailure,
	}
	update := func(ctx context.Context, rec catalog.Record) schema.RecordOutcome {
		return schema.RecordOutcome{Code: rec.Code, Kind: kinds[rec.Code], Error: "boom"}
	}
	runner := NewBatchRunner(update, 2, nil)

	summary, _ := runner.Run(context.Background(), "ipca", batchRecords(5), false)

	assert.Equal(t, 1, summary.FirstIngestions)
	assert.Equal(t, 1, summary.Revised)
	assert.Equal(t, 1, summary.Unchanged)
	assert.Equal(t, 1, summary.NoNewData)
	assert.Equal(t, 1, summary.Failed)
}

func TestBatchProgressOutput(t *testing.T) {
	update := func(ctx context.Context, rec catalog.Record) schema.RecordOutcome {
		return schema.RecordOutcome{Code: rec.Code, Kind: schema.OutcomeUnchanged, Message: "No changes: 5 points"}
	}
	var buf bytes.Buffer
	runner := NewBatchRunner(update, 1, &buf)

	runner.Run(context.Background(), "ipca", batchRecords(2), false)

	lines := buf.String()
	assert.Contains(t, lines, "1/2")
	assert.Contains(t, lines, "2/2")
	assert.Contains(t, lines, "unchanged")
}

func TestBatchOutcomesCoverAllCodes(t *testing.T) {
	update := func(ctx context.Context, rec catalog.Record) schema.RecordOutcome {
		return schema.RecordOutcome{Code: rec.Code, Kind: schema.OutcomeUnchanged}
	}
	runner := NewBatchRunner(update, 8, nil)

	_, outcomes := runner.Run(context.Background(), "ipca", batchRecords(5), false)

	codes := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		codes = append(codes, o.Code)
	}
	sort.Strings(codes)
	assert.Equal(t, []string{"px0", "px1", "px2", "px3", "px4"}, codes)
}
