package schema

import "time"

// RunStoreStatus represents the status of the run-tracking store.
type RunStoreStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalOutcomes int              `json:"total_outcomes"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// RunRecord represents a row from the statsync_runs table.
type RunRecord struct {
	RunID        int64
	Dataset      string
	StartTime    time.Time
	EndTime      *time.Time
	DurationMs   *int32
	Total        int32
	Succeeded    int32
	Failed       int32
	DryRun       bool
	ConfigParams *string
}

// OutcomeRecord represents a row from the statsync_outcomes table.
type OutcomeRecord struct {
	RunID       int64
	Code        string
	Dataset     string
	Label       string
	Endpoint    string
	Kind        string
	Message     string
	Error       *string
	NewPoints   int32
	TotalPoints int32
	RecordedAt  time.Time
}
