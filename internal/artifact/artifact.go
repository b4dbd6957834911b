// Package artifact writes and reads the JSON artifacts a batch run leaves
// behind: the failure worklist and the scheduling results file.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"statsync/schema"
)

// FailureLog is the persisted failure worklist for one batch run. Its shape
// round-trips so a later retry invocation can rebuild a worklist from it.
type FailureLog struct {
	Dataset       string                `json:"dataset"`
	Timestamp     string                `json:"timestamp"`
	TotalFailed   int                   `json:"total_failed"`
	FailedRecords []schema.FailureEntry `json:"failed_records"`
}

// WriteFailureLog persists the batch's failure list to a timestamped file
// under dir and returns the path. Nothing is written when the batch had no
// failures.
func WriteFailureLog(dir string, summary schema.BatchSummary, now time.Time) (string, error) {
	if len(summary.Failures) == 0 {
		return "", nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating artifacts dir: %w", err)
	}

	log := FailureLog{
		Dataset:       summary.Dataset,
		Timestamp:     now.Format(time.RFC3339),
		TotalFailed:   len(summary.Failures),
		FailedRecords: summary.Failures,
	}
	path := filepath.Join(dir, fmt.Sprintf("failed_ingestion_%s_%s.json", summary.Dataset, now.Format("20060102_150405")))
	if err := writeJSON(path, log); err != nil {
		return "", err
	}
	return path, nil
}

// ReadFailureLog loads a failure log back as a retry worklist.
func ReadFailureLog(path string) (*FailureLog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading failure log: %w", err)
	}
	var log FailureLog
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("parsing failure log: %w", err)
	}
	return &log, nil
}

// LatestFailureLog finds the most recent failure log for a dataset under
// dir, or "" when none exists.
func LatestFailureLog(dir, dataset string) (string, error) {
	pattern := filepath.Join(dir, fmt.Sprintf("failed_ingestion_%s_*.json", dataset))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", nil
	}
	// Timestamped names sort chronologically.
	latest := matches[0]
	for _, m := range matches[1:] {
		if m > latest {
			latest = m
		}
	}
	return latest, nil
}

// WriteScheduleResult persists one scheduling invocation's results file and
// returns the path.
func WriteScheduleResult(dir string, result schema.ScheduleResult) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating artifacts dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("update_results_%s.json", result.Date.Format("20060102")))
	if err := writeJSON(path, result); err != nil {
		return "", err
	}
	return path, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling artifact: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing artifact: %w", err)
	}
	return nil
}
