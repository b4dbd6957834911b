// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"errors"
	"fmt"
	"time"

	"statsync/schema"
)

// SeriesProvider defines the remote fetch operations against the statistics
// agency API. This allows the core update logic to be tested without a real
// HTTP endpoint.
type SeriesProvider interface {
	// FetchSeries executes one query against the provider and parses the
	// tabular response into a period to value mapping plus a metadata
	// snapshot from the first data row. A non-empty lastPeriod narrows the
	// outbound query to periods after that boundary; implementations that
	// cannot narrow may over-return full history and callers must filter.
	FetchSeries(ctx context.Context, apiURL string, lastPeriod string) (map[string]float64, schema.RowMeta, error)
}

// SeriesStore defines read/write access to one series' full record at a
// stable path in the document store.
type SeriesStore interface {
	// LoadRecord reads the stored record for a code. A missing record
	// returns (nil, nil).
	LoadRecord(ctx context.Context, code string) (*schema.SeriesRecord, error)

	// SaveRecord replaces the live record for a code.
	SaveRecord(ctx context.Context, code string, rec *schema.SeriesRecord) error

	// SaveVintage appends an immutable snapshot under the code's vintage
	// sub-collection. Vintages are never mutated or deleted.
	SaveVintage(ctx context.Context, code string, v schema.Vintage) error

	// ListCodes returns the codes already present in the store via a
	// shallow listing.
	ListCodes(ctx context.Context) ([]string, error)
}

// RunStore defines the interface for tracking batch runs and persisting the
// failure worklist.
type RunStore interface {
	// BeginRun creates a new run and returns its unique ID.
	BeginRun(startTime time.Time, dataset string, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data.
	EndRun(runID int64, endTime time.Time, summary schema.BatchSummary) error

	// RecordOutcome stores one per-record outcome.
	RecordOutcome(runID int64, outcome schema.RecordOutcome) error

	// LoadFailures returns the failure worklist for a dataset recorded at
	// or after since.
	LoadFailures(dataset string, since time.Time) ([]schema.FailureEntry, error)

	// HasRecentFailures reports whether a dataset has failures recorded at
	// or after since. Used by the scheduling retry windows.
	HasRecentFailures(dataset string, since time.Time) (bool, error)

	// GetStatus returns status information about the run store.
	GetStatus() (schema.RunStoreStatus, error)

	// GetAllRuns returns all run rows, for export.
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllOutcomes returns all outcome rows, for export.
	GetAllOutcomes() ([]schema.OutcomeRecord, error)

	// Close closes the underlying connection.
	Close() error
}

// RunManager defines the interface for accessing the run store. This allows
// the persistence layer to be mocked for testing.
type RunManager interface {
	GetRunStore() RunStore
}

// FetchError reports a failed provider query: transport failure, malformed
// or too-short response, or an unidentifiable period column. It aborts the
// single series' update and never the batch.
type FetchError struct {
	URL    string
	Reason string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Reason)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsFetchError reports whether err is (or wraps) a FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// StoreError reports a failed document-store read or write. A vintage
// archive failure is swallowed with a warning; a live record failure is a
// hard per-record failure.
type StoreError struct {
	Path string
	Op   string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
