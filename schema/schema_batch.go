package schema

import "time"

// RecordOutcome is the structured result of one series update task.
// Tasks return these over a channel; the orchestrator aggregates them.
type RecordOutcome struct {
	Code        string      `json:"px_code"`
	Dataset     string      `json:"dataset"`
	Label       string      `json:"label"`
	GeneralName string      `json:"general_name,omitempty"`
	Endpoint    string      `json:"api_url"`
	Kind        OutcomeKind `json:"kind"`
	Message     string      `json:"message"`
	Error       string      `json:"error,omitempty"`
	NewPoints   int         `json:"new_points"`
	TotalPoints int         `json:"total_points"`

	// Comparison is set on the full-refresh path when prior data existed.
	Comparison *VintageComparison `json:"comparison,omitempty"`

	// Cause keeps the typed error for in-process policy decisions; the
	// serialized form carries only the Error text.
	Cause error `json:"-"`
}

// OK reports whether the task finished without a failure.
func (o *RecordOutcome) OK() bool {
	return o.Kind != OutcomeFailure
}

// BatchSummary aggregates the outcomes of one batch run over a dataset.
type BatchSummary struct {
	Dataset         string        `json:"dataset"`
	StartTime       time.Time     `json:"start_time"`
	Duration        time.Duration `json:"duration"`
	Total           int           `json:"total"`
	Succeeded       int           `json:"succeeded"`
	Failed          int           `json:"failed"`
	FirstIngestions int           `json:"first_ingestions"`
	Revised         int           `json:"revised"`
	Unchanged       int           `json:"unchanged"`
	NoNewData       int           `json:"no_new_data"`
	DryRun          bool          `json:"dry_run"`

	// Failures holds the per-record failure worklist for this batch.
	Failures []FailureEntry `json:"failures,omitempty"`
}

// Success reports whether every record in the batch succeeded.
func (s *BatchSummary) Success() bool {
	return s.Failed == 0
}

// Count folds one outcome into the aggregate counters.
func (s *BatchSummary) Count(o RecordOutcome) {
	s.Total++
	switch o.Kind {
	case OutcomeFailure:
		s.Failed++
		s.Failures = append(s.Failures, FailureEntry{
			Code:        o.Code,
			Label:       o.Label,
			GeneralName: o.GeneralName,
			Endpoint:    o.Endpoint,
			Error:       o.Error,
		})
	case OutcomeFirstIngestion:
		s.Succeeded++
		s.FirstIngestions++
	case OutcomeRevised:
		s.Succeeded++
		s.Revised++
	case OutcomeNoNewData:
		s.Succeeded++
		s.NoNewData++
	default:
		s.Succeeded++
		s.Unchanged++
	}
}

// FailureEntry is one element of the persisted failure worklist. The shape
// must round-trip through the failure log artifact so a later retry
// invocation can rebuild a worklist from it.
type FailureEntry struct {
	Code        string `json:"px_code"`
	Label       string `json:"label"`
	GeneralName string `json:"general_name,omitempty"`
	Endpoint    string `json:"api_url"`
	Error       string `json:"error"`
}

// ScheduleResult records one scheduling invocation: which datasets were due
// and how each batch fared.
type ScheduleResult struct {
	Date             time.Time       `json:"date"`
	DatasetsSelected []string        `json:"datasets_selected"`
	Results          map[string]bool `json:"results"`
	SuccessCount     int             `json:"success_count"`
	FailureCount     int             `json:"failure_count"`
}
