package schema

// Custom string types for type safety.
type (
	// OutcomeKind classifies the result of a single series update task.
	OutcomeKind string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for run tracking.
	DatabaseBackend string

	// UpdateStrategy names how a series is refreshed.
	UpdateStrategy string

	// Priority orders datasets within a scheduling pass.
	Priority string
)

// All outcome kinds. Every task finishes with exactly one of these.
const (
	OutcomeFirstIngestion OutcomeKind = "first-ingestion"
	OutcomeUnchanged      OutcomeKind = "unchanged"
	OutcomeRevised        OutcomeKind = "revised"
	OutcomeNoNewData      OutcomeKind = "no-new-data"
	OutcomeFailure        OutcomeKind = "failure"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All run-tracking backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All update strategies supported.
const (
	StrategyIncremental UpdateStrategy = "incremental"
	StrategyFull        UpdateStrategy = "full"
	StrategyAuto        UpdateStrategy = "auto" // incremental first, full on fetch failure
)

// All dataset priorities supported.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidBackends lists all valid run-tracking backends.
var ValidBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidStrategies lists all valid update strategies.
var ValidStrategies = map[UpdateStrategy]struct{}{
	StrategyIncremental: {},
	StrategyFull:        {},
	StrategyAuto:        {},
}

// PriorityRank maps priorities to sort order (lower runs earlier).
var PriorityRank = map[Priority]int{
	PriorityHigh:   0,
	PriorityMedium: 1,
	PriorityLow:    2,
}
