// Package schema has configs, models and shared constants for all parts of statsync.
package schema

// SeriesRecord is the unit of storage for one tracked indicator.
// Metadata is freely extensible and never interpreted structurally by the
// core except for the MetaLastUpdated key. Values maps canonical period
// strings (YYYY-MM-DD) to numeric observations; no ordering is persisted.
type SeriesRecord struct {
	Metadata map[string]any     `json:"metadata"`
	Values   map[string]float64 `json:"values"`
}

// Vintage is an immutable snapshot of a series' prior values, archived
// before a live record is overwritten by a revision-bearing update.
type Vintage struct {
	Timestamp        string             `json:"timestamp"`
	Values           map[string]float64 `json:"values"`
	MetadataSnapshot map[string]any     `json:"metadata_snapshot"`
}

// RowMeta is a small diagnostic snapshot taken from the first data row of a
// provider response (territory and variable descriptors).
type RowMeta struct {
	TerritoryCode string `json:"territory_code,omitempty"`
	TerritoryName string `json:"territory_name,omitempty"`
	VariableCode  string `json:"variable_code,omitempty"`
	VariableName  string `json:"variable_name,omitempty"`
}

// Metadata keys the core reads or refreshes on every update. Everything else
// in SeriesRecord.Metadata passes through untouched.
const (
	MetaLastUpdated       = "last_updated"
	MetaAPIURL            = "api_url"
	MetaCode              = "px_code"
	MetaDataset           = "dataset"
	MetaBranch            = "branch"
	MetaLabel             = "label"
	MetaGeneralName       = "general_name"
	MetaRowSample         = "row_sample"
	MetaVintageComparison = "vintage_comparison"
)
