package schema

// ChangedValue describes a single revised observation between two snapshots
// of a series. DeltaPct is nil when the old value is zero.
type ChangedValue struct {
	Period   string   `json:"period"`
	OldValue float64  `json:"old_value"`
	NewValue float64  `json:"new_value"`
	Delta    float64  `json:"delta"`
	DeltaPct *float64 `json:"delta_pct"`
}

// VintageComparison classifies every period of two value maps as added,
// removed, changed or unchanged. Added and Removed are sorted ascending.
type VintageComparison struct {
	Added          []string       `json:"added"`
	Removed        []string       `json:"removed"`
	Changed        []ChangedValue `json:"changed"`
	UnchangedCount int            `json:"unchanged_count"`
	TotalChanges   int            `json:"total_changes"`
}

// HasChanges reports whether the comparison warrants archiving a vintage.
func (c *VintageComparison) HasChanges() bool {
	return c != nil && c.TotalChanges > 0
}
