// Package core implements the update, comparison and batch orchestration
// logic for tracked series.
package core

import (
	"math"
	"sort"

	"statsync/schema"
)

// relTolerance guards the changed-value classification against floating
// point round-trip noise.
const relTolerance = 1e-9

// valuesClose reports whether two observations are equal within a relative
// tolerance. Mirrors math.isclose semantics with a zero absolute tolerance.
func valuesClose(a, b float64) bool {
	return math.Abs(a-b) <= relTolerance*math.Max(math.Abs(a), math.Abs(b))
}

// CompareValues classifies the differences between two versions of a series.
// Added and removed period lists are sorted ascending. A common period
// counts as changed only when the delta exceeds the relative tolerance.
// DeltaPct is nil when the old value is zero.
func CompareValues(oldValues, newValues map[string]float64) *schema.VintageComparison {
	cmp := &schema.VintageComparison{
		Added:   []string{},
		Removed: []string{},
		Changed: []schema.ChangedValue{},
	}

	for period, newVal := range newValues {
		oldVal, ok := oldValues[period]
		if !ok {
			cmp.Added = append(cmp.Added, period)
			continue
		}
		if valuesClose(oldVal, newVal) {
			cmp.UnchangedCount++
			continue
		}
		change := schema.ChangedValue{
			Period:   period,
			OldValue: oldVal,
			NewValue: newVal,
			Delta:    newVal - oldVal,
		}
		if oldVal != 0 {
			pct := (newVal - oldVal) / oldVal * 100
			change.DeltaPct = &pct
		}
		cmp.Changed = append(cmp.Changed, change)
	}

	for period := range oldValues {
		if _, ok := newValues[period]; !ok {
			cmp.Removed = append(cmp.Removed, period)
		}
	}

	sort.Strings(cmp.Added)
	sort.Strings(cmp.Removed)
	sort.Slice(cmp.Changed, func(i, j int) bool {
		return cmp.Changed[i].Period < cmp.Changed[j].Period
	})

	cmp.TotalChanges = len(cmp.Added) + len(cmp.Removed) + len(cmp.Changed)
	return cmp
}
