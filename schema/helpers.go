package schema

import "sort"

// SortedPeriods returns the period keys of a value map in ascending
// calendar order. Canonical periods sort lexicographically.
func SortedPeriods(values map[string]float64) []string {
	periods := make([]string, 0, len(values))
	for p := range values {
		periods = append(periods, p)
	}
	sort.Strings(periods)
	return periods
}

// LastPeriod returns the most recent period key of a value map, or the
// empty string when the map is empty. This is the incremental boundary.
func LastPeriod(values map[string]float64) string {
	last := ""
	for p := range values {
		if p > last {
			last = p
		}
	}
	return last
}

// MergeValues merges fetched values into existing ones. New values win on
// key collision; no existing key is ever dropped. The inputs are not
// mutated.
func MergeValues(existing, fetched map[string]float64) map[string]float64 {
	merged := make(map[string]float64, len(existing)+len(fetched))
	for p, v := range existing {
		merged[p] = v
	}
	for p, v := range fetched {
		merged[p] = v
	}
	return merged
}

// FilterAfter returns the subset of values with periods strictly after the
// boundary. A fetcher may ignore a requested bound and over-return full
// history; callers rely on this filter for the incremental invariant.
func FilterAfter(values map[string]float64, boundary string) map[string]float64 {
	if boundary == "" {
		return values
	}
	filtered := make(map[string]float64)
	for p, v := range values {
		if p > boundary {
			filtered[p] = v
		}
	}
	return filtered
}
