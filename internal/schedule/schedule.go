// Package schedule decides which datasets are due for a refresh on a given
// day, using per-dataset day-of-month windows, retry windows gated on a
// recent failed run, and priority ordering.
package schedule

import (
	"sort"
	"time"

	"statsync/internal/contract"
	"statsync/schema"
)

// FailureChecker reports whether a dataset recorded failures at or after
// since. The run store satisfies this.
type FailureChecker interface {
	HasRecentFailures(dataset string, since time.Time) (bool, error)
}

// Due reports whether one dataset should refresh today. Retry days only
// count when the dataset's last window left recent failures behind.
func Due(dataset string, sched contract.DatasetSchedule, today time.Time, checker FailureChecker, lookback time.Duration) bool {
	switch sched.Frequency {
	case "daily":
		return true
	case "monthly":
		if containsInt(sched.Days, today.Day()) {
			return true
		}
		return inRetryWindow(dataset, sched, today, checker, lookback)
	case "quarterly":
		if !containsInt(sched.Months, int(today.Month())) {
			return false
		}
		if containsInt(sched.Days, today.Day()) {
			return true
		}
		return inRetryWindow(dataset, sched, today, checker, lookback)
	default:
		return false
	}
}

func inRetryWindow(dataset string, sched contract.DatasetSchedule, today time.Time, checker FailureChecker, lookback time.Duration) bool {
	if !containsInt(sched.RetryDays, today.Day()) || checker == nil {
		return false
	}
	failed, err := checker.HasRecentFailures(dataset, today.Add(-lookback))
	if err != nil {
		contract.LogWarn("could not check recent failures for %s: %v", dataset, err)
		return false
	}
	return failed
}

// DatasetsDue returns the datasets due today, ordered by priority then name
// for a stable run order.
func DatasetsDue(schedules map[string]contract.DatasetSchedule, today time.Time, checker FailureChecker, lookback time.Duration) []string {
	due := make([]string, 0, len(schedules))
	for name, sched := range schedules {
		if Due(name, sched, today, checker, lookback) {
			due = append(due, name)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		pi := rank(schedules[due[i]].Priority)
		pj := rank(schedules[due[j]].Priority)
		if pi != pj {
			return pi < pj
		}
		return due[i] < due[j]
	})
	return due
}

func rank(p schema.Priority) int {
	if r, ok := schema.PriorityRank[p]; ok {
		return r
	}
	return len(schema.PriorityRank)
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
