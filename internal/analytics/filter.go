// Package analytics is the pure expense pipeline: time-window filtering,
// category and day aggregation, statistics and chart-ready projections.
// Every function takes an immutable snapshot and computes its result from
// scratch; nothing here holds state between calls.
package analytics

import (
	"time"

	"orbit/internal/core"
)

// Filter narrows expenses to the given period relative to now. The result
// is a subsequence of the input: surviving elements keep their relative
// order. Boundaries are inclusive.
//
// "Today" is now truncated to midnight in now's location, while expense
// dates are midnight UTC points. Near timezone boundaries an expense can
// therefore shift in or out of a window by one day; that matches how the
// date comparison has always behaved and is left as is.
func Filter(expenses []core.Expense, period core.Period, now time.Time) []core.Expense {
	start, bounded := periodStart(period, now)
	if !bounded {
		return expenses
	}
	out := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if !e.Date.Before(start) {
			out = append(out, e)
		}
	}
	return out
}

// periodStart computes the inclusive lower boundary for a period. The
// second return is false when the period imposes no boundary.
func periodStart(period core.Period, now time.Time) (time.Time, bool) {
	switch period {
	case core.PeriodWeek:
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return today.AddDate(0, 0, -7), true
	case core.PeriodMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), true
	case core.PeriodYear:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), true
	default:
		return time.Time{}, false
	}
}
