// Package report is the pure filter and aggregation engine. Given the active
// entry collection and the current filter selection it recomputes everything
// from scratch; there is no incremental path and no state.
package report

import (
	"sort"
	"time"

	"devtimesheet/internal/entry"
)

// Period selects the time window of the filter, computed against the local
// calendar with time of day stripped to midnight.
type Period string

const (
	PeriodAll   Period = "all"
	PeriodToday Period = "today"
	PeriodWeek  Period = "week" // Sunday through Saturday containing today
	PeriodMonth Period = "month"
)

// Periods lists the filter cycle order for the UI.
var Periods = []Period{PeriodAll, PeriodToday, PeriodWeek, PeriodMonth}

// ProjectAll is the project filter value meaning "no project restriction".
const ProjectAll = "all"

// Filter narrows the active entry set.
type Filter struct {
	Project string // ProjectAll or one project name
	Period  Period
}

// ChartLimit is how many projects appear individually in the by-project
// series before the rest merge into the Others bucket.
const ChartLimit = 5

// OthersLabel names the merged bucket of projects beyond ChartLimit.
const OthersLabel = "Others"

// Total is one aggregation bucket.
type Total struct {
	Label string
	Hours float64
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// inPeriod reports whether a canonical date string falls in the period
// relative to now. Unparseable dates never match a restricted period.
func inPeriod(date string, p Period, now time.Time) bool {
	if p == PeriodAll || p == "" {
		return true
	}
	d, err := entry.ParseDate(date)
	if err != nil {
		return false
	}
	today := midnight(now)

	switch p {
	case PeriodToday:
		return d.Equal(today)
	case PeriodWeek:
		start := today.AddDate(0, 0, -int(today.Weekday()))
		end := start.AddDate(0, 0, 6)
		return !d.Before(start) && !d.After(end)
	case PeriodMonth:
		return d.Month() == today.Month() && d.Year() == today.Year()
	}
	return false
}

// Apply returns the subset of entries passing both filter dimensions,
// preserving input order.
func Apply(entries []entry.TimeEntry, f Filter, now time.Time) []entry.TimeEntry {
	out := make([]entry.TimeEntry, 0, len(entries))
	for _, e := range entries {
		if f.Project != "" && f.Project != ProjectAll && e.Project != f.Project {
			continue
		}
		if !inPeriod(e.Date, f.Period, now) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// ByProject sums hours per project, sorted by hours descending. Ties keep a
// stable project-name order so output is deterministic.
func ByProject(entries []entry.TimeEntry) []Total {
	sums := make(map[string]float64)
	for _, e := range entries {
		sums[e.Project] += e.Hours
	}

	totals := make([]Total, 0, len(sums))
	for p, h := range sums {
		totals = append(totals, Total{Label: p, Hours: h})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Hours != totals[j].Hours {
			return totals[i].Hours > totals[j].Hours
		}
		return totals[i].Label < totals[j].Label
	})
	return totals
}

// ChartSeries reduces by-project totals for chart display: the top ChartLimit
// projects individually, everything beyond merged into one Others bucket.
// With ChartLimit or fewer projects no merging occurs.
func ChartSeries(totals []Total) []Total {
	if len(totals) <= ChartLimit {
		return totals
	}
	series := make([]Total, ChartLimit, ChartLimit+1)
	copy(series, totals[:ChartLimit])

	var others float64
	for _, t := range totals[ChartLimit:] {
		others += t.Hours
	}
	return append(series, Total{Label: OthersLabel, Hours: others})
}

// ByDate sums hours per calendar day, sorted chronologically ascending by
// parsed date, not lexicographically. Labels are display dates (dd/mm/yyyy).
func ByDate(entries []entry.TimeEntry) []Total {
	sums := make(map[string]float64)
	for _, e := range entries {
		sums[e.Date] += e.Hours
	}

	dates := make([]string, 0, len(sums))
	for d := range sums {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool {
		di, erri := entry.ParseDate(dates[i])
		dj, errj := entry.ParseDate(dates[j])
		if erri != nil || errj != nil {
			return dates[i] < dates[j]
		}
		return di.Before(dj)
	})

	totals := make([]Total, len(dates))
	for i, d := range dates {
		totals[i] = Total{Label: entry.DisplayDate(d), Hours: sums[d]}
	}
	return totals
}

// GrandTotal sums hours across the subset.
func GrandTotal(entries []entry.TimeEntry) float64 {
	var total float64
	for _, e := range entries {
		total += e.Hours
	}
	return total
}
