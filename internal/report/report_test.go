package report

import (
	"testing"
	"time"

	"devtimesheet/internal/entry"
)

// now is a Tuesday so the week window spans the surrounding Sunday through
// Saturday.
var now = time.Date(2026, 3, 10, 15, 30, 0, 0, time.Local)

func sample() []entry.TimeEntry {
	return []entry.TimeEntry{
		{ID: 6, Date: "2026-03-10", Project: "website", Hours: 2},   // today
		{ID: 5, Date: "2026-03-08", Project: "api", Hours: 1.5},     // Sunday, same week
		{ID: 4, Date: "2026-03-07", Project: "website", Hours: 3},   // Saturday, prior week
		{ID: 3, Date: "2026-03-01", Project: "api", Hours: 4},       // same month
		{ID: 2, Date: "2026-02-20", Project: "infra", Hours: 0.5},   // prior month
		{ID: 1, Date: "2025-12-31", Project: "website", Hours: 8},   // prior year
	}
}

func TestApplyPeriods(t *testing.T) {
	tests := []struct {
		period Period
		want   int
	}{
		{PeriodAll, 6},
		{PeriodToday, 1},
		{PeriodWeek, 2},
		{PeriodMonth, 4},
	}

	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			got := Apply(sample(), Filter{Project: ProjectAll, Period: tt.period}, now)
			if len(got) != tt.want {
				t.Errorf("period %s: got %d entries, want %d", tt.period, len(got), tt.want)
			}
		})
	}
}

func TestApplyProjectFilter(t *testing.T) {
	got := Apply(sample(), Filter{Project: "website", Period: PeriodAll}, now)
	if len(got) != 3 {
		t.Fatalf("expected 3 website entries, got %d", len(got))
	}
	for _, e := range got {
		if e.Project != "website" {
			t.Errorf("unexpected project %q in filtered set", e.Project)
		}
	}

	// Both dimensions combine
	got = Apply(sample(), Filter{Project: "website", Period: PeriodWeek}, now)
	if len(got) != 1 || got[0].ID != 6 {
		t.Errorf("expected only today's website entry, got %+v", got)
	}
}

func TestApplyPreservesOrder(t *testing.T) {
	got := Apply(sample(), Filter{Project: ProjectAll, Period: PeriodAll}, now)
	for i := 1; i < len(got); i++ {
		if got[i].ID > got[i-1].ID {
			t.Fatal("Apply must preserve input order")
		}
	}
}

func TestApplyUnparseableDate(t *testing.T) {
	entries := []entry.TimeEntry{{ID: 1, Date: "not-a-date", Project: "x", Hours: 1}}

	if got := Apply(entries, Filter{Period: PeriodWeek}, now); len(got) != 0 {
		t.Error("unparseable dates must not match a restricted period")
	}
	if got := Apply(entries, Filter{Period: PeriodAll}, now); len(got) != 1 {
		t.Error("unparseable dates still appear under the all period")
	}
}

func TestByProject(t *testing.T) {
	totals := ByProject(sample())
	if len(totals) != 3 {
		t.Fatalf("expected 3 projects, got %d", len(totals))
	}
	// website 13, api 5.5, infra 0.5
	if totals[0].Label != "website" || totals[0].Hours != 13 {
		t.Errorf("top project wrong: %+v", totals[0])
	}
	if totals[2].Label != "infra" {
		t.Errorf("expected infra last, got %+v", totals[2])
	}
}

func TestChartSeriesMergesBeyondLimit(t *testing.T) {
	totals := []Total{
		{Label: "a", Hours: 10},
		{Label: "b", Hours: 8},
		{Label: "c", Hours: 6},
		{Label: "d", Hours: 4},
		{Label: "e", Hours: 2},
		{Label: "f", Hours: 1},
		{Label: "g", Hours: 1},
	}

	series := ChartSeries(totals)
	if len(series) != ChartLimit+1 {
		t.Fatalf("expected %d buckets, got %d", ChartLimit+1, len(series))
	}
	last := series[len(series)-1]
	if last.Label != OthersLabel || last.Hours != 2 {
		t.Errorf("expected Others bucket of 2 hours, got %+v", last)
	}

	// The merge loses no hours
	var in, out float64
	for _, t := range totals {
		in += t.Hours
	}
	for _, t := range series {
		out += t.Hours
	}
	if in != out {
		t.Errorf("chart series dropped hours: in %v out %v", in, out)
	}
}

func TestChartSeriesNoMergeAtLimit(t *testing.T) {
	totals := []Total{
		{Label: "a", Hours: 3},
		{Label: "b", Hours: 2},
	}
	series := ChartSeries(totals)
	if len(series) != 2 {
		t.Fatalf("expected no merge under the limit, got %d buckets", len(series))
	}
	for _, s := range series {
		if s.Label == OthersLabel {
			t.Error("no Others bucket expected under the limit")
		}
	}
}

func TestByDateChronological(t *testing.T) {
	totals := ByDate(sample())
	if len(totals) != 6 {
		t.Fatalf("expected 6 days, got %d", len(totals))
	}
	// Oldest first, rendered as display dates
	if totals[0].Label != "31/12/2025" {
		t.Errorf("expected oldest day first, got %q", totals[0].Label)
	}
	if totals[len(totals)-1].Label != "10/03/2026" {
		t.Errorf("expected newest day last, got %q", totals[len(totals)-1].Label)
	}
}

func TestByDateSumsSameDay(t *testing.T) {
	entries := []entry.TimeEntry{
		{Date: "2026-03-10", Hours: 1},
		{Date: "2026-03-10", Hours: 2.5},
	}
	totals := ByDate(entries)
	if len(totals) != 1 || totals[0].Hours != 3.5 {
		t.Errorf("expected one bucket of 3.5 hours, got %+v", totals)
	}
}

func TestGrandTotal(t *testing.T) {
	if got := GrandTotal(sample()); got != 19 {
		t.Errorf("expected 19 hours total, got %v", got)
	}
	if got := GrandTotal(nil); got != 0 {
		t.Errorf("expected 0 for empty set, got %v", got)
	}
}

// Filtering then aggregating partitions the grand total: the filtered subset
// plus its complement always equals the whole.
func TestFilterPartitionsTotal(t *testing.T) {
	entries := sample()
	whole := GrandTotal(entries)

	for _, p := range Periods {
		in := Apply(entries, Filter{Project: ProjectAll, Period: p}, now)
		matched := make(map[int64]bool, len(in))
		for _, e := range in {
			matched[e.ID] = true
		}
		var rest float64
		for _, e := range entries {
			if !matched[e.ID] {
				rest += e.Hours
			}
		}
		if GrandTotal(in)+rest != whole {
			t.Errorf("period %s does not partition the total", p)
		}
	}
}
