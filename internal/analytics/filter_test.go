package analytics

import (
	"testing"
	"time"

	"orbit/internal/core"
)

func exp(id string, cents int64, category, date string) core.Expense {
	d, err := core.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return core.Expense{
		ID:          id,
		Description: "e-" + id,
		Amount:      core.Money{Cents: cents},
		Category:    category,
		Date:        d,
	}
}

func sample() []core.Expense {
	return []core.Expense{
		exp("1", 10000, "Food", "2024-01-01"),
		exp("2", 20000, "Food", "2024-01-02"),
	}
}

func TestFilterAllIsIdentity(t *testing.T) {
	in := sample()
	for _, now := range []time.Time{
		time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2030, 6, 15, 23, 59, 0, 0, time.Local),
	} {
		got := Filter(in, core.PeriodAll, now)
		if len(got) != len(in) {
			t.Fatalf("all filter changed length: %d != %d", len(got), len(in))
		}
		for i := range in {
			if got[i].ID != in[i].ID {
				t.Fatalf("all filter reordered at %d", i)
			}
		}
	}
}

func TestFilterIsOrderPreservingSubsequence(t *testing.T) {
	in := []core.Expense{
		exp("1", 100, "A", "2024-12-20"),
		exp("2", 100, "B", "2025-01-02"),
		exp("3", 100, "C", "2024-06-01"),
		exp("4", 100, "D", "2025-01-04"),
	}
	now := time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC)
	for _, period := range []core.Period{core.PeriodWeek, core.PeriodMonth, core.PeriodYear, core.PeriodAll} {
		got := Filter(in, period, now)
		// Verify subsequence: every survivor appears in input order.
		j := 0
		for _, e := range got {
			for j < len(in) && in[j].ID != e.ID {
				j++
			}
			if j == len(in) {
				t.Fatalf("period %s: %s not a subsequence survivor", period, e.ID)
			}
			j++
		}
	}
}

func TestFilterBoundaries(t *testing.T) {
	now := time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC)
	in := []core.Expense{
		exp("dec28", 100, "A", "2024-12-28"), // one day outside the week window
		exp("dec29", 100, "A", "2024-12-29"), // week boundary, inclusive
		exp("jan01", 100, "A", "2025-01-01"), // month + year boundary
		exp("dec31", 100, "A", "2024-12-31"),
	}

	week := Filter(in, core.PeriodWeek, now)
	if len(week) != 3 || week[0].ID != "dec29" || week[1].ID != "jan01" || week[2].ID != "dec31" {
		t.Fatalf("week filter = %v", ids(week))
	}

	month := Filter(in, core.PeriodMonth, now)
	if len(month) != 1 || month[0].ID != "jan01" {
		t.Fatalf("month filter = %v", ids(month))
	}

	year := Filter(in, core.PeriodYear, now)
	if len(year) != 1 || year[0].ID != "jan01" {
		t.Fatalf("year filter = %v", ids(year))
	}
}

// Scenario: a week window a year after the data leaves nothing behind.
func TestFilterWeekFarInFuture(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	got := Filter(sample(), core.PeriodWeek, now)
	if len(got) != 0 {
		t.Fatalf("expected empty, got %v", ids(got))
	}
	stats := Compute(got)
	if stats.Total.Cents != 0 || stats.Average.Cents != 0 || stats.Highest.Cents != 0 || stats.Count != 0 {
		t.Fatalf("expected zero statistics, got %+v", stats)
	}
}

func ids(expenses []core.Expense) []string {
	out := make([]string, len(expenses))
	for i, e := range expenses {
		out[i] = e.ID
	}
	return out
}
