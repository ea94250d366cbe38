package analytics

import (
	"math"
	"testing"

	"orbit/internal/core"
)

func TestCategorySeriesParallelAndColored(t *testing.T) {
	totals := []CategoryTotal{
		{Category: "Food", Amount: core.Money{Cents: 30000}},
		{Category: "Rent", Amount: core.Money{Cents: 12550}},
	}
	s := CategorySeries(totals)
	if len(s.Labels) != 2 || len(s.Values) != 2 || len(s.Colors) != 2 {
		t.Fatalf("series not parallel: %+v", s)
	}
	if s.Labels[0] != "Food" || s.Values[0] != 300 {
		t.Fatalf("series[0] = %q/%v", s.Labels[0], s.Values[0])
	}
	if s.Values[1] != 125.5 {
		t.Fatalf("series[1] value = %v", s.Values[1])
	}
	if s.Colors[0] != Palette[0] || s.Colors[1] != Palette[1] {
		t.Fatalf("colors = %v", s.Colors)
	}
}

func TestColorAtWrapsPalette(t *testing.T) {
	if ColorAt(8) != Palette[0] || ColorAt(9) != Palette[1] || ColorAt(17) != Palette[1] {
		t.Fatalf("palette does not wrap mod 8")
	}
}

func TestDailySeriesLabels(t *testing.T) {
	totals := []DayTotal{
		{Day: "2024-01-05", Amount: core.Money{Cents: 100}},
		{Day: "2024-11-30", Amount: core.Money{Cents: 200}},
	}
	s := DailySeries(totals)
	if s.Labels[0] != "Jan 5" || s.Labels[1] != "Nov 30" {
		t.Fatalf("labels = %v", s.Labels)
	}
	if s.Values[0] != 1 || s.Values[1] != 2 {
		t.Fatalf("values = %v", s.Values)
	}
}

func TestPercentage(t *testing.T) {
	cases := []struct {
		part, total int64
		want        float64
	}{
		{7500, 10000, 75.0},
		{2500, 10000, 25.0},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{100, 0, 0}, // undefined share renders as zero
		{0, 100, 0},
	}
	for _, tc := range cases {
		got := Percentage(core.Money{Cents: tc.part}, core.Money{Cents: tc.total})
		if got != tc.want {
			t.Fatalf("Percentage(%d, %d) = %v, want %v", tc.part, tc.total, got, tc.want)
		}
	}
}

func TestBreakdownSharesSumToHundred(t *testing.T) {
	totals := []CategoryTotal{
		{Category: "A", Amount: core.Money{Cents: 333}},
		{Category: "B", Amount: core.Money{Cents: 333}},
		{Category: "C", Amount: core.Money{Cents: 334}},
	}
	shares := Breakdown(totals)
	var sum float64
	for i, s := range shares {
		sum += s.Percent
		if s.Color != ColorAt(i) {
			t.Fatalf("share %d color %q, want %q", i, s.Color, ColorAt(i))
		}
	}
	if math.Abs(sum-100) > 0.2 { // rounding tolerance
		t.Fatalf("shares sum to %v", sum)
	}
}

func TestBreakdownSeventyFiveTwentyFive(t *testing.T) {
	shares := Breakdown([]CategoryTotal{
		{Category: "A", Amount: core.Money{Cents: 7500}},
		{Category: "B", Amount: core.Money{Cents: 2500}},
	})
	if shares[0].Percent != 75.0 || shares[1].Percent != 25.0 {
		t.Fatalf("shares = %+v", shares)
	}
}
