package analytics

import (
	"sort"

	"orbit/internal/core"
)

// CategoryTotal is an amount summed over one category.
type CategoryTotal struct {
	Category string
	Amount   core.Money
}

// DayTotal is an amount summed over one calendar day. Day keeps the
// persisted YYYY-MM-DD encoding.
type DayTotal struct {
	Day    string
	Amount core.Money
}

// ByCategory groups expenses by category and sums their amounts. Totals
// come back sorted by descending sum; ties keep the order in which the
// categories first appeared in the input.
func ByCategory(expenses []core.Expense) []CategoryTotal {
	sums := make(map[string]int64)
	var order []string
	for _, e := range expenses {
		if _, seen := sums[e.Category]; !seen {
			order = append(order, e.Category)
		}
		sums[e.Category] += e.Amount.Cents
	}

	totals := make([]CategoryTotal, 0, len(order))
	for _, name := range order {
		totals = append(totals, CategoryTotal{Category: name, Amount: core.Money{Cents: sums[name]}})
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Amount.Cents > totals[j].Amount.Cents
	})
	return totals
}

// ByDate groups expenses by their encoded date and sums their amounts,
// ascending by day. Sorting is plain lexicographic string order, which is
// chronological because the encoding is fixed-width and zero-padded; the
// aggregator assumes that format and does not validate it.
func ByDate(expenses []core.Expense) []DayTotal {
	sums := make(map[string]int64)
	for _, e := range expenses {
		sums[e.Date.String()] += e.Amount.Cents
	}

	days := make([]string, 0, len(sums))
	for day := range sums {
		days = append(days, day)
	}
	sort.Strings(days)

	totals := make([]DayTotal, 0, len(days))
	for _, day := range days {
		totals = append(totals, DayTotal{Day: day, Amount: core.Money{Cents: sums[day]}})
	}
	return totals
}
