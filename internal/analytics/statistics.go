package analytics

import "orbit/internal/core"

// Statistics summarizes one snapshot of the collection. All four values
// are computed together from the same input so they can never disagree
// with each other.
type Statistics struct {
	Total   core.Money
	Average core.Money
	Highest core.Money
	Count   int
}

// Compute derives statistics from a collection. An empty collection
// yields zeroes across the board.
func Compute(expenses []core.Expense) Statistics {
	s := Statistics{Count: len(expenses)}
	for _, e := range expenses {
		s.Total.Cents += e.Amount.Cents
		if e.Amount.Cents > s.Highest.Cents {
			s.Highest.Cents = e.Amount.Cents
		}
	}
	if s.Count > 0 {
		// Half-up rounding on the cent.
		s.Average.Cents = (s.Total.Cents + int64(s.Count)/2) / int64(s.Count)
	}
	return s
}
