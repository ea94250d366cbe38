package analytics

import (
	"github.com/shopspring/decimal"

	"orbit/internal/core"
)

// Palette is the fixed eight-entry color cycle. Every consumer of a
// category ordering (pie, doughnut, horizontal bar, breakdown list) colors
// the i-th category with ColorAt(i), so colors agree across views.
var Palette = [8]string{
	"#6366f1", "#38bdf8", "#ef4444", "#10b981",
	"#f59e0b", "#8b5cf6", "#ec4899", "#14b8a6",
}

// ColorAt returns the palette color for the i-th emitted category.
func ColorAt(i int) string {
	return Palette[i%len(Palette)]
}

// Series is a parallel label/value pair for an external chart renderer,
// with the color assigned to each index.
type Series struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	Colors []string  `json:"colors"`
}

// Share is one row of the category breakdown: amount, share of the grand
// total and the color it carries in every chart.
type Share struct {
	Category string     `json:"category"`
	Amount   core.Money `json:"-"`
	Percent  float64    `json:"percent"`
	Color    string     `json:"color"`
}

// CategorySeries projects category totals into chart form, preserving the
// aggregator's descending order.
func CategorySeries(totals []CategoryTotal) Series {
	s := Series{
		Labels: make([]string, len(totals)),
		Values: make([]float64, len(totals)),
		Colors: make([]string, len(totals)),
	}
	for i, t := range totals {
		s.Labels[i] = t.Category
		s.Values[i] = t.Amount.Rupees()
		s.Colors[i] = ColorAt(i)
	}
	return s
}

// DailySeries projects day totals into chart form, ascending by date,
// with short day labels ("Jan 5"). A day that fails to parse keeps its
// raw encoding as the label.
func DailySeries(totals []DayTotal) Series {
	s := Series{
		Labels: make([]string, len(totals)),
		Values: make([]float64, len(totals)),
		Colors: make([]string, len(totals)),
	}
	for i, t := range totals {
		label := t.Day
		if d, err := core.ParseDate(t.Day); err == nil {
			label = d.Label()
		}
		s.Labels[i] = label
		s.Values[i] = t.Amount.Rupees()
		s.Colors[i] = ColorAt(i)
	}
	return s
}

// Percentage is the one shared share-of-total computation: 100*part/total
// rounded half-up to one decimal. A zero total yields 0 rather than a
// division error, so an empty view renders as all zeroes.
func Percentage(part, total core.Money) float64 {
	if total.Cents == 0 {
		return 0
	}
	p := decimal.NewFromInt(part.Cents).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(total.Cents)).
		Round(1)
	f, _ := p.Float64()
	return f
}

// Breakdown builds the category list rows from category totals. The grand
// total is the sum of the totals themselves, so the percentages always
// describe the same snapshot the rows do.
func Breakdown(totals []CategoryTotal) []Share {
	var grand core.Money
	for _, t := range totals {
		grand.Cents += t.Amount.Cents
	}
	shares := make([]Share, len(totals))
	for i, t := range totals {
		shares[i] = Share{
			Category: t.Category,
			Amount:   t.Amount,
			Percent:  Percentage(t.Amount, grand),
			Color:    ColorAt(i),
		}
	}
	return shares
}
