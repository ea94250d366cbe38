// Package chart renders category series to PNG images. It is the drawing
// capability the report embeds; the pipeline itself only ever handles the
// encoded bytes as an opaque snapshot.
package chart

import (
	"context"
	"fmt"

	"github.com/go-analyze/charts"

	"orbit/internal/analytics"
)

type PieRenderer struct{}

func NewPieRenderer() *PieRenderer {
	return &PieRenderer{}
}

// RenderPie draws the category breakdown as a pie chart PNG. An empty
// series yields no image rather than an error, so an empty collection can
// still be exported.
func (r *PieRenderer) RenderPie(ctx context.Context, s analytics.Series) ([]byte, error) {
	if len(s.Values) == 0 {
		return nil, nil
	}

	p, err := charts.PieRender(
		s.Values,
		charts.TitleOptionFunc(charts.TitleOption{
			Text: "Spending by Category",
		}),
		charts.LegendLabelsOptionFunc(s.Labels),
	)
	if err != nil {
		return nil, fmt.Errorf("render pie chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	return buf, nil
}
