package renderer

import (
	"fmt"
	"io"

	"github.com/etnz/equitywise"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// BalanceChart renders the INR balance samples of a Foreign Assets summary
// as a PNG line chart, with the declaration threshold as a dashed line.
func BalanceChart(w io.Writer, s equitywise.FADeclarationSummary) error {
	if s.Err != nil {
		return fmt.Errorf("cannot chart an incomplete year: %w", s.Err)
	}
	if len(s.Samples) < 2 {
		return fmt.Errorf("need at least 2 samples, got %d", len(s.Samples))
	}

	x := make([]float64, len(s.Samples))
	y := make([]float64, len(s.Samples))
	threshold := make([]float64, len(s.Samples))
	limit := s.Declaration.Threshold.Decimal().InexactFloat64()
	for i, sample := range s.Samples {
		x[i] = chart.TimeToFloat64(sample.Date.Time())
		y[i] = sample.Value.Decimal().InexactFloat64()
		threshold[i] = limit
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("Foreign Assets CY%d (%s)", s.Year, streamName(s.Stream)),
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			ValueFormatter: func(v any) string {
				if f, ok := v.(float64); ok {
					return chart.TimeFromFloat64(f).Format("Jan 02")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v any) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("₹%.0fk", f/1000)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name: "Balance",
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("2563eb"),
					StrokeWidth: 2.5,
				},
				XValues: x,
				YValues: y,
			},
			chart.ContinuousSeries{
				Name: "Threshold",
				Style: chart.Style{
					StrokeColor:     drawing.ColorFromHex("dc2626"),
					StrokeWidth:     1.5,
					StrokeDashArray: []float64{5.0, 3.0},
				},
				XValues: x,
				YValues: threshold,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("chart render failed: %w", err)
	}
	return nil
}
