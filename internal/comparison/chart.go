package comparison

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/evcraddock/invest-compare/internal/engine"
)

// RenderChart draws the yearly schedule as a PNG line chart with three
// series: property value, ETF value and cumulative rental cash flow. Year 0
// is the purchase, so a one-year horizon still has two points.
func RenderChart(in engine.Input, years []engine.Year) ([]byte, error) {
	if len(years) == 0 {
		return nil, fmt.Errorf("no yearly data to chart")
	}

	n := len(years) + 1
	x := make([]float64, n)
	property := make([]float64, n)
	etf := make([]float64, n)
	cash := make([]float64, n)

	property[0] = in.PropertyPrice
	etf[0] = in.InitialInvestment()
	for i, y := range years {
		x[i+1] = float64(y.Year)
		property[i+1] = y.PropertyValue
		etf[i+1] = y.ETFValue
		cash[i+1] = y.CumulativeCashFlow
	}

	graph := chart.Chart{
		Title:  "Rental vs ETF",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Name: "Year",
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.0fk", f/1000)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name: "Property Value",
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("2563eb"),
					StrokeWidth: 2.5,
				},
				XValues: x,
				YValues: property,
			},
			chart.ContinuousSeries{
				Name: "ETF Value",
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("16a34a"),
					StrokeWidth: 2.5,
				},
				XValues: x,
				YValues: etf,
			},
			chart.ContinuousSeries{
				Name: "Cumulative Cash Flow",
				Style: chart.Style{
					StrokeColor:     drawing.ColorFromHex("9ca3af"),
					StrokeWidth:     1.5,
					StrokeDashArray: []float64{5.0, 3.0},
				},
				XValues: x,
				YValues: cash,
			},
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
