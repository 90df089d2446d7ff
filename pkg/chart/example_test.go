package chart_test

import (
	"fmt"

	"github.com/matzehuels/chartcore/pkg/chart"
	"github.com/matzehuels/chartcore/pkg/link"
	"github.com/matzehuels/chartcore/pkg/spec"
)

func ExampleCompute() {
	// Describe the chart declaratively: dataset, axes, series.
	c := &spec.ChartSpec{
		Width:  400,
		Height: 300,
		Data: []spec.Record{
			{"month": "jan", "sales": 120.0},
			{"month": "feb", "sales": 200.0},
			{"month": "mar", "sales": 150.0},
		},
		Axes: []spec.AxisSpec{
			{ID: "0", Dim: spec.DimX, DataKey: spec.K("month")},
			{ID: "0", Dim: spec.DimY},
		},
		Series: []spec.SeriesSpec{
			{Key: "sales", Kind: spec.KindBar, DataKey: spec.K("sales")},
		},
	}

	b, err := chart.Compute(c, spec.FullWindow(len(c.Data)), nil)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	y := b.Axis(spec.DimY, "0")
	fmt.Printf("y domain: [%g, %g]\n", y.Domain.Min, y.Domain.Max)
	fmt.Printf("plot: %gx%g\n", b.Offset.Width, b.Offset.Height)
	// Output:
	// y domain: [120, 200]
	// plot: 340x270
}

func ExampleChart_Tooltip() {
	c := &spec.ChartSpec{
		Width:  400,
		Height: 300,
		Data: []spec.Record{
			{"month": "jan", "sales": 120.0},
			{"month": "feb", "sales": 200.0},
		},
		Axes: []spec.AxisSpec{
			{ID: "0", Dim: spec.DimX, DataKey: spec.K("month")},
			{ID: "0", Dim: spec.DimY},
		},
		Series: []spec.SeriesSpec{
			{Key: "sales", Kind: spec.KindLine, DataKey: spec.K("sales")},
		},
		// Pre-select the second category at mount time.
		DefaultTooltipIndex: spec.Index(1),
	}

	ch, err := chart.New(c, chart.Options{Hub: link.NewHub()})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	defer ch.Close()

	ch.Bundle()
	st := ch.Tooltip()
	fmt.Printf("active: %v, label: %v\n", st.Active, st.Label)

	// Leaving the plot deactivates the tooltip.
	ch.PointerLeave()
	fmt.Printf("after leave: %v\n", ch.Tooltip().Active)
	// Output:
	// active: true, label: feb
	// after leave: false
}
