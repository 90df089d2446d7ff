package chart

import (
	"math"
	"testing"

	"github.com/matzehuels/chartcore/pkg/spec"
)

func TestFormatLineGeometry(t *testing.T) {
	c := &spec.ChartSpec{
		Width:  160,
		Height: 130,
		Data: []spec.Record{
			{"name": "a", "v": 0.0},
			{"name": "b", "v": 10.0},
		},
		Axes: []spec.AxisSpec{
			{ID: "0", Dim: spec.DimX, DataKey: spec.K("name"), Size: 30},
			{ID: "0", Dim: spec.DimY, Size: 60, Domain: &spec.DomainSpec{Min: spec.Fixed(0), Max: spec.Fixed(10)}},
		},
		Series: []spec.SeriesSpec{
			{Key: "v", Kind: spec.KindLine, DataKey: spec.K("v")},
		},
	}
	b, err := Compute(c, spec.FullWindow(2), nil)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	// Plot: x in [60, 160], y in [0, 100]. Bands of 50px anchor at 85
	// and 135; v=0 maps to y=100, v=10 to y=0.
	items := b.Series[0].Items
	if len(items) != 2 {
		t.Fatalf("items = %d", len(items))
	}
	if items[0].Point.X != 85 || items[0].Point.Y != 100 {
		t.Errorf("item 0 point = %+v, want (85, 100)", items[0].Point)
	}
	if items[1].Point.X != 135 || items[1].Point.Y != 0 {
		t.Errorf("item 1 point = %+v, want (135, 0)", items[1].Point)
	}
	// Unstacked baseline sits at zero.
	if items[1].Base.Y != 100 {
		t.Errorf("item 1 base = %+v, want y 100", items[1].Base)
	}
	if items[0].Label != "a" || items[1].Label != "b" {
		t.Errorf("labels = %v, %v", items[0].Label, items[1].Label)
	}
}

func TestFormatBarGeometry(t *testing.T) {
	c := &spec.ChartSpec{
		Width:  160,
		Height: 130,
		Data: []spec.Record{
			{"name": "a", "v": 5.0},
			{"name": "b", "v": 10.0},
		},
		Axes: []spec.AxisSpec{
			{ID: "0", Dim: spec.DimX, DataKey: spec.K("name"), Size: 30},
			{ID: "0", Dim: spec.DimY, Size: 60, Domain: &spec.DomainSpec{Min: spec.Fixed(0), Max: spec.Fixed(10)}},
		},
		Series: []spec.SeriesSpec{
			{Key: "v", Kind: spec.KindBar, DataKey: spec.K("v")},
		},
	}
	b, err := Compute(c, spec.FullWindow(2), nil)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	items := b.Series[0].Items
	if items[0].Rect == nil {
		t.Fatal("bar item has no rect")
	}

	// Band 50px, default category gap 0.1 -> 5px inset each side, one
	// slot of 40px. First band starts at x=60.
	r := items[0].Rect
	if r.X != 65 || r.Width != 40 {
		t.Errorf("rect x/width = %g/%g, want 65/40", r.X, r.Width)
	}
	// v=5 on a [0,10] domain over y [100, 0]: top at 50, base at 100.
	if r.Y != 50 || r.Height != 50 {
		t.Errorf("rect y/height = %g/%g, want 50/50", r.Y, r.Height)
	}
}

func TestFormatSkipsNonNumericValues(t *testing.T) {
	c := &spec.ChartSpec{
		Width:  160,
		Height: 130,
		Data: []spec.Record{
			{"name": "a", "v": 1.0},
			{"name": "b", "v": "oops"},
			{"name": "c", "v": 3.0},
		},
		Axes: []spec.AxisSpec{
			{ID: "0", Dim: spec.DimX, DataKey: spec.K("name")},
			{ID: "0", Dim: spec.DimY},
		},
		Series: []spec.SeriesSpec{
			{Key: "v", Kind: spec.KindLine, DataKey: spec.K("v")},
		},
	}
	b, err := Compute(c, spec.FullWindow(3), nil)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	items := b.Series[0].Items
	if len(items) != 2 {
		t.Fatalf("items = %d, want the malformed record skipped", len(items))
	}
	for _, it := range items {
		if math.IsNaN(it.Point.Y) {
			t.Errorf("item %d has NaN coordinate", it.Index)
		}
	}
}

func TestFormatCentricGeometry(t *testing.T) {
	c := &spec.ChartSpec{
		Layout: spec.LayoutCentric,
		Width:  200,
		Height: 200,
		Data: []spec.Record{
			{"name": "a", "v": 10.0},
			{"name": "b", "v": 10.0},
		},
		Axes: []spec.AxisSpec{
			{ID: "0", Dim: spec.DimAngle, DataKey: spec.K("name")},
			{ID: "0", Dim: spec.DimRadius, Domain: &spec.DomainSpec{Min: spec.Fixed(0), Max: spec.Fixed(10)}, AllowDataOverflow: true},
		},
		Series: []spec.SeriesSpec{
			{Key: "v", Kind: spec.KindSector, DataKey: spec.K("v")},
		},
	}
	b, err := Compute(c, spec.FullWindow(2), nil)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if b.Sector.OuterRadius != 80 {
		t.Fatalf("outer radius = %g, want 80", b.Sector.OuterRadius)
	}

	// Two categories split the angle range: anchors at 90 and 270.
	// v=10 fills the radius, so item 0 sits straight above the center.
	it := b.Series[0].Items[0]
	if math.Abs(it.Point.X-100) > 1e-9 || math.Abs(it.Point.Y-20) > 1e-9 {
		t.Errorf("item 0 point = %+v, want (100, 20)", it.Point)
	}
	// The baseline sits at the center.
	if math.Abs(it.Base.X-100) > 1e-9 || math.Abs(it.Base.Y-100) > 1e-9 {
		t.Errorf("item 0 base = %+v, want center", it.Base)
	}
}
