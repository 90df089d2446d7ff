package chart

import (
	"math"

	"github.com/matzehuels/chartcore/pkg/geom"
	"github.com/matzehuels/chartcore/pkg/layout"
	"github.com/matzehuels/chartcore/pkg/scale"
	"github.com/matzehuels/chartcore/pkg/spec"
	"github.com/matzehuels/chartcore/pkg/stack"
)

// Item is one positioned datum of a series.
type Item struct {
	// Index addresses the displayed data slice.
	Index int `json:"index" bson:"index"`

	// Label is the category value at this position, if any.
	Label any `json:"label,omitempty" bson:"label,omitempty"`

	// Value is the numeric series value.
	Value float64 `json:"value" bson:"value"`

	// Point is the value coordinate; Base the baseline coordinate (stack
	// base, or zero for unstacked series).
	Point geom.Point `json:"point" bson:"point"`
	Base  geom.Point `json:"base" bson:"base"`

	// Rect is the positioned bar rectangle, bar-like series only.
	Rect *geom.Rect `json:"rect,omitempty" bson:"rect,omitempty"`
}

// SeriesGeometry is the formatted geometry of one plotted series.
type SeriesGeometry struct {
	Key   string          `json:"key" bson:"key"`
	Kind  spec.SeriesKind `json:"kind" bson:"kind"`
	Items []Item          `json:"items" bson:"items"`
}

// formatSeries computes positioned geometry for every visible series.
func formatSeries(c *spec.ChartSpec, b *Bundle) []SeriesGeometry {
	var out []SeriesGeometry
	for i := range c.Series {
		s := &c.Series[i]
		if s.Hidden {
			continue
		}
		out = append(out, SeriesGeometry{
			Key:   s.Key,
			Kind:  s.Kind,
			Items: formatItems(c, b, s),
		})
	}
	return out
}

func formatItems(c *spec.ChartSpec, b *Bundle, s *spec.SeriesSpec) []Item {
	catDim, numDim := spec.CategoryDim(c.Layout), spec.NumericDim(c.Layout)
	catRec := b.Axis(catDim, resolvedAxisID(c, s, catDim))
	numRec := b.Axis(numDim, resolvedAxisID(c, s, numDim))
	if catRec == nil || numRec == nil {
		return nil
	}

	records := displayedData(c, b.Window)
	offset := b.Window.StartIndex
	if len(s.Data) > 0 {
		records, offset = s.Data, 0
	}

	group := groupFor(b.Groups, resolvedAxisID(c, s, numDim), s.StackID)
	bar, isBar := b.Bars[s.Key]

	var items []Item
	for pos, rec := range records {
		v, ok := spec.Number(s.DataKey.Get(rec))
		if !ok {
			continue
		}

		base, top := 0.0, v
		if group != nil {
			if ext, ok := stackExtent(group, s.Key, offset+pos); ok {
				base, top = ext.Base, ext.Top
			}
		}

		catValue, catLabel := categoryAt(catRec, rec, pos)
		it := Item{Index: pos, Label: catLabel, Value: v}

		if c.Layout.IsPolar() {
			it.Point, it.Base = polarPoints(c.Layout, b.Sector, catRec, numRec, catValue, pos, base, top)
		} else {
			it.Point, it.Base = cartesianPoints(c.Layout, catRec, numRec, catValue, pos, base, top)
			if isBar && catRec.Band != nil && numRec.Continuous != nil {
				r := barRect(c.Layout, catRec, numRec, bar, pos, base, top)
				it.Rect = &r
			}
		}
		items = append(items, it)
	}
	return items
}

// categoryAt extracts the category value and label at one position.
func categoryAt(catRec *AxisRecord, rec spec.Record, pos int) (float64, any) {
	var label any
	if !catRec.Spec.DataKey.IsZero() {
		label = catRec.Spec.DataKey.Get(rec)
	} else if pos < len(catRec.Domain.Categories) {
		label = catRec.Domain.Categories[pos]
	}
	v, _ := spec.Number(label)
	return v, label
}

func cartesianPoints(l spec.LayoutKind, catRec, numRec *AxisRecord,
	catValue float64, pos int, base, top float64) (point, basePoint geom.Point) {

	cpos := catRec.Coordinate(catValue, pos)
	if l == spec.LayoutVertical {
		return geom.Point{X: numRec.Coordinate(top, pos), Y: cpos},
			geom.Point{X: numRec.Coordinate(base, pos), Y: cpos}
	}
	return geom.Point{X: cpos, Y: numRec.Coordinate(top, pos)},
		geom.Point{X: cpos, Y: numRec.Coordinate(base, pos)}
}

func polarPoints(l spec.LayoutKind, sector geom.Sector, catRec, numRec *AxisRecord,
	catValue float64, pos int, base, top float64) (point, basePoint geom.Point) {

	cpos := catRec.Coordinate(catValue, pos)
	if l == spec.LayoutRadial {
		// The category occupies a radial band; the value sweeps an angle.
		return geom.PolarPoint{CX: sector.CX, CY: sector.CY, Radius: cpos, Angle: numRec.Coordinate(top, pos)}.ToCartesian(),
			geom.PolarPoint{CX: sector.CX, CY: sector.CY, Radius: cpos, Angle: numRec.Coordinate(base, pos)}.ToCartesian()
	}
	return geom.PolarPoint{CX: sector.CX, CY: sector.CY, Radius: numRec.Coordinate(top, pos), Angle: cpos}.ToCartesian(),
		geom.PolarPoint{CX: sector.CX, CY: sector.CY, Radius: numRec.Coordinate(base, pos), Angle: cpos}.ToCartesian()
}

// barRect builds the positioned bar rectangle: the series' slot inside
// the category band crossed with the value extent on the numeric axis.
func barRect(l spec.LayoutKind, catRec, numRec *AxisRecord,
	bar layout.BarPosition, pos int, base, top float64) geom.Rect {

	bandStart := bandStart(catRec, pos)
	p0 := numRec.Continuous.Scale(base)
	p1 := numRec.Continuous.Scale(top)
	lo, span := math.Min(p0, p1), math.Abs(p1-p0)

	if l == spec.LayoutVertical {
		return geom.Rect{X: lo, Y: bandStart + bar.Offset, Width: span, Height: bar.Size}
	}
	return geom.Rect{X: bandStart + bar.Offset, Y: lo, Width: bar.Size, Height: span}
}

// bandStart returns the leading edge of the pos-th band.
func bandStart(catRec *AxisRecord, pos int) float64 {
	anchor := catRec.Band.Scale(pos)
	band := catRec.Band.Bandwidth()
	if catRec.Band.RangeMax < catRec.Band.RangeMin {
		// Descending range: the leading edge sits above the anchor.
		switch catRec.Band.Align {
		case scale.AlignStart:
			return anchor - band
		case scale.AlignEnd:
			return anchor
		default:
			return anchor - band/2
		}
	}
	switch catRec.Band.Align {
	case scale.AlignStart:
		return anchor
	case scale.AlignEnd:
		return anchor - band
	default:
		return anchor - band/2
	}
}

func groupFor(groups []*stack.Group, axisID, stackID string) *stack.Group {
	if stackID == "" {
		return nil
	}
	for _, g := range groups {
		if g.AxisID == axisID && g.StackID == stackID {
			return g
		}
	}
	return nil
}

func stackExtent(g *stack.Group, key string, idx int) (stack.Extent, bool) {
	exts, ok := g.Extents[key]
	if !ok || idx < 0 || idx >= len(exts) {
		return stack.Extent{}, false
	}
	return exts[idx], true
}
