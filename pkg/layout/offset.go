// Package layout computes the plot-area offset rectangle and per-series
// bar band geometry.
//
// Offset computation is two-pass by contract: the legend's bounding box is
// measured by the rendering collaborator after a first layout, so callers
// compute a provisional offset without a legend and a finalized one once
// the measured box is supplied.
package layout

import (
	"math"

	"github.com/matzehuels/chartcore/pkg/geom"
	"github.com/matzehuels/chartcore/pkg/spec"
)

// Offset is the plot-area rectangle plus the margins consumed on each side.
type Offset struct {
	Left   float64 `json:"left" bson:"left"`
	Right  float64 `json:"right" bson:"right"`
	Top    float64 `json:"top" bson:"top"`
	Bottom float64 `json:"bottom" bson:"bottom"`

	// BrushBottom is the extra bottom allowance reserved for the brush
	// control. It sits below Bottom and is kept separate so a rendering
	// collaborator can place the control inside it.
	BrushBottom float64 `json:"brush_bottom,omitempty" bson:"brush_bottom,omitempty"`

	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Rect returns the plot area as a rectangle.
func (o *Offset) Rect() geom.Rect {
	return geom.Rect{X: o.Left, Y: o.Top, Width: o.Width, Height: o.Height}
}

// Legend is the externally measured legend bounding box. The engine never
// computes this itself; the rendering collaborator reports it once the
// legend has been laid out.
type Legend struct {
	Width  float64
	Height float64

	// Side is the margin side the legend occupies.
	Side spec.Orientation
}

// ComputeOffset derives the plot rectangle from the viewport, margins,
// visible non-mirrored axis thickness per orientation side, the brush
// allowance, and an optional measured legend box. A non-positive or
// non-numeric viewport returns nil: the pipeline short-circuits instead of
// propagating NaN.
func ComputeOffset(c *spec.ChartSpec, legend *Legend) *Offset {
	if !(c.Width > 0) || !(c.Height > 0) {
		return nil
	}

	o := &Offset{
		Left:   c.Margin.Left,
		Right:  c.Margin.Right,
		Top:    c.Margin.Top,
		Bottom: c.Margin.Bottom,
	}

	// Polar axes draw inside the plot rectangle and consume no margin.
	if !c.Layout.IsPolar() {
		for i := range c.Axes {
			ax := &c.Axes[i]
			if ax.Hide || ax.Mirror || ax.Implicit {
				continue
			}
			switch ax.Orientation {
			case spec.OrientLeft:
				o.Left += ax.Size
			case spec.OrientRight:
				o.Right += ax.Size
			case spec.OrientTop:
				o.Top += ax.Size
			case spec.OrientBottom:
				o.Bottom += ax.Size
			}
		}
	}

	if c.Brush != nil {
		o.BrushBottom = c.Brush.Height
	}

	if legend != nil {
		switch legend.Side {
		case spec.OrientLeft:
			o.Left += legend.Width
		case spec.OrientRight:
			o.Right += legend.Width
		case spec.OrientTop:
			o.Top += legend.Height
		default:
			o.Bottom += legend.Height
		}
	}

	o.Width = math.Max(0, c.Width-o.Left-o.Right)
	o.Height = math.Max(0, c.Height-o.Top-o.Bottom-o.BrushBottom)
	return o
}
