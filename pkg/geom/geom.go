// Package geom provides the shared geometric primitives for the layout
// engine: points, rectangles, and polar coordinates.
//
// All coordinates are in user units (typically pixels in the rendering
// surface). Angles follow the chart convention: degrees, measured
// counter-clockwise from the positive x-axis.
package geom

import "math"

// Point is a cartesian point.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Rect is an axis-aligned rectangle defined by its top-left corner.
type Rect struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Contains reports whether p lies inside r (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Clamp returns the point inside r nearest to p.
func (r Rect) Clamp(p Point) Point {
	return Point{
		X: math.Min(math.Max(p.X, r.X), r.X+r.Width),
		Y: math.Min(math.Max(p.Y, r.Y), r.Y+r.Height),
	}
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// PolarPoint is a point in polar coordinates around an explicit center.
type PolarPoint struct {
	CX     float64 `json:"cx" bson:"cx"`
	CY     float64 `json:"cy" bson:"cy"`
	Radius float64 `json:"radius" bson:"radius"`
	Angle  float64 `json:"angle" bson:"angle"` // degrees, CCW from +x
}

// ToCartesian converts a polar point to a cartesian point. The y axis of
// the rendering surface grows downward, so positive angles rotate up.
func (p PolarPoint) ToCartesian() Point {
	rad := p.Angle * math.Pi / 180
	return Point{
		X: p.CX + p.Radius*math.Cos(rad),
		Y: p.CY - p.Radius*math.Sin(rad),
	}
}

// FromCartesian converts a cartesian point to polar coordinates around
// the center (cx, cy). The returned angle is normalized to [0, 360).
func FromCartesian(cx, cy float64, p Point) PolarPoint {
	dx, dy := p.X-cx, cy-p.Y
	angle := math.Atan2(dy, dx) * 180 / math.Pi
	if angle < 0 {
		angle += 360
	}
	return PolarPoint{
		CX:     cx,
		CY:     cy,
		Radius: math.Hypot(dx, dy),
		Angle:  angle,
	}
}

// Sector is an annular sector: the containment region of a polar layout.
type Sector struct {
	CX          float64
	CY          float64
	InnerRadius float64
	OuterRadius float64
	StartAngle  float64 // degrees
	EndAngle    float64 // degrees, may be < StartAngle for CW sweeps
}

// Contains reports whether the cartesian point p falls inside the sector.
// Full circles (sweep >= 360) only test the radial band.
func (s Sector) Contains(p Point) bool {
	pp := FromCartesian(s.CX, s.CY, p)
	if pp.Radius < s.InnerRadius || pp.Radius > s.OuterRadius {
		return false
	}
	lo, hi := s.StartAngle, s.EndAngle
	if lo > hi {
		lo, hi = hi, lo
	}
	if hi-lo >= 360 {
		return true
	}
	a := pp.Angle
	// Test the angle and its CCW alias so sectors spanning 0° work.
	return (a >= lo && a <= hi) || (a+360 >= lo && a+360 <= hi)
}
