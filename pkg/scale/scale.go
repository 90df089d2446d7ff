// Package scale builds monotonic mappings between axis domains and pixel
// ranges, with tick generation and band semantics for category axes.
//
// Two scale kinds exist:
//
//   - Continuous: numeric interpolation between a [min, max] domain and a
//     pixel range. Linear by default, with log, sqrt, and pow transforms
//     selectable. Invertible (pixel → value) for interactive axes.
//   - Band: a discretized mapping for ordered category domains where one
//     domain unit occupies rangeSpan/domainLen pixels, with a configurable
//     anchor policy and nearest-index inversion.
//
// Scales are plain values: construct, use, discard. They hold no references
// to chart state and are safe to rebuild on every recompute pass.
package scale

import (
	"math"
)

// Tick is a single generated axis tick.
type Tick struct {
	Value      any     `json:"value" bson:"value"`
	Coordinate float64 `json:"coordinate" bson:"coordinate"`
	Index      int     `json:"index" bson:"index"`
}

// Transform selects the interpolation shape of a continuous scale.
type Transform string

// Supported continuous transforms.
const (
	TransformLinear Transform = "linear"
	TransformLog    Transform = "log"
	TransformSqrt   Transform = "sqrt"
	TransformPow    Transform = "pow"
)

// Continuous maps a numeric [DomainMin, DomainMax] onto a pixel
// [RangeMin, RangeMax]. The range may be descending (RangeMin > RangeMax),
// which is the common case for y axes in screen coordinates.
type Continuous struct {
	DomainMin float64
	DomainMax float64
	RangeMin  float64
	RangeMax  float64

	// Transform defaults to linear when empty.
	Transform Transform

	// Exponent applies to the pow transform only. Zero means 1.
	Exponent float64
}

// NewContinuous creates a linear continuous scale.
func NewContinuous(d0, d1, r0, r1 float64) *Continuous {
	return &Continuous{DomainMin: d0, DomainMax: d1, RangeMin: r0, RangeMax: r1}
}

// forward maps a domain value into transform space.
func (s *Continuous) forward(v float64) float64 {
	switch s.Transform {
	case TransformLog:
		if v <= 0 {
			// Log scales are undefined at or below zero; saturate instead
			// of producing NaN so degenerate data degrades gracefully.
			return math.Inf(-1)
		}
		return math.Log10(v)
	case TransformSqrt:
		return math.Sqrt(math.Max(v, 0))
	case TransformPow:
		return math.Pow(v, s.exponent())
	default:
		return v
	}
}

// inverse maps a transform-space value back to the domain.
func (s *Continuous) inverse(t float64) float64 {
	switch s.Transform {
	case TransformLog:
		return math.Pow(10, t)
	case TransformSqrt:
		return t * t
	case TransformPow:
		return math.Pow(t, 1/s.exponent())
	default:
		return t
	}
}

func (s *Continuous) exponent() float64 {
	if s.Exponent == 0 {
		return 1
	}
	return s.Exponent
}

// Scale maps a domain value to a pixel coordinate. Values outside the
// domain extrapolate linearly in transform space.
func (s *Continuous) Scale(v float64) float64 {
	t0, t1 := s.forward(s.DomainMin), s.forward(s.DomainMax)
	if t1 == t0 {
		// Degenerate domain maps everything to the range midpoint.
		return (s.RangeMin + s.RangeMax) / 2
	}
	frac := (s.forward(v) - t0) / (t1 - t0)
	return s.RangeMin + frac*(s.RangeMax-s.RangeMin)
}

// Invert maps a pixel coordinate back to a domain value.
func (s *Continuous) Invert(px float64) float64 {
	if s.RangeMax == s.RangeMin {
		return s.DomainMin
	}
	frac := (px - s.RangeMin) / (s.RangeMax - s.RangeMin)
	t0, t1 := s.forward(s.DomainMin), s.forward(s.DomainMax)
	return s.inverse(t0 + frac*(t1-t0))
}

// Ticks generates approximately count ticks at nice values inside the
// domain, each with its pixel coordinate. A degenerate domain yields a
// single tick at the collapsed value.
func (s *Continuous) Ticks(count int) []Tick {
	if count <= 0 {
		count = 5
	}

	if s.DomainMin == s.DomainMax {
		return []Tick{{Value: s.DomainMin, Coordinate: s.Scale(s.DomainMin), Index: 0}}
	}

	var values []float64
	if s.Transform == TransformLog {
		values = logTickValues(s.DomainMin, s.DomainMax, count)
	} else {
		values = NiceTicks(s.DomainMin, s.DomainMax, count)
	}

	ticks := make([]Tick, 0, len(values))
	for i, v := range values {
		ticks = append(ticks, Tick{Value: v, Coordinate: s.Scale(v), Index: i})
	}
	return ticks
}

// logTickValues places ticks at powers of ten within the domain, falling
// back to nice linear ticks when the domain spans less than one decade.
func logTickValues(lo, hi float64, count int) []float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo <= 0 {
		lo = math.SmallestNonzeroFloat64
	}
	e0 := math.Ceil(math.Log10(lo) - 1e-12)
	e1 := math.Floor(math.Log10(hi) + 1e-12)
	if e1 < e0 {
		return NiceTicks(lo, hi, count)
	}
	values := make([]float64, 0, int(e1-e0)+1)
	for e := e0; e <= e1; e++ {
		values = append(values, math.Pow(10, e))
	}
	return values
}
