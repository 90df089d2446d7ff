package scale

import "math"

// Align is the anchor policy mapping a category unit to a pixel coordinate.
type Align string

// Supported anchor policies.
const (
	AlignStart  Align = "start"
	AlignMiddle Align = "middle"
	AlignEnd    Align = "end"
)

// Band maps an ordered category domain onto a pixel range. Each domain
// entry occupies an equal share of the range (the band size).
type Band struct {
	Domain   []any
	RangeMin float64
	RangeMax float64

	// Align defaults to middle when empty.
	Align Align
}

// NewBand creates a band scale with middle alignment.
func NewBand(domain []any, r0, r1 float64) *Band {
	return &Band{Domain: domain, RangeMin: r0, RangeMax: r1, Align: AlignMiddle}
}

// Bandwidth returns the pixel span of one category unit. An empty domain
// yields the whole range span.
func (b *Band) Bandwidth() float64 {
	n := len(b.Domain)
	if n == 0 {
		return math.Abs(b.RangeMax - b.RangeMin)
	}
	return math.Abs(b.RangeMax-b.RangeMin) / float64(n)
}

// Scale returns the anchor coordinate of the i-th category. Indexes
// outside the domain clamp to the nearest band.
func (b *Band) Scale(i int) float64 {
	n := len(b.Domain)
	if n == 0 {
		return b.RangeMin
	}
	if i < 0 {
		i = 0
	}
	if i >= n {
		i = n - 1
	}

	dir := 1.0
	if b.RangeMax < b.RangeMin {
		dir = -1.0
	}
	band := b.Bandwidth()
	start := b.RangeMin + dir*band*float64(i)

	switch b.Align {
	case AlignStart:
		return start
	case AlignEnd:
		return start + dir*band
	default:
		return start + dir*band/2
	}
}

// Invert returns the index of the domain entry whose band contains px,
// clamped to the valid range. This is the inversion path for interactive
// category axes.
func (b *Band) Invert(px float64) int {
	n := len(b.Domain)
	if n == 0 {
		return -1
	}
	band := b.Bandwidth()
	if band == 0 {
		return 0
	}

	var offset float64
	if b.RangeMax >= b.RangeMin {
		offset = px - b.RangeMin
	} else {
		offset = b.RangeMin - px
	}

	i := int(math.Floor(offset / band))
	if i < 0 {
		i = 0
	}
	if i >= n {
		i = n - 1
	}
	return i
}

// Ticks returns one tick per category at its anchor coordinate.
func (b *Band) Ticks() []Tick {
	ticks := make([]Tick, 0, len(b.Domain))
	for i, v := range b.Domain {
		ticks = append(ticks, Tick{Value: v, Coordinate: b.Scale(i), Index: i})
	}
	return ticks
}
