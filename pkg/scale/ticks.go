package scale

import "math"

// TickStep returns a "nice" step size (a power of ten times 1, 2, or 5)
// that divides [lo, hi] into approximately count intervals.
func TickStep(lo, hi float64, count int) float64 {
	if count <= 0 {
		count = 5
	}
	span := math.Abs(hi - lo)
	if span == 0 {
		return 1
	}

	raw := span / float64(count)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	norm := raw / mag // in [1, 10)

	switch {
	case norm < 1.5:
		return mag
	case norm < 3:
		return 2 * mag
	case norm < 7:
		return 5 * mag
	default:
		return 10 * mag
	}
}

// NiceTicks returns tick values at multiples of a nice step, covering the
// closed interval [lo, hi]. The endpoints themselves are included only when
// they land on a step multiple.
func NiceTicks(lo, hi float64, count int) []float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	step := TickStep(lo, hi, count)
	first := math.Ceil(lo/step) * step
	last := math.Floor(hi/step) * step

	var values []float64
	// Iterate by index to avoid accumulating floating point error.
	n := int(math.Round((last-first)/step)) + 1
	for i := 0; i < n; i++ {
		v := first + float64(i)*step
		// Snap near-zero artifacts like 1.1102e-16 back to zero.
		if math.Abs(v) < step*1e-9 {
			v = 0
		}
		values = append(values, v)
	}
	return values
}

// PaddingPolicy controls how a band-flavored numeric axis insets its range
// so the outermost items are not clipped at the plot edge.
type PaddingPolicy string

// Supported padding policies.
const (
	PaddingNone  PaddingPolicy = "none"
	PaddingGap   PaddingPolicy = "gap"
	PaddingNoGap PaddingPolicy = "no-gap"
)

// GapPadding computes the pixel inset for one side of the range under the
// given policy. smallestDistance is the smallest inter-category distance in
// pixels; categoryGap is the configured gap fraction of one band (applied
// only by the no-gap policy, which nets the gap out of the inset).
func GapPadding(policy PaddingPolicy, smallestDistance, categoryGap float64) float64 {
	if smallestDistance <= 0 {
		return 0
	}
	switch policy {
	case PaddingGap:
		return smallestDistance / 2
	case PaddingNoGap:
		gap := categoryGap * smallestDistance
		return smallestDistance/2 - gap/2
	default:
		return 0
	}
}
