package layout

import (
	"math"

	"github.com/matzehuels/chartcore/pkg/spec"
)

// BarPosition is one bar series' slot inside a category band, offset from
// the band start along the category axis.
type BarPosition struct {
	Key    string  `json:"key" bson:"key"`
	Offset float64 `json:"offset" bson:"offset"`
	Size   float64 `json:"size" bson:"size"`
}

// PositionBars divides a category band among the co-located bar series.
// Series stacked together occupy a single slot; independent bar series get
// one slot each. The band is split evenly after reserving the configured
// inter-category gap on both ends and the inter-bar gap between slots; a
// maximum bar size (chart-wide default, per-series override) clamps each
// slot, and clamped bars are recentered on their unclamped slot so they
// stay aligned with the category tick. Hidden and non-bar series occupy
// no slot.
func PositionBars(c *spec.ChartSpec, members []*spec.SeriesSpec, bandSize float64) []BarPosition {
	// One slot per stack, in first-appearance order. Unstacked series are
	// their own unit.
	var units [][]*spec.SeriesSpec
	slotOf := make(map[string]int)
	for _, s := range members {
		if s.Hidden || !s.Kind.IsBarLike() {
			continue
		}
		if s.StackID != "" {
			if i, ok := slotOf[s.StackID]; ok {
				units[i] = append(units[i], s)
				continue
			}
			slotOf[s.StackID] = len(units)
		}
		units = append(units, []*spec.SeriesSpec{s})
	}
	if len(units) == 0 || !(bandSize > 0) {
		return nil
	}

	barGap := *c.BarGap
	catGap := categoryGap(*c.BarCategoryGap, bandSize)
	usable := bandSize - 2*catGap - float64(len(units)-1)*barGap
	slot := usable / float64(len(units))
	if slot < 0 {
		slot = 0
	}

	var out []BarPosition
	for i, unit := range units {
		for _, s := range unit {
			size := slot
			if max := maxBarSize(c, s); max > 0 && size > max {
				size = max
			}
			out = append(out, BarPosition{
				Key: s.Key,
				// Recenter clamped bars on the unclamped slot.
				Offset: catGap + float64(i)*(slot+barGap) + (slot-size)/2,
				Size:   size,
			})
		}
	}
	return out
}

// categoryGap interprets the configured inter-category gap: values at or
// below 1 are a fraction of the band, larger values are pixels.
func categoryGap(gap, bandSize float64) float64 {
	if gap <= 0 {
		return 0
	}
	if gap <= 1 {
		return gap * bandSize
	}
	return math.Min(gap, bandSize/2)
}

func maxBarSize(c *spec.ChartSpec, s *spec.SeriesSpec) float64 {
	if s.MaxBarSize > 0 {
		return s.MaxBarSize
	}
	return c.MaxBarSize
}
