package axis

import "github.com/matzehuels/chartcore/pkg/spec"

// EnsureAxes appends implicit axis specifications for every dimension a
// series references without a matching declared axis. Implicit axes derive
// their domain from the series' own extents, are hidden, consume no
// margin, and alternate orientation by declaration order.
func EnsureAxes(c *spec.ChartSpec) {
	dims := []spec.Dimension{spec.DimX, spec.DimY}
	if c.Layout.IsPolar() {
		dims = []spec.Dimension{spec.DimAngle, spec.DimRadius}
	}

	for _, dim := range dims {
		needed := referencedIDs(c, dim)
		for _, id := range needed {
			if c.AxisByID(dim, id) != nil {
				continue
			}
			count := axisCount(c, dim)
			ax := spec.AxisSpec{
				ID:          id,
				Dim:         dim,
				Orientation: alternatingOrientation(dim, count),
				Hide:        true,
				Implicit:    true,
			}
			c.Axes = append(c.Axes, ax)
		}
	}

	// Re-apply defaults so synthesized axes pick up type, tick count and
	// size like declared ones.
	reapplyDefaults(c)
}

// referencedIDs collects the axis ids series bind to for a dimension, in
// declaration order. Series without an explicit reference bind to the
// default id "0" when the dimension has no declared axes.
func referencedIDs(c *spec.ChartSpec, dim spec.Dimension) []string {
	if len(c.Series) == 0 {
		return nil
	}
	seen := map[string]bool{}
	var ids []string
	for i := range c.Series {
		id := c.Series[i].AxisIDFor(dim)
		if id == "" {
			if first := firstAxisID(c, dim); first != "" {
				id = first
			} else {
				id = "0"
			}
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

func firstAxisID(c *spec.ChartSpec, dim spec.Dimension) string {
	for i := range c.Axes {
		if c.Axes[i].Dim == dim {
			return c.Axes[i].ID
		}
	}
	return ""
}

func axisCount(c *spec.ChartSpec, dim spec.Dimension) int {
	n := 0
	for i := range c.Axes {
		if c.Axes[i].Dim == dim {
			n++
		}
	}
	return n
}

// alternatingOrientation alternates sides by declaration order: y axes go
// left, right, left, ...; x axes go bottom, top, bottom, ...
func alternatingOrientation(dim spec.Dimension, ordinal int) spec.Orientation {
	switch dim {
	case spec.DimY, spec.DimRadius:
		if ordinal%2 == 1 {
			return spec.OrientRight
		}
		return spec.OrientLeft
	default:
		if ordinal%2 == 1 {
			return spec.OrientTop
		}
		return spec.OrientBottom
	}
}

// reapplyDefaults fills zero values on axes appended after SetDefaults ran.
func reapplyDefaults(c *spec.ChartSpec) {
	for i := range c.Axes {
		ax := &c.Axes[i]
		if ax.Type == "" {
			if ax.Dim == spec.CategoryDim(c.Layout) {
				ax.Type = spec.AxisCategory
			} else {
				ax.Type = spec.AxisContinuous
			}
		}
		if ax.TickCount == 0 {
			ax.TickCount = spec.DefaultTickCount
		}
		if ax.Size == 0 {
			if ax.Dim == spec.DimY {
				ax.Size = spec.DefaultYAxisSize
			} else {
				ax.Size = spec.DefaultXAxisSize
			}
		}
		if ax.Padding == "" {
			ax.Padding = "none"
		}
	}
}
