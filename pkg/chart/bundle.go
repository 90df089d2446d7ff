package chart

import (
	"math"

	"github.com/matzehuels/chartcore/pkg/axis"
	"github.com/matzehuels/chartcore/pkg/geom"
	"github.com/matzehuels/chartcore/pkg/layout"
	"github.com/matzehuels/chartcore/pkg/scale"
	"github.com/matzehuels/chartcore/pkg/spec"
	"github.com/matzehuels/chartcore/pkg/stack"
	"github.com/matzehuels/chartcore/pkg/tooltip"
)

// AxisRecord is one finalized axis: its resolved domain, pixel scale, and
// tick set. Exactly one of Continuous or Band is set, by domain type.
type AxisRecord struct {
	Spec   *spec.AxisSpec
	Domain axis.Domain

	Continuous *scale.Continuous
	Band       *scale.Band

	Ticks []scale.Tick
}

// Coordinate maps a record's axis value to a pixel coordinate. Category
// axes position by index; continuous axes by value.
func (a *AxisRecord) Coordinate(value float64, index int) float64 {
	if a.Band != nil {
		return a.Band.Scale(index)
	}
	return a.Continuous.Scale(value)
}

// Bundle is one complete derived-state snapshot. Bundles are immutable
// once computed; every update produces a fresh bundle so a reader never
// observes a torn intermediate state.
type Bundle struct {
	Window spec.Window
	Offset *layout.Offset

	// Axes maps dimension and axis id to the finalized record.
	Axes map[spec.Dimension]map[string]*AxisRecord

	// Groups are the computed stack groups.
	Groups []*stack.Group

	// Bars maps series key to its slot inside the category band.
	Bars map[string]layout.BarPosition

	// Series is the formatted per-series geometry.
	Series []SeriesGeometry

	// Sector is the polar containment region, zero for cartesian layouts.
	Sector geom.Sector

	resolver *tooltip.Resolver
}

// Resolver returns the point resolver bound to this bundle's geometry.
func (b *Bundle) Resolver() *tooltip.Resolver { return b.resolver }

// Axis returns the finalized record for (dim, id), or nil.
func (b *Bundle) Axis(dim spec.Dimension, id string) *AxisRecord {
	return b.Axes[dim][id]
}

// Compute runs the full derivation pipeline for one (spec, window, legend)
// triple: stacks, domains, scales and ticks, plot offset, bar positions,
// and formatted geometry. It is idempotent for identical inputs. A
// degenerate viewport returns (nil, nil).
func Compute(c *spec.ChartSpec, w spec.Window, legend *layout.Legend) (*Bundle, error) {
	c.SetDefaults()
	w = w.Clamp(len(c.Data))

	offset := layout.ComputeOffset(c, legend)
	if offset == nil {
		return nil, nil
	}

	mode, err := stack.ParseOffsetMode(c.StackOffset)
	if err != nil {
		return nil, err
	}
	groups, err := buildGroups(c, mode)
	if err != nil {
		return nil, err
	}

	b := &Bundle{
		Window: w,
		Offset: offset,
		Axes:   make(map[spec.Dimension]map[string]*AxisRecord),
		Groups: groups,
		Bars:   make(map[string]layout.BarPosition),
	}
	if c.Layout.IsPolar() {
		b.Sector = polarSector(offset)
	}

	for i := range c.Axes {
		ax := &c.Axes[i]
		rec := finalizeAxis(c, ax, w, groups, mode, offset, b.Sector)
		if b.Axes[ax.Dim] == nil {
			b.Axes[ax.Dim] = make(map[string]*AxisRecord)
		}
		b.Axes[ax.Dim][ax.ID] = rec
	}

	positionBars(c, b)
	b.Series = formatSeries(c, b)
	b.resolver = newResolver(c, b)
	return b, nil
}

// buildGroups groups series sharing a numeric axis id and a stack id and
// accumulates their values over the full dataset; windowing restricts the
// domain, not the accumulation.
func buildGroups(c *spec.ChartSpec, mode stack.OffsetMode) ([]*stack.Group, error) {
	numDim := spec.NumericDim(c.Layout)

	type key struct{ axisID, stackID string }
	var order []key
	members := make(map[key][]stack.Series)

	for i := range c.Series {
		s := &c.Series[i]
		if s.StackID == "" || s.Hidden {
			continue
		}
		k := key{axisID: resolvedAxisID(c, s, numDim), stackID: s.StackID}
		if _, ok := members[k]; !ok {
			order = append(order, k)
		}
		members[k] = append(members[k], stack.Series{Key: s.Key, Values: seriesValues(c, s)})
	}

	var groups []*stack.Group
	for _, k := range order {
		g, err := stack.Build(k.axisID, k.stackID, members[k], mode, c.ReverseStackOrder)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

func resolvedAxisID(c *spec.ChartSpec, s *spec.SeriesSpec, dim spec.Dimension) string {
	if id := s.AxisIDFor(dim); id != "" {
		return id
	}
	for i := range c.Axes {
		if c.Axes[i].Dim == dim {
			return c.Axes[i].ID
		}
	}
	return "0"
}

// seriesValues extracts the numeric value sequence of one series, from its
// private data when present.
func seriesValues(c *spec.ChartSpec, s *spec.SeriesSpec) []float64 {
	records := c.Data
	if len(s.Data) > 0 {
		records = s.Data
	}
	out := make([]float64, len(records))
	for i, r := range records {
		if v, ok := spec.Number(s.DataKey.Get(r)); ok {
			out[i] = v
		}
	}
	return out
}

// finalizeAxis resolves the domain and builds the scale and tick set for
// one axis.
func finalizeAxis(c *spec.ChartSpec, ax *spec.AxisSpec, w spec.Window,
	groups []*stack.Group, mode stack.OffsetMode, offset *layout.Offset, sector geom.Sector) *AxisRecord {

	d := axis.Resolve(axis.Input{
		Spec:   c,
		Axis:   ax,
		Window: w,
		Groups: groupsFor(c, ax, groups),
		Mode:   mode,
	})

	rec := &AxisRecord{Spec: ax, Domain: d}
	r0, r1 := axisRange(c.Layout, ax, offset, sector)

	if d.Type == spec.AxisCategory {
		rec.Band = scale.NewBand(d.Categories, r0, r1)
		rec.Ticks = rec.Band.Ticks()
		return rec
	}

	sc := &scale.Continuous{
		DomainMin: d.Min, DomainMax: d.Max,
		RangeMin: r0, RangeMax: r1,
		Transform: ax.Transform, Exponent: ax.Exponent,
	}
	if inset := rangeInset(ax, sc, d.Snapshot, *c.BarCategoryGap); inset > 0 {
		dir := 1.0
		if r1 < r0 {
			dir = -1.0
		}
		sc.RangeMin, sc.RangeMax = r0+dir*inset, r1-dir*inset
	}
	rec.Continuous = sc
	rec.Ticks = sc.Ticks(ax.TickCount)
	return rec
}

// groupsFor returns the stack groups bound to an axis. Only the numeric
// dimension of the layout carries stacks.
func groupsFor(c *spec.ChartSpec, ax *spec.AxisSpec, groups []*stack.Group) []*stack.Group {
	if ax.Dim != spec.NumericDim(c.Layout) {
		return nil
	}
	var out []*stack.Group
	for _, g := range groups {
		if g.AxisID == ax.ID {
			out = append(out, g)
		}
	}
	return out
}

// axisRange maps an axis onto its pixel (or angular/radial) range.
// Continuous y and radius ranges are descending so larger values render
// higher / further out.
func axisRange(l spec.LayoutKind, ax *spec.AxisSpec, o *layout.Offset, sector geom.Sector) (float64, float64) {
	switch ax.Dim {
	case spec.DimY:
		if ax.Type == spec.AxisCategory {
			return o.Top, o.Top + o.Height
		}
		return o.Top + o.Height, o.Top
	case spec.DimAngle:
		return 0, 360
	case spec.DimRadius:
		return sector.InnerRadius, sector.OuterRadius
	default:
		return o.Left, o.Left + o.Width
	}
}

// rangeInset computes the gap-padding inset of a band-flavored numeric
// axis: half the smallest pixel distance between adjacent category
// snapshot values, optionally net of the category gap.
func rangeInset(ax *spec.AxisSpec, sc *scale.Continuous, snapshot []any, categoryGap float64) float64 {
	if len(snapshot) < 2 {
		return 0
	}
	smallest := math.Inf(1)
	prev, havePrev := 0.0, false
	for _, v := range snapshot {
		n, ok := spec.Number(v)
		if !ok {
			continue
		}
		px := sc.Scale(n)
		if havePrev {
			if d := math.Abs(px - prev); d > 0 && d < smallest {
				smallest = d
			}
		}
		prev, havePrev = px, true
	}
	if math.IsInf(smallest, 1) {
		return 0
	}
	return scale.GapPadding(ax.Padding, smallest, categoryGap)
}

// polarSector derives the containment sector of a polar layout: centered
// in the plot rectangle, outer radius at 80% of the half-extent.
func polarSector(o *layout.Offset) geom.Sector {
	r := o.Rect()
	return geom.Sector{
		CX:          r.X + r.Width/2,
		CY:          r.Y + r.Height/2,
		OuterRadius: 0.8 * math.Min(r.Width, r.Height) / 2,
		StartAngle:  0,
		EndAngle:    360,
	}
}

// positionBars splits each category band among its co-located bar series.
func positionBars(c *spec.ChartSpec, b *Bundle) {
	catDim := spec.CategoryDim(c.Layout)
	for id, rec := range b.Axes[catDim] {
		if rec.Band == nil {
			continue
		}
		members := c.SeriesFor(catDim, id)
		for _, p := range layout.PositionBars(c, members, rec.Band.Bandwidth()) {
			b.Bars[p.Key] = p
		}
	}
}

// newResolver binds the point resolver to the tooltip axis: the first
// declared axis of the layout's category dimension.
func newResolver(c *spec.ChartSpec, b *Bundle) *tooltip.Resolver {
	r := &tooltip.Resolver{
		Layout: c.Layout,
		Plot:   b.Offset.Rect(),
		Sector: b.Sector,
		Data:   displayedData(c, b.Window),
	}
	for i := range c.Series {
		r.Series = append(r.Series, &c.Series[i])
	}

	catDim := spec.CategoryDim(c.Layout)
	id := firstAxisID(c, catDim)
	if rec := b.Axis(catDim, id); rec != nil {
		r.Ticks = rec.Ticks
		r.Duplicates = rec.Domain.Duplicates
		if !rec.Spec.AllowDuplicatedCategory {
			r.CategoryKey = rec.Spec.DataKey
		}
	}
	return r
}

func firstAxisID(c *spec.ChartSpec, dim spec.Dimension) string {
	for i := range c.Axes {
		if c.Axes[i].Dim == dim {
			return c.Axes[i].ID
		}
	}
	return "0"
}

func displayedData(c *spec.ChartSpec, w spec.Window) []spec.Record {
	if len(c.Data) == 0 {
		return nil
	}
	w = w.Clamp(len(c.Data))
	return c.Data[w.StartIndex : w.EndIndex+1]
}
