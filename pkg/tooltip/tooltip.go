// Package tooltip resolves pointer coordinates to tooltip state: the
// active category index, its label, the per-series payload, and the
// display coordinate for cursor placement.
package tooltip

import (
	"sort"

	"github.com/matzehuels/chartcore/pkg/geom"
	"github.com/matzehuels/chartcore/pkg/scale"
	"github.com/matzehuels/chartcore/pkg/spec"
)

// Entry is one series' contribution to the tooltip payload.
type Entry struct {
	SeriesKey string      `json:"series_key" bson:"series_key"`
	Value     any         `json:"value" bson:"value"`
	Record    spec.Record `json:"record,omitempty" bson:"record,omitempty"`
}

// State is the resolved tooltip state. Inactive states carry Index -1 and
// an empty payload.
type State struct {
	Active     bool       `json:"active" bson:"active"`
	Index      int        `json:"index" bson:"index"`
	Label      any        `json:"label,omitempty" bson:"label,omitempty"`
	Payload    []Entry    `json:"payload,omitempty" bson:"payload,omitempty"`
	Coordinate geom.Point `json:"coordinate" bson:"coordinate"`
}

// Inactive is the no-tooltip state.
func Inactive() State { return State{Active: false, Index: -1} }

// Resolver maps pointer coordinates to tooltip state against one chart's
// current derived geometry. The zero value is not usable; populate every
// field relevant to the layout.
type Resolver struct {
	Layout spec.LayoutKind

	// Plot is the containment rectangle for cartesian layouts.
	Plot geom.Rect

	// Sector is the containment region for polar layouts.
	Sector geom.Sector

	// Ticks is the tooltip axis's tick set. Resolution orders it by
	// coordinate; tick Index addresses the displayed data positionally.
	Ticks []scale.Tick

	// Duplicates carries the literal category labels when the working
	// domain is a synthetic index range.
	Duplicates []any

	// CategoryKey enables exact category matching during payload
	// assembly when the axis forbids duplicate categories.
	CategoryKey spec.DataKey

	// Data is the displayed data slice.
	Data []spec.Record

	// Series are the plotted series contributing payload entries.
	Series []*spec.SeriesSpec
}

// Resolve maps a pointer coordinate to tooltip state. Pointers outside the
// plot bounds resolve to the inactive state, never an error.
func (r *Resolver) Resolve(p geom.Point) State {
	if len(r.Ticks) == 0 || !r.contains(p) {
		return Inactive()
	}

	tick := r.nearestTick(r.project(p))
	return r.assemble(tick, p)
}

// ResolveIndex resolves a category index directly, following the same
// assembly path as pointer resolution. It backs the configured
// default-index selection at mount time and index-policy sync application.
func (r *Resolver) ResolveIndex(idx int) State {
	for _, t := range r.Ticks {
		if t.Index == idx {
			return r.assemble(t, geom.Point{X: t.Coordinate, Y: t.Coordinate})
		}
	}
	return Inactive()
}

// ResolveIndexAt is ResolveIndex with an explicit pointer coordinate for
// cursor placement along the free dimension. Sync receivers use it with a
// foreign pointer clamped to their own plot bounds.
func (r *Resolver) ResolveIndexAt(idx int, p geom.Point) State {
	for _, t := range r.Ticks {
		if t.Index == idx {
			return r.assemble(t, p)
		}
	}
	return Inactive()
}

// ResolveValue resolves the first tick whose label equals the given value,
// scanning in tick order. It backs the value-policy sync application.
func (r *Resolver) ResolveValue(label any) State {
	for _, t := range r.Ticks {
		if r.labelFor(t) == label {
			return r.assemble(t, geom.Point{X: t.Coordinate, Y: t.Coordinate})
		}
	}
	return Inactive()
}

func (r *Resolver) contains(p geom.Point) bool {
	if r.Layout.IsPolar() {
		return r.Sector.Contains(p)
	}
	return r.Plot.Contains(p)
}

// project reduces the pointer to a scalar along the tooltip axis's
// directional dimension.
func (r *Resolver) project(p geom.Point) float64 {
	switch r.Layout {
	case spec.LayoutVertical:
		return p.Y
	case spec.LayoutCentric:
		return geom.FromCartesian(r.Sector.CX, r.Sector.CY, p).Angle
	case spec.LayoutRadial:
		return geom.FromCartesian(r.Sector.CX, r.Sector.CY, p).Radius
	default:
		return p.X
	}
}

// nearestTick finds the tick closest to the scalar position. Ties resolve
// to the first tick at or before the midpoint between adjacent ticks.
func (r *Resolver) nearestTick(pos float64) scale.Tick {
	ticks := make([]scale.Tick, len(r.Ticks))
	copy(ticks, r.Ticks)
	sort.SliceStable(ticks, func(i, j int) bool {
		return ticks[i].Coordinate < ticks[j].Coordinate
	})

	for i := 0; i < len(ticks)-1; i++ {
		mid := (ticks[i].Coordinate + ticks[i+1].Coordinate) / 2
		if pos <= mid {
			return ticks[i]
		}
	}
	return ticks[len(ticks)-1]
}

func (r *Resolver) assemble(tick scale.Tick, p geom.Point) State {
	label := r.labelFor(tick)
	return State{
		Active:     true,
		Index:      tick.Index,
		Label:      label,
		Payload:    r.payload(tick.Index, label),
		Coordinate: r.coordinate(tick, p),
	}
}

// labelFor returns the display label of a tick: the retained literal value
// when the domain is synthetic, else the tick value itself.
func (r *Resolver) labelFor(tick scale.Tick) any {
	if tick.Index >= 0 && tick.Index < len(r.Duplicates) {
		return r.Duplicates[tick.Index]
	}
	return tick.Value
}

// payload collects one entry per plotted series. An exact category match
// is preferred when a category key is available (the key may be computed,
// not just a literal field); otherwise the datum is located positionally.
// Series without a matching datum are omitted, not errors.
func (r *Resolver) payload(idx int, label any) []Entry {
	var out []Entry
	for _, s := range r.Series {
		if s.Hidden {
			continue
		}
		records := r.Data
		if len(s.Data) > 0 {
			records = s.Data
		}

		rec, ok := r.locate(records, idx, label)
		if !ok {
			continue
		}
		v := s.DataKey.Get(rec)
		if v == nil {
			continue
		}
		out = append(out, Entry{SeriesKey: s.Key, Value: v, Record: rec})
	}
	return out
}

func (r *Resolver) locate(records []spec.Record, idx int, label any) (spec.Record, bool) {
	if !r.CategoryKey.IsZero() && label != nil {
		for _, rec := range records {
			if r.CategoryKey.Get(rec) == label {
				return rec, true
			}
		}
	}
	if idx >= 0 && idx < len(records) {
		return records[idx], true
	}
	return nil, false
}

// coordinate converts the resolved tick back into a display coordinate
// for cursor placement.
func (r *Resolver) coordinate(tick scale.Tick, p geom.Point) geom.Point {
	switch r.Layout {
	case spec.LayoutVertical:
		return geom.Point{X: p.X, Y: tick.Coordinate}
	case spec.LayoutCentric:
		return geom.PolarPoint{
			CX: r.Sector.CX, CY: r.Sector.CY,
			Radius: r.Sector.OuterRadius,
			Angle:  tick.Coordinate,
		}.ToCartesian()
	case spec.LayoutRadial:
		return geom.PolarPoint{
			CX: r.Sector.CX, CY: r.Sector.CY,
			Radius: tick.Coordinate,
			Angle:  geom.FromCartesian(r.Sector.CX, r.Sector.CY, p).Angle,
		}.ToCartesian()
	default:
		return geom.Point{X: tick.Coordinate, Y: p.Y}
	}
}
