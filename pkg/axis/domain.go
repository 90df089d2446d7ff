// Package axis resolves per-axis domains from data or user overrides.
//
// The resolver is the first stage of the layout pipeline: given an axis
// specification, the dataset, the current brush window, and any stack
// groups bound to the axis, it produces the finalized domain the scale
// factory maps onto pixels.
//
// All resolution paths are total over their inputs: empty or malformed
// data degrades to default per-type domains instead of failing, so an
// empty chart still renders axes.
package axis

import (
	"math"

	"github.com/matzehuels/chartcore/pkg/spec"
	"github.com/matzehuels/chartcore/pkg/stack"
)

// Domain is a resolved axis domain.
type Domain struct {
	Type spec.AxisType `json:"type" bson:"type"`

	// Continuous bounds. Always Min <= Max.
	Min float64 `json:"min,omitempty" bson:"min,omitempty"`
	Max float64 `json:"max,omitempty" bson:"max,omitempty"`

	// Categories is the ordered category domain. For synthetic domains it
	// holds the sequential indexes 0..N-1.
	Categories []any `json:"categories,omitempty" bson:"categories,omitempty"`

	// Duplicates retains the literal values for label lookup when the
	// working domain switched to a synthetic index range.
	Duplicates []any `json:"duplicates,omitempty" bson:"duplicates,omitempty"`

	// Synthetic marks a category domain replaced by sequential indexes
	// because duplicates are allowed and actually present.
	Synthetic bool `json:"synthetic,omitempty" bson:"synthetic,omitempty"`

	// Snapshot is the categorical view of a continuous axis's data, kept
	// for tick and gap computation on category-flavored numeric axes.
	Snapshot []any `json:"snapshot,omitempty" bson:"snapshot,omitempty"`
}

// Len returns the number of category units, or zero for continuous domains.
func (d Domain) Len() int { return len(d.Categories) }

// Input carries everything domain resolution needs for one axis.
type Input struct {
	Spec   *spec.ChartSpec
	Axis   *spec.AxisSpec
	Window spec.Window

	// Groups are the stack groups bound to this axis, if any.
	Groups []*stack.Group

	// Mode is the chart-wide stack offset mode.
	Mode stack.OffsetMode
}

// Resolve determines the axis domain per the resolution algorithm:
// explicit-override short-circuit, stacked extents, numeric min/max with
// reference and error-bar extension, or category collection.
func Resolve(in Input) Domain {
	ax := in.Axis
	series := in.Spec.SeriesFor(ax.Dim, ax.ID)
	data := DisplayedData(in.Spec, series, in.Window)

	if ax.Type == spec.AxisCategory {
		return resolveCategory(in, series, data)
	}
	return resolveContinuous(in, series, data)
}

// DisplayedData computes the data slice the axis actually sees: the
// concatenated per-series data when any series overrides the dataset,
// otherwise the chart dataset restricted to the brush window.
func DisplayedData(c *spec.ChartSpec, series []*spec.SeriesSpec, w spec.Window) []spec.Record {
	var private []spec.Record
	hasPrivate := false
	for _, s := range series {
		if len(s.Data) > 0 {
			hasPrivate = true
			private = append(private, s.Data...)
		}
	}
	if hasPrivate {
		return private
	}

	if len(c.Data) == 0 {
		return nil
	}
	w = w.Clamp(len(c.Data))
	return c.Data[w.StartIndex : w.EndIndex+1]
}

// =============================================================================
// Continuous Resolution
// =============================================================================

func resolveContinuous(in Input, series []*spec.SeriesSpec, data []spec.Record) Domain {
	ax := in.Axis

	// Performance short-circuit: a fully explicit domain with overflow
	// permitted is adopted without scanning the data.
	if ax.Domain.IsFullyFixed() && ax.AllowDataOverflow {
		d := Domain{Type: spec.AxisContinuous, Min: ax.Domain.Min.Value, Max: ax.Domain.Max.Value}
		if d.Min > d.Max {
			d.Min, d.Max = d.Max, d.Min
		}
		d.Snapshot = categorySnapshot(ax, data)
		return d
	}

	// Stacked axes take their extent from the accumulated stacks.
	if len(in.Groups) > 0 {
		if in.Mode == stack.OffsetExpand {
			return Domain{Type: spec.AxisContinuous, Min: 0, Max: 1, Snapshot: categorySnapshot(ax, data)}
		}
		lo, hi := math.Inf(1), math.Inf(-1)
		found := false
		for _, g := range in.Groups {
			if min, max, ok := g.Domain(in.Window.StartIndex, in.Window.EndIndex); ok {
				lo, hi = math.Min(lo, min), math.Max(hi, max)
				found = true
			}
		}
		if found {
			d := Domain{Type: spec.AxisContinuous, Min: lo, Max: hi}
			d.Min, d.Max = mergeOverride(ax, d.Min, d.Max)
			d.Snapshot = categorySnapshot(ax, data)
			return d
		}
	}

	lo, hi := dataExtent(ax, series, data)
	lo, hi = extendForReferences(in.Spec, ax, lo, hi)
	lo, hi = extendForErrorBars(series, data, lo, hi)

	if math.IsInf(lo, 1) || math.IsInf(hi, -1) {
		// No numeric data at all: default domain keeps the axes rendering.
		lo, hi = 0, 1
	}

	lo, hi = mergeOverride(ax, lo, hi)
	if lo > hi {
		lo, hi = hi, lo
	}
	return Domain{Type: spec.AxisContinuous, Min: lo, Max: hi, Snapshot: categorySnapshot(ax, data)}
}

// dataExtent scans the data key of every non-hidden series on the axis,
// plus the axis's own data key.
func dataExtent(ax *spec.AxisSpec, series []*spec.SeriesSpec, data []spec.Record) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)

	scan := func(key spec.DataKey, records []spec.Record) {
		for _, r := range records {
			if v, ok := spec.Number(key.Get(r)); ok {
				lo, hi = math.Min(lo, v), math.Max(hi, v)
			}
		}
	}

	if !ax.DataKey.IsZero() {
		scan(ax.DataKey, data)
	}
	for _, s := range series {
		if s.Hidden {
			continue
		}
		records := data
		if len(s.Data) > 0 {
			records = s.Data
		}
		scan(s.DataKey, records)
	}
	return lo, hi
}

// extendForReferences widens the extent to include always-visible
// reference annotations pinned to this axis.
func extendForReferences(c *spec.ChartSpec, ax *spec.AxisSpec, lo, hi float64) (float64, float64) {
	for _, r := range c.References {
		if r.AxisID != ax.ID || !r.AlwaysVisible {
			continue
		}
		lo = math.Min(lo, math.Min(r.Min, r.Max))
		hi = math.Max(hi, math.Max(r.Min, r.Max))
	}
	return lo, hi
}

// extendForErrorBars widens the extent by series error deltas: a numeric
// value is a symmetric delta, a two-element pair is [low, high] deltas.
func extendForErrorBars(series []*spec.SeriesSpec, data []spec.Record, lo, hi float64) (float64, float64) {
	for _, s := range series {
		if s.Hidden || s.ErrorKey.IsZero() {
			continue
		}
		records := data
		if len(s.Data) > 0 {
			records = s.Data
		}
		for _, r := range records {
			v, ok := spec.Number(s.DataKey.Get(r))
			if !ok {
				continue
			}
			dLo, dHi, ok := errorDeltas(s.ErrorKey.Get(r))
			if !ok {
				continue
			}
			lo = math.Min(lo, v-dLo)
			hi = math.Max(hi, v+dHi)
		}
	}
	return lo, hi
}

func errorDeltas(v any) (lo, hi float64, ok bool) {
	if n, isNum := spec.Number(v); isNum {
		return n, n, true
	}
	if pair, isPair := v.([]any); isPair && len(pair) == 2 {
		l, ok1 := spec.Number(pair[0])
		h, ok2 := spec.Number(pair[1])
		if ok1 && ok2 {
			return l, h, true
		}
	}
	if pair, isPair := v.([]float64); isPair && len(pair) == 2 {
		return pair[0], pair[1], true
	}
	return 0, 0, false
}

// mergeOverride applies a partial user override. Auto bounds keep the data
// extent; fixed bounds are adopted directly when overflow is allowed,
// otherwise they only ever widen the extent so data stays visible.
func mergeOverride(ax *spec.AxisSpec, lo, hi float64) (float64, float64) {
	d := ax.Domain
	if d == nil {
		return lo, hi
	}
	if !d.Min.Auto {
		if ax.AllowDataOverflow {
			lo = d.Min.Value
		} else {
			lo = math.Min(lo, d.Min.Value)
		}
	}
	if !d.Max.Auto {
		if ax.AllowDataOverflow {
			hi = d.Max.Value
		} else {
			hi = math.Max(hi, d.Max.Value)
		}
	}
	return lo, hi
}

// categorySnapshot derives the categorical view of a continuous axis's
// data, used for tick and gap computation on category-flavored numeric
// axes (a numeric axis with a data key and a gap padding policy).
func categorySnapshot(ax *spec.AxisSpec, data []spec.Record) []any {
	if ax.DataKey.IsZero() || ax.Padding == "" || ax.Padding == "none" {
		return nil
	}
	out := make([]any, 0, len(data))
	for _, r := range data {
		out = append(out, ax.DataKey.Get(r))
	}
	return out
}

// =============================================================================
// Category Resolution
// =============================================================================

func resolveCategory(in Input, series []*spec.SeriesSpec, data []spec.Record) Domain {
	ax := in.Axis

	// No data key: the axis position is implied by item order.
	if ax.DataKey.IsZero() {
		return Domain{Type: spec.AxisCategory, Categories: indexDomain(len(data))}
	}

	values := make([]any, 0, len(data))
	for _, r := range data {
		values = append(values, ax.DataKey.Get(r))
	}

	if ax.AllowDuplicatedCategory {
		if dup := firstDuplicate(values); dup {
			// Literal values are retained separately for label lookup;
			// the working domain becomes a synthetic index range.
			return Domain{
				Type:       spec.AxisCategory,
				Categories: indexDomain(len(values)),
				Duplicates: values,
				Synthetic:  true,
			}
		}
		return Domain{Type: spec.AxisCategory, Categories: values}
	}

	// Duplicates disallowed: first-occurrence-ordered unique values.
	// Empty and nil entries are dropped unless this is the dedicated
	// category axis of the layout.
	dropEmpty := ax.Dim != spec.CategoryDim(in.Spec.Layout)
	seen := make(map[any]bool, len(values))
	unique := make([]any, 0, len(values))
	for _, v := range values {
		if dropEmpty && (v == nil || v == "") {
			continue
		}
		if !hashable(v) || !seen[v] {
			if hashable(v) {
				seen[v] = true
			}
			unique = append(unique, v)
		}
	}
	return Domain{Type: spec.AxisCategory, Categories: unique}
}

func indexDomain(n int) []any {
	d := make([]any, n)
	for i := range d {
		d[i] = i
	}
	return d
}

func firstDuplicate(values []any) bool {
	seen := make(map[any]bool, len(values))
	for _, v := range values {
		if !hashable(v) {
			continue
		}
		if seen[v] {
			return true
		}
		seen[v] = true
	}
	return false
}

// hashable reports whether v can be used as a map key.
func hashable(v any) bool {
	switch v.(type) {
	case nil, string, bool, int, int32, int64, uint, uint64, float32, float64:
		return true
	}
	return false
}
