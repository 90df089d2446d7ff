// Package stack computes accumulated value extents for grouped series.
//
// Series sharing a numeric axis and a stack id form a stack group. For each
// category index, the group accumulates member values under a selectable
// offset algorithm and records a [base, top] extent per member. Extents
// feed both axis domain computation and the final rendered geometry.
//
// The math operates on plain float slices; the chart layer extracts values
// from records and groups series before calling Build.
package stack

import (
	"math"

	"github.com/matzehuels/chartcore/pkg/errors"
)

// OffsetMode selects the accumulation algorithm.
type OffsetMode string

// Supported offset modes.
const (
	// OffsetNone stacks strictly in member order with baseline 0.
	OffsetNone OffsetMode = "none"

	// OffsetExpand stacks then normalizes each category's total to 1.
	OffsetExpand OffsetMode = "expand"

	// OffsetWiggle minimizes the weighted movement of the baseline
	// (streamgraph stacking).
	OffsetWiggle OffsetMode = "wiggle"

	// OffsetSilhouette centers the stack around zero.
	OffsetSilhouette OffsetMode = "silhouette"

	// OffsetSign accumulates positive and negative values in two
	// independent stacks so each bar extends from zero.
	OffsetSign OffsetMode = "sign"
)

// ParseOffsetMode converts a configuration string to an OffsetMode.
// The empty string maps to OffsetNone.
func ParseOffsetMode(s string) (OffsetMode, error) {
	switch OffsetMode(s) {
	case "", OffsetNone:
		return OffsetNone, nil
	case OffsetExpand, OffsetWiggle, OffsetSilhouette, OffsetSign:
		return OffsetMode(s), nil
	}
	return "", errors.New(errors.ErrCodeInvalidOffsetMode, "unknown stack offset %q", s)
}

// Series is one stack member: a key and its value per category index.
// Non-finite values are treated as zero so stacking stays total over all
// well-formed inputs.
type Series struct {
	Key    string
	Values []float64
}

// Extent is the accumulated [base, top] pair of one member at one category
// index. For negative values Top lies below Base.
type Extent struct {
	Base float64 `json:"base" bson:"base"`
	Top  float64 `json:"top" bson:"top"`
}

// Group is a computed stack group.
type Group struct {
	// AxisID and StackID identify the group: series sharing both are
	// accumulated together.
	AxisID  string
	StackID string

	// Order lists member keys in stacking order.
	Order []string

	// Extents maps member key to its per-category extents.
	Extents map[string][]Extent
}

// Build accumulates the given members under mode. Member order is the
// stacking order; reverse flips membership order only, never data order.
func Build(axisID, stackID string, members []Series, mode OffsetMode, reverse bool) (*Group, error) {
	if _, err := ParseOffsetMode(string(mode)); err != nil {
		return nil, err
	}
	if mode == "" {
		mode = OffsetNone
	}

	ordered := make([]Series, len(members))
	copy(ordered, members)
	if reverse {
		for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		}
	}

	n := len(ordered)
	m := 0
	for _, s := range ordered {
		if len(s.Values) > m {
			m = len(s.Values)
		}
	}

	// v[i][j]: sanitized value of member i at category j.
	v := make([][]float64, n)
	for i, s := range ordered {
		v[i] = make([]float64, m)
		for j := 0; j < m; j++ {
			if j < len(s.Values) && isFinite(s.Values[j]) {
				v[i][j] = s.Values[j]
			}
		}
	}

	g := &Group{
		AxisID:  axisID,
		StackID: stackID,
		Order:   make([]string, n),
		Extents: make(map[string][]Extent, n),
	}
	for i, s := range ordered {
		g.Order[i] = s.Key
		g.Extents[s.Key] = make([]Extent, m)
	}

	switch mode {
	case OffsetSign:
		stackBySign(g, ordered, v, m)
	default:
		stackCumulative(g, ordered, v, m)
	}

	switch mode {
	case OffsetExpand:
		normalize(g, ordered, v, m)
	case OffsetSilhouette:
		shift(g, ordered, silhouetteBaseline(v, n, m))
	case OffsetWiggle:
		shift(g, ordered, wiggleBaseline(v, n, m))
	}

	return g, nil
}

// stackCumulative stacks members in order from baseline 0.
func stackCumulative(g *Group, ordered []Series, v [][]float64, m int) {
	for j := 0; j < m; j++ {
		var acc float64
		for i, s := range ordered {
			g.Extents[s.Key][j] = Extent{Base: acc, Top: acc + v[i][j]}
			acc += v[i][j]
		}
	}
}

// stackBySign keeps independent positive and negative accumulators so each
// member extends from zero without overlapping the opposite sign.
func stackBySign(g *Group, ordered []Series, v [][]float64, m int) {
	for j := 0; j < m; j++ {
		var pos, neg float64
		for i, s := range ordered {
			val := v[i][j]
			if val >= 0 {
				g.Extents[s.Key][j] = Extent{Base: pos, Top: pos + val}
				pos += val
			} else {
				g.Extents[s.Key][j] = Extent{Base: neg, Top: neg + val}
				neg += val
			}
		}
	}
}

// normalize divides every extent by the category total, mapping the stack
// onto [0, 1]. Zero totals leave the category at zero.
func normalize(g *Group, ordered []Series, v [][]float64, m int) {
	for j := 0; j < m; j++ {
		var total float64
		for i := range ordered {
			total += v[i][j]
		}
		if total == 0 {
			continue
		}
		for _, s := range ordered {
			e := g.Extents[s.Key][j]
			g.Extents[s.Key][j] = Extent{Base: e.Base / total, Top: e.Top / total}
		}
	}
}

// shift moves every extent at category j by baseline[j].
func shift(g *Group, ordered []Series, baseline []float64) {
	for _, s := range ordered {
		for j := range g.Extents[s.Key] {
			g.Extents[s.Key][j].Base += baseline[j]
			g.Extents[s.Key][j].Top += baseline[j]
		}
	}
}

// silhouetteBaseline centers each category's stack around zero.
func silhouetteBaseline(v [][]float64, n, m int) []float64 {
	baseline := make([]float64, m)
	for j := 0; j < m; j++ {
		var total float64
		for i := 0; i < n; i++ {
			total += v[i][j]
		}
		baseline[j] = -total / 2
	}
	return baseline
}

// wiggleBaseline minimizes the weighted wiggle of the baseline, following
// the standard streamgraph formulation.
func wiggleBaseline(v [][]float64, n, m int) []float64 {
	baseline := make([]float64, m)
	if m == 0 {
		return baseline
	}

	var y float64
	for j := 1; j < m; j++ {
		var s1, s2 float64
		for i := 0; i < n; i++ {
			s3 := (v[i][j] - v[i][j-1]) / 2
			for k := 0; k < i; k++ {
				s3 += v[k][j] - v[k][j-1]
			}
			s1 += v[i][j]
			s2 += s3 * v[i][j]
		}
		baseline[j-1] = y
		if s1 != 0 {
			y -= s2 / s1
		}
	}
	baseline[m-1] = y
	return baseline
}

// Domain returns the [min, max] union of all member extents across the
// category indexes in [w0, w1]. ok is false when the window covers no
// extents.
func (g *Group) Domain(w0, w1 int) (min, max float64, ok bool) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, key := range g.Order {
		extents := g.Extents[key]
		for j := w0; j <= w1 && j < len(extents); j++ {
			if j < 0 {
				continue
			}
			e := extents[j]
			min = math.Min(min, math.Min(e.Base, e.Top))
			max = math.Max(max, math.Max(e.Base, e.Top))
		}
	}
	if min > max {
		return 0, 0, false
	}
	return min, max, true
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
