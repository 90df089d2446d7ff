package chart

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/matzehuels/chartcore/pkg/axis"
	"github.com/matzehuels/chartcore/pkg/layout"
	"github.com/matzehuels/chartcore/pkg/scale"
	"github.com/matzehuels/chartcore/pkg/spec"
	"github.com/matzehuels/chartcore/pkg/stack"
)

// Layout is the serializable form of a computed bundle: the output
// contract to the rendering collaborator. It carries finalized axis
// records, per-series geometry, the plot offset, and the brush window, and
// round-trips through JSON and BSON.
type Layout struct {
	Window spec.Window    `json:"window" bson:"window"`
	Offset *layout.Offset `json:"offset" bson:"offset"`

	Axes   []ExportedAxis   `json:"axes" bson:"axes"`
	Series []SeriesGeometry `json:"series" bson:"series"`

	Bars map[string]layout.BarPosition `json:"bars,omitempty" bson:"bars,omitempty"`

	Stacks []ExportedStack `json:"stacks,omitempty" bson:"stacks,omitempty"`
}

// ExportedAxis is one finalized axis record.
type ExportedAxis struct {
	ID     string         `json:"id" bson:"id"`
	Dim    spec.Dimension `json:"dim" bson:"dim"`
	Domain axis.Domain    `json:"domain" bson:"domain"`
	Ticks  []scale.Tick   `json:"ticks" bson:"ticks"`

	// Range is the pixel (or angular) range the domain maps onto.
	RangeMin float64 `json:"range_min" bson:"range_min"`
	RangeMax float64 `json:"range_max" bson:"range_max"`
}

// ExportedStack is one stack group's accumulated extents.
type ExportedStack struct {
	AxisID  string                    `json:"axis_id" bson:"axis_id"`
	StackID string                    `json:"stack_id" bson:"stack_id"`
	Order   []string                  `json:"order" bson:"order"`
	Extents map[string][]stack.Extent `json:"extents" bson:"extents"`
}

// Export converts a bundle into its serializable form.
func Export(b *Bundle) *Layout {
	if b == nil {
		return nil
	}
	out := &Layout{
		Window: b.Window,
		Offset: b.Offset,
		Series: b.Series,
		Bars:   b.Bars,
	}
	for _, byID := range b.Axes {
		for _, rec := range byID {
			ea := ExportedAxis{
				ID:     rec.Spec.ID,
				Dim:    rec.Spec.Dim,
				Domain: rec.Domain,
				Ticks:  rec.Ticks,
			}
			if rec.Continuous != nil {
				ea.RangeMin, ea.RangeMax = rec.Continuous.RangeMin, rec.Continuous.RangeMax
			} else if rec.Band != nil {
				ea.RangeMin, ea.RangeMax = rec.Band.RangeMin, rec.Band.RangeMax
			}
			out.Axes = append(out.Axes, ea)
		}
	}
	// Map iteration order is random; keep the export deterministic.
	sort.Slice(out.Axes, func(i, j int) bool {
		if out.Axes[i].Dim != out.Axes[j].Dim {
			return out.Axes[i].Dim < out.Axes[j].Dim
		}
		return out.Axes[i].ID < out.Axes[j].ID
	})
	for _, g := range b.Groups {
		out.Stacks = append(out.Stacks, ExportedStack{
			AxisID: g.AxisID, StackID: g.StackID, Order: g.Order, Extents: g.Extents,
		})
	}
	return out
}

// WriteJSON encodes a computed layout as indented JSON and writes it to w.
// The output can be re-read with [ReadJSON].
func WriteJSON(l *Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a computed layout to a JSON file at path.
func ExportJSON(l *Layout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(l, f)
}

// ReadJSON decodes a layout from r.
func ReadJSON(r io.Reader) (*Layout, error) {
	var l Layout
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &l, nil
}

// ImportJSON reads a layout from a JSON file at path.
func ImportJSON(path string) (*Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
