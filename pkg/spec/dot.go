package spec

import (
	"bytes"
	"fmt"
	"strings"
)

// ToDOT renders the chart's wiring (series → axes → stack groups) as a
// Graphviz DOT string. This is a configuration diagnostic: it visualizes
// how specifications bind together, not the chart itself.
func (c *ChartSpec) ToDOT() string {
	c.SetDefaults()

	var buf bytes.Buffer
	buf.WriteString("digraph chart {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	for i := range c.Axes {
		ax := &c.Axes[i]
		label := fmt.Sprintf("%s axis %q\n%s", ax.Dim, ax.ID, ax.Type)
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=lightyellow];\n", axisNode(ax.Dim, ax.ID), label)
	}

	buf.WriteString("\n")
	stacks := map[string]bool{}
	for i := range c.Series {
		s := &c.Series[i]
		attrs := []string{fmt.Sprintf("label=%q", fmt.Sprintf("%s %q\nkey=%s", s.Kind, s.Key, s.DataKey))}
		if s.Hidden {
			attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", seriesNode(s.Key), strings.Join(attrs, ", "))

		for _, dim := range []Dimension{DimX, DimY, DimAngle, DimRadius} {
			id := s.AxisIDFor(dim)
			if id == "" {
				id = c.defaultAxisID(dim)
			}
			if c.AxisByID(dim, id) == nil {
				continue
			}
			fmt.Fprintf(&buf, "  %q -> %q;\n", seriesNode(s.Key), axisNode(dim, id))
		}

		if s.StackID != "" {
			if !stacks[s.StackID] {
				stacks[s.StackID] = true
				fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=lightblue];\n",
					stackNode(s.StackID), fmt.Sprintf("stack %q\noffset=%s", s.StackID, c.StackOffset))
			}
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", seriesNode(s.Key), stackNode(s.StackID))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func axisNode(dim Dimension, id string) string { return fmt.Sprintf("axis_%s_%s", dim, id) }
func seriesNode(key string) string             { return "series_" + key }
func stackNode(id string) string               { return "stack_" + id }
