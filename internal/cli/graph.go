package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartcore/pkg/spec"
)

// graphCommand creates the graph command for visualizing spec wiring.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "graph [spec.toml|spec.json]",
		Short: "Render the spec's axis/series wiring as a diagram",
		Long: `Render the spec's axis/series wiring as a diagram.

The graph command visualizes how a spec's pieces bind together: which
axes each series resolves to, and which stack groups share an offset.
This is a configuration diagnostic, useful when implicit axis defaults
or stack ids don't do what you expect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd.Context(), args[0], output, format)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg, png, dot")

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, input, output, format string) error {
	cs, err := spec.Load(input)
	if err != nil {
		return fmt.Errorf("load spec %s: %w", input, err)
	}

	dot := cs.ToDOT()

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + "." + format
	}

	var data []byte
	switch format {
	case "dot":
		data = []byte(dot)
	case "svg", "png":
		data, err = renderDOT(ctx, dot, format)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Graph rendered")
	printFile(outputPath)
	return nil
}

// renderDOT renders a DOT string with Graphviz.
func renderDOT(ctx context.Context, dot, format string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	out := graphviz.SVG
	if format == "png" {
		out = graphviz.PNG
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, out, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
