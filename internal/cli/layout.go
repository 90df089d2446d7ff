package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartcore/pkg/cache"
	"github.com/matzehuels/chartcore/pkg/chart"
	"github.com/matzehuels/chartcore/pkg/spec"
)

// layoutCommand creates the layout command for computing chart layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output   string
		dataFile string
		noCache  bool
		width    float64
		height   float64
		start    int
		end      int
	)

	cmd := &cobra.Command{
		Use:   "layout [spec.toml|spec.json]",
		Short: "Compute a chart layout from a spec file",
		Long: `Compute a chart layout from a spec file.

The layout command reads a chart spec (TOML or JSON), resolves axis
domains, stacks series, positions bars, and writes the computed layout
as JSON. The output can be fed to any renderer that understands the
layout format, or re-imported with the Go API.

Data can live inline in the spec or in a separate file given with --data.
Use --start/--end to compute the layout for a brushed data window.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], layoutParams{
				output:   output,
				dataFile: dataFile,
				noCache:  noCache,
				width:    width,
				height:   height,
				start:    start,
				end:      end,
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().StringVar(&dataFile, "data", "", "data file overriding the spec's inline data")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().Float64Var(&width, "width", 0, "override viewport width")
	cmd.Flags().Float64Var(&height, "height", 0, "override viewport height")
	cmd.Flags().IntVar(&start, "start", -1, "window start index")
	cmd.Flags().IntVar(&end, "end", -1, "window end index")

	return cmd
}

type layoutParams struct {
	output   string
	dataFile string
	noCache  bool
	width    float64
	height   float64
	start    int
	end      int
}

// runLayout loads the spec, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, p layoutParams) error {
	cs, err := spec.Load(input)
	if err != nil {
		return fmt.Errorf("load spec %s: %w", input, err)
	}
	if p.dataFile != "" {
		data, err := spec.LoadData(p.dataFile)
		if err != nil {
			return fmt.Errorf("load data %s: %w", p.dataFile, err)
		}
		cs.Data = data
	}
	if p.width > 0 {
		cs.Width = p.width
	}
	if p.height > 0 {
		cs.Height = p.height
	}

	window := spec.FullWindow(len(cs.Data))
	if p.start >= 0 && p.end >= p.start {
		window = spec.Window{StartIndex: p.start, EndIndex: p.end}.Clamp(len(cs.Data))
	}

	store, err := newCache(p.noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer store.Close()

	outputPath := p.output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	specData, _ := json.Marshal(cs)
	key := cache.NewDefaultKeyer().LayoutKey(cache.Hash(specData), cache.LayoutKeyOpts{
		Width:      cs.Width,
		Height:     cs.Height,
		StartIndex: window.StartIndex,
		EndIndex:   window.EndIndex,
	})

	if data, hit, err := store.Get(ctx, key); err == nil && hit {
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", outputPath, err)
		}
		printSuccess("Layout complete")
		printFile(outputPath)
		printStats(len(cs.Data), len(cs.Series), true)
		return nil
	}

	prog := newProgress(c.Logger)
	b, err := chart.Compute(cs, window, nil)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	if b == nil {
		return fmt.Errorf("degenerate viewport %gx%g", cs.Width, cs.Height)
	}
	prog.done("Computed layout")

	l := chart.Export(b)
	if err := chart.ExportJSON(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	if data, err := os.ReadFile(outputPath); err == nil {
		if err := store.Set(ctx, key, data, 0); err != nil {
			c.Logger.Debug("cache set failed", "err", err)
		}
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(cs.Data), len(cs.Series), false)
	printNewline()
	printNextStep("Explore", "chartcore explore "+input)

	return nil
}
