// Package pkg provides the core libraries for the Chartcore layout engine.
//
// # Overview
//
// Chartcore turns declarative chart specs into concrete geometry: axis
// domains, scales, tick sets, bar rectangles, and point positions. It
// also resolves pointer interaction (tooltips, cross-chart sync, brush
// windows) against that geometry. The pkg directory is organized into
// three main areas:
//
//  1. [engine] - Layout computation (spec, axis, stack, scale, layout, chart)
//  2. [interaction] - Pointer resolution and sync (tooltip, link, throttle)
//  3. [infra] - Infrastructure (cache, store, server, observability)
//
// # Architecture
//
// The typical data flow through Chartcore:
//
//	ChartSpec (TOML/JSON or Go API)
//	         ↓
//	    [stack] package (accumulate stacked series)
//	         ↓
//	    [axis] package (resolve axis domains)
//	         ↓
//	    [scale] + [layout] packages (scales, ticks, plot offset, bars)
//	         ↓
//	    [chart] package (bundle: geometry + resolver)
//	         ↓
//	    JSON layout export / tooltip resolution
//
// # Quick Start
//
// Mount a chart and resolve a pointer position:
//
//	import (
//	    "github.com/matzehuels/chartcore/pkg/chart"
//	    "github.com/matzehuels/chartcore/pkg/geom"
//	    "github.com/matzehuels/chartcore/pkg/spec"
//	)
//
//	// 1. Describe the chart
//	c := &spec.ChartSpec{
//	    Width:  800,
//	    Height: 400,
//	    Data:   records,
//	    Series: []spec.SeriesSpec{{Key: "v", Kind: spec.KindLine, DataKey: spec.K("v")}},
//	    Axes: []spec.AxisSpec{
//	        {ID: "0", Dim: spec.DimX, DataKey: spec.K("name")},
//	        {ID: "0", Dim: spec.DimY},
//	    },
//	}
//
//	// 2. Mount a live instance
//	ch, err := chart.New(c, chart.Options{})
//	if err != nil {
//	    return err
//	}
//	defer ch.Close()
//
//	// 3. Read the computed geometry
//	b := ch.Bundle()
//
//	// 4. Resolve a pointer position
//	ch.PointerMove(geom.Point{X: 120, Y: 80})
//	state := ch.Tooltip()
//
// # Main Packages
//
// ## Layout Engine
//
// [spec] - Declarative chart specifications: datasets, axes, series,
// stacks, brush, and sync configuration, loadable from TOML or JSON.
//
// [axis] - Axis domain resolution: numeric extents over visible series,
// category collection with duplicate handling, user overrides, and
// implicit axis synthesis.
//
// [stack] - d3-style series stacking with none, expand, wiggle,
// silhouette, and sign offset modes.
//
// [scale] - Continuous and band scales with nice 1/2/5 tick generation.
//
// [layout] - Plot offset computation (axis allowances, legend, brush)
// and grouped/stacked bar positioning.
//
// [chart] - The bundle pipeline tying everything together, plus JSON
// layout export/import.
//
// ## Interaction
//
// [tooltip] - Pointer-to-category resolution: containment, projection,
// nearest-tick search, payload assembly.
//
// [link] - Cross-chart synchronization over an in-process hub with
// index, value, and custom re-derivation policies.
//
// [throttle] - Trailing-edge rate limiting for pointer streams.
//
// ## Infrastructure
//
// [cache] - Layout caching with file, memory, Redis, and null backends.
//
// [store] - Durable spec/layout archiving with memory and MongoDB backends.
//
// [server] - HTTP API hosting live chart instances.
//
// [observability] - Pluggable hooks for engine, sync, and cache events.
//
// [geom] - Cartesian and polar primitives shared by every layer.
//
// [errors] - Coded errors distinguishing contract violations from
// degraded-output conditions.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/axis/...       # Specific package
//	go test -run Example         # Examples only
//
// [engine]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/chart
// [interaction]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/tooltip
// [infra]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/server
// [spec]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/spec
// [axis]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/axis
// [stack]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/stack
// [scale]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/scale
// [layout]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/layout
// [chart]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/chart
// [tooltip]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/tooltip
// [link]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/link
// [throttle]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/throttle
// [cache]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/store
// [server]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/observability
// [geom]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/geom
// [errors]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/errors
package pkg
