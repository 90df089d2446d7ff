// Package chart is the engine facade: it owns one chart instance's
// specification, brush window, and tooltip state, and derives the full
// layout bundle (axis maps, stack groups, plot offset, positioned items)
// on demand.
//
// All computation is synchronous and runs to completion inside the
// triggering call. Derived state is replaced wholesale, never edited in
// place, and memoized on an update-generation counter: pure tooltip hover
// never re-runs the axis pipeline.
package chart

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartcore/pkg/axis"
	"github.com/matzehuels/chartcore/pkg/errors"
	"github.com/matzehuels/chartcore/pkg/geom"
	"github.com/matzehuels/chartcore/pkg/layout"
	"github.com/matzehuels/chartcore/pkg/link"
	"github.com/matzehuels/chartcore/pkg/observability"
	"github.com/matzehuels/chartcore/pkg/spec"
	"github.com/matzehuels/chartcore/pkg/throttle"
	"github.com/matzehuels/chartcore/pkg/tooltip"
)

// Options configures a chart instance beyond its specification.
type Options struct {
	// ChartID identifies the instance in logs and hooks. Defaults to the
	// emitter id.
	ChartID string

	// Hub carries sync messages. Defaults to the process-wide hub.
	Hub *link.Hub

	// Custom is the resolver for the custom sync policy.
	Custom link.CustomResolver

	// Legend is the externally measured legend box, if already known.
	Legend *layout.Legend

	// PointerInterval overrides the pointer rate limit.
	PointerInterval time.Duration

	// Logger defaults to a discarding logger.
	Logger *log.Logger
}

// SetDefaults applies option defaults in place.
func (o *Options) SetDefaults() {
	if o.Hub == nil {
		o.Hub = link.Default()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Chart is one chart instance.
type Chart struct {
	mu   sync.Mutex
	spec *spec.ChartSpec
	opts Options

	emitterID   string
	receiver    *link.Receiver
	unsubscribe func()
	limiter     *throttle.Limiter

	window  spec.Window
	active  tooltip.State
	legend  *layout.Legend
	mounted bool

	// gen counts spec-affecting updates; bundleGen stamps the cached
	// bundle. Hover state lives outside the bundle on purpose.
	gen       uint64
	bundleGen uint64
	bundle    *Bundle
}

// New validates the specification and creates a chart instance. The
// configuration contract is checked loudly up front: a series referencing
// a missing axis is a caller bug, not a runtime condition.
func New(c *spec.ChartSpec, opts Options) (*Chart, error) {
	opts.SetDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	axis.EnsureAxes(c)

	id := link.NewEmitterID()
	if opts.ChartID == "" {
		opts.ChartID = id
	}

	ch := &Chart{
		spec:      c,
		opts:      opts,
		emitterID: id,
		legend:    opts.Legend,
		window:    initialWindow(c),
		active:    tooltip.Inactive(),
		receiver: &link.Receiver{
			ID:     id,
			Policy: c.SyncPolicy,
			Custom: opts.Custom,
		},
	}
	ch.limiter = throttle.New(opts.PointerInterval, ch.handlePointer)

	if c.SyncID != "" {
		ch.unsubscribe = opts.Hub.Subscribe(c.SyncID, ch.handleMessage)
	}

	opts.Logger.Debug("chart created",
		"chart_id", opts.ChartID, "records", len(c.Data), "series", len(c.Series))
	return ch, nil
}

func initialWindow(c *spec.ChartSpec) spec.Window {
	n := len(c.Data)
	w := spec.FullWindow(n)
	if c.Brush == nil {
		return w
	}
	if c.Brush.StartIndex != nil {
		w.StartIndex = *c.Brush.StartIndex
	}
	if c.Brush.EndIndex != nil {
		w.EndIndex = *c.Brush.EndIndex
	}
	return w.Clamp(n)
}

// Close cancels pending pointer work and leaves the sync group.
func (ch *Chart) Close() {
	ch.limiter.Cancel()
	if ch.unsubscribe != nil {
		ch.unsubscribe()
		ch.unsubscribe = nil
	}
}

// ID returns the chart's emitter identity.
func (ch *Chart) ID() string { return ch.emitterID }

// Spec returns the chart specification. Mutating it without a subsequent
// Invalidate call leaves the cached bundle stale.
func (ch *Chart) Spec() *spec.ChartSpec { return ch.spec }

// =============================================================================
// Derived State
// =============================================================================

// Bundle returns the derived layout bundle, recomputing it only when a
// spec-affecting update occurred since the last computation. A degenerate
// viewport yields nil: nothing to show, re-evaluated on the next change.
func (ch *Chart) Bundle() *Bundle {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.bundleLocked()
}

func (ch *Chart) bundleLocked() *Bundle {
	if ch.bundle == nil || ch.bundleGen != ch.gen {
		ch.bundle = ch.compute()
		ch.bundleGen = ch.gen
		if !ch.mounted {
			ch.mounted = true
			if ch.bundle != nil && ch.spec.DefaultTooltipIndex != nil {
				ch.active = ch.bundle.Resolver().ResolveIndex(*ch.spec.DefaultTooltipIndex)
			}
		}
	}
	return ch.bundle
}

func (ch *Chart) compute() *Bundle {
	ctx := context.Background()
	start := time.Now()
	observability.Engine().OnLayoutStart(ctx, ch.opts.ChartID, len(ch.spec.Data))

	b, err := Compute(ch.spec, ch.window, ch.legend)
	observability.Engine().OnLayoutComplete(ctx, ch.opts.ChartID, time.Since(start), err)
	if err != nil {
		// Compute only fails on contract violations that Validate already
		// rules out; log and show nothing rather than panicking.
		ch.opts.Logger.Error("layout failed", "chart_id", ch.opts.ChartID, "err", err)
		return nil
	}
	if b == nil {
		ch.opts.Logger.Debug("degenerate viewport, nothing to show", "chart_id", ch.opts.ChartID)
	}
	return b
}

// Invalidate marks derived state stale after an external spec mutation.
func (ch *Chart) Invalidate() {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.gen++
}

// SetData replaces the dataset and resets the window to cover it.
func (ch *Chart) SetData(data []spec.Record) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.spec.Data = data
	ch.window = spec.FullWindow(len(data))
	ch.gen++
}

// Resize updates the viewport.
func (ch *Chart) Resize(width, height float64) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.spec.Width, ch.spec.Height = width, height
	ch.gen++
}

// SetLegend supplies the measured legend box, triggering the second
// offset pass on the next Bundle call.
func (ch *Chart) SetLegend(l *layout.Legend) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.legend = l
	ch.gen++
}

// =============================================================================
// Brush Window
// =============================================================================

// Window returns the current brush window.
func (ch *Chart) Window() spec.Window {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.window
}

// SetWindow applies a brush interaction and broadcasts it to the sync
// group.
func (ch *Chart) SetWindow(w spec.Window) {
	ch.mu.Lock()
	w = w.Clamp(len(ch.spec.Data))
	ch.window = w
	ch.gen++
	syncID := ch.spec.SyncID
	ch.mu.Unlock()

	if syncID != "" {
		ch.opts.Hub.Publish(link.Message{
			SyncID: syncID, EmitterID: ch.emitterID, Window: &w,
		})
	}
}

// =============================================================================
// Pointer Handling
// =============================================================================

// PointerMove submits a pointer coordinate. Handling is rate-limited with
// trailing-edge delivery of the latest position.
func (ch *Chart) PointerMove(p geom.Point) {
	ch.limiter.Call(p)
}

// PointerLeave cancels pending pointer work and deactivates the tooltip.
func (ch *Chart) PointerLeave() {
	ch.limiter.Cancel()
	ch.mu.Lock()
	ch.active = tooltip.Inactive()
	syncID := ch.spec.SyncID
	ch.mu.Unlock()

	if syncID != "" {
		inactive := tooltip.Inactive()
		ch.opts.Hub.Publish(link.Message{
			SyncID: syncID, EmitterID: ch.emitterID, Tooltip: &inactive,
		})
	}
}

// Tooltip returns the current tooltip state.
func (ch *Chart) Tooltip() tooltip.State {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.active
}

func (ch *Chart) handlePointer(v any) {
	p, ok := v.(geom.Point)
	if !ok {
		return
	}

	ch.mu.Lock()
	b := ch.bundleLocked()
	if b == nil {
		ch.mu.Unlock()
		return
	}

	ctx := context.Background()
	start := time.Now()
	observability.Engine().OnResolveStart(ctx, ch.opts.ChartID)
	st := b.Resolver().Resolve(p)
	observability.Engine().OnResolveComplete(ctx, ch.opts.ChartID, st.Index, time.Since(start))

	ch.active = st
	syncID := ch.spec.SyncID
	ch.mu.Unlock()

	if syncID != "" {
		ch.opts.Hub.Publish(link.Message{
			SyncID: syncID, EmitterID: ch.emitterID, Tooltip: &st, Pointer: p,
		})
	}
}

// =============================================================================
// Sync Application
// =============================================================================

func (ch *Chart) handleMessage(msg link.Message) {
	if !ch.receiver.ShouldApply(msg) {
		return
	}

	ch.mu.Lock()
	defer ch.mu.Unlock()

	if w, ok := ch.receiver.ApplyWindow(msg, len(ch.spec.Data)); ok {
		ch.window = w
		ch.gen++
		return
	}
	if msg.Tooltip != nil {
		b := ch.bundleLocked()
		if b == nil {
			ch.active = tooltip.Inactive()
			return
		}
		ch.active = ch.receiver.ApplyTooltip(b.Resolver(), msg)
	}
}

// =============================================================================
// Errors
// =============================================================================

// ErrNothingToShow reports a degenerate viewport to callers that need an
// error value rather than a nil bundle.
var ErrNothingToShow = errors.New(errors.ErrCodeDegenerateViewport, "viewport has no positive area")
