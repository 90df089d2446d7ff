package chart

import (
	"testing"

	"github.com/matzehuels/chartcore/pkg/errors"
	"github.com/matzehuels/chartcore/pkg/geom"
	"github.com/matzehuels/chartcore/pkg/link"
	"github.com/matzehuels/chartcore/pkg/spec"
)

func testSpec() *spec.ChartSpec {
	return &spec.ChartSpec{
		Width:  400,
		Height: 300,
		Data: []spec.Record{
			{"name": "a", "v": 1.0, "w": 2.0},
			{"name": "b", "v": 2.0, "w": 1.0},
			{"name": "c", "v": 3.0, "w": 2.0},
			{"name": "d", "v": 1.0, "w": 4.0},
		},
		Axes: []spec.AxisSpec{
			{ID: "0", Dim: spec.DimX, DataKey: spec.K("name")},
			{ID: "0", Dim: spec.DimY},
		},
		Series: []spec.SeriesSpec{
			{Key: "v", Kind: spec.KindLine, DataKey: spec.K("v")},
			{Key: "w", Kind: spec.KindLine, DataKey: spec.K("w")},
		},
	}
}

func mustChart(t *testing.T, c *spec.ChartSpec) *Chart {
	t.Helper()
	ch, err := New(c, Options{Hub: link.NewHub()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(ch.Close)
	return ch
}

func TestNewRejectsContractViolations(t *testing.T) {
	c := testSpec()
	c.Series[0].YAxisID = "missing"

	_, err := New(c, Options{Hub: link.NewHub()})
	if err == nil {
		t.Fatal("dangling axis reference must fail loudly")
	}
	if errors.GetCode(err) != errors.ErrCodeAxisMismatch {
		t.Errorf("code = %v, want axis mismatch", errors.GetCode(err))
	}
}

func TestBundlePipeline(t *testing.T) {
	ch := mustChart(t, testSpec())
	b := ch.Bundle()
	if b == nil {
		t.Fatal("Bundle returned nil for a healthy spec")
	}

	x := b.Axis(spec.DimX, "0")
	if x == nil || x.Band == nil {
		t.Fatal("x axis should be a band scale")
	}
	if got := len(x.Domain.Categories); got != 4 {
		t.Errorf("x categories = %d, want 4", got)
	}

	y := b.Axis(spec.DimY, "0")
	if y == nil || y.Continuous == nil {
		t.Fatal("y axis should be continuous")
	}
	if y.Domain.Min != 1 || y.Domain.Max != 4 {
		t.Errorf("y domain = [%g, %g], want [1, 4]", y.Domain.Min, y.Domain.Max)
	}
	// Screen y grows downward: the range is descending.
	if y.Continuous.RangeMin <= y.Continuous.RangeMax {
		t.Errorf("y range = [%g, %g], want descending", y.Continuous.RangeMin, y.Continuous.RangeMax)
	}

	if len(b.Series) != 2 {
		t.Fatalf("series geometry count = %d", len(b.Series))
	}
	if len(b.Series[0].Items) != 4 {
		t.Errorf("items = %d, want 4", len(b.Series[0].Items))
	}
}

func TestBundleMemoization(t *testing.T) {
	ch := mustChart(t, testSpec())

	b1 := ch.Bundle()
	b2 := ch.Bundle()
	if b1 != b2 {
		t.Error("unchanged chart must return the cached bundle")
	}

	ch.Resize(500, 300)
	if ch.Bundle() == b1 {
		t.Error("resize must produce a fresh bundle")
	}
}

func TestHoverDoesNotRecompute(t *testing.T) {
	ch := mustChart(t, testSpec())
	b := ch.Bundle()

	ch.handlePointer(geom.Point{X: 100, Y: 100})
	if ch.Bundle() != b {
		t.Error("pure hover must not re-run the layout pipeline")
	}
	if !ch.Tooltip().Active {
		t.Error("hover inside the plot should activate the tooltip")
	}
}

func TestDegenerateViewport(t *testing.T) {
	c := testSpec()
	c.Width = 0
	ch := mustChart(t, c)

	if b := ch.Bundle(); b != nil {
		t.Fatalf("degenerate viewport bundle = %+v, want nil", b)
	}

	// Recovers on the next size change.
	ch.Resize(400, 300)
	if ch.Bundle() == nil {
		t.Error("bundle should recover after resize")
	}
}

func TestSetWindowNarrowsDomain(t *testing.T) {
	ch := mustChart(t, testSpec())
	full := ch.Bundle().Axis(spec.DimY, "0").Domain

	ch.SetWindow(spec.Window{StartIndex: 0, EndIndex: 1})
	narrowed := ch.Bundle().Axis(spec.DimY, "0").Domain

	if full.Max != 4 || narrowed.Max != 2 {
		t.Errorf("domains: full max %g, narrowed max %g, want 4 and 2", full.Max, narrowed.Max)
	}
	if got := len(ch.Bundle().Axis(spec.DimX, "0").Domain.Categories); got != 2 {
		t.Errorf("windowed categories = %d, want 2", got)
	}
}

func TestSetWindowBeyondDataset(t *testing.T) {
	ch := mustChart(t, testSpec())

	ch.SetWindow(spec.Window{StartIndex: 10, EndIndex: 20})
	b := ch.Bundle()
	if b == nil {
		t.Fatal("out-of-range window must clamp, not break the pipeline")
	}
	if w := ch.Window(); w.StartIndex != 3 || w.EndIndex != 3 {
		t.Errorf("window = %+v, want collapsed onto last record {3 3}", w)
	}
	if got := len(b.Axis(spec.DimX, "0").Domain.Categories); got != 1 {
		t.Errorf("windowed categories = %d, want 1", got)
	}
}

func TestDefaultTooltipIndex(t *testing.T) {
	c := testSpec()
	c.DefaultTooltipIndex = spec.Index(2)
	ch := mustChart(t, c)

	ch.Bundle()
	st := ch.Tooltip()
	if !st.Active || st.Index != 2 || st.Label != "c" {
		t.Errorf("mount tooltip = %+v, want active index 2 label c", st)
	}
}

func TestDefaultTooltipIndexZero(t *testing.T) {
	c := testSpec()
	c.DefaultTooltipIndex = spec.Index(0)
	ch := mustChart(t, c)

	ch.Bundle()
	st := ch.Tooltip()
	if !st.Active || st.Index != 0 || st.Label != "a" {
		t.Errorf("mount tooltip = %+v, want active index 0 label a", st)
	}
}

func TestPointerLeaveDeactivates(t *testing.T) {
	ch := mustChart(t, testSpec())
	ch.Bundle()

	ch.handlePointer(geom.Point{X: 100, Y: 100})
	if !ch.Tooltip().Active {
		t.Fatal("setup: hover should activate")
	}
	ch.PointerLeave()
	if ch.Tooltip().Active {
		t.Error("tooltip should deactivate on leave")
	}
}

func TestStackedChart(t *testing.T) {
	c := testSpec()
	c.Series[0].Kind = spec.KindBar
	c.Series[1].Kind = spec.KindBar
	c.Series[0].StackID = "s"
	c.Series[1].StackID = "s"
	ch := mustChart(t, c)

	b := ch.Bundle()
	if len(b.Groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(b.Groups))
	}

	// Stacked extents at index 3: v [0,1], w [1,5]; domain [0,5].
	y := b.Axis(spec.DimY, "0").Domain
	if y.Min != 0 || y.Max != 5 {
		t.Errorf("stacked y domain = [%g, %g], want [0, 5]", y.Min, y.Max)
	}

	// Stacked bars share one slot; both series carry bar rects.
	for _, sg := range b.Series {
		for _, it := range sg.Items {
			if it.Rect == nil {
				t.Fatalf("series %s item %d has no rect", sg.Key, it.Index)
			}
		}
	}
}

func TestSyncedCharts(t *testing.T) {
	hub := link.NewHub()

	specA, specB := testSpec(), testSpec()
	specA.SyncID, specB.SyncID = "g", "g"

	a, errA := New(specA, Options{Hub: hub})
	b, errB := New(specB, Options{Hub: hub})
	if errA != nil || errB != nil {
		t.Fatalf("New: %v, %v", errA, errB)
	}
	defer a.Close()
	defer b.Close()
	a.Bundle()
	b.Bundle()

	// Hover on A propagates the active index to B, not to A itself.
	a.handlePointer(geom.Point{X: 100, Y: 100})
	st := b.Tooltip()
	if !st.Active || st.Index != a.Tooltip().Index {
		t.Errorf("receiver tooltip = %+v, emitter index %d", st, a.Tooltip().Index)
	}

	// Brush on B propagates the window to A.
	b.SetWindow(spec.Window{StartIndex: 1, EndIndex: 2})
	if w := a.Window(); w.StartIndex != 1 || w.EndIndex != 2 {
		t.Errorf("receiver window = %+v", w)
	}
}

func TestSyncedChartsAfterClose(t *testing.T) {
	hub := link.NewHub()
	specA, specB := testSpec(), testSpec()
	specA.SyncID, specB.SyncID = "g", "g"

	a, _ := New(specA, Options{Hub: hub})
	b, _ := New(specB, Options{Hub: hub})
	a.Bundle()
	b.Bundle()
	defer a.Close()

	b.Close()
	a.SetWindow(spec.Window{StartIndex: 1, EndIndex: 3})
	if w := b.Window(); w.StartIndex != 0 {
		t.Errorf("closed chart window = %+v, want untouched", w)
	}
}

func TestExportRoundTrip(t *testing.T) {
	ch := mustChart(t, testSpec())
	l := Export(ch.Bundle())
	if l == nil || len(l.Axes) != 2 {
		t.Fatalf("export = %+v", l)
	}

	path := t.TempDir() + "/layout.json"
	if err := ExportJSON(l, path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	got, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if got.Window != l.Window || len(got.Axes) != len(l.Axes) || len(got.Series) != len(l.Series) {
		t.Errorf("round trip mismatch: %+v vs %+v", got, l)
	}
}

func TestExportNil(t *testing.T) {
	if Export(nil) != nil {
		t.Error("Export(nil) should be nil")
	}
}
