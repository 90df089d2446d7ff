package link

import (
	"testing"

	"github.com/matzehuels/chartcore/pkg/geom"
	"github.com/matzehuels/chartcore/pkg/scale"
	"github.com/matzehuels/chartcore/pkg/spec"
	"github.com/matzehuels/chartcore/pkg/tooltip"
)

func testResolver() *tooltip.Resolver {
	return &tooltip.Resolver{
		Layout: spec.LayoutHorizontal,
		Plot:   geom.Rect{X: 0, Y: 0, Width: 200, Height: 100},
		Ticks: []scale.Tick{
			{Value: "a", Coordinate: 50, Index: 0},
			{Value: "b", Coordinate: 150, Index: 1},
		},
		Data: []spec.Record{
			{"name": "a", "v": 1.0},
			{"name": "b", "v": 2.0},
		},
		Series: []*spec.SeriesSpec{
			{Key: "v", Kind: spec.KindLine, DataKey: spec.K("v")},
		},
	}
}

func TestHubDeliversBySyncID(t *testing.T) {
	h := NewHub()

	var got []string
	h.Subscribe("g1", func(m Message) { got = append(got, "g1:"+m.EmitterID) })
	h.Subscribe("g2", func(m Message) { got = append(got, "g2:"+m.EmitterID) })

	h.Publish(Message{SyncID: "g1", EmitterID: "e"})
	if len(got) != 1 || got[0] != "g1:e" {
		t.Errorf("deliveries = %v", got)
	}
}

func TestHubSubscriptionOrder(t *testing.T) {
	h := NewHub()

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		h.Subscribe("g", func(Message) { order = append(order, i) })
	}
	h.Publish(Message{SyncID: "g"})

	for i, v := range order {
		if v != i {
			t.Fatalf("delivery order = %v", order)
		}
	}
}

func TestHubUnsubscribe(t *testing.T) {
	h := NewHub()

	n := 0
	cancel := h.Subscribe("g", func(Message) { n++ })
	h.Publish(Message{SyncID: "g"})
	cancel()
	cancel() // second call is a no-op
	h.Publish(Message{SyncID: "g"})

	if n != 1 {
		t.Errorf("handler ran %d times, want 1", n)
	}
}

func TestReceiverDropsSelf(t *testing.T) {
	r := &Receiver{ID: NewEmitterID(), Policy: spec.SyncByIndex}

	if r.ShouldApply(Message{EmitterID: r.ID}) {
		t.Error("self-originated message must be dropped")
	}
	if !r.ShouldApply(Message{EmitterID: NewEmitterID()}) {
		t.Error("foreign message must be applied")
	}
}

func TestReceiverCustomOptsIntoSelf(t *testing.T) {
	r := &Receiver{
		ID:     "self",
		Policy: spec.SyncCustom,
		Custom: func([]scale.Tick, tooltip.State) int { return 0 },
	}
	if !r.ShouldApply(Message{EmitterID: "self"}) {
		t.Error("custom resolver opts into self-originated messages")
	}
}

func TestApplyTooltipIndexPolicy(t *testing.T) {
	r := &Receiver{ID: "recv", Policy: spec.SyncByIndex}
	broadcast := tooltip.State{Active: true, Index: 1, Label: "zzz"}

	st := r.ApplyTooltip(testResolver(), Message{Tooltip: &broadcast, Pointer: geom.Point{X: 160, Y: 40}})
	if !st.Active || st.Index != 1 {
		t.Fatalf("state = %+v, want active index 1", st)
	}
	// Payload is re-derived from the receiver's own data.
	if len(st.Payload) != 1 || st.Payload[0].Value != 2.0 {
		t.Errorf("Payload = %+v", st.Payload)
	}
}

func TestApplyTooltipValuePolicy(t *testing.T) {
	r := &Receiver{ID: "recv", Policy: spec.SyncByValue}

	// The broadcaster's index disagrees with the receiver's data order;
	// the value policy scans for the label instead.
	broadcast := tooltip.State{Active: true, Index: 0, Label: "b"}
	st := r.ApplyTooltip(testResolver(), Message{Tooltip: &broadcast})
	if st.Index != 1 || st.Label != "b" {
		t.Errorf("state = %+v, want index 1 label b", st)
	}
}

func TestApplyTooltipCustomPolicy(t *testing.T) {
	r := &Receiver{
		ID:     "recv",
		Policy: spec.SyncCustom,
		Custom: func(ticks []scale.Tick, b tooltip.State) int {
			return len(ticks) - 1 - b.Index
		},
	}
	broadcast := tooltip.State{Active: true, Index: 0}
	st := r.ApplyTooltip(testResolver(), Message{Tooltip: &broadcast})
	if st.Index != 1 {
		t.Errorf("Index = %d, want mirrored 1", st.Index)
	}
}

func TestApplyTooltipClampsForeignPointer(t *testing.T) {
	r := &Receiver{ID: "recv", Policy: spec.SyncByIndex}
	broadcast := tooltip.State{Active: true, Index: 0}

	// The broadcaster is a larger chart; its pointer lies outside the
	// receiver's plot and must be clamped before cursor placement.
	st := r.ApplyTooltip(testResolver(), Message{Tooltip: &broadcast, Pointer: geom.Point{X: 999, Y: 999}})
	if !st.Active {
		t.Fatal("clamped pointer still resolves")
	}
	if st.Coordinate.Y > 100 {
		t.Errorf("Coordinate = %+v, pointer not clamped to plot", st.Coordinate)
	}
}

func TestApplyTooltipInactiveBroadcast(t *testing.T) {
	r := &Receiver{ID: "recv", Policy: spec.SyncByIndex}

	inactive := tooltip.Inactive()
	st := r.ApplyTooltip(testResolver(), Message{Tooltip: &inactive})
	if st.Active {
		t.Errorf("state = %+v, want inactive", st)
	}
	if st := r.ApplyTooltip(testResolver(), Message{}); st.Active {
		t.Errorf("missing tooltip payload should be inactive, got %+v", st)
	}
}

func TestApplyWindow(t *testing.T) {
	r := &Receiver{ID: "recv", Policy: spec.SyncByIndex}

	w, ok := r.ApplyWindow(Message{Window: &spec.Window{StartIndex: 2, EndIndex: 50}}, 10)
	if !ok {
		t.Fatal("window message should apply")
	}
	if w.StartIndex != 2 || w.EndIndex != 9 {
		t.Errorf("window = %+v, want clamped [2, 9]", w)
	}

	if _, ok := r.ApplyWindow(Message{}, 10); ok {
		t.Error("message without a window should not apply")
	}

	// A broadcast from a chart with a longer dataset collapses onto the
	// receiver's last record.
	w, ok = r.ApplyWindow(Message{Window: &spec.Window{StartIndex: 5, EndIndex: 8}}, 3)
	if !ok || w.StartIndex != 2 || w.EndIndex != 2 {
		t.Errorf("window = %+v, want {2 2}", w)
	}
}

func TestIndexPolicyConvergence(t *testing.T) {
	// Two charts sharing a sync id converge on the same active index for
	// any valid broadcast index.
	h := NewHub()
	a := &Receiver{ID: NewEmitterID(), Policy: spec.SyncByIndex}
	b := &Receiver{ID: NewEmitterID(), Policy: spec.SyncByIndex}

	var stateA, stateB tooltip.State
	h.Subscribe("g", func(m Message) {
		if a.ShouldApply(m) {
			stateA = a.ApplyTooltip(testResolver(), m)
		}
	})
	h.Subscribe("g", func(m Message) {
		if b.ShouldApply(m) {
			stateB = b.ApplyTooltip(testResolver(), m)
		}
	})

	for k := 0; k < 2; k++ {
		stateA, stateB = tooltip.Inactive(), tooltip.Inactive()
		hover := tooltip.State{Active: true, Index: k}
		h.Publish(Message{SyncID: "g", EmitterID: a.ID, Tooltip: &hover})

		if stateA.Active {
			t.Errorf("k=%d: emitter reacted to its own broadcast", k)
		}
		if !stateB.Active || stateB.Index != k {
			t.Errorf("k=%d: receiver state = %+v", k, stateB)
		}
	}
}
