// Package link synchronizes interactive state between chart instances
// sharing a sync id.
//
// Charts exchange messages on a hub: an explicit pub/sub registry keyed by
// sync id. Dispatch is synchronous, in subscription order. The package
// default hub serves process-wide linking; tests and embedders needing
// isolation instantiate their own.
package link

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/chartcore/pkg/geom"
	"github.com/matzehuels/chartcore/pkg/observability"
	"github.com/matzehuels/chartcore/pkg/scale"
	"github.com/matzehuels/chartcore/pkg/spec"
	"github.com/matzehuels/chartcore/pkg/tooltip"
)

// Message is one broadcast of interactive state. Exactly one of Window or
// Tooltip is set.
type Message struct {
	SyncID    string `json:"sync_id" bson:"sync_id"`
	EmitterID string `json:"emitter_id" bson:"emitter_id"`

	// Window is a brush-window change.
	Window *spec.Window `json:"window,omitempty" bson:"window,omitempty"`

	// Tooltip is the emitter's resolved tooltip state.
	Tooltip *tooltip.State `json:"tooltip,omitempty" bson:"tooltip,omitempty"`

	// Pointer is the emitter's raw pointer coordinate. Receivers clamp it
	// to their own plot bounds before use; linked charts may be sized
	// differently.
	Pointer geom.Point `json:"pointer" bson:"pointer"`
}

// Handler receives hub messages.
type Handler func(Message)

// Hub is a synchronous broadcast registry keyed by sync id. The zero
// value is not usable; construct with NewHub.
type Hub struct {
	mu   sync.Mutex
	next int
	subs map[string]map[int]Handler
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]Handler)}
}

// defaultHub backs process-wide chart linking.
var defaultHub = NewHub()

// Default returns the process-wide hub.
func Default() *Hub { return defaultHub }

// Subscribe registers a handler for a sync id and returns its
// unsubscribe function. Unsubscribing twice is a no-op.
func (h *Hub) Subscribe(syncID string, fn Handler) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++
	if h.subs[syncID] == nil {
		h.subs[syncID] = make(map[int]Handler)
	}
	h.subs[syncID][id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs[syncID], id)
	}
}

// Publish delivers a message synchronously to every handler subscribed to
// its sync id, including the emitter's own. Receivers are responsible for
// the emitter-identity check.
func (h *Hub) Publish(msg Message) {
	h.mu.Lock()
	handlers := make([]Handler, 0, len(h.subs[msg.SyncID]))
	ids := make([]int, 0, len(h.subs[msg.SyncID]))
	for id := range h.subs[msg.SyncID] {
		ids = append(ids, id)
	}
	// Deliver in subscription order.
	sort.Ints(ids)
	for _, id := range ids {
		handlers = append(handlers, h.subs[msg.SyncID][id])
	}
	h.mu.Unlock()

	observability.Sync().OnBroadcast(context.Background(), msg.SyncID, msg.EmitterID)
	for _, fn := range handlers {
		fn(msg)
	}
}

// =============================================================================
// Receivers
// =============================================================================

// CustomResolver maps a broadcast tooltip state onto the receiver's own
// tick set, returning the receiver's active index.
type CustomResolver func(ticks []scale.Tick, broadcast tooltip.State) int

// NewEmitterID mints a unique emitter identity for one chart instance.
func NewEmitterID() string { return uuid.NewString() }

// Receiver applies broadcast state to one chart instance.
type Receiver struct {
	// ID is the chart's own emitter identity.
	ID string

	// Policy selects how the active index is re-derived from broadcasts.
	Policy spec.SyncPolicy

	// Custom is the resolver for the custom policy.
	Custom CustomResolver
}

// ShouldApply reports whether a message should be applied. Self-originated
// messages are dropped to prevent feedback, except when a custom resolver
// has opted in.
func (r *Receiver) ShouldApply(msg Message) bool {
	if msg.EmitterID != r.ID {
		return true
	}
	if r.Policy == spec.SyncCustom && r.Custom != nil {
		return true
	}
	observability.Sync().OnDropSelf(context.Background(), msg.SyncID, r.ID)
	return false
}

// ApplyTooltip re-derives the receiver's own tooltip state from a
// broadcast. The payload and coordinate always come from the receiver's
// own resolver state, never the broadcaster's pixels; the broadcast
// pointer is clamped to the receiver's plot bounds first.
func (r *Receiver) ApplyTooltip(res *tooltip.Resolver, msg Message) tooltip.State {
	if msg.Tooltip == nil {
		return tooltip.Inactive()
	}
	observability.Sync().OnApply(context.Background(), msg.SyncID, r.ID)

	p := res.Plot.Clamp(msg.Pointer)
	if !msg.Tooltip.Active {
		return tooltip.Inactive()
	}

	switch r.Policy {
	case spec.SyncByValue:
		return res.ResolveValue(msg.Tooltip.Label)
	case spec.SyncCustom:
		if r.Custom == nil {
			return tooltip.Inactive()
		}
		return res.ResolveIndexAt(r.Custom(res.Ticks, *msg.Tooltip), p)
	default:
		return res.ResolveIndexAt(msg.Tooltip.Index, p)
	}
}

// ApplyWindow clamps a broadcast window to the receiver's dataset length.
func (r *Receiver) ApplyWindow(msg Message, datasetLen int) (spec.Window, bool) {
	if msg.Window == nil {
		return spec.Window{}, false
	}
	observability.Sync().OnApply(context.Background(), msg.SyncID, r.ID)
	return msg.Window.Clamp(datasetLen), true
}
