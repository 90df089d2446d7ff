// Package throttle rate-limits high-volume event handling, primarily
// pointer moves.
//
// Delivery is trailing-edge: during the minimum interval only the latest
// event is retained, and it fires once the interval elapses. Pending work
// is explicitly cancelable so no stale update fires after teardown.
package throttle

import (
	"sync"
	"time"
)

// DefaultInterval is the default minimum interval between deliveries,
// roughly 60 updates per second.
const DefaultInterval = time.Second / 60

// Limiter delivers the latest event at most once per interval.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	fn       func(any)

	pending bool
	latest  any
	last    time.Time

	// now and schedule are swappable for deterministic tests.
	now      func() time.Time
	schedule func(time.Duration, func()) *time.Timer
	timer    *time.Timer
}

// New creates a limiter delivering events to fn. A non-positive interval
// falls back to DefaultInterval.
func New(interval time.Duration, fn func(any)) *Limiter {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Limiter{
		interval: interval,
		fn:       fn,
		now:      time.Now,
		schedule: time.AfterFunc,
	}
}

// Call submits an event. If the interval has elapsed since the last
// delivery the event fires immediately; otherwise it replaces any pending
// event and fires on the trailing edge.
func (l *Limiter) Call(v any) {
	l.mu.Lock()

	now := l.now()
	if !l.pending && now.Sub(l.last) >= l.interval {
		l.last = now
		l.mu.Unlock()
		l.fn(v)
		return
	}

	l.latest = v
	if !l.pending {
		l.pending = true
		l.timer = l.schedule(l.interval-now.Sub(l.last), l.fire)
	}
	l.mu.Unlock()
}

// fire delivers the pending event, unless it was canceled.
func (l *Limiter) fire() {
	l.mu.Lock()
	if !l.pending {
		l.mu.Unlock()
		return
	}
	l.pending = false
	v := l.latest
	l.latest = nil
	l.last = l.now()
	l.mu.Unlock()
	l.fn(v)
}

// Cancel drops any pending event. Deterministic: after Cancel returns, no
// delivery fires until the next Call.
func (l *Limiter) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending = false
	l.latest = nil
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
}

// Pending reports whether a trailing-edge delivery is scheduled.
func (l *Limiter) Pending() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending
}
