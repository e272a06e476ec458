package analyticstest

import (
	"slices"
	"sync"

	"github.com/on-the-ground/effect_ive_analytics/analytics"
)

// Recorder is a sink that keeps every event it receives, in arrival order.
type Recorder[T any] struct {
	mu     sync.Mutex
	events []T
}

var _ analytics.Sink[analytics.Data] = (*Recorder[analytics.Data])(nil)

// Dispatch appends event. Safe for concurrent use.
func (r *Recorder[T]) Dispatch(event T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of the recorded events.
func (r *Recorder[T]) Events() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Len returns the number of recorded events.
func (r *Recorder[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Reset forgets every recorded event.
func (r *Recorder[T]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
