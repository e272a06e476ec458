package analytics

import "sync/atomic"

// Sink accepts analytics events. Dispatch must not block and must be safe
// for concurrent use.
type Sink[T any] interface {
	Dispatch(event T)
}

// DispatchFunc adapts a plain function to Sink.
type DispatchFunc[T any] func(event T)

func (f DispatchFunc[T]) Dispatch(event T) {
	f(event)
}

var (
	_ Sink[Data] = DispatchFunc[Data](nil)
	_ Sink[Data] = (*Client[Data])(nil)
)

// Client holds the single dispatch function every wrapper sends through.
//
// The function lives in an atomic cell so tests can intercept it while
// effects are dispatching from other goroutines. Production code never
// swaps it after construction.
type Client[T any] struct {
	dispatch atomic.Pointer[DispatchFunc[T]]
}

// New creates a client around fn. A nil fn drops every event.
func New[T any](fn func(event T)) *Client[T] {
	if fn == nil {
		fn = func(T) {}
	}
	c := &Client[T]{}
	f := DispatchFunc[T](fn)
	c.dispatch.Store(&f)
	return c
}

// FromSink creates a client dispatching to s.
func FromSink[T any](s Sink[T]) *Client[T] {
	if c, ok := s.(*Client[T]); ok {
		return c
	}
	return New(s.Dispatch)
}

// Dispatch hands event to the current dispatch function.
func (c *Client[T]) Dispatch(event T) {
	(*c.dispatch.Load())(event)
}

// Intercept replaces the dispatch function with wrap(previous).
// Wrappers stack: each one sees the function installed before it.
func (c *Client[T]) Intercept(wrap func(previous DispatchFunc[T]) DispatchFunc[T]) {
	for {
		prev := c.dispatch.Load()
		next := wrap(*prev)
		if c.dispatch.CompareAndSwap(prev, &next) {
			return
		}
	}
}

// Merge fans every event out to sinks, in order, each exactly once.
// The merge itself does no error handling; see Guarded.
func Merge[T any](sinks ...Sink[T]) *Client[T] {
	fixed := make([]Sink[T], 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			fixed = append(fixed, s)
		}
	}
	return New(func(event T) {
		for _, s := range fixed {
			s.Dispatch(event)
		}
	})
}
