// Package analyticstest intercepts analytics clients in tests.
//
// Expect stacks a matcher on top of a client's current dispatch function.
// Matching events fulfil the expectation; everything else falls through to
// the function installed before it. Expectations still pending when the test
// ends fail it with one aggregated diagnostic.
package analyticstest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/on-the-ground/effect_ive_analytics/analytics"
	"go.uber.org/multierr"
)

var (
	ErrUnfulfilled       = errors.New("expected analytics event was never dispatched")
	ErrFulfilledTwice    = errors.New("expected analytics event dispatched more than once")
	DefaultSettleTimeout = time.Second
)

// Expectation is pending until an event matching it is dispatched.
type Expectation struct {
	ID          uuid.UUID
	description string
	timeout     time.Duration
	fulfilled   atomic.Bool
	done        chan struct{}
}

// Option configures an Expectation.
type Option func(*Expectation)

// WithSettleTimeout bounds how long teardown waits for a pending expectation
// before failing the test.
func WithSettleTimeout(d time.Duration) Option {
	return func(x *Expectation) {
		x.timeout = d
	}
}

// Expect intercepts client and waits for an event equal to expected.
// A nil expected never matches.
func Expect[T any](tb testing.TB, client *analytics.Client[T], expected T, opts ...Option) *Expectation {
	tb.Helper()

	match := func(T) bool { return false }
	if !analytics.IsNil(expected) {
		match = func(event T) bool { return analytics.Equal(expected, event) }
	}
	return expect(tb, client, match, fmt.Sprintf("%v", expected), opts)
}

// ExpectFunc is Expect with a custom matcher.
func ExpectFunc[T any](tb testing.TB, client *analytics.Client[T], description string, match func(event T) bool, opts ...Option) *Expectation {
	tb.Helper()
	return expect(tb, client, match, description, opts)
}

func expect[T any](tb testing.TB, client *analytics.Client[T], match func(T) bool, description string, opts []Option) *Expectation {
	x := &Expectation{
		ID:          uuid.New(),
		description: description,
		timeout:     DefaultSettleTimeout,
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(x)
	}

	reg := registryFor(tb)
	client.Intercept(func(previous analytics.DispatchFunc[T]) analytics.DispatchFunc[T] {
		return func(event T) {
			if !match(event) {
				previous(event)
				return
			}
			if err := x.fulfil(); err != nil {
				reg.errorf("%v: %v", err, event)
			}
		}
	})

	reg.add(x)
	return x
}

// Fulfilled reports whether a matching event has been dispatched.
func (x *Expectation) Fulfilled() bool {
	return x.fulfilled.Load()
}

// Done is closed once the expectation is fulfilled.
func (x *Expectation) Done() <-chan struct{} {
	return x.done
}

// Wait blocks until the expectation is fulfilled or ctx is done.
func (x *Expectation) Wait(ctx context.Context) error {
	select {
	case <-x.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %s: %w", ErrUnfulfilled, x.description, ctx.Err())
	}
}

func (x *Expectation) String() string {
	return x.description
}

func (x *Expectation) fulfil() error {
	if !x.fulfilled.CompareAndSwap(false, true) {
		return fmt.Errorf("%w: %s", ErrFulfilledTwice, x.description)
	}
	close(x.done)
	return nil
}

// Unexpected returns a client failing tb for every event that reaches it.
// Use it as the base of an Expect chain so uninspected events are reported.
//
// Events arriving after the test has finished are ignored.
func Unexpected[T any](tb testing.TB) *analytics.Client[T] {
	reg := registryFor(tb)
	return analytics.New(func(event T) {
		reg.errorf("unexpected analytics event: %v", event)
	})
}

var registries sync.Map // testing.TB -> *registry

type registry struct {
	tb           testing.TB
	mu           sync.Mutex
	settled      bool
	expectations []*Expectation
}

func registryFor(tb testing.TB) *registry {
	fresh := &registry{tb: tb}
	v, loaded := registries.LoadOrStore(tb, fresh)
	r := v.(*registry)
	if !loaded {
		tb.Cleanup(func() {
			registries.Delete(tb)
			err := r.settle()
			r.mu.Lock()
			r.settled = true
			r.mu.Unlock()
			if err != nil {
				tb.Errorf("%v", err)
			}
		})
	}
	return r
}

// errorf fails the test unless it has already been settled; testing.TB
// panics when logged to after the test completes.
func (r *registry) errorf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settled {
		return
	}
	r.tb.Errorf(format, args...)
}

func (r *registry) add(x *Expectation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expectations = append(r.expectations, x)
}

// settle waits for every pending expectation and combines the failures.
func (r *registry) settle() error {
	r.mu.Lock()
	pending := append([]*Expectation(nil), r.expectations...)
	r.mu.Unlock()

	start := time.Now()
	var err error
	for _, x := range pending {
		select {
		case <-x.done:
		case <-time.After(time.Until(start.Add(x.timeout))):
			err = multierr.Append(err, fmt.Errorf("%w: %s", ErrUnfulfilled, x.description))
		}
	}
	return err
}
