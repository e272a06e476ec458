// Package storetest provides a store for exhaustive reducer tests.
//
// Every Send and Receive asserts the full state change. Actions fed back by
// effects are queued and must be claimed with Receive. Finish drains all
// effects and fails the test on effect panics or unclaimed actions.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	clone "github.com/huandu/go-clone/generic"
	"github.com/stretchr/testify/assert"

	"github.com/on-the-ground/effect_ive_analytics/effects"
	"github.com/on-the-ground/effect_ive_analytics/effects/concurrency"
	"github.com/on-the-ground/effect_ive_analytics/reducer"
)

const DefaultTimeout = time.Second

// TestStore runs a reducer under test.
type TestStore[S, A any] struct {
	tb      testing.TB
	reducer reducer.Reducer[S, A]
	sv      *concurrency.Supervisor
	timeout time.Duration

	mu       sync.Mutex
	state    S
	received []A
	arrived  chan struct{}
	panics   []any

	effects  sync.WaitGroup
	finished bool
}

// Option configures a TestStore.
type Option func(*config)

type config struct {
	timeout time.Duration
}

// WithTimeout bounds how long Receive and Finish wait for effects.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// New creates a TestStore. Finish is registered as a test cleanup, so effects
// still running when the test returns are drained and checked.
func New[S, A any](tb testing.TB, initial S, r reducer.Reducer[S, A], opts ...Option) *TestStore[S, A] {
	tb.Helper()

	c := config{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&c)
	}

	ts := &TestStore[S, A]{
		tb:      tb,
		reducer: r,
		timeout: c.timeout,
		state:   initial,
		arrived: make(chan struct{}, 1),
	}
	ts.sv = concurrency.NewSupervisor(context.Background())

	tb.Cleanup(func() {
		ts.Finish()
		ts.sv.Close()
	})
	return ts
}

// Send reduces action and asserts that the resulting state equals the
// previous state with update applied. update may be nil for no change.
func (ts *TestStore[S, A]) Send(action A, update func(*S)) {
	ts.tb.Helper()
	ts.reduce(action, update, fmt.Sprintf("state after sending %+v", action))
}

// Receive waits for an action fed back by an effect, asserts it equals
// expected and reduces it like Send.
func (ts *TestStore[S, A]) Receive(expected A, update func(*S)) {
	ts.tb.Helper()

	got, ok := ts.next()
	if !ok {
		ts.tb.Errorf("expected to receive %+v, but no action arrived within %s", expected, ts.timeout)
		return
	}
	if !assert.Equal(ts.tb, expected, got, "received action") {
		return
	}
	ts.reduce(got, update, fmt.Sprintf("state after receiving %+v", got))
}

// State returns a deep copy of the current state.
func (ts *TestStore[S, A]) State() S {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return clone.Clone(ts.state)
}

// Finish waits for all effects to return and fails the test if any of them
// panicked or if fed-back actions were left unclaimed.
func (ts *TestStore[S, A]) Finish() {
	ts.tb.Helper()

	ts.mu.Lock()
	if ts.finished {
		ts.mu.Unlock()
		return
	}
	ts.finished = true
	ts.mu.Unlock()

	done := make(chan struct{})
	go func() {
		ts.effects.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(ts.timeout):
		ts.tb.Errorf("effects still running after %s", ts.timeout)
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()
	for _, p := range ts.panics {
		ts.tb.Errorf("effect panicked: %v", p)
	}
	if len(ts.received) > 0 {
		ts.tb.Errorf("%d action(s) sent back by effects were not received: %+v", len(ts.received), ts.received)
	}
}

func (ts *TestStore[S, A]) reduce(action A, update func(*S), msg string) {
	ts.tb.Helper()

	ts.mu.Lock()
	// deep copy: reducers may mutate maps and slices in place
	expected := clone.Clone(ts.state)
	eff := ts.reducer.Reduce(&ts.state, action)
	actual := clone.Clone(ts.state)
	ts.mu.Unlock()

	if update != nil {
		update(&expected)
	}
	assert.Equal(ts.tb, expected, actual, msg)

	if effects.IsNone(eff) {
		return
	}
	ts.effects.Add(1)
	ts.sv.Go(func(ctx context.Context) {
		defer ts.effects.Done()
		defer func() {
			// recorded before Done so Finish always sees it
			if r := recover(); r != nil {
				ts.mu.Lock()
				ts.panics = append(ts.panics, r)
				ts.mu.Unlock()
			}
		}()
		effects.Execute(ctx, eff, ts.enqueue)
	})
}

func (ts *TestStore[S, A]) enqueue(action A) {
	ts.mu.Lock()
	ts.received = append(ts.received, action)
	ts.mu.Unlock()

	select {
	case ts.arrived <- struct{}{}:
	default:
	}
}

func (ts *TestStore[S, A]) next() (A, bool) {
	deadline := time.After(ts.timeout)
	for {
		ts.mu.Lock()
		if len(ts.received) > 0 {
			a := ts.received[0]
			ts.received = ts.received[1:]
			ts.mu.Unlock()
			return a, true
		}
		ts.mu.Unlock()

		select {
		case <-ts.arrived:
		case <-deadline:
			var zero A
			return zero, false
		}
	}
}
