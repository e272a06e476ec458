package concurrency

import (
	"context"
	"sync"

	"github.com/on-the-ground/effect_ive_analytics/effects/log"
)

// Supervisor manages the lifecycle of goroutines that execute effects.
//
//   - Every child runs with its own cancellable context derived from the supervisor's.
//   - Cancelling the parent context (or calling Close) cancels every child.
//   - Panics in children are recovered, logged through the log effect and
//     handed to the OnPanic hook when one is set.
//   - Wait joins every child spawned so far.
type Supervisor struct {
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	onPanic func(recovered any)
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// OnPanic registers fn to observe panics recovered from children.
func OnPanic(fn func(recovered any)) Option {
	return func(s *Supervisor) {
		s.onPanic = fn
	}
}

// NewSupervisor creates a supervisor bound to parent.
func NewSupervisor(parent context.Context, opts ...Option) *Supervisor {
	ctx, cancel := context.WithCancel(parent)
	s := &Supervisor{
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Go starts fn in its own goroutine.
// The returned channel is closed once fn has returned (or panicked);
// the returned cancel function cancels only this child.
func (s *Supervisor) Go(fn func(ctx context.Context)) (<-chan struct{}, context.CancelFunc) {
	childCtx, cancel := context.WithCancel(s.ctx)
	done := make(chan struct{})
	ready := make(chan struct{})

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(done)
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				log.LogEff(s.ctx, log.LogError, "panic in child routine", map[string]interface{}{
					"error": r,
				})
				if s.onPanic != nil {
					s.onPanic(r)
				}
			}
		}()
		close(ready)
		fn(childCtx)
	}()

	// Wait until the child goroutine has been started before returning
	<-ready
	return done, cancel
}

// Wait blocks until every child spawned so far has finished.
func (s *Supervisor) Wait() {
	s.wg.Wait()
}

// Close cancels every child and waits for them to return.
func (s *Supervisor) Close() {
	log.LogEff(s.ctx, log.LogDebug, "supervisor closing, waiting for all routines to finish", nil)
	s.cancel()
	s.wg.Wait()
}

// Done is closed when the supervisor has been cancelled.
func (s *Supervisor) Done() <-chan struct{} {
	return s.ctx.Done()
}
