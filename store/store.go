// Package store runs a reducer: it owns the state, serialises actions and
// executes the effects each transition returns under a supervisor.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/on-the-ground/effect_ive_analytics/effects"
	"github.com/on-the-ground/effect_ive_analytics/effects/concurrency"
	"github.com/on-the-ground/effect_ive_analytics/effects/log"
	"github.com/on-the-ground/effect_ive_analytics/reducer"
)

// Store holds the current state of a feature and applies actions to it.
type Store[S, A any] struct {
	mu      sync.Mutex
	state   S
	reducer reducer.Reducer[S, A]
	sv      *concurrency.Supervisor
	ctx     context.Context
	onSend  func(A)
}

type options[A any] struct {
	supervisorOpts []concurrency.Option
	onSend         func(A)
}

// Option configures a Store.
type Option[A any] func(*options[A])

// WithEffectPanicHandler observes panics raised while executing effects.
func WithEffectPanicHandler[A any](fn func(recovered any)) Option[A] {
	return func(o *options[A]) {
		o.supervisorOpts = append(o.supervisorOpts, concurrency.OnPanic(fn))
	}
}

// WithActionObserver is called with every action before it is reduced,
// including actions sent back by effects.
func WithActionObserver[A any](fn func(A)) Option[A] {
	return func(o *options[A]) {
		o.onSend = fn
	}
}

// New creates a store. Effects run until ctx is cancelled or Close is called.
func New[S, A any](ctx context.Context, initial S, r reducer.Reducer[S, A], opts ...Option[A]) *Store[S, A] {
	o := options[A]{}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[S, A]{
		state:   initial,
		reducer: r,
		sv:      concurrency.NewSupervisor(ctx, o.supervisorOpts...),
		ctx:     ctx,
		onSend:  o.onSend,
	}
}

// Send reduces action synchronously and starts its effects in the background.
// The returned Task tracks those effects and everything they send back.
func (s *Store[S, A]) Send(action A) *Task {
	task := &Task{}
	s.send(task, action)
	return task
}

// State returns a copy of the current state.
func (s *Store[S, A]) State() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Close cancels all in-flight effects and waits for them to return.
func (s *Store[S, A]) Close() {
	s.sv.Close()
}

func (s *Store[S, A]) send(task *Task, action A) {
	if s.onSend != nil {
		s.onSend(action)
	}

	s.mu.Lock()
	eff := s.reducer.Reduce(&s.state, action)
	s.mu.Unlock()

	if effects.IsNone(eff) {
		return
	}

	log.LogEff(s.ctx, log.LogDebug, "running effects", map[string]interface{}{
		"action": fmt.Sprintf("%+v", action),
	})

	task.wg.Add(1)
	_, cancel := s.sv.Go(func(ctx context.Context) {
		defer task.wg.Done()
		effects.Execute(ctx, eff, func(fed A) {
			s.send(task, fed)
		})
	})
	task.addCancel(cancel)
}
