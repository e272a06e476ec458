package effects

import (
	"context"
	"fmt"
	"sync"
)

// Send feeds an action back into whatever is executing the effect.
type Send[A any] func(action A)

// Effect describes asynchronous follow-up work produced by a transition.
//
// Effects are plain values: building one never runs anything. They are
// interpreted by Execute, usually from a store goroutine.
// The interface is sealed; use the constructors below.
type Effect[A any] interface {
	execute(ctx context.Context, send Send[A])
	isNone() bool
}

var (
	_ Effect[any] = none[any]{}
	_ Effect[any] = run[any]{}
	_ Effect[any] = merge[any]{}
	_ Effect[any] = concatenate[any]{}
	_ Effect[any] = mapped[any, any]{}
)

// None is the effect that does nothing.
func None[A any]() Effect[A] {
	return none[A]{}
}

// Run wraps a unit of asynchronous work that may send actions back.
func Run[A any](fn func(ctx context.Context, send Send[A])) Effect[A] {
	if fn == nil {
		return None[A]()
	}
	return run[A]{fn: fn}
}

// FireAndForget wraps work whose outcome is never observed.
func FireAndForget[A any](fn func(ctx context.Context)) Effect[A] {
	if fn == nil {
		return None[A]()
	}
	return run[A]{fn: func(ctx context.Context, _ Send[A]) { fn(ctx) }}
}

// Merge runs effects concurrently. The merged effect finishes when all of them have.
func Merge[A any](effs ...Effect[A]) Effect[A] {
	children := compact(effs)
	switch len(children) {
	case 0:
		return None[A]()
	case 1:
		return children[0]
	default:
		return merge[A]{effects: children}
	}
}

// Concatenate runs effects one after another, each finishing before the next starts.
func Concatenate[A any](effs ...Effect[A]) Effect[A] {
	children := compact(effs)
	switch len(children) {
	case 0:
		return None[A]()
	case 1:
		return children[0]
	default:
		return concatenate[A]{effects: children}
	}
}

// Map lifts an effect over child actions into one over parent actions.
func Map[A, B any](eff Effect[A], toParent func(A) B) Effect[B] {
	if IsNone(eff) {
		return None[B]()
	}
	return mapped[A, B]{inner: eff, toParent: toParent}
}

// IsNone reports whether eff does no work at all.
func IsNone[A any](eff Effect[A]) bool {
	return eff == nil || eff.isNone()
}

// Execute interprets eff and blocks until every piece of work it describes has finished.
//
//   - Run bodies that have not started when ctx is done are skipped.
//   - A panic inside a merged child is re-raised on the calling goroutine.
//   - send may be nil, in which case fed-back actions are discarded.
func Execute[A any](ctx context.Context, eff Effect[A], send Send[A]) {
	if IsNone(eff) {
		return
	}
	if send == nil {
		send = func(A) {}
	}
	eff.execute(ctx, send)
}

func compact[A any](effs []Effect[A]) []Effect[A] {
	out := make([]Effect[A], 0, len(effs))
	for _, eff := range effs {
		if !IsNone(eff) {
			out = append(out, eff)
		}
	}
	return out
}

type none[A any] struct{}

func (none[A]) execute(context.Context, Send[A]) {}
func (none[A]) isNone() bool                     { return true }

type run[A any] struct {
	fn func(context.Context, Send[A])
}

func (r run[A]) execute(ctx context.Context, send Send[A]) {
	if ctx.Err() != nil {
		return
	}
	r.fn(ctx, send)
}

func (run[A]) isNone() bool { return false }

type merge[A any] struct {
	effects []Effect[A]
}

func (m merge[A]) execute(ctx context.Context, send Send[A]) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		panicked any
	)
	for _, eff := range m.effects {
		wg.Add(1)
		go func(eff Effect[A]) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					mu.Lock()
					if panicked == nil {
						panicked = r
					}
					mu.Unlock()
				}
			}()
			eff.execute(ctx, send)
		}(eff)
	}
	wg.Wait()

	if panicked != nil {
		panic(fmt.Errorf("panic in merged effect: %v", panicked))
	}
}

func (merge[A]) isNone() bool { return false }

type concatenate[A any] struct {
	effects []Effect[A]
}

func (c concatenate[A]) execute(ctx context.Context, send Send[A]) {
	for _, eff := range c.effects {
		if ctx.Err() != nil {
			return
		}
		eff.execute(ctx, send)
	}
}

func (concatenate[A]) isNone() bool { return false }

type mapped[A, B any] struct {
	inner    Effect[A]
	toParent func(A) B
}

func (m mapped[A, B]) execute(ctx context.Context, send Send[B]) {
	m.inner.execute(ctx, func(action A) {
		send(m.toParent(action))
	})
}

func (m mapped[A, B]) isNone() bool { return m.inner.isNone() }
