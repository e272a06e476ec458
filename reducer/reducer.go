// Package reducer defines transition functions: pure functions that evolve
// a feature's state in place and describe follow-up work as effects.
package reducer

import "github.com/on-the-ground/effect_ive_analytics/effects"

// Reducer evolves state in response to action and returns the effects to run next.
//
// Implementations must not perform side effects themselves; anything
// asynchronous or observable belongs in the returned effect.
type Reducer[S, A any] interface {
	Reduce(state *S, action A) effects.Effect[A]
}

// Func adapts a plain function to Reducer.
type Func[S, A any] func(state *S, action A) effects.Effect[A]

func (f Func[S, A]) Reduce(state *S, action A) effects.Effect[A] {
	return f(state, action)
}

var _ Reducer[struct{}, struct{}] = Func[struct{}, struct{}](nil)

// Empty returns a reducer that never changes state and never produces work.
func Empty[S, A any]() Reducer[S, A] {
	return Func[S, A](func(*S, A) effects.Effect[A] {
		return effects.None[A]()
	})
}

// Combine runs reducers one after another against the same state.
// Each reducer sees the state left by the ones before it.
// Their effects are merged and run concurrently.
func Combine[S, A any](reducers ...Reducer[S, A]) Reducer[S, A] {
	return combined[S, A]{reducers: reducers, join: effects.Merge[A]}
}

// CombineSequential is Combine with effects concatenated in reducer order,
// so work from an earlier reducer finishes before work from a later one starts.
func CombineSequential[S, A any](reducers ...Reducer[S, A]) Reducer[S, A] {
	return combined[S, A]{reducers: reducers, join: effects.Concatenate[A]}
}

type combined[S, A any] struct {
	reducers []Reducer[S, A]
	join     func(...effects.Effect[A]) effects.Effect[A]
}

func (c combined[S, A]) Reduce(state *S, action A) effects.Effect[A] {
	effs := make([]effects.Effect[A], 0, len(c.reducers))
	for _, r := range c.reducers {
		effs = append(effs, r.Reduce(state, action))
	}
	return c.join(effs...)
}
