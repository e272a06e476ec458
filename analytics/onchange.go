package analytics

import (
	clone "github.com/huandu/go-clone/generic"

	"github.com/on-the-ground/effect_ive_analytics/effects"
	"github.com/on-the-ground/effect_ive_analytics/reducer"
)

// OnChange wraps base and dispatches derive(old, new) whenever base changes
// the value project extracts from the state. Unchanged values dispatch
// nothing and derive is not called.
func OnChange[S, A any, V comparable, T any](
	base reducer.Reducer[S, A],
	client Sink[T],
	project func(state S) V,
	derive func(oldValue, newValue V) T,
) reducer.Reducer[S, A] {
	return onChange[S, A, V, T]{
		base:        base,
		client:      client,
		project:     project,
		snapshot:    func(v V) V { return v },
		isDuplicate: func(a, b V) bool { return a == b },
		derive:      derive,
	}
}

// OnChangeFunc is OnChange for projections that are not comparable.
// isDuplicate decides whether two projected values are the same; nil means
// Equal.
//
// The value projected before the transition is deep-copied, so maps and
// slices the base reducer mutates in place still compare against their old
// contents.
func OnChangeFunc[S, A, V, T any](
	base reducer.Reducer[S, A],
	client Sink[T],
	project func(state S) V,
	isDuplicate func(a, b V) bool,
	derive func(oldValue, newValue V) T,
) reducer.Reducer[S, A] {
	if isDuplicate == nil {
		isDuplicate = Equal[V]
	}
	return onChange[S, A, V, T]{
		base:        base,
		client:      client,
		project:     project,
		snapshot:    clone.Clone[V],
		isDuplicate: isDuplicate,
		derive:      derive,
	}
}

type onChange[S, A, V, T any] struct {
	base        reducer.Reducer[S, A]
	client      Sink[T]
	project     func(S) V
	snapshot    func(V) V
	isDuplicate func(a, b V) bool
	derive      func(oldValue, newValue V) T
}

func (o onChange[S, A, V, T]) Reduce(state *S, action A) effects.Effect[A] {
	oldValue := o.snapshot(o.project(*state))
	eff := o.base.Reduce(state, action)
	newValue := o.project(*state)

	if o.isDuplicate(oldValue, newValue) {
		return eff
	}
	return effects.Merge(eff, dispatch[A](o.client, o.derive(oldValue, newValue)))
}
