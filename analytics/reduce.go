package analytics

import (
	"context"

	"github.com/on-the-ground/effect_ive_analytics/effects"
	"github.com/on-the-ground/effect_ive_analytics/reducer"
)

// Reduce returns a reducer that leaves state alone and dispatches the event
// derived from the state it observes and the incoming action. derive
// reports false when the transition produces no event.
func Reduce[S, A, T any](client Sink[T], derive func(state S, action A) (T, bool)) reducer.Reducer[S, A] {
	return reducer.Func[S, A](func(state *S, action A) effects.Effect[A] {
		event, ok := derive(*state, action)
		if !ok {
			return effects.None[A]()
		}
		return dispatch[A](client, event)
	})
}

// ReduceMultiple is Reduce for transitions producing several events.
// Events are dispatched one after another, in the order derive returns them.
func ReduceMultiple[S, A, T any](client Sink[T], derive func(state S, action A) []T) reducer.Reducer[S, A] {
	return reducer.Func[S, A](func(state *S, action A) effects.Effect[A] {
		events := derive(*state, action)
		if len(events) == 0 {
			return effects.None[A]()
		}
		effs := make([]effects.Effect[A], 0, len(events))
		for _, event := range events {
			effs = append(effs, dispatch[A](client, event))
		}
		return effects.Concatenate(effs...)
	})
}

func dispatch[A, T any](client Sink[T], event T) effects.Effect[A] {
	return effects.FireAndForget[A](func(context.Context) {
		client.Dispatch(event)
	})
}
