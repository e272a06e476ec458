package store_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/on-the-ground/effect_ive_analytics/effects"
	"github.com/on-the-ground/effect_ive_analytics/reducer"
	"github.com/on-the-ground/effect_ive_analytics/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type state struct {
	Count   int
	Loaded  bool
	Started int
}

type action int

const (
	increment action = iota
	load
	loaded
	slow
)

func feature(gate <-chan struct{}, ran *atomic.Int32) reducer.Reducer[state, action] {
	return reducer.Func[state, action](func(s *state, a action) effects.Effect[action] {
		switch a {
		case increment:
			s.Count++
			return effects.None[action]()
		case load:
			return effects.Run(func(ctx context.Context, send effects.Send[action]) {
				send(loaded)
			})
		case loaded:
			s.Loaded = true
			return effects.FireAndForget[action](func(context.Context) {
				ran.Add(1)
			})
		case slow:
			s.Started++
			return effects.FireAndForget[action](func(ctx context.Context) {
				select {
				case <-gate:
					ran.Add(1)
				case <-ctx.Done():
				}
			})
		}
		return effects.None[action]()
	})
}

func TestStore_SendReducesSynchronously(t *testing.T) {
	var ran atomic.Int32
	s := store.New(context.Background(), state{}, feature(nil, &ran))
	defer s.Close()

	task := s.Send(increment)
	require.NoError(t, task.Finish(context.Background()))
	assert.Equal(t, 1, s.State().Count)
}

func TestStore_FinishJoinsFedBackActions(t *testing.T) {
	var ran atomic.Int32
	var observed []action
	s := store.New(context.Background(), state{}, feature(nil, &ran),
		store.WithActionObserver(func(a action) { observed = append(observed, a) }),
	)
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Send(load).Finish(ctx))

	assert.True(t, s.State().Loaded)
	assert.Equal(t, int32(1), ran.Load())
	assert.Equal(t, []action{load, loaded}, observed)
}

func TestStore_CancelledTaskSkipsPendingWork(t *testing.T) {
	var ran atomic.Int32
	gate := make(chan struct{})
	s := store.New(context.Background(), state{}, feature(gate, &ran))
	defer s.Close()

	task := s.Send(slow)
	task.Cancel()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, task.Finish(ctx))
	close(gate)

	assert.Equal(t, 1, s.State().Started)
	assert.Equal(t, int32(0), ran.Load())
}

func TestStore_FinishTimesOut(t *testing.T) {
	var ran atomic.Int32
	gate := make(chan struct{})
	defer close(gate)
	s := store.New(context.Background(), state{}, feature(gate, &ran))
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Send(slow).Finish(ctx), context.DeadlineExceeded)
}

func TestStore_ReportsEffectPanics(t *testing.T) {
	recovered := make(chan any, 1)
	r := reducer.Func[state, action](func(*state, action) effects.Effect[action] {
		return effects.FireAndForget[action](func(context.Context) { panic("effect boom") })
	})
	s := store.New(context.Background(), state{}, reducer.Reducer[state, action](r),
		store.WithEffectPanicHandler[action](func(rec any) { recovered <- rec }),
	)
	defer s.Close()

	require.NoError(t, s.Send(increment).Finish(context.Background()))
	select {
	case rec := <-recovered:
		assert.Equal(t, "effect boom", rec)
	case <-time.After(time.Second):
		t.Fatal("expected effect panic to be reported")
	}
}
