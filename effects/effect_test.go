package effects_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/on-the-ground/effect_ive_analytics/effects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	items []string
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, s)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.items...)
}

func TestNone_IsNone(t *testing.T) {
	assert.True(t, effects.IsNone(effects.None[int]()))
	assert.True(t, effects.IsNone[int](nil))
	assert.True(t, effects.IsNone(effects.Merge(effects.None[int](), effects.None[int]())))
	assert.True(t, effects.IsNone(effects.Concatenate[int]()))
	assert.True(t, effects.IsNone(effects.Map(effects.None[int](), func(i int) string { return "" })))
	assert.False(t, effects.IsNone(effects.FireAndForget[int](func(context.Context) {})))
}

func TestConcatenate_RunsInOrder(t *testing.T) {
	rec := &recorder{}
	eff := effects.Concatenate(
		effects.FireAndForget[int](func(context.Context) {
			time.Sleep(30 * time.Millisecond)
			rec.add("first")
		}),
		effects.FireAndForget[int](func(context.Context) { rec.add("second") }),
		effects.FireAndForget[int](func(context.Context) { rec.add("third") }),
	)

	effects.Execute(context.Background(), eff, nil)

	assert.Equal(t, []string{"first", "second", "third"}, rec.snapshot())
}

func TestMerge_RunsConcurrentlyAndJoins(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 2)
	rec := &recorder{}

	block := func(name string) effects.Effect[int] {
		return effects.FireAndForget[int](func(context.Context) {
			started <- struct{}{}
			<-release
			rec.add(name)
		})
	}

	done := make(chan struct{})
	go func() {
		effects.Execute(context.Background(), effects.Merge(block("a"), block("b")), nil)
		close(done)
	}()

	for i := 0; i < 2; i++ {
		select {
		case <-started:
		case <-time.After(time.Second):
			t.Fatal("merged effects did not start concurrently")
		}
	}
	close(release)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("merge did not join its children")
	}
	assert.ElementsMatch(t, []string{"a", "b"}, rec.snapshot())
}

func TestRun_SendsActionsBack(t *testing.T) {
	var got []int
	eff := effects.Run(func(ctx context.Context, send effects.Send[int]) {
		send(1)
		send(2)
	})

	effects.Execute(context.Background(), eff, func(a int) { got = append(got, a) })

	assert.Equal(t, []int{1, 2}, got)
}

func TestMap_LiftsChildActions(t *testing.T) {
	var got []string
	child := effects.Run(func(ctx context.Context, send effects.Send[int]) { send(7) })

	effects.Execute(
		context.Background(),
		effects.Map(child, func(i int) string { return "child:" + string(rune('0'+i)) }),
		func(a string) { got = append(got, a) },
	)

	assert.Equal(t, []string{"child:7"}, got)
}

func TestExecute_SkipsWorkAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rec := &recorder{}
	eff := effects.Concatenate(
		effects.FireAndForget[int](func(context.Context) {
			rec.add("before")
			cancel()
		}),
		effects.FireAndForget[int](func(context.Context) { rec.add("after") }),
	)

	effects.Execute(ctx, eff, nil)

	assert.Equal(t, []string{"before"}, rec.snapshot())
}

func TestMerge_ReRaisesChildPanic(t *testing.T) {
	eff := effects.Merge(
		effects.FireAndForget[int](func(context.Context) { panic("boom") }),
		effects.FireAndForget[int](func(context.Context) {}),
	)

	require.Panics(t, func() {
		effects.Execute(context.Background(), eff, nil)
	})
}
