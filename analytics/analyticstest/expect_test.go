package analyticstest_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/on-the-ground/effect_ive_analytics/analytics"
	"github.com/on-the-ground/effect_ive_analytics/analytics/analyticstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTB collects failures and cleanups so they can be inspected.
type fakeTB struct {
	testing.TB
	mu       sync.Mutex
	errors   []string
	cleanups []func()
}

func (f *fakeTB) Helper() {}

func (f *fakeTB) Errorf(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = append(f.errors, fmt.Sprintf(format, args...))
}

func (f *fakeTB) Cleanup(fn func()) {
	f.cleanups = append(f.cleanups, fn)
}

func (f *fakeTB) teardown() {
	for i := len(f.cleanups) - 1; i >= 0; i-- {
		f.cleanups[i]()
	}
}

func (f *fakeTB) failures() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.errors...)
}

func TestExpect_FulfilledByMatchingEvent(t *testing.T) {
	client := analyticstest.Unexpected[analytics.Data](t)
	x := analyticstest.Expect[analytics.Data](t, client, analytics.Named("app-start"))

	assert.False(t, x.Fulfilled())
	client.Dispatch(analytics.Named("app-start"))

	assert.True(t, x.Fulfilled())
	select {
	case <-x.Done():
	default:
		t.Fatal("Done must be closed after fulfilment")
	}
}

func TestExpect_RepeatedRegistrationOnFreshClients(t *testing.T) {
	for i := 0; i < 10; i++ {
		client := analyticstest.Unexpected[analytics.Data](t)
		x := analyticstest.Expect[analytics.Data](t, client, analytics.Screen{Name: "home"})
		client.Dispatch(analytics.Screen{Name: "home"})
		require.True(t, x.Fulfilled())
	}
}

func TestExpect_ChainFallsThroughInRegistrationOrder(t *testing.T) {
	var rec analyticstest.Recorder[analytics.Data]
	client := analytics.FromSink[analytics.Data](&rec)

	first := analyticstest.Expect[analytics.Data](t, client, analytics.Named("a"))
	second := analyticstest.Expect[analytics.Data](t, client, analytics.Named("b"))

	client.Dispatch(analytics.Named("a"))
	client.Dispatch(analytics.Named("c"))
	client.Dispatch(analytics.Named("b"))

	assert.True(t, first.Fulfilled())
	assert.True(t, second.Fulfilled())
	assert.Equal(t, []analytics.Data{analytics.Named("c")}, rec.Events())
}

func TestExpect_DoubleFulfilmentFails(t *testing.T) {
	tb := &fakeTB{TB: t}
	client := analytics.NopClient[analytics.Data]()
	analyticstest.Expect[analytics.Data](tb, client, analytics.Named("tap"))

	client.Dispatch(analytics.Named("tap"))
	client.Dispatch(analytics.Named("tap"))
	tb.teardown()

	failures := tb.failures()
	if assert.Len(t, failures, 1) {
		assert.Contains(t, failures[0], analyticstest.ErrFulfilledTwice.Error())
		assert.Contains(t, failures[0], "event(tap)")
	}
}

func TestExpect_UnfulfilledFailsAtTeardown(t *testing.T) {
	tb := &fakeTB{TB: t}
	client := analytics.NopClient[analytics.Data]()
	opt := analyticstest.WithSettleTimeout(10 * time.Millisecond)
	analyticstest.Expect[analytics.Data](tb, client, analytics.Named("never"), opt)
	analyticstest.Expect[analytics.Data](tb, client, analytics.UserIdentity{ID: "user-1"}, opt)
	analyticstest.Expect[analytics.Data](tb, client, analytics.Named("seen"), opt)

	client.Dispatch(analytics.Named("seen"))
	tb.teardown()

	failures := tb.failures()
	if assert.Len(t, failures, 1) {
		assert.Contains(t, failures[0], "event(never)")
		assert.Contains(t, failures[0], "userIdentity(user-1)")
		assert.NotContains(t, failures[0], "event(seen)")
	}
}

func TestExpect_TeardownWaitsForAsyncDispatch(t *testing.T) {
	tb := &fakeTB{TB: t}
	client := analytics.NopClient[analytics.Data]()
	analyticstest.Expect[analytics.Data](tb, client, analytics.Named("late"))

	go func() {
		time.Sleep(20 * time.Millisecond)
		client.Dispatch(analytics.Named("late"))
	}()
	tb.teardown()

	assert.Empty(t, tb.failures())
}

func TestExpect_NilNeverMatches(t *testing.T) {
	tb := &fakeTB{TB: t}
	var rec analyticstest.Recorder[analytics.Data]
	client := analytics.FromSink[analytics.Data](&rec)
	x := analyticstest.Expect[analytics.Data](tb, client, nil, analyticstest.WithSettleTimeout(time.Millisecond))

	client.Dispatch(analytics.Named("anything"))
	tb.teardown()

	assert.False(t, x.Fulfilled())
	assert.Len(t, rec.Events(), 1)
	assert.Len(t, tb.failures(), 1)
}

func TestExpectFunc_MatchesByPredicate(t *testing.T) {
	client := analyticstest.Unexpected[analytics.Data](t)
	x := analyticstest.ExpectFunc(t, client, "any error", func(e analytics.Data) bool {
		return e.Kind() == "error"
	})

	client.Dispatch(analytics.ErrorOf(fmt.Errorf("boom")))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, x.Wait(ctx))
}

func TestExpectation_WaitTimesOut(t *testing.T) {
	tb := &fakeTB{TB: t}
	x := analyticstest.Expect[analytics.Data](tb, analytics.NopClient[analytics.Data](), analytics.Named("never"),
		analyticstest.WithSettleTimeout(time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := x.Wait(ctx)

	assert.ErrorIs(t, err, analyticstest.ErrUnfulfilled)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	tb.teardown()
}

func TestUnexpected_FailsOnUninspectedEvent(t *testing.T) {
	tb := &fakeTB{TB: t}
	client := analyticstest.Unexpected[analytics.Data](tb)
	analyticstest.Expect[analytics.Data](tb, client, analytics.Named("expected"))

	client.Dispatch(analytics.Named("expected"))
	client.Dispatch(analytics.Named("stray"))
	tb.teardown()

	failures := tb.failures()
	if assert.Len(t, failures, 1) {
		assert.Contains(t, failures[0], "event(stray)")
	}
}

func TestExpect_IgnoresEventsAfterTeardown(t *testing.T) {
	tb := &fakeTB{TB: t}
	client := analyticstest.Unexpected[analytics.Data](tb)
	analyticstest.Expect[analytics.Data](tb, client, analytics.Named("tap"))

	client.Dispatch(analytics.Named("tap"))
	tb.teardown()

	client.Dispatch(analytics.Named("tap"))
	client.Dispatch(analytics.Named("stray"))

	assert.Empty(t, tb.failures())
}
