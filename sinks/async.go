package sinks

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/on-the-ground/effect_ive_analytics/analytics"
	"github.com/on-the-ground/effect_ive_analytics/effects"
	"github.com/on-the-ground/effect_ive_analytics/effects/binding"
	"github.com/on-the-ground/effect_ive_analytics/effects/configkeys"
	"github.com/on-the-ground/effect_ive_analytics/effects/log"
)

// EffectAnalytics keys the asynchronous analytics handler inside a context.
const EffectAnalytics effects.EffectEnum = "effect_ive_analytics_effect_enum_analytics"

const (
	defaultAsyncBufferSize = 64
	defaultAsyncNumWorkers = 4
)

type asyncPayload struct {
	key   string
	event analytics.Data
	done  func()
}

func (p asyncPayload) PartitionKey() string {
	return p.key
}

// WithAsyncEffectHandler registers a partitioned worker pool that hands
// events to backend off the dispatching goroutine. Each AsyncSink owns one
// partition, so events dispatched through it reach backend in dispatch order
// whatever their kind or name.
//
// Buffer size and worker count are read from the binding effect when one is
// in scope. Events still queued when the teardown runs are dropped and
// released, so a later AsyncSink.Flush does not wait for them.
func WithAsyncEffectHandler(
	ctx context.Context,
	backend analytics.Sink[analytics.Data],
) (context.Context, func() context.Context) {
	config := effects.NewEffectScopeConfig(
		binding.GetOrDefault(ctx, configkeys.ConfigAnalyticsAsyncBufferSize, defaultAsyncBufferSize),
		binding.GetOrDefault(ctx, configkeys.ConfigAnalyticsAsyncNumWorkers, defaultAsyncNumWorkers),
	)
	return effects.WithFireAndForgetPartitionableEffectHandler(
		ctx,
		config,
		EffectAnalytics,
		func(ctx context.Context, payload asyncPayload) {
			defer payload.done()
			if ctx.Err() != nil {
				log.LogEff(context.WithoutCancel(ctx), log.LogWarn, "analytics event dropped at shutdown", map[string]interface{}{
					"event": payload.event.String(),
				})
				return
			}
			defer func() {
				if r := recover(); r != nil {
					log.LogEff(ctx, log.LogError, "analytics backend panicked", map[string]interface{}{
						"event":     payload.event.String(),
						"recovered": r,
					})
				}
			}()
			backend.Dispatch(payload.event)
		},
	)
}

// AsyncSink enqueues events on the handler registered by WithAsyncEffectHandler.
type AsyncSink struct {
	ctx     context.Context
	key     string
	pending sync.WaitGroup
}

var _ analytics.Sink[analytics.Data] = (*AsyncSink)(nil)

// Async returns a sink bound to the handler in ctx. Without a handler in
// scope, Dispatch logs a warning and drops the event.
func Async(ctx context.Context) *AsyncSink {
	return &AsyncSink{ctx: ctx, key: uuid.NewString()}
}

// Dispatch hands event to the worker owning this sink's partition.
func (s *AsyncSink) Dispatch(event analytics.Data) {
	if event == nil {
		return
	}
	if !effects.HasEffectHandler(s.ctx, EffectAnalytics) {
		log.LogEff(s.ctx, log.LogWarn, "no async analytics handler in scope", map[string]interface{}{
			"event": event.String(),
		})
		return
	}
	s.pending.Add(1)
	accepted := effects.FireAndForgetEffect(s.ctx, EffectAnalytics, asyncPayload{
		key:   s.key,
		event: event,
		done:  s.pending.Done,
	})
	if !accepted {
		s.pending.Done()
		log.LogEff(s.ctx, log.LogWarn, "async analytics handler closed, event dropped", map[string]interface{}{
			"event": event.String(),
		})
	}
}

// Flush waits until every event dispatched so far has reached the backend,
// or ctx is done.
func (s *AsyncSink) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
