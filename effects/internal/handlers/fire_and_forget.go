package handlers

import (
	"context"

	effectmodel "github.com/on-the-ground/effect_ive_analytics/effects/internal/model"
	"go.uber.org/zap"
)

// NewFireAndForgetHandler builds a handler backed by a single worker goroutine.
func NewFireAndForgetHandler[P any](
	ctx context.Context,
	bufferSize int,
	handleFn func(context.Context, P),
	teardown func(),
) FireAndForgetHandler[P] {
	ctx, cancelFn := context.WithCancel(ctx)
	return FireAndForgetHandler[P]{
		effectScope: newEffectScope(
			NewSingleQueue(ctx, bufferSize, handleFn),
			func() {
				cancelFn()
				teardown()
			},
		),
	}
}

// NewPartitionableFireAndForgetHandler builds a handler whose payloads are spread over
// config.NumWorkers goroutines by PartitionKey.
func NewPartitionableFireAndForgetHandler[P effectmodel.Partitionable](
	ctx context.Context,
	config effectmodel.EffectScopeConfig,
	handleFn func(context.Context, P),
	teardown func(),
) FireAndForgetHandler[P] {
	ctx, cancelFn := context.WithCancel(ctx)
	return FireAndForgetHandler[P]{
		effectScope: newEffectScope(
			NewPartitionedQueue(ctx, config.NumWorkers, config.BufferSize, handleFn),
			func() {
				cancelFn()
				teardown()
			},
		),
	}
}

type FireAndForgetHandler[P any] struct {
	*effectScope[P]
}

// FireAndForgetEffect enqueues payload and returns without waiting for it to be handled.
// It reports false when payload was not enqueued: ctx is done or the handler is closed.
// It never panics on a closed handler.
func (ffh FireAndForgetHandler[P]) FireAndForgetEffect(ctx context.Context, payload P) (accepted bool) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Warn(
				"dropped effect sent to closed handler",
				zap.String("effectId", ffh.EffectId),
				zap.Any("payload", payload),
			)
			accepted = false
		}
	}()

	if ctx.Err() != nil {
		return false
	}
	select {
	case <-ctx.Done():
		return false
	case ffh.dispatcher.GetChannelOf(payload) <- payload:
		return true
	}
}
