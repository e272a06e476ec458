package effects

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/on-the-ground/effect_ive_analytics/effects/internal/handlers"
	effectmodel "github.com/on-the-ground/effect_ive_analytics/effects/internal/model"
	"github.com/on-the-ground/effect_ive_analytics/shared/helper"
)

// WithResumablePartitionableEffectHandler registers a resumable effect handler for a given effect enum.
//
// This handler supports hash-based partitioning via PartitionKey(), and is suitable for effects
// like configuration lookups where per-key ordering matters.
//
// Usage:
//
//	ctx, cancel := WithResumablePartitionableEffectHandler(ctx, config, MyEffectEnum, handleFn)
//	defer cancel()
func WithResumablePartitionableEffectHandler[P effectmodel.Partitionable, R any](
	ctx context.Context,
	config effectmodel.EffectScopeConfig,
	enum effectmodel.EffectEnum,
	handleFn func(context.Context, P) (R, error),
	teardown ...func(),
) (context.Context, func() context.Context) {
	td := normalizeTeardown(teardown)
	handler := handlers.NewPartitionableResumableHandler(ctx, config, handleFn, td)
	ctxWith := context.WithValue(ctx, enum, handler)
	zap.L().Debug("created resumable effect handler", zap.String("effectId", handler.EffectId), zap.Any("enum", enum))

	return ctxWith, func() context.Context {
		handler.Close()
		zap.L().Debug("closed resumable effect handler", zap.String("effectId", handler.EffectId), zap.Any("enum", enum))
		return ctx
	}
}

// PerformResumableEffect sends a payload to the resumable effect handler and returns
// the channel its result arrives on.
// Panics if no handler is registered for the given effect enum.
func PerformResumableEffect[P effectmodel.Partitionable, R any](
	ctx context.Context,
	enum effectmodel.EffectEnum,
	payload P,
) <-chan handlers.ResumableResult[R] {
	handler := helper.MustGetTypedValue[handlers.ResumableHandler[P, R]](
		func() (any, error) {
			return lookupHandler(ctx, enum)
		},
	)
	return handler.PerformEffect(ctx, payload)
}

// WithFireAndForgetEffectHandler registers a fire-and-forget effect handler for a given effect enum.
//
// Suitable for one-shot effects like logging, telemetry, or background publishing.
// This handler executes without returning a result.
func WithFireAndForgetEffectHandler[P any](
	ctx context.Context,
	bufferSize int,
	enum effectmodel.EffectEnum,
	handleFn func(context.Context, P),
	teardown ...func(),
) (context.Context, func() context.Context) {
	td := normalizeTeardown(teardown)
	handler := handlers.NewFireAndForgetHandler(ctx, bufferSize, handleFn, td)
	ctxWith := context.WithValue(ctx, enum, handler)
	zap.L().Debug("created fire/forget effect handler", zap.String("effectId", handler.EffectId), zap.Any("enum", enum))

	return ctxWith, func() context.Context {
		handler.Close()
		zap.L().Debug("closed fire/forget effect handler", zap.String("effectId", handler.EffectId), zap.Any("enum", enum))
		return ctx
	}
}

// WithFireAndForgetPartitionableEffectHandler registers a partitioned fire-and-forget handler.
//
// Hash-based dispatching ensures that effects with the same PartitionKey() are handled
// by the same goroutine. Useful for ensuring ordering by key.
func WithFireAndForgetPartitionableEffectHandler[P effectmodel.Partitionable](
	ctx context.Context,
	config effectmodel.EffectScopeConfig,
	enum effectmodel.EffectEnum,
	handleFn func(context.Context, P),
	teardown ...func(),
) (context.Context, func() context.Context) {
	td := normalizeTeardown(teardown)
	handler := handlers.NewPartitionableFireAndForgetHandler(ctx, config, handleFn, td)
	ctxWith := context.WithValue(ctx, enum, handler)
	zap.L().Debug("created fire/forget effect handler", zap.String("effectId", handler.EffectId), zap.Any("enum", enum))

	return ctxWith, func() context.Context {
		handler.Close()
		zap.L().Debug("closed fire/forget effect handler", zap.String("effectId", handler.EffectId), zap.Any("enum", enum))
		return ctx
	}
}

// FireAndForgetEffect triggers a fire-and-forget effect for the given enum and payload.
//
// The handler will process the payload asynchronously. The result reports
// whether the payload was enqueued; it is false once ctx is done or the
// handler has been torn down.
// Panics if no handler is registered for the given enum.
func FireAndForgetEffect[P any](
	ctx context.Context,
	enum effectmodel.EffectEnum,
	payload P,
) bool {
	handler := helper.MustGetTypedValue[handlers.FireAndForgetHandler[P]](
		func() (any, error) {
			return lookupHandler(ctx, enum)
		},
	)
	return handler.FireAndForgetEffect(ctx, payload)
}

// HasEffectHandler reports whether a handler for enum is reachable from ctx.
func HasEffectHandler(ctx context.Context, enum effectmodel.EffectEnum) bool {
	_, err := lookupHandler(ctx, enum)
	return err == nil
}

// lookupHandler returns whatever handler is stored under enum in ctx.
func lookupHandler(ctx context.Context, enum effectmodel.EffectEnum) (any, error) {
	if h := ctx.Value(enum); h != nil {
		return h, nil
	}
	return nil, fmt.Errorf("%w: %v", effectmodel.ErrNoEffectHandler, enum)
}

// normalizeTeardown flattens optional teardown functions into a single callable.
//
// Accepts either 0 or 1 teardown functions. Panics if more than one is passed.
func normalizeTeardown(teardown []func()) func() {
	switch len(teardown) {
	case 1:
		return teardown[0]
	case 0:
		return func() {}
	default:
		panic("normalizeTeardown: only one or zero teardown functions allowed")
	}
}
