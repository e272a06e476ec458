package log

import (
	"context"

	"github.com/on-the-ground/effect_ive_analytics/effects"
	effectmodel "github.com/on-the-ground/effect_ive_analytics/effects/internal/model"
	"go.uber.org/zap"
)

// LogLevel defines the severity level for log messages.
type LogLevel string

const (
	// LogInfo is used for general informational messages.
	LogInfo LogLevel = "info"

	// LogWarn is used for potentially harmful situations.
	LogWarn LogLevel = "warn"

	// LogError is used for error events that might still allow the application to continue running.
	LogError LogLevel = "error"

	// LogDebug is used for debugging messages with detailed internal information.
	LogDebug LogLevel = "debug"
)

// LogPayload is the payload structure for logging effect.
// It contains the log level, message string, and optional structured fields.
type LogPayload struct {
	Level   LogLevel
	Message string
	Fields  map[string]interface{}
}

// WithZapEffectHandler registers a fire-and-forget log effect handler using zap.Logger.
// The returned context includes the handler under the EffectLog enum.
// The teardown function syncs the logger and should be called when the handler is no longer needed.
// The context returned by the teardown function should be used for further operations.
func WithZapEffectHandler(
	ctx context.Context,
	bufferSize int,
	logger *zap.Logger,
) (context.Context, func() context.Context) {
	return effects.WithFireAndForgetEffectHandler(
		ctx,
		bufferSize,
		effectmodel.EffectLog,
		func(ctx context.Context, payload LogPayload) {
			write(logger, payload)
		},
		func() {
			// stdout/stderr sinks report EINVAL/ENOTTY on Sync; nothing to do about it
			_ = logger.Sync()
		},
	)
}

// LogEff performs a fire-and-forget log effect using the EffectLog handler in the context.
// Without a handler in scope, or once that handler is closed, the message goes
// straight to the global zap logger.
func LogEff(ctx context.Context, level LogLevel, msg string, fields map[string]interface{}) {
	payload := LogPayload{
		Level:   level,
		Message: msg,
		Fields:  fields,
	}
	if !effects.HasEffectHandler(ctx, effectmodel.EffectLog) {
		write(zap.L(), payload)
		return
	}
	if !effects.FireAndForgetEffect(ctx, effectmodel.EffectLog, payload) {
		write(zap.L(), payload)
	}
}

func write(logger *zap.Logger, payload LogPayload) {
	fields := make([]zap.Field, 0, len(payload.Fields))
	for k, v := range payload.Fields {
		fields = append(fields, zap.Any(k, v))
	}

	switch payload.Level {
	case LogInfo:
		logger.Info(payload.Message, fields...)
	case LogWarn:
		logger.Warn(payload.Message, fields...)
	case LogError:
		logger.Error(payload.Message, fields...)
	case LogDebug:
		logger.Debug(payload.Message, fields...)
	default:
		logger.Info(payload.Message, fields...)
	}
}
