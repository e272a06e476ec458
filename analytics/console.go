package analytics

import (
	"fmt"

	"go.uber.org/zap"
)

// ConsoleLogger returns a debug sink that logs each event at info level and
// never fails. A nil logger falls back to the global zap logger.
func ConsoleLogger[T any](logger *zap.Logger) *Client[T] {
	return New(func(event T) {
		l := logger
		if l == nil {
			l = zap.L()
		}
		l.Info(fmt.Sprintf("[Analytics] ✅ %v", event))
	})
}

// NopClient drops every event.
func NopClient[T any]() *Client[T] {
	return New[T](nil)
}

// Guarded recovers panics raised by s and logs them at error level.
// The event is dropped; later sinks in a Merge still receive it.
func Guarded[T any](s Sink[T], logger *zap.Logger) Sink[T] {
	if logger == nil {
		logger = zap.L()
	}
	return DispatchFunc[T](func(event T) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("analytics backend panicked",
					zap.Any("recovered", r),
					zap.String("event", fmt.Sprintf("%v", event)),
				)
			}
		}()
		s.Dispatch(event)
	})
}
