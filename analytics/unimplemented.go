package analytics

import (
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"
)

// ErrUnimplemented is raised when an event reaches a client nobody configured.
var ErrUnimplemented = errors.New("analytics client not configured")

// inTestBinary is swapped by tests exercising the release path.
var inTestBinary = testing.Testing

// Unimplemented returns the placeholder client for environments that have
// not configured analytics. Dispatching to it is a programming error: inside
// a test binary it panics with ErrUnimplemented, elsewhere it logs at error
// level and drops the event.
func Unimplemented[T any](name string) *Client[T] {
	return New(func(event T) {
		if inTestBinary() {
			panic(fmt.Errorf("%w: %s received %v", ErrUnimplemented, name, event))
		}
		zap.L().Error("unimplemented analytics client called",
			zap.String("client", name),
			zap.String("event", fmt.Sprintf("%v", event)),
			zap.Error(ErrUnimplemented),
		)
	})
}
