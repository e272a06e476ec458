package analytics

import (
	"maps"
	"time"

	"github.com/google/uuid"
	"github.com/rickb777/date/v2/timespan"
)

const observationEpsilon = time.Millisecond

// Envelope carries an event to backends that need an identity and a
// timestamp for it.
type Envelope[T any] struct {
	ID         uuid.UUID
	Payload    T
	ObservedAt timespan.TimeSpan
	Metadata   map[string]string
}

// Observed returns the span around now that an event is attributed to.
func Observed() timespan.TimeSpan {
	now := time.Now()
	return timespan.BetweenTimes(now.Add(-observationEpsilon), now.Add(observationEpsilon))
}

// Wrap puts event in a fresh envelope. metadata is copied.
func Wrap[T any](event T, metadata map[string]string) Envelope[T] {
	return Envelope[T]{
		ID:         uuid.New(),
		Payload:    event,
		ObservedAt: Observed(),
		Metadata:   maps.Clone(metadata),
	}
}

// Stamp adapts a backend consuming envelopes into a plain client.
func Stamp[T any](backend Sink[Envelope[T]], metadata map[string]string) *Client[T] {
	return New(func(event T) {
		backend.Dispatch(Wrap(event, metadata))
	})
}
