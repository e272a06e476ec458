package handlers

import (
	"sync"

	"github.com/google/uuid"
)

// effectScope ties a worker dispatcher to its teardown.
// Close is idempotent and may be called from any goroutine.
type effectScope[T any] struct {
	EffectId   string
	dispatcher WorkerDispatcher[T]
	closeFn    func()
	closeOnce  sync.Once
}

func (es *effectScope[T]) Close() {
	es.closeOnce.Do(es.closeFn)
}

func newEffectScope[T any](
	dispatcher WorkerDispatcher[T],
	teardown func(),
) *effectScope[T] {
	return &effectScope[T]{
		EffectId:   uuid.New().String(),
		dispatcher: dispatcher,
		closeFn:    teardown,
	}
}
