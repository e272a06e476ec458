package store

import (
	"context"
	"sync"
)

// Task tracks the effects started by one Send, including effects of actions
// those effects sent back.
type Task struct {
	wg        sync.WaitGroup
	mu        sync.Mutex
	cancels   []context.CancelFunc
	cancelled bool
}

// Finish blocks until every tracked effect has returned, or ctx is done.
func (t *Task) Finish(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cancel cancels every tracked effect. Effects that have not started yet never run.
func (t *Task) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelled = true
	for _, cancel := range t.cancels {
		cancel()
	}
}

func (t *Task) addCancel(cancel context.CancelFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancelled {
		cancel()
		return
	}
	t.cancels = append(t.cancels, cancel)
}
