package engine

import (
	"fmt"
	"sync"
	"time"
)

// executor runs units of work on a single dedicated worker goroutine
// with a wall-clock deadline. Accessibility calls into the target
// process can block indefinitely when a modal dialog freezes its UI
// thread; a worker stuck inside such a call cannot be cancelled, only
// abandoned. On timeout the executor detaches the stuck worker and
// starts a fresh one, so later submissions are never queued behind it.
type executor struct {
	mu   sync.Mutex
	jobs chan func()
}

func newExecutor() *executor {
	e := &executor{}
	e.mu.Lock()
	e.replaceLocked()
	e.mu.Unlock()
	return e
}

// replaceLocked abandons the current worker (if any) and starts a new
// one. The old worker keeps draining its old channel, which nothing
// writes to anymore; it parks there until its in-flight call returns,
// if ever. It is never joined.
func (e *executor) replaceLocked() {
	e.jobs = make(chan func())
	go func(jobs <-chan func()) {
		for job := range jobs {
			job()
		}
	}(e.jobs)
}

func (e *executor) replace() {
	e.mu.Lock()
	e.replaceLocked()
	e.mu.Unlock()
}

// Run executes op on the worker and waits up to timeout for it to
// finish. On deadline it replaces the worker and returns an error
// wrapping ErrTimedOut. A late result from an abandoned op is discarded
// via the buffered reply channel, never delivered.
func (e *executor) Run(timeout time.Duration, op func() error) error {
	e.mu.Lock()
	jobs := e.jobs
	e.mu.Unlock()

	done := make(chan error, 1)
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case jobs <- func() { done <- op() }:
	case <-timer.C:
		e.replace()
		return e.timeoutErr(timeout)
	}

	select {
	case err := <-done:
		return err
	case <-timer.C:
		e.replace()
		return e.timeoutErr(timeout)
	}
}

func (e *executor) timeoutErr(timeout time.Duration) error {
	return fmt.Errorf("operation timed out after %s; a modal dialog may be blocking the target application: %w", timeout, ErrTimedOut)
}
