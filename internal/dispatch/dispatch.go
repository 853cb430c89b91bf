// Package dispatch provides the background execution context used for
// I/O-bound work such as network calls.
package dispatch

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"
)

// DefaultParallelism bounds concurrent I/O work when no limit is given.
const DefaultParallelism = 64

// Dispatcher runs functions on background goroutines, never more than its
// parallelism at once.
type Dispatcher struct {
	name string
	sem  *semaphore.Weighted
}

// New creates a Dispatcher. A parallelism below 1 selects
// DefaultParallelism.
func New(name string, parallelism int) *Dispatcher {
	if parallelism < 1 {
		parallelism = DefaultParallelism
	}
	return &Dispatcher{
		name: name,
		sem:  semaphore.NewWeighted(int64(parallelism)),
	}
}

// Run waits for a free slot, runs fn on a background goroutine and blocks
// until it returns. The only error is failing to get a slot before ctx is
// done, in which case fn is not run.
func (d *Dispatcher) Run(ctx context.Context, fn func(ctx context.Context)) error {
	if err := d.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("dispatch %s: %w", d.name, err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer d.sem.Release(1)
		fn(ctx)
	}()
	<-done
	return nil
}

// Name identifies the dispatcher in logs.
func (d *Dispatcher) Name() string {
	return d.name
}
