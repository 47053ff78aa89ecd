package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

var (
	// ErrUnavailable is returned when the context ends before a worker frees up.
	ErrUnavailable = errors.New("no worker available")
	ErrTaskPanic   = errors.New("task panicked")
)

// Pool admits at most Size tasks concurrently.
type Pool struct {
	sem       *semaphore.Weighted
	size      int64
	active    atomic.Int64
	waiting   atomic.Int64
	completed atomic.Int64
}

// Stats is a point-in-time view of the pool.
type Stats struct {
	Size      int64 `json:"size"`
	Active    int64 `json:"active"`
	Waiting   int64 `json:"waiting"`
	Completed int64 `json:"completed"`
}

// New creates a pool with size workers. Sizes below 1 are raised to 1.
func New(size int) *Pool {
	if size < 1 {
		size = 1
	}

	return &Pool{
		sem:  semaphore.NewWeighted(int64(size)),
		size: int64(size),
	}
}

// Do waits for a free worker and runs task on the calling goroutine. A panic
// inside task is returned as ErrTaskPanic instead of unwinding the caller.
func (p *Pool) Do(ctx context.Context, task func() error) (err error) {
	p.waiting.Add(1)
	acquireErr := p.sem.Acquire(ctx, 1)
	p.waiting.Add(-1)
	if acquireErr != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, acquireErr)
	}

	p.active.Add(1)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanic, r)
		}
		p.active.Add(-1)
		p.completed.Add(1)
		p.sem.Release(1)
	}()

	return task()
}

func (p *Pool) Size() int {
	return int(p.size)
}

func (p *Pool) Stats() Stats {
	return Stats{
		Size:      p.size,
		Active:    p.active.Load(),
		Waiting:   p.waiting.Load(),
		Completed: p.completed.Load(),
	}
}
