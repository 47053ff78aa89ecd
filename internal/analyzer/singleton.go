package analyzer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

var ErrNotInitialized = errors.New("analyzer not initialized")

var (
	initOnce sync.Once
	initErr  error
	instance atomic.Pointer[Analyzer]
)

// Init builds the process-wide Analyzer and runs its warm-up. Only the first
// call does any work; later calls return the outcome of the first. Callers
// should treat an error as fatal.
func Init(ctx context.Context, opts Options) (*Analyzer, error) {
	initOnce.Do(func() {
		a, err := Load(ctx, opts)
		if err != nil {
			initErr = err
			return
		}
		if err := a.Warmup(); err != nil {
			initErr = err
			return
		}
		instance.Store(a)
	})

	if initErr != nil {
		return nil, initErr
	}
	return instance.Load(), nil
}

// Acquire returns the Analyzer created by Init.
func Acquire() (*Analyzer, error) {
	a := instance.Load()
	if a == nil {
		return nil, ErrNotInitialized
	}
	return a, nil
}
