// Package testutil carries shared test helpers.
package testutil

import (
	"errors"
	"sync"
	"sync/atomic"

	"veripay/internal/sentinel"
)

// ConcurrentResult tracks outcomes of concurrent test operations.
type ConcurrentResult struct {
	Successes int32
	NotFounds int32
	Invalid   int32
	Errors    int32
}

// Total returns the total number of operations executed.
func (r *ConcurrentResult) Total() int32 {
	return r.Successes + r.NotFounds + r.Invalid + r.Errors
}

// RunConcurrent executes fn in parallel goroutines and buckets each outcome
// by sentinel error. It replaces the WaitGroup plus atomic counter pattern
// in store and limiter tests.
func RunConcurrent(goroutines int, fn func(idx int) error) *ConcurrentResult {
	var wg sync.WaitGroup
	var successes, notFounds, invalid, errs atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			err := fn(idx)
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, sentinel.ErrNotFound):
				notFounds.Add(1)
			case errors.Is(err, sentinel.ErrInvalidInput):
				invalid.Add(1)
			default:
				errs.Add(1)
			}
		}(i)
	}

	wg.Wait()

	return &ConcurrentResult{
		Successes: successes.Load(),
		NotFounds: notFounds.Load(),
		Invalid:   invalid.Load(),
		Errors:    errs.Load(),
	}
}
