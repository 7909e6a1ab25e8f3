package async

import (
	"context"
	"sync"
)

// Collect calls fn for every item concurrently and returns the results in the
// same order as items. It blocks until every call has returned, so callers
// can rely on the slice being complete. Concurrency is bounded by limit;
// a limit of zero or less runs all items at once.
//
// fn owns its own error handling: Collect never short-circuits, because one
// failing item must not prevent results for the others.
//
// Example:
//
//	nodes := async.Collect(ctx, instances, 0, func(ctx context.Context, in Instance) NodeHealth {
//	    return probe(ctx, in)
//	})
func Collect[In, Out any](ctx context.Context, items []In, limit int, fn func(context.Context, In) Out) []Out {
	results := make([]Out, len(items))
	if len(items) == 0 {
		return results
	}

	if limit <= 0 || limit > len(items) {
		limit = len(items)
	}
	sem := make(chan struct{}, limit)

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = fn(ctx, item)
		}()
	}
	wg.Wait()

	return results
}
