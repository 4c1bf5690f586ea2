// Package fanout holds the concurrency helper for running the same RPC
// call against several targets at once and collecting every result,
// success or failure, without one target's error aborting the rest.
// Adapted from the teacher's internal/provider.ExecuteAll, which did the
// same thing across configured Ethereum providers; here the fan-out is
// over method calls made through a single rpcclient.Client (or several),
// not over provider endpoints.
package fanout

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Result wraps one call's outcome with the index it was submitted at, so
// the demo CLI can render results in submission order rather than
// completion order.
type Result[T any] struct {
	Label string
	Index int
	Value T
	Err   error
}

// CallAll runs fn concurrently once per item in targets and collects
// every Result in targets order. A failing fn does not cancel the rest —
// the caller always gets one Result per target, matching the "continue
// even if some targets fail" contract ExecuteAll documents.
func CallAll[I any, T any](ctx context.Context, targets []I, label func(I) string, fn func(ctx context.Context, item I) (T, error)) []Result[T] {
	results := make([]Result[T], len(targets))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i, item := range targets {
		i, item := i, item
		g.Go(func() error {
			val, err := fn(gctx, item)
			mu.Lock()
			results[i] = Result[T]{Label: label(item), Index: i, Value: val, Err: err}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}
