// internal/engine/batch/scraper.go
package batch

import (
	"context"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// DefaultSize is the number of page fetches issued together
const DefaultSize = 8

// Result is the settled outcome of one item in a batch
type Result[T any] struct {
	Item  string
	Value T
	Err   error
}

// Chunk splits items into consecutive batches of at most size entries.
// A size outside 1..DefaultSize falls back to DefaultSize.
func Chunk(items []string, size int) [][]string {
	if size <= 0 || size > DefaultSize {
		size = DefaultSize
	}
	if len(items) == 0 {
		return nil
	}
	return lo.Chunk(items, size)
}

// Settle runs fn for every item concurrently and waits for all of them.
// A failing item never cancels its siblings; each failure is kept in the
// item's own slot. Results come back in the order of items.
func Settle[T any](ctx context.Context, items []string, fn func(ctx context.Context, item string) (T, error)) []Result[T] {
	results := make([]Result[T], len(items))

	var g errgroup.Group
	for i, item := range items {
		g.Go(func() error {
			v, err := fn(ctx, item)
			results[i] = Result[T]{Item: item, Value: v, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
