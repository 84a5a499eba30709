// Package paginate flattens cursor-based AWS result streams into single
// ordered slices.
package paginate

import "context"

// PageFunc fetches the next page of a query. It returns the page's items,
// whether more pages remain, and any error from the underlying call.
type PageFunc[T any] func(ctx context.Context) (items []T, more bool, err error)

// All drains a paginated query into one slice, preserving service order.
// The first failing page aborts the collection; no partial result is
// returned and no retry is attempted.
func All[T any](ctx context.Context, next PageFunc[T]) ([]T, error) {
	var out []T
	for {
		items, more, err := next(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
		if !more {
			return out, nil
		}
	}
}
