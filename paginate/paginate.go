// Package paginate drives cursor-based pagination over any "fetch one page"
// operation. An iterator is lazy, finite, and restartable: rebuilding one
// with the same starting cursor replays the same sequence as long as the
// underlying collection has not changed.
//
// An iterator instance serves one logical caller. It enforces at most one
// outstanding fetch: a second Advance while one is pending fails fast with
// ErrConcurrentAdvance rather than interleaving cursors. Independent
// iterators share no state and may run concurrently.
package paginate

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync/atomic"
)

// ErrDone reports that the final page has already been consumed.
var ErrDone = errors.New("paginate: no more pages")

// ErrConcurrentAdvance reports a second Advance while a fetch is in flight.
var ErrConcurrentAdvance = errors.New("paginate: advance already in flight")

// Page is one batch of results plus the continuation state the service
// reported alongside it.
type Page[T any] struct {
	Results    []T
	HasMore    bool
	NextCursor *string
}

// FetchFunc retrieves one page. A nil cursor asks for the first page; any
// other cursor is passed exactly as a previous page returned it.
type FetchFunc[T any] func(ctx context.Context, cursor *string) (Page[T], error)

// Iterator is a lazy cursor-driven sequence of result batches.
type Iterator[T any] struct {
	fetch    FetchFunc[T]
	cursor   *string
	done     bool
	inFlight atomic.Bool
}

// New builds an iterator starting at the first page.
func New[T any](fetch FetchFunc[T]) *Iterator[T] {
	return &Iterator[T]{fetch: fetch}
}

// Resume builds an iterator starting at a cursor captured from an earlier
// page.
func Resume[T any](fetch FetchFunc[T], cursor string) *Iterator[T] {
	return &Iterator[T]{fetch: fetch, cursor: &cursor}
}

// Advance fetches the next batch. It returns ErrDone once the last page has
// been consumed and never issues a fetch after that point. A fetch error,
// including cancellation, leaves the iterator resumable at the same cursor.
func (it *Iterator[T]) Advance(ctx context.Context) ([]T, error) {
	if it.done {
		return nil, ErrDone
	}
	if !it.inFlight.CompareAndSwap(false, true) {
		return nil, ErrConcurrentAdvance
	}
	defer it.inFlight.Store(false)

	page, err := it.fetch(ctx, it.cursor)
	if err != nil {
		return nil, err
	}

	if page.HasMore {
		if page.NextCursor == nil {
			return nil, fmt.Errorf("paginate: page reported has_more without a next_cursor")
		}
		it.cursor = page.NextCursor
	} else {
		it.done = true
		it.cursor = nil
	}
	return page.Results, nil
}

// Done reports whether the final page has been consumed.
func (it *Iterator[T]) Done() bool {
	return it.done
}

// Cursor returns the cursor the next Advance would fetch with: nil before
// any fetch and after exhaustion. It can seed Resume on a fresh iterator.
func (it *Iterator[T]) Cursor() *string {
	return it.cursor
}

// All returns a lazy flattened sequence over every remaining item. The
// sequence ends at the final page or at the first error, whichever comes
// first.
func (it *Iterator[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			items, err := it.Advance(ctx)
			if errors.Is(err, ErrDone) {
				return
			}
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			for _, item := range items {
				if !yield(item, nil) {
					return
				}
			}
		}
	}
}

// Collect drains the iterator eagerly into one ordered slice. Memory use is
// unbounded; prefer All for large collections.
func (it *Iterator[T]) Collect(ctx context.Context) ([]T, error) {
	var out []T
	for {
		items, err := it.Advance(ctx)
		if errors.Is(err, ErrDone) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, items...)
	}
}
