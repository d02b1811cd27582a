// Package pagination is the client half of the cursor pagination the backend
// services speak: each page carries an opaque continuation token and the next
// request replays it verbatim.
package pagination

import (
	"context"
	"sync"
)

// Page is a single page of results as returned by a get-all endpoint.
type Page[T any] struct {
	Items          []T
	HasNextPage    bool
	NextPageCursor string
}

// FetchFunc retrieves one page. cursor is empty for the first page; term is
// the current search filter (empty when unfiltered). Implementations bind
// page size, company scope and field selection themselves.
type FetchFunc[T any] func(ctx context.Context, cursor, term string) (Page[T], error)

// Lister accumulates pages of an infinite list. It guarantees:
//   - at most one fetch in flight per list; LoadMore during a fetch is a no-op
//   - a Reset invalidates any in-flight fetch; stale responses never
//     overwrite newer results
type Lister[T any] struct {
	fetch FetchFunc[T]

	mu      sync.Mutex
	items   []T
	term    string
	cursor  string
	hasMore bool
	loading bool
	seq     uint64
}

func NewLister[T any](fetch FetchFunc[T]) *Lister[T] {
	return &Lister[T]{fetch: fetch}
}

// Reset discards accumulated items and fetches the first page for term.
// Any fetch still in flight for a previous generation is orphaned: its
// response is dropped on arrival.
func (l *Lister[T]) Reset(ctx context.Context, term string) error {
	l.mu.Lock()
	l.seq++
	seq := l.seq
	l.term = term
	l.loading = true
	l.mu.Unlock()

	page, err := l.fetch(ctx, "", term)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.seq != seq {
		return nil // superseded by a newer Reset
	}
	l.loading = false
	if err != nil {
		return err
	}
	l.items = page.Items
	l.cursor = page.NextPageCursor
	l.hasMore = page.HasNextPage
	return nil
}

// LoadMore fetches the next page using the last page's cursor. It reports
// whether a fetch was actually issued: repeated list-end events while a fetch
// is in flight, or when the list is exhausted, coalesce into a no-op.
func (l *Lister[T]) LoadMore(ctx context.Context) (bool, error) {
	l.mu.Lock()
	if l.loading || !l.hasMore {
		l.mu.Unlock()
		return false, nil
	}
	l.loading = true
	seq := l.seq
	cursor := l.cursor
	term := l.term
	l.mu.Unlock()

	page, err := l.fetch(ctx, cursor, term)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.seq != seq {
		return false, nil
	}
	l.loading = false
	if err != nil {
		return true, err
	}
	l.items = append(l.items, page.Items...)
	l.cursor = page.NextPageCursor
	l.hasMore = page.HasNextPage
	return true, nil
}

// Items returns a copy of the accumulated items.
func (l *Lister[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

func (l *Lister[T]) HasMore() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasMore
}

func (l *Lister[T]) Term() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.term
}
