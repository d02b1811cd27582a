package pagination

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func twoPageFetch(calls *[]string) FetchFunc[string] {
	return func(_ context.Context, cursor, term string) (Page[string], error) {
		*calls = append(*calls, cursor)
		if cursor == "" {
			return Page[string]{Items: []string{"a", "b"}, HasNextPage: true, NextPageCursor: "c1"}, nil
		}
		return Page[string]{Items: []string{"c"}, HasNextPage: false}, nil
	}
}

func TestLoadMore_UsesLastPageCursor(t *testing.T) {
	var calls []string
	l := NewLister(twoPageFetch(&calls))

	assert.NoError(t, l.Reset(context.Background(), ""))
	issued, err := l.LoadMore(context.Background())
	assert.NoError(t, err)
	assert.True(t, issued)

	assert.Equal(t, []string{"", "c1"}, calls)
	assert.Equal(t, []string{"a", "b", "c"}, l.Items())
	assert.False(t, l.HasMore())

	// exhausted list: further end events do nothing
	issued, err = l.LoadMore(context.Background())
	assert.NoError(t, err)
	assert.False(t, issued)
	assert.Equal(t, 2, len(calls))
}

func TestLoadMore_CoalescesWhileInFlight(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	fetches := 0

	fetch := func(_ context.Context, cursor, _ string) (Page[string], error) {
		mu.Lock()
		fetches++
		n := fetches
		mu.Unlock()
		if cursor == "" {
			return Page[string]{Items: []string{"a"}, HasNextPage: true, NextPageCursor: "c1"}, nil
		}
		if n == 2 {
			close(entered)
			<-release
		}
		return Page[string]{Items: []string{"b"}, HasNextPage: false}, nil
	}

	l := NewLister(fetch)
	assert.NoError(t, l.Reset(context.Background(), ""))

	done := make(chan struct{})
	go func() {
		defer close(done)
		issued, err := l.LoadMore(context.Background())
		assert.NoError(t, err)
		assert.True(t, issued)
	}()

	<-entered
	// a second list-end event while the fetch is in flight is a no-op
	issued, err := l.LoadMore(context.Background())
	assert.NoError(t, err)
	assert.False(t, issued)

	close(release)
	<-done

	mu.Lock()
	assert.Equal(t, 2, fetches)
	mu.Unlock()
	assert.Equal(t, []string{"a", "b"}, l.Items())
}

func TestReset_OrphansStaleFetch(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})

	fetch := func(_ context.Context, _, term string) (Page[string], error) {
		if term == "old" {
			close(started)
			<-block
			return Page[string]{Items: []string{"stale"}}, nil
		}
		return Page[string]{Items: []string{"fresh"}}, nil
	}

	l := NewLister(fetch)

	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, l.Reset(context.Background(), "old"))
	}()

	<-started
	assert.NoError(t, l.Reset(context.Background(), "new"))
	close(block)
	<-done

	// the slow response for the old term must not overwrite the newer one
	assert.Equal(t, []string{"fresh"}, l.Items())
	assert.Equal(t, "new", l.Term())
}
