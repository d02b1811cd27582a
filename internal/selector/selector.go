// Package selector implements the modal list-picker used everywhere an
// entity is chosen from a remote list: a text filter with debounced refetch,
// infinite scroll over cursor pages, and a tentative selection that only
// becomes the value on confirm.
package selector

import (
	"context"
	"reflect"
	"sync"
	"time"

	"github.com/smallbiznis/ledgerline/pkg/debounce"
	"github.com/smallbiznis/ledgerline/pkg/pagination"
)

// DefaultDebounce is the quiet period before a typed search term triggers a
// refetch.
const DefaultDebounce = time.Second

// EqualsFunc decides whether two items refer to the same entity. Selected
// values can come from a different API shape than list items (a saved party
// vs a freshly fetched one), so callers usually compare by id.
type EqualsFunc[T any] func(a, b T) bool

type Option[T any] func(*Selector[T])

func WithEquals[T any](eq EqualsFunc[T]) Option[T] {
	return func(s *Selector[T]) { s.equals = eq }
}

func WithDebounce[T any](quiet time.Duration) Option[T] {
	return func(s *Selector[T]) { s.quiet = quiet }
}

// Selector is the two-slot selection state machine over a paginated list:
// closed -> browsing -> tentatively selected -> confirmed or cancelled.
// Reopening without confirming reverts to the last confirmed value.
type Selector[T any] struct {
	lister *pagination.Lister[T]
	equals EqualsFunc[T]
	quiet  time.Duration

	mu        sync.Mutex
	deb       *debounce.Debouncer
	open      bool
	baseCtx   context.Context
	confirmed *T
	pending   *T
}

func New[T any](fetch pagination.FetchFunc[T], opts ...Option[T]) *Selector[T] {
	s := &Selector[T]{
		lister: pagination.NewLister(fetch),
		equals: func(a, b T) bool { return reflect.DeepEqual(a, b) },
		quiet:  DefaultDebounce,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open starts a browsing session: the list and cursor reset, any tentative
// selection from an unconfirmed previous session is dropped, and the first
// page is fetched with an empty search term.
func (s *Selector[T]) Open(ctx context.Context) error {
	s.mu.Lock()
	s.open = true
	s.pending = nil
	s.baseCtx = ctx
	if s.deb != nil {
		s.deb.Stop()
	}
	s.deb = debounce.New(s.quiet)
	s.mu.Unlock()

	return s.lister.Reset(ctx, "")
}

// Input feeds a keystroke's worth of search term. The refetch fires only
// after the quiet period with no further input; earlier pending refetches
// are cancelled, and a stale in-flight response never overwrites newer
// results (the lister discards superseded generations).
func (s *Selector[T]) Input(term string) {
	s.mu.Lock()
	deb := s.deb
	ctx := s.baseCtx
	open := s.open
	s.mu.Unlock()
	if !open || deb == nil {
		return
	}
	deb.Schedule(func() {
		_ = s.lister.Reset(ctx, term)
	})
}

// EndReached loads the next page when the list end comes into view. End
// events while a fetch is in flight coalesce into a no-op.
func (s *Selector[T]) EndReached(ctx context.Context) error {
	s.mu.Lock()
	open := s.open
	s.mu.Unlock()
	if !open {
		return nil
	}
	_, err := s.lister.LoadMore(ctx)
	return err
}

func (s *Selector[T]) Items() []T { return s.lister.Items() }

// Select marks an item as tentatively chosen. It does not become the
// selector's value until Confirm.
func (s *Selector[T]) Select(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return
	}
	s.pending = &item
}

// IsSelected reports whether item should render highlighted: it matches the
// tentative selection if there is one, else the confirmed value.
func (s *Selector[T]) IsSelected(item T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil {
		return s.equals(*s.pending, item)
	}
	if s.confirmed != nil {
		return s.equals(*s.confirmed, item)
	}
	return false
}

// Confirm promotes the tentative selection to the confirmed value and
// closes the picker. With no tentative selection it reports ok=false and
// the confirmed value is untouched.
func (s *Selector[T]) Confirm() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	if !s.open || s.pending == nil {
		return zero, false
	}
	s.confirmed = s.pending
	s.pending = nil
	s.closeLocked()
	return *s.confirmed, true
}

// Cancel closes the picker and discards the tentative selection; the last
// confirmed value survives.
func (s *Selector[T]) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
	s.closeLocked()
}

// Value returns the last confirmed selection.
func (s *Selector[T]) Value() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	if s.confirmed == nil {
		return zero, false
	}
	return *s.confirmed, true
}

// SetValue seeds a previously saved selection, e.g. when editing an
// existing document.
func (s *Selector[T]) SetValue(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirmed = &item
}

func (s *Selector[T]) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

func (s *Selector[T]) closeLocked() {
	s.open = false
	if s.deb != nil {
		s.deb.Stop()
		s.deb = nil
	}
}
