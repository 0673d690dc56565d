package tokendi

import (
	"reflect"
	"sync"
	"sync/atomic"
)

var lazyAnyType = reflect.TypeOf((*Lazy[any])(nil))

// Lazy defers construction of a value until Get is first called.
// Successful results are memoized; failures are not, so a later Get
// retries. Lazy is safe for concurrent use and builds at most once.
type Lazy[T any] struct {
	mu    sync.Mutex
	done  atomic.Bool
	value T
	thunk func() (T, error)
}

// NewLazy returns a Lazy that runs thunk on first access.
func NewLazy[T any](thunk func() (T, error)) *Lazy[T] {
	return &Lazy[T]{thunk: thunk}
}

// resolvedLazy returns a Lazy that already holds value.
func resolvedLazy[T any](value T) *Lazy[T] {
	l := &Lazy[T]{value: value}
	l.done.Store(true)
	return l
}

// Get materializes the value on first call and returns it.
func (l *Lazy[T]) Get() (T, error) {
	if l.done.Load() {
		return l.value, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.done.Load() {
		return l.value, nil
	}

	value, err := l.thunk()
	if err != nil {
		var zero T
		return zero, err
	}

	l.value = value
	l.thunk = nil
	l.done.Store(true)

	return value, nil
}

// MustGet is like Get but panics on error.
func (l *Lazy[T]) MustGet() T {
	value, err := l.Get()
	if err != nil {
		panic(err)
	}
	return value
}

// Materialized reports whether the value has been built.
func (l *Lazy[T]) Materialized() bool {
	return l.done.Load()
}
