package respool

import (
	"context"
	"sync"
	"sync/atomic"
)

// Resource is a resource checked out of a Pool. It belongs to the caller until
// released.
type Resource[T any] struct {
	pool        *Pool[T]
	index       int
	value       T
	releaseOnce sync.Once
	releaseErr  error
	released    atomic.Bool
}

// Index returns the index of the resource in the pool.
func (r *Resource[T]) Index() int {
	return r.index
}

// Value returns the pooled value. It must not be used after Release.
func (r *Resource[T]) Value() T {
	return r.value
}

// Release releases r back to the pool it was acquired from.
// It is safe to call Release multiple times; subsequent calls will be no-ops
// returning the result of the first call.
// This allows for both defer r.Release(ctx) and explicit release patterns.
func (r *Resource[T]) Release(ctx context.Context) error {
	r.releaseOnce.Do(func() {
		r.released.Store(true)
		r.releaseErr = r.pool.release(ctx, r)
	})
	return r.releaseErr
}

// Released reports whether Release has been called.
func (r *Resource[T]) Released() bool {
	return r.released.Load()
}

// Close releases the resource back to the pool, ignoring any errors.
// This method is provided for convenience with defer statements.
// It is equivalent to calling Release with a background context and ignoring the error.
func (r *Resource[T]) Close() {
	_ = r.Release(context.Background())
}
