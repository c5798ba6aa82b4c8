// Package waitqueue parks goroutines until they are notified or their context
// ends.
package waitqueue

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrSatisfied may be returned by the after-register callback to end the wait
// immediately without error.
var ErrSatisfied = errors.New("waitqueue: satisfied")

// Wait blocks until the waiter is notified through q or ctx is done.
func Wait(ctx context.Context, q *Queue, opts ...WaitOption) error {
	if q == nil {
		return errors.New("queue cannot be nil")
	}

	options := &WaitOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if options.id == "" {
		options.id = uuid.NewString()
	}

	notify := make(chan struct{}, 1)
	if err := q.Register(options.id, notify); err != nil {
		return fmt.Errorf("failed to register waiter: %w", err)
	}
	defer q.Unregister(options.id)

	if options.afterRegister != nil {
		if err := options.afterRegister(); err != nil {
			if errors.Is(err, ErrSatisfied) {
				return nil
			}
			return fmt.Errorf("after register callback failed: %w", err)
		}
	}

	select {
	case <-notify:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type WaitOptions struct {
	// id is the unique identifier for the waiter.
	id string

	// afterRegister is a callback that will be called after the waiter is registered.
	afterRegister func() error
}

type WaitOption func(*WaitOptions)

// WithID allows setting a unique identifier for the waiter.
func WithID(id string) WaitOption {
	return func(opts *WaitOptions) {
		opts.id = id
	}
}

// WithAfterRegister allows setting a callback to be called after the waiter is
// registered. Returning ErrSatisfied ends the wait successfully.
func WithAfterRegister(callback func() error) WaitOption {
	return func(opts *WaitOptions) {
		opts.afterRegister = callback
	}
}
