package waitqueue_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuku/respool/internal/waitqueue"
)

func TestWait(t *testing.T) {
	t.Parallel()

	t.Run("blocks until notification received", func(t *testing.T) {
		q := &waitqueue.Queue{}
		ctx := context.Background()

		errs := make(chan error, 1)

		var wg sync.WaitGroup
		wg.Add(1)

		go func() {
			errs <- waitqueue.Wait(ctx, q,
				waitqueue.WithID("test"),
				waitqueue.WithAfterRegister(func() error {
					wg.Done()
					return nil
				}),
			)
		}()

		wg.Wait() // Ensure the waiter is registered

		select {
		case <-errs:
			t.Fatal("Wait should block until notification is received")
		case <-time.After(20 * time.Millisecond):
		}

		require.True(t, q.NotifyOne(), "NotifyOne should find the waiter")

		select {
		case err := <-errs:
			require.NoError(t, err, "Wait should not return an error")
		case <-time.After(1 * time.Second):
			t.Fatal("Wait did not return after notification was sent")
		}
	})

	t.Run("returns error if queue is nil", func(t *testing.T) {
		err := waitqueue.Wait(context.Background(), nil)
		require.ErrorContains(t, err, "queue cannot be nil")
	})

	t.Run("returns error if afterRegister callback fails", func(t *testing.T) {
		q := &waitqueue.Queue{}

		err := waitqueue.Wait(context.Background(), q,
			waitqueue.WithAfterRegister(func() error {
				return errors.New("callback error")
			}),
		)
		require.ErrorContains(t, err, "callback error")
		assert.Zero(t, q.Len(), "waiter should be unregistered after failure")
	})

	t.Run("returns immediately if afterRegister is satisfied", func(t *testing.T) {
		q := &waitqueue.Queue{}

		err := waitqueue.Wait(context.Background(), q,
			waitqueue.WithAfterRegister(func() error {
				return waitqueue.ErrSatisfied
			}),
		)
		require.NoError(t, err)
		assert.Zero(t, q.Len(), "waiter should be unregistered after returning")
	})

	t.Run("returns error if duplicate ID is used", func(t *testing.T) {
		q := &waitqueue.Queue{}
		ctx, cancel := context.WithCancel(context.Background())
		t.Cleanup(cancel)

		var wg sync.WaitGroup
		wg.Add(1)

		go func() {
			_ = waitqueue.Wait(ctx, q,
				waitqueue.WithID("test"),
				waitqueue.WithAfterRegister(func() error {
					wg.Done()
					return nil
				}),
			)
		}()

		wg.Wait() // Ensure the waiter is registered

		err := waitqueue.Wait(ctx, q, waitqueue.WithID("test"))
		require.ErrorContains(t, err, "duplicate id: test")
	})

	t.Run("waits with context cancellation", func(t *testing.T) {
		q := &waitqueue.Queue{}
		waitCtx, cancel := context.WithCancel(context.Background())

		var wg sync.WaitGroup
		wg.Add(1)
		errs := make(chan error, 1)

		go func() {
			errs <- waitqueue.Wait(waitCtx, q,
				waitqueue.WithID("test"),
				waitqueue.WithAfterRegister(func() error {
					wg.Done()
					return nil
				}),
			)
		}()

		wg.Wait() // Ensure the waiter is registered

		cancel() // Cancel the context before notification is sent

		select {
		case err := <-errs:
			require.ErrorIs(t, err, context.Canceled, "Wait should return context.Canceled error")
			require.False(t, q.Has("test"), "Waiter should be unregistered after context cancellation")
		case <-time.After(1 * time.Second):
			t.Fatal("Wait did not return after context cancellation")
		}
	})

	t.Run("concurrent waiters", func(t *testing.T) {
		q := &waitqueue.Queue{}
		ctx := context.Background()

		n := 10
		var registered, called sync.WaitGroup
		count := int32(0)

		for i := range n {
			registered.Add(1)
			called.Add(1)
			go func() {
				defer called.Done()
				err := waitqueue.Wait(ctx, q,
					waitqueue.WithID(fmt.Sprintf("test-%d", i)),
					waitqueue.WithAfterRegister(func() error {
						registered.Done()
						return nil
					}),
				)
				assert.NoError(t, err, "Wait should not return an error")
				atomic.AddInt32(&count, 1)
			}()
		}

		registered.Wait() // Ensure all waiters are registered

		// Wake them one at a time from several goroutines
		var notifiers sync.WaitGroup
		for range n {
			notifiers.Add(1)
			go func() {
				defer notifiers.Done()
				assert.True(t, q.NotifyOne(), "NotifyOne should find a waiter")
			}()
		}
		notifiers.Wait()

		called.Wait() // Wait for all waiters to return
		require.EqualValues(t, n, atomic.LoadInt32(&count), "All waiters should have been notified")
	})
}
