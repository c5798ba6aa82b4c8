package waitqueue

import (
	"fmt"
	"sync"
)

// Queue holds the goroutines parked until a resource comes back to the pool.
// The zero value is ready to use.
type Queue struct {
	mu sync.Mutex

	waiters map[string]chan struct{}
}

// Register registers a waiter that is woken by a send on notify.
// notify must have a buffer of at least one.
func (q *Queue) Register(id string, notify chan struct{}) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.waiters == nil {
		q.waiters = make(map[string]chan struct{})
	}
	if _, exists := q.waiters[id]; exists {
		return fmt.Errorf("duplicate id: %s", id)
	}
	q.waiters[id] = notify
	return nil
}

// Has checks if a waiter with the given ID is registered.
func (q *Queue) Has(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, exists := q.waiters[id]
	return exists
}

// Len returns the number of registered waiters.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.waiters)
}

// Unregister removes a waiter. It reports whether the waiter was registered.
func (q *Queue) Unregister(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.waiters[id]; !exists {
		return false
	}
	delete(q.waiters, id)
	return true
}

// NotifyOne wakes one registered waiter and removes it from the queue.
// Which waiter is woken is unspecified.
func (q *Queue) NotifyOne() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for id, notify := range q.waiters {
		delete(q.waiters, id)
		signal(notify)
		return true
	}
	return false
}

// NotifyAll wakes every registered waiter and empties the queue.
func (q *Queue) NotifyAll() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := len(q.waiters)
	for id, notify := range q.waiters {
		delete(q.waiters, id)
		signal(notify)
	}
	return n
}

func signal(notify chan struct{}) {
	select {
	case notify <- struct{}{}:
	default:
		// a wake-up is already pending
	}
}
