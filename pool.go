package respool

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/fishy/errbatch"
	"github.com/rs/zerolog"
	"github.com/yuku/respool/internal/bitmap"
	"github.com/yuku/respool/internal/waitqueue"
)

// Factory creates the value stored at index when a pool is built.
type Factory[T any] func(ctx context.Context, index int) (T, error)

// Resetter is implemented by values that need cleaning before reuse.
// Reset is called on release, outside the pool's lock.
type Resetter interface {
	Reset(ctx context.Context) error
}

// Closer is implemented by values that hold external resources. Values
// implementing io.Closer are closed as well.
type Closer interface {
	Close(ctx context.Context) error
}

// Pool is a fixed-capacity pool of resources safe for concurrent use.
type Pool[T any] struct {
	name   string
	values []T

	// managed is set when values come from a Factory. Only managed values
	// are reset and closed.
	managed bool

	// mu guards inUse and closed. Nothing but bit flips happens under it.
	mu     sync.Mutex
	inUse  *bitmap.Bitmap
	closed bool

	waiters *waitqueue.Queue

	logger zerolog.Logger
	stats  statsd.ClientInterface
	tags   []string
}

// New creates a pool of capacity resources, building each one with factory.
// Resource i gets index i. A nil factory leaves every value at its zero value,
// in which case the index alone identifies the resource.
//
// A capacity below one is rejected with ErrInvalidCapacity. If the factory
// fails, the resources created so far are closed and the error is returned.
func New[T any](ctx context.Context, capacity int, factory Factory[T], opts ...Option) (*Pool[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: must be at least 1: given %d", ErrInvalidCapacity, capacity)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	p := &Pool[T]{
		name:    o.name,
		values:  make([]T, capacity),
		managed: factory != nil,
		inUse:   bitmap.New(capacity),
		waiters: &waitqueue.Queue{},
		logger:  o.logger.With().Str("pool", o.name).Logger(),
		stats:   o.stats,
		tags:    []string{"pool:" + o.name},
	}

	if factory != nil {
		for i := range capacity {
			v, err := factory(ctx, i)
			if err != nil {
				if closeErr := closeValues(ctx, p.values[:i]); closeErr != nil {
					p.logger.Warn().Err(closeErr).Msg("failed to close resources after factory error")
				}
				return nil, fmt.Errorf("failed to create resource %d: %w", i, err)
			}
			p.values[i] = v
		}
	}

	p.logger.Info().Int("capacity", capacity).Msg("pool created")
	p.gaugeAvailable(capacity)
	return p, nil
}

// Name returns the pool name.
func (p *Pool[T]) Name() string {
	return p.name
}

// Cap returns the number of resources owned by the pool.
func (p *Pool[T]) Cap() int {
	return len(p.values)
}

// Available returns the number of resources not checked out.
func (p *Pool[T]) Available() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inUse.Len() - p.inUse.Count()
}

// InUse returns the number of resources checked out.
func (p *Pool[T]) InUse() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inUse.Count()
}

// Stat is a consistent snapshot of a pool's occupancy.
type Stat struct {
	Cap       int
	Available int
	InUse     int
}

// Stat returns the pool occupancy read under a single lock, so Available plus
// InUse always equals Cap.
func (p *Pool[T]) Stat() Stat {
	p.mu.Lock()
	defer p.mu.Unlock()
	inUse := p.inUse.Count()
	return Stat{
		Cap:       p.inUse.Len(),
		Available: p.inUse.Len() - inUse,
		InUse:     inUse,
	}
}

// Closed returns if the pool is closed.
func (p *Pool[T]) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// TryAcquire takes a resource from the pool without blocking. It returns false
// if every resource is checked out or the pool is closed.
func (p *Pool[T]) TryAcquire() (*Resource[T], bool) {
	r, available, closed := p.tryAcquire()
	if closed {
		p.logger.Debug().Msg("pool is closed")
		p.count(MetricAcquire, tagResultClosed)
		return nil, false
	}
	if r == nil {
		p.logger.Debug().Msg("no resource available")
		p.count(MetricAcquire, tagResultExhausted)
		return nil, false
	}
	p.acquired(r, available)
	return r, true
}

// Acquire takes a resource from the pool, waiting for one to be released if
// none is available. It returns ctx.Err() if ctx ends first and ErrPoolClosed
// if the pool is or becomes closed.
func (p *Pool[T]) Acquire(ctx context.Context) (*Resource[T], error) {
	start := time.Now()

	for {
		if p.Closed() {
			p.count(MetricAcquire, tagResultClosed)
			return nil, ErrPoolClosed
		}
		if r, available, _ := p.tryAcquire(); r != nil {
			p.acquired(r, available)
			p.timingSince(MetricAcquireWait, start)
			return r, nil
		}

		var r *Resource[T]
		var available int
		err := waitqueue.Wait(ctx, p.waiters, waitqueue.WithAfterRegister(func() error {
			// A release may have happened before we registered.
			if p.Closed() {
				return ErrPoolClosed
			}
			if r, available, _ = p.tryAcquire(); r != nil {
				return waitqueue.ErrSatisfied
			}
			return nil
		}))
		if r != nil {
			p.acquired(r, available)
			p.timingSince(MetricAcquireWait, start)
			return r, nil
		}
		if err != nil {
			if errors.Is(err, ErrPoolClosed) {
				p.count(MetricAcquire, tagResultClosed)
				return nil, ErrPoolClosed
			}
			// We may have been woken just as ctx ended. Pass the wake-up on.
			if p.Available() > 0 {
				p.waiters.NotifyOne()
			}
			p.count(MetricAcquire, tagResultCanceled)
			return nil, err
		}
	}
}

// tryAcquire marks the lowest free index as checked out. It returns nil if
// there is none or the pool is closed.
func (p *Pool[T]) tryAcquire() (*Resource[T], int, bool) {
	p.mu.Lock()
	index := -1
	closed := p.closed
	if !closed {
		index = p.inUse.FirstClear()
		if index >= 0 {
			p.inUse.Set(index)
		}
	}
	available := p.inUse.Len() - p.inUse.Count()
	p.mu.Unlock()

	if index < 0 {
		return nil, available, closed
	}
	return &Resource[T]{
		pool:  p,
		index: index,
		value: p.values[index],
	}, available, closed
}

func (p *Pool[T]) acquired(r *Resource[T], available int) {
	p.logger.Debug().Int("index", r.index).Int("available", available).Msg("resource acquired")
	p.count(MetricAcquire, tagResultAcquired)
	p.gaugeAvailable(available)
}

// release puts r back into the pool and wakes one waiter.
func (p *Pool[T]) release(ctx context.Context, r *Resource[T]) error {
	var resetErr error
	if p.managed && !p.Closed() {
		if resetter, ok := any(r.value).(Resetter); ok {
			if err := resetter.Reset(ctx); err != nil {
				p.logger.Warn().Err(err).Int("index", r.index).Msg("failed to reset resource")
				resetErr = fmt.Errorf("failed to reset resource %d: %w", r.index, err)
			}
		}
	}

	p.mu.Lock()
	p.inUse.Clear(r.index)
	closed := p.closed
	available := p.inUse.Len() - p.inUse.Count()
	p.mu.Unlock()

	p.logger.Debug().Int("index", r.index).Int("available", available).Msg("resource released")
	p.count(MetricRelease)
	p.gaugeAvailable(available)

	if closed {
		// The pool was closed while r was checked out.
		if !p.managed {
			return nil
		}
		if err := closeValue(ctx, r.value); err != nil {
			return fmt.Errorf("failed to close resource %d: %w", r.index, err)
		}
		return nil
	}

	p.waiters.NotifyOne()
	return resetErr
}

// Close closes the pool. Blocked Acquire calls return ErrPoolClosed. Available
// resources are closed now, checked-out resources when they are released.
// Calling Close more than once is a no-op.
func (p *Pool[T]) Close(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	idle := make([]T, 0, len(p.values))
	for i, v := range p.values {
		if !p.inUse.IsSet(i) {
			idle = append(idle, v)
		}
	}
	inUse := p.inUse.Count()
	p.mu.Unlock()

	woken := p.waiters.NotifyAll()
	p.logger.Info().Int("in_use", inUse).Int("waiters", woken).Msg("pool closed")

	if !p.managed {
		return nil
	}
	if err := closeValues(ctx, idle); err != nil {
		p.logger.Warn().Err(err).Msg("failed to close resources")
		return fmt.Errorf("failed to close pool %s: %w", p.name, err)
	}
	return nil
}

func closeValues[T any](ctx context.Context, values []T) error {
	var batch errbatch.ErrBatch
	for _, v := range values {
		batch.Add(closeValue(ctx, v))
	}
	return batch.Compile()
}

func closeValue(ctx context.Context, v any) error {
	switch c := v.(type) {
	case Closer:
		return c.Close(ctx)
	case io.Closer:
		return c.Close()
	}
	return nil
}
