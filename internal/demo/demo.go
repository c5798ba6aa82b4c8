// Package demo runs workers that compete for the resources of a pool.
package demo

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/yuku/respool"
)

var errExhausted = errors.New("pool exhausted")

// Connection is a stand-in for a real connection.
type Connection struct {
	ID int
}

// NewConnection is a respool.Factory for Connection.
func NewConnection(logger zerolog.Logger) respool.Factory[*Connection] {
	return func(_ context.Context, index int) (*Connection, error) {
		logger.Info().Int("connection", index).Msg("creating connection")
		return &Connection{ID: index}, nil
	}
}

type Config struct {
	// Workers is the number of goroutines competing for resources.
	Workers int

	// Hold is how long each worker keeps its resource.
	Hold time.Duration

	// Blocking makes workers wait for a resource instead of giving up when
	// the pool is exhausted.
	Blocking bool

	// AcquireTimeout bounds the wait of blocking workers.
	AcquireTimeout time.Duration
}

// Result counts what happened to the workers.
type Result struct {
	Served   int64
	Rejected int64

	// Failed counts workers whose use or release failed, or whose hold was
	// cut short by ctx.
	Failed int64
}

// Run starts conf.Workers goroutines that each take one resource from pool,
// pass it to use (which may be nil), hold it for conf.Hold and release it.
// It returns once every worker is done.
func Run[T any](
	ctx context.Context,
	pool *respool.Pool[T],
	conf Config,
	logger zerolog.Logger,
	use func(context.Context, *respool.Resource[T]) error,
) Result {
	var served, rejected, failed atomic.Int64

	var wg sync.WaitGroup
	for worker := range conf.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log := logger.With().Int("worker", worker).Logger()

			r, err := acquire(ctx, pool, conf)
			if err != nil {
				log.Warn().Err(err).Msg("no available connection")
				rejected.Add(1)
				return
			}
			defer func() {
				if err := r.Release(ctx); err != nil {
					log.Error().Err(err).Int("connection", r.Index()).Msg("failed to release connection")
					failed.Add(1)
				}
			}()

			log.Info().Int("connection", r.Index()).Msg("connection is connecting")
			if use != nil {
				if err := use(ctx, r); err != nil {
					log.Error().Err(err).Int("connection", r.Index()).Msg("failed to use connection")
					failed.Add(1)
					return
				}
			}

			select {
			case <-time.After(conf.Hold):
				served.Add(1)
			case <-ctx.Done():
				log.Warn().Err(ctx.Err()).Int("connection", r.Index()).Msg("interrupted while holding connection")
				failed.Add(1)
			}
		}()
	}
	wg.Wait()

	return Result{
		Served:   served.Load(),
		Rejected: rejected.Load(),
		Failed:   failed.Load(),
	}
}

func acquire[T any](ctx context.Context, pool *respool.Pool[T], conf Config) (*respool.Resource[T], error) {
	if !conf.Blocking {
		r, ok := pool.TryAcquire()
		if !ok {
			return nil, errExhausted
		}
		return r, nil
	}

	ctx, cancel := context.WithTimeout(ctx, conf.AcquireTimeout)
	defer cancel()
	return pool.Acquire(ctx)
}
